// Copyright 2026 The BFF Language Server Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrisont/fastbuild-ls-go/internal/core/eval"
	"github.com/harrisont/fastbuild-ls-go/source"
	"github.com/harrisont/fastbuild-ls-go/token"
)

func newEvalCommand() *cobra.Command {
	var stopLine, stopCol int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "eval <file>",
		Short: "Evaluate a root BFF file and print its semantic model as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: levelFor(verbose),
			}))

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			rootURI := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
			logger.Debug("evaluating", "uri", rootURI)

			provider := source.NewDiskProvider()
			cache := source.NewCache()

			opts := eval.Options{}
			if stopLine > 0 || stopCol > 0 {
				opts.StopAt = &eval.StopAt{
					URI: rootURI,
					Pos: token.Point{Line: stopLine, Column: stopCol},
				}
			}

			data := eval.Evaluate(context.Background(), rootURI, provider, cache, opts)
			data.Diagnostics.Sort()
			logger.Debug("evaluation complete",
				"diagnostics", len(data.Diagnostics),
				"variableDefinitions", len(data.VariableDefinitions),
				"variableReferences", len(data.VariableReferences),
			)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		},
	}

	cmd.Flags().IntVar(&stopLine, "stop-at-line", 0, "stop evaluation at or after this zero-based line (column from --stop-at-col, default 0)")
	cmd.Flags().IntVar(&stopCol, "stop-at-col", 0, "stop evaluation at or after this zero-based column")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log evaluator progress to stderr")
	return cmd
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
