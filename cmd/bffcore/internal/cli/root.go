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

// Package cli wires the bffcore subcommands onto a cobra root command, in
// the shape cmd/cue/cmd uses for the reference CUE tool.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the bffcore command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bffcore",
		Short:         "Evaluate BFF files using the core language-server pipeline",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newEvalCommand())
	return root
}
