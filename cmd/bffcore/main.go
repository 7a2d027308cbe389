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

// Command bffcore is a debug entry point into the evaluator core: it
// evaluates one root BFF file on disk, following its #includes, and
// prints the resulting diagnostics and semantic model. It exists for
// developers exercising the core pipeline directly, outside any editor
// integration.
package main

import (
	"fmt"
	"os"

	"github.com/harrisont/fastbuild-ls-go/cmd/bffcore/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
