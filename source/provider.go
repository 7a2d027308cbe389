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

// Package source provides the abstract mapping from a document URI to its
// current text (spec §2 item 1, §6), plus the read-mostly parse cache
// keyed by (URI, content-hash) that spec §5/§9 requires. Real
// implementations back the provider with disk I/O (DiskProvider) or an
// editor's in-memory buffers (MemoryProvider); both satisfy Provider.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrNotFound is returned by Provider.Get when uri has no known content.
var ErrNotFound = errors.New("source: document not found")

// Document is a URI's content plus its content hash, the unit the parse
// cache is keyed on.
type Document struct {
	URI     string
	Content []byte
	Hash    string
}

// HashContent returns the content hash Provider implementations should
// use: a hex-encoded SHA-256 digest. Deterministic within one evaluation,
// as Provider.Get is required to be (spec §6).
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Provider maps a document URI to its current content. Fetching a
// document is the only operation in the core pipeline permitted to
// block/await (spec §5).
type Provider interface {
	Get(ctx context.Context, uri string) (Document, error)
}
