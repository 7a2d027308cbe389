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

package source

import (
	"sync"

	"github.com/google/uuid"
	"github.com/harrisont/fastbuild-ls-go/ast"
	"github.com/harrisont/fastbuild-ls-go/errors"
	"github.com/harrisont/fastbuild-ls-go/parser"
	"github.com/harrisont/fastbuild-ls-go/token"
)

// Entry is one cached parse, keyed by (URI, content hash). It is
// immutable once constructed: "value once observed is immutable" (spec
// §5). Epoch is a fresh uuid.UUID stamped at insertion time so a caller
// can cheaply tell whether two Entry values it holds came from the same
// cache generation without comparing full content hashes — useful for a
// completion/hover adapter deciding whether a previously computed
// EvaluatedData is still current.
type Entry struct {
	File      *ast.File
	Errs      errors.List
	TokenFile *token.File
	Epoch     uuid.UUID
}

type cacheKey struct {
	uri  string
	hash string
}

// Cache is the read-mostly parse cache spec §5 requires: reads never
// block each other, and a write never mutates an Entry a caller may
// already be holding — it only ever inserts a brand-new Entry under a
// (possibly reused) key, so existing observers are unaffected.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*Entry
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: map[cacheKey]*Entry{}}
}

// Get returns the cached Entry for (uri, hash), if present.
func (c *Cache) Get(uri, hash string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[cacheKey{uri, hash}]
	return e, ok
}

// Parse returns the cached parse of doc if one exists for its
// (URI, Hash), otherwise parses doc.Content, stores the result, and
// returns it. Concurrent calls for the same key may each parse once
// before the first writer wins the race; that duplicated work is
// harmless since Entry is pure data and the map write is the only
// shared mutation.
func (c *Cache) Parse(doc Document) *Entry {
	if e, ok := c.Get(doc.URI, doc.Hash); ok {
		return e
	}
	tf := token.NewFile(doc.URI, doc.Content)
	result := parser.Parse(doc.URI, doc.Content, tf)
	entry := &Entry{File: result.File, Errs: result.Errs, TokenFile: tf, Epoch: uuid.New()}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[cacheKey{doc.URI, doc.Hash}]; ok {
		return existing
	}
	c.entries[cacheKey{doc.URI, doc.Hash}] = entry
	return entry
}

// Invalidate drops every cached entry for uri (all content hashes),
// called when a caller knows uri's identity is being retired (e.g. the
// editor closed the document) rather than merely edited — an edit simply
// stops matching any cached hash and is handled by Parse computing a new
// Entry, so Invalidate is not required for correctness, only for bounding
// memory.
func (c *Cache) Invalidate(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.uri == uri {
			delete(c.entries, k)
		}
	}
}
