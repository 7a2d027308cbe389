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
	"context"
	"sync"
)

// MemoryProvider stands in for an editor's open-buffer state: documents
// are set directly rather than read from disk. Used by tests and by
// anything driving partial evaluation against unsaved edits.
type MemoryProvider struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryProvider returns an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{docs: map[string]Document{}}
}

// Set stores content for uri, computing its hash.
func (m *MemoryProvider) Set(uri string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[uri] = Document{URI: uri, Content: content, Hash: HashContent(content)}
}

// Remove deletes uri's content, as if the buffer were closed.
func (m *MemoryProvider) Remove(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, uri)
}

// Get implements Provider.
func (m *MemoryProvider) Get(ctx context.Context, uri string) (Document, error) {
	select {
	case <-ctx.Done():
		return Document{}, ctx.Err()
	default:
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[uri]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}
