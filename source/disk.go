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
	"net/url"
	"os"
	"strings"
)

// DiskProvider reads document content from the local filesystem, treating
// a document's URI as a `file://` URI (or, for convenience, a bare path).
type DiskProvider struct{}

// NewDiskProvider returns a DiskProvider.
func NewDiskProvider() *DiskProvider { return &DiskProvider{} }

// Get implements Provider.
func (d *DiskProvider) Get(ctx context.Context, uri string) (Document, error) {
	select {
	case <-ctx.Done():
		return Document{}, ctx.Err()
	default:
	}
	path := uriToPath(uri)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return Document{URI: uri, Content: content, Hash: HashContent(content)}, nil
}

func uriToPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "file://")
	}
	return u.Path
}
