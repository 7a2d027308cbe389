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

// Package token defines source positions and the half-open ranges built
// from them. Positions are zero-based throughout (line, column, and byte
// offset) to match the LSP wire convention consumed by editor clients.
package token

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"
)

// Point is a zero-based (line, column) pair within a single file. Column
// counts runes, not bytes.
type Point struct {
	Line   int
	Column int
}

// Before reports whether p sorts strictly before q.
func (p Point) Before(q Point) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a half-open span [Start, End) within one source file.
type Range struct {
	Start Point
	End   Point
}

// Contains reports whether p falls within r, treating r as half-open:
// p == r.End is outside, p == r.Start is inside.
func (r Range) Contains(p Point) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// PositionInRange reports whether pos lies within r (half-open on End).
// It is the one helper spec'd as consumed directly by feature adapters
// (completion, hover) outside the core pipeline.
func PositionInRange(pos Point, r Range) bool {
	return r.Contains(pos)
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// UriRange is a Range qualified with the URI of the file it lives in, used
// whenever a reference may point across file boundaries (includes,
// go-to-definition targets).
type UriRange struct {
	URI   string
	Range Range
}

func (u UriRange) String() string {
	return fmt.Sprintf("%s:%s", u.URI, u.Range)
}

// Compare orders UriRanges by URI then by start position, giving the
// stable range-sort used for diagnostics (spec §8, No-mutation property).
func (u UriRange) Compare(o UriRange) int {
	if u.URI != o.URI {
		if u.URI < o.URI {
			return -1
		}
		return 1
	}
	switch {
	case u.Range.Start.Before(o.Range.Start):
		return -1
	case o.Range.Start.Before(u.Range.Start):
		return 1
	default:
		return 0
	}
}

// SortUriRanges sorts ranges in place by (URI, start position).
func SortUriRanges(ranges []UriRange) {
	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Compare(ranges[j]) < 0
	})
}

// Offset is a byte offset into a File's source, used as the compact
// representation a scanner/parser actually tracks while it runs; it is
// resolved to a Point lazily via File.Point.
type Offset int

// Pos is a compact, comparable handle to a source position: a File plus a
// byte offset into it, resolved to a Point on demand via Point. Parse-tree
// nodes do not hold Pos values; they carry Ranges of already-resolved
// Points. Pos is used where an offset must be carried together with its
// File, such as strtmpl.RangeAt.
type Pos struct {
	file   *File
	offset Offset
}

// NoPos is the zero value of Pos, representing the absence of a position.
var NoPos = Pos{}

// IsValid reports whether p was produced by a real File.
func (p Pos) IsValid() bool { return p.file != nil }

// File returns the file p belongs to, or nil for NoPos.
func (p Pos) File() *File { return p.file }

// Offset returns the zero-based byte offset of p within its file.
func (p Pos) Offset() Offset { return p.offset }

// Point resolves p to a zero-based (line, column) pair.
func (p Pos) Point() Point {
	if p.file == nil {
		return Point{}
	}
	return p.file.Point(p.offset)
}

// Compare orders two positions; positions from different files compare by
// URI first.
func (p Pos) Compare(q Pos) int {
	if p.file != q.file {
		pu, qu := "", ""
		if p.file != nil {
			pu = p.file.URI()
		}
		if q.file != nil {
			qu = q.file.URI()
		}
		if pu < qu {
			return -1
		} else if pu > qu {
			return 1
		}
	}
	switch {
	case p.offset < q.offset:
		return -1
	case p.offset > q.offset:
		return 1
	default:
		return 0
	}
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%s:%s", p.file.URI(), p.Point())
}

// File represents one source file: its URI and the offsets at which each
// line begins, built up incrementally as a scanner walks the source (the
// same incremental-line-table approach as cue/token.File.AddLine).
type File struct {
	mu    sync.Mutex
	uri   string
	size  int
	src   []byte
	lines []Offset // lines[i] = byte offset at which line i (0-based) starts
}

// NewFile creates a File for the given URI and source content. Line 0
// always starts at offset 0. src is retained (not copied) so that Point
// can count runes from the start of a line to a target offset; callers
// must not mutate it afterward.
func NewFile(uri string, src []byte) *File {
	return &File{uri: uri, size: len(src), src: src, lines: []Offset{0}}
}

// URI returns the file's URI.
func (f *File) URI() string { return f.uri }

// Size returns the source size in bytes, as given to NewFile.
func (f *File) Size() int { return f.size }

// AddLine records that a new line begins at offset. Offsets must be added
// in increasing order; out-of-order or duplicate calls are ignored.
func (f *File) AddLine(offset Offset) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := len(f.lines); n == 0 || f.lines[n-1] < offset {
		f.lines = append(f.lines, offset)
	}
}

// Pos returns the Pos for a given byte offset in this file.
func (f *File) Pos(offset Offset) Pos {
	return Pos{file: f, offset: offset}
}

// Point resolves a byte offset to a zero-based (line, column) pair. Column
// is a rune count from the start of the line, found by re-decoding the
// line's bytes up to offset; per-line length is not cached, so Point is
// O(log lines) plus a linear rescan of the target line. The parser calls
// it for the start and end of every range it builds.
func (f *File) Point(offset Offset) Point {
	f.mu.Lock()
	lines := f.lines
	src := f.src
	f.mu.Unlock()

	i := searchLines(lines, offset)
	lineStart := int(lines[i])
	end := int(offset)
	if end > len(src) {
		end = len(src)
	}
	col := 0
	for pos := lineStart; pos < end; {
		_, size := utf8.DecodeRune(src[pos:])
		pos += size
		col++
	}
	return Point{Line: i, Column: col}
}

func searchLines(lines []Offset, offset Offset) int {
	// lines is sorted ascending; find the last line whose start <= offset.
	lo, hi := 0, len(lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
