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

// Package strtmpl splits a quoted BFF string literal into the segment
// model spec.md §9's design notes call for: a sequence of Literal(text)
// and Interp(identifier) pieces. Only double-quoted strings recognize
// `$name$`/`^name^` substitution markers; single-quoted strings are
// always a single Literal segment (after `\`-unescaping).
package strtmpl

import "github.com/harrisont/fastbuild-ls-go/token"

// Segment is one piece of a decoded string literal.
type Segment struct {
	// Literal holds the decoded text for a literal run; empty for a
	// substitution segment.
	Literal string
	// Ident holds the variable name for a substitution segment; empty
	// for a literal run.
	Ident string
	// Parent is true for `^name^` (parent-scope substitution), false
	// for `$name$`.
	Parent bool
	// Start/End are byte offsets into the original raw token text
	// (including the surrounding quotes) spanned by this segment; for a
	// substitution segment this includes the delimiter pair.
	Start, End int
}

// Parse decodes raw, the verbatim text of a STRING token (including its
// surrounding quote characters), into segments. Offsets in the returned
// segments are relative to the start of raw.
func Parse(raw string) []Segment {
	if len(raw) < 2 {
		return []Segment{{Literal: raw, Start: 0, End: len(raw)}}
	}
	quote := raw[0]
	body := raw[1 : len(raw)-1]
	bodyOffset := 1

	var segs []Segment
	var lit []byte
	litStart := bodyOffset

	flush := func(end int) {
		if len(lit) > 0 {
			segs = append(segs, Segment{Literal: string(lit), Start: litStart, End: end})
			lit = lit[:0]
		}
	}

	i := 0
	for i < len(body) {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			lit = append(lit, unescape(body[i+1]))
			i += 2
			continue
		}
		if quote == '"' && (c == '$' || c == '^') {
			marker := c
			j := i + 1
			for j < len(body) && body[j] != marker {
				j++
			}
			if j < len(body) {
				flush(bodyOffset + i)
				name := body[i+1 : j]
				segs = append(segs, Segment{
					Ident:  name,
					Parent: marker == '^',
					Start:  bodyOffset + i,
					End:    bodyOffset + j + 1,
				})
				i = j + 1
				litStart = bodyOffset + i
				continue
			}
			// unterminated marker: treat '$'/'^' as a literal char.
		}
		lit = append(lit, c)
		i++
	}
	flush(bodyOffset + len(body))

	if len(segs) == 0 {
		segs = append(segs, Segment{Literal: "", Start: bodyOffset, End: bodyOffset + len(body)})
	}
	return segs
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

// HasSubstitutions reports whether any decoded segment is a substitution
// marker rather than literal text.
func HasSubstitutions(segs []Segment) bool {
	for _, s := range segs {
		if s.Ident != "" {
			return true
		}
	}
	return false
}

// RangeAt resolves a byte-offset span within the original raw token text
// to a token.Range, given the Pos at which the raw token starts.
func RangeAt(start token.Pos, from, to int) token.Range {
	base := int(start.Offset())
	f := start.File()
	return token.Range{
		Start: f.Point(token.Offset(base + from)),
		End:   f.Point(token.Offset(base + to)),
	}
}
