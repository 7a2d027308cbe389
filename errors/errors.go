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

// Package errors defines the diagnostic types shared by the scanner,
// parser, and evaluator. The pivotal type is Error; a List accumulates
// them in emission order and can be stably sorted by position for
// deterministic presentation.
package errors

import (
	"fmt"
	"sort"

	"github.com/harrisont/fastbuild-ls-go/token"
)

// Severity classifies a diagnostic. Parser and lexical errors are always
// Error; evaluator diagnostics default per-kind (see Kind).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Kind distinguishes diagnostic origins for callers that want to filter or
// count by category (spec §7).
type Kind int

const (
	KindLexical Kind = iota
	KindSyntactic
	KindSemanticName
	KindSemanticKind
	KindSemanticStructural
	KindIO
	KindCanceled
)

// Error is a single diagnostic with a source position, severity, kind, and
// human-readable message.
type Error struct {
	Pos      token.UriRange
	Severity Severity
	Kind     Kind
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Severity, e.Message)
}

// Newf creates an Error at the given position and kind with its default
// severity (SeverityError, except for KindCanceled which is SeverityInfo).
func Newf(pos token.UriRange, kind Kind, format string, args ...interface{}) *Error {
	sev := SeverityError
	if kind == KindCanceled {
		sev = SeverityInfo
	}
	return &Error{Pos: pos, Severity: sev, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewfSev creates an Error with an explicit severity, used by the
// evaluator for kinds whose default severity is configurable (undefined
// variable, include cycle — spec §8 scenario 6 permits either).
func NewfSev(pos token.UriRange, kind Kind, sev Severity, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Severity: sev, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// List is an ordered collection of diagnostics. Append preserves emission
// order; Sort produces the stable, range-sorted order used for
// presentation and for the No-mutation testable property (spec §8).
type List []*Error

// Add appends err to the list.
func (l *List) Add(err *Error) {
	*l = append(*l, err)
}

// Sort stably orders the list by (URI, start position), preserving
// relative order of diagnostics that share a position.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Pos.Compare(l[j].Pos) < 0
	})
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
	}
}
