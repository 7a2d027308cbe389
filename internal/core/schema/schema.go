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

// Package schema loads the builtin-function property schema (spec §6): a
// static table, shipped as data rather than code, mapping each generic
// function's name to its documentation URL and ordered property list. The
// evaluator consults it to validate generic-function bodies (spec §4.4);
// external completion/hover adapters consult the same table for
// presentation.
package schema

import (
	_ "embed"
	"fmt"

	"github.com/harrisont/fastbuild-ls-go/internal/core/value"
	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var schemaYAML []byte

// Property describes one recognized property of a generic function.
type Property struct {
	Name            string
	Required        bool
	PermittedKinds  []value.Kind
	TargetReference bool
	Documentation   string
}

// Function describes one generic function's schema: its documentation
// link and its ordered property list (order matters — it is the order
// completion should offer properties in, spec §8 scenario 4).
type Function struct {
	DocumentationURL   string
	RequiresTargetName bool
	Properties         []*Property
	byName             map[string]*Property
}

// Property looks up a property by name, or returns nil if unrecognized.
func (f *Function) Property(name string) *Property {
	return f.byName[name]
}

// Table is the full schema: generic function name -> Function.
type Table struct {
	Functions map[string]*Function
}

// Get returns the Function schema for name, or nil if name is not a
// known generic function.
func (t *Table) Get(name string) *Function {
	return t.Functions[name]
}

// rawDoc mirrors schema.yaml's shape for decoding.
type rawDoc struct {
	Functions map[string]rawFunction `yaml:"functions"`
}

type rawFunction struct {
	DocumentationURL   string        `yaml:"documentationUrl"`
	RequiresTargetName bool          `yaml:"requiresTargetName"`
	Properties         []rawProperty `yaml:"properties"`
}

type rawProperty struct {
	Name            string   `yaml:"name"`
	Required        bool     `yaml:"required"`
	Kind            []string `yaml:"kind"`
	TargetReference bool     `yaml:"targetReference"`
	Documentation   string   `yaml:"documentation"`
}

var kindByName = map[string]value.Kind{
	"Boolean":        value.Boolean,
	"Integer":        value.Integer,
	"String":         value.String,
	"Struct":         value.Struct,
	"ArrayOfStrings": value.ArrayOfStrings,
	"ArrayOfStructs": value.ArrayOfStructs,
}

// Load parses the embedded schema.yaml into a Table.
func Load() (*Table, error) {
	var raw rawDoc
	if err := yaml.Unmarshal(schemaYAML, &raw); err != nil {
		return nil, fmt.Errorf("schema: parse embedded schema.yaml: %w", err)
	}
	t := &Table{Functions: map[string]*Function{}}
	for name, rf := range raw.Functions {
		fn := &Function{
			DocumentationURL:   rf.DocumentationURL,
			RequiresTargetName: rf.RequiresTargetName,
			byName:             map[string]*Property{},
		}
		for _, rp := range rf.Properties {
			kinds := make([]value.Kind, 0, len(rp.Kind))
			for _, k := range rp.Kind {
				vk, ok := kindByName[k]
				if !ok {
					return nil, fmt.Errorf("schema: function %s property %s: unknown kind %q", name, rp.Name, k)
				}
				kinds = append(kinds, vk)
			}
			p := &Property{
				Name:            rp.Name,
				Required:        rp.Required,
				PermittedKinds:  kinds,
				TargetReference: rp.TargetReference,
				Documentation:   rp.Documentation,
			}
			fn.Properties = append(fn.Properties, p)
			fn.byName[p.Name] = p
		}
		t.Functions[name] = fn
	}
	return t, nil
}

// MustLoad is Load, panicking on error — used at process start where the
// embedded schema failing to parse indicates a build-time defect, not a
// runtime condition callers can recover from.
func MustLoad() *Table {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}
