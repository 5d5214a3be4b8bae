// Copyright 2025 The Rivaas Authors
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

// Package schema generates JSON Schema (draft 2020-12) documents from Go
// types and compiles them for instance validation.
//
// Schemas are self-contained: named struct types are placed under "$defs"
// and referenced as "#/$defs/<name>", so a document produced by [For] can be
// embedded anywhere without a surrounding components section.
//
// Generation is lazy. A [Gen] carries two producers that are only invoked
// when documentation is assembled:
//
//	gen := schema.GenFor[CreateUserRequest]()
//	name := gen.Name()     // "api.CreateUserRequest"
//	doc := gen.Schema()    // {"type":"object","properties":{...}}
//
// Types that cannot be described (channels, functions, complex numbers) are
// rejected by [Check].
package schema

// Schema is a JSON Schema document or subschema.
type Schema struct {
	Ref                  string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Title                string             `json:"title,omitempty" yaml:"title,omitempty"`
	Description          string             `json:"description,omitempty" yaml:"description,omitempty"`
	Type                 string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format               string             `json:"format,omitempty" yaml:"format,omitempty"`
	ContentEncoding      string             `json:"contentEncoding,omitempty" yaml:"contentEncoding,omitempty"`
	Pattern              string             `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinLength            *int               `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength            *int               `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMinimum     *float64           `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum     *float64           `json:"exclusiveMaximum,omitempty" yaml:"exclusiveMaximum,omitempty"`
	Enum                 []any              `json:"enum,omitempty" yaml:"enum,omitempty"`
	Items                *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string           `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	Examples             []any              `json:"examples,omitempty" yaml:"examples,omitempty"`
	Defs                 map[string]*Schema `json:"$defs,omitempty" yaml:"$defs,omitempty"`
}

// DefsPrefix is the reference prefix for definitions in a self-contained document.
const DefsPrefix = "#/$defs/"

// Binary is the schema of an opaque byte body.
func Binary() *Schema {
	return &Schema{Type: "string", Format: "binary"}
}

// Walk calls fn for s and every subschema reachable from it, depth first.
// Definitions under $defs are visited too.
func (s *Schema) Walk(fn func(*Schema)) {
	if s == nil {
		return
	}

	fn(s)
	s.Items.Walk(fn)
	s.AdditionalProperties.Walk(fn)
	for _, p := range s.Properties {
		p.Walk(fn)
	}
	for _, d := range s.Defs {
		d.Walk(fn)
	}
}
