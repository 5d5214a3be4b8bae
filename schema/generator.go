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

package schema

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	timeType          = reflect.TypeFor[time.Time]()
	uuidType          = reflect.TypeFor[uuid.UUID]()
	rawMessageType    = reflect.TypeFor[json.RawMessage]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Generator builds schemas from Go types using reflection.
//
// It records named struct types as definitions and tracks the types
// currently being expanded so recursive types become references instead
// of infinite schemas. A Generator is not safe for concurrent use; create
// one per document.
type Generator struct {
	defs map[string]*Schema
	seen map[reflect.Type]bool
	refs map[string]int
}

// NewGenerator creates a new schema generator.
func NewGenerator() *Generator {
	return &Generator{
		defs: make(map[string]*Schema),
		seen: make(map[reflect.Type]bool),
		refs: make(map[string]int),
	}
}

// For returns the self-contained schema of T.
func For[T any]() *Schema {
	return NewGenerator().Root(reflect.TypeFor[T]())
}

// Root generates the schema of t as a self-contained document. When t is a
// named struct its definition is inlined at the top level, and it is only
// kept under $defs if it refers to itself.
func (g *Generator) Root(t reflect.Type) *Schema {
	s := g.Generate(t)

	if name, ok := strings.CutPrefix(s.Ref, DefsPrefix); ok {
		body := *g.defs[name]
		s = &body
		if g.refs[name] <= 1 {
			delete(g.defs, name)
		}
	}

	if len(g.defs) > 0 {
		s.Defs = g.defs
	}

	return s
}

// Definitions returns the named schemas collected so far.
func (g *Generator) Definitions() map[string]*Schema {
	return g.defs
}

// Generate generates a schema for t. Named structs yield a reference into
// [Generator.Definitions].
func (g *Generator) Generate(t reflect.Type) *Schema {
	if t == nil {
		return &Schema{}
	}

	switch t {
	case timeType:
		return &Schema{Type: "string", Format: "date-time"}
	case uuidType:
		return &Schema{Type: "string", Format: "uuid"}
	case rawMessageType:
		return &Schema{}
	}

	if t.Kind() == reflect.Pointer {
		return g.Generate(t.Elem())
	}

	if t.Kind() != reflect.String && t.Implements(textMarshalerType) {
		return &Schema{Type: "string"}
	}

	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return &Schema{Type: "string", ContentEncoding: "base64"}
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return &Schema{Type: "integer", Format: "int32"}
	case reflect.Int64:
		return &Schema{Type: "integer", Format: "int64"}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return &Schema{Type: "integer", Format: "uint32", Minimum: ptr(0.0)}
	case reflect.Uint64:
		return &Schema{Type: "integer", Format: "uint64", Minimum: ptr(0.0)}
	case reflect.Float32:
		return &Schema{Type: "number", Format: "float"}
	case reflect.Float64:
		return &Schema{Type: "number", Format: "double"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: g.Generate(t.Elem())}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return &Schema{Type: "object"}
		}

		return &Schema{Type: "object", AdditionalProperties: g.Generate(t.Elem())}
	case reflect.Struct:
		return g.structSchema(t)
	default:
		return &Schema{}
	}
}

func (g *Generator) ref(name string) *Schema {
	g.refs[name]++
	return &Schema{Ref: DefsPrefix + name}
}

// structSchema generates the schema for a struct type.
func (g *Generator) structSchema(t reflect.Type) *Schema {
	name := Name(t)
	if name != "" {
		if _, ok := g.defs[name]; ok || g.seen[t] {
			return g.ref(name)
		}
	}

	g.seen[t] = true
	defer delete(g.seen, t)

	s := &Schema{Type: "object", Properties: map[string]*Schema{}}
	if name != "" {
		s.Title = t.Name()
	}

	var required []string

	walkFields(t, func(f reflect.StructField) {
		if !f.IsExported() {
			return
		}

		jsonTag := f.Tag.Get("json")
		if jsonTag == "-" {
			return
		}

		fieldName := parseJSONName(jsonTag, f.Name)

		fs := g.Generate(f.Type)
		if fs.Ref == "" {
			if doc := f.Tag.Get("doc"); doc != "" {
				fs.Description = doc
			}
			if ex := f.Tag.Get("example"); ex != "" {
				fs.Examples = []any{ex}
			}
			applyValidationConstraints(fs, f)
		}

		s.Properties[fieldName] = fs

		if isFieldRequired(f) && !strings.Contains(jsonTag, "omitempty") {
			required = append(required, fieldName)
		}
	})

	if len(required) > 0 {
		s.Required = required
	}

	if name != "" {
		g.defs[name] = s
		return g.ref(name)
	}

	return s
}

// applyValidationConstraints maps go-playground/validator tags onto the schema.
func applyValidationConstraints(s *Schema, f reflect.StructField) {
	v := f.Tag.Get("validate")
	if v == "" {
		return
	}

	isString := s.Type == "string"

	for part := range strings.SplitSeq(v, ",") {
		key, arg, _ := strings.Cut(strings.TrimSpace(part), "=")

		switch key {
		case "email":
			s.Format = "email"
		case "url", "uri":
			s.Format = "uri"
		case "uuid", "uuid4":
			s.Format = "uuid"
		case "alphanum":
			s.Pattern = "^[a-zA-Z0-9]+$"
		case "min", "gte":
			setLowerBound(s, arg, isString, false)
		case "max", "lte":
			setUpperBound(s, arg, isString, false)
		case "gt":
			setLowerBound(s, arg, isString, true)
		case "lt":
			setUpperBound(s, arg, isString, true)
		case "len":
			if n, err := strconv.Atoi(arg); err == nil && isString {
				s.MinLength, s.MaxLength = ptr(n), ptr(n)
			}
		case "oneof":
			vals := strings.Fields(arg)
			s.Enum = make([]any, 0, len(vals))
			for _, val := range vals {
				s.Enum = append(s.Enum, val)
			}
		}
	}
}

func setLowerBound(s *Schema, arg string, isString, exclusive bool) {
	x, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return
	}

	switch {
	case isString:
		n := int(x)
		if exclusive {
			n++
		}
		s.MinLength = &n
	case exclusive:
		s.ExclusiveMinimum = &x
	default:
		s.Minimum = &x
	}
}

func setUpperBound(s *Schema, arg string, isString, exclusive bool) {
	x, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return
	}

	switch {
	case isString:
		n := int(x)
		if exclusive {
			n--
		}
		s.MaxLength = &n
	case exclusive:
		s.ExclusiveMaximum = &x
	default:
		s.Maximum = &x
	}
}

func ptr[T any](v T) *T {
	return &v
}
