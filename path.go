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

package extract

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"rivaas.dev/extract/binding"
	"rivaas.dev/extract/contenttype"
	"rivaas.dev/extract/schema"
	"rivaas.dev/extract/telemetry"
	"rivaas.dev/extract/telemetry/semconv"
)

// ExtractPathParams binds the captured path variables into the
// `path`-tagged fields of T.
//
// A value that cannot be converted yields [*PathParamError]. A variable that
// T requires but vars lacks panics with [*InvariantError]: route
// registration guarantees every tagged field has a matching variable.
//
// Example:
//
//	type UserPath struct {
//	    Org string    `path:"org"`
//	    ID  uuid.UUID `path:"id"`
//	}
//	p, err := extract.ExtractPathParams[UserPath](vars)
func ExtractPathParams[T any](vars VariableSet, opts ...binding.Option) (T, error) {
	var out T
	err := bindPath(nil, vars, &out, opts)

	return out, err
}

// bindPath binds vars into out and classifies binding failures.
func bindPath(b *binding.Binder, vars VariableSet, out any, opts []binding.Option) error {
	err := b.PathTo(vars, out, opts...)
	if err == nil {
		return nil
	}

	var bindErr *binding.BindError
	if !errors.As(err, &bindErr) {
		panic(&InvariantError{Msg: "path parameters cannot be bound", Err: err})
	}

	if bindErr.Kind == binding.KindMissing {
		panic(&InvariantError{
			Msg: fmt.Sprintf("path variable %q required by %s was not captured", bindErr.Param, reflect.TypeOf(out).Elem()),
			Err: err,
		})
	}

	return &PathParamError{Param: bindErr.Param, Err: err}
}

func pathParamName(err error) string {
	var paramErr *PathParamError
	if errors.As(err, &paramErr) {
		return paramErr.Param
	}

	return ""
}

// PathExtractor binds path variables into T. It is not exclusive.
type PathExtractor[T any] struct {
	fields []binding.TaggedField
}

// NewPathExtractor returns the extractor for T. T must be a struct whose
// `path` fields are scalars: strings, numbers, booleans, times, durations,
// UUIDs or text unmarshalers, or pointers to those.
func NewPathExtractor[T any]() (*PathExtractor[T], error) {
	t := reflect.TypeFor[T]()

	fields, err := binding.TaggedFields(t, binding.TagPath)
	if err != nil {
		return nil, fmt.Errorf("path parameters %s: %w", t, err)
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Nested {
			return nil, fmt.Errorf("path parameters %s: field %s: %w: nested struct", t, f.Field, binding.ErrUnsupportedType)
		}
		if seen[f.Key] {
			return nil, fmt.Errorf("path parameters %s: %w: %q bound twice", t, ErrPathMismatch, f.Key)
		}
		seen[f.Key] = true
	}

	return &PathExtractor[T]{fields: fields}, nil
}

// MustNewPathExtractor is like [NewPathExtractor] but panics on error.
func MustNewPathExtractor[T any]() *PathExtractor[T] {
	e, err := NewPathExtractor[T]()
	if err != nil {
		panic(err)
	}

	return e
}

// PathParams returns the variable names T binds, in field order.
func (e *PathExtractor[T]) PathParams() []string {
	names := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		names = append(names, f.Key)
	}

	return names
}

// Metadata documents one required path parameter per tagged field.
func (e *PathExtractor[T]) Metadata(contenttype.Kind) Metadata {
	params := make([]Parameter, 0, len(e.fields))
	for _, f := range e.fields {
		params = append(params, Parameter{
			Location: LocationPath,
			Name:     f.Key,
			Required: true,
			Schema:   schema.StaticSource(pathSchema(f.Type)),
		})
	}

	return Metadata{Parameters: params}
}

// pathSchema describes a scalar path field. Anything that would need a
// named definition is documented as a plain string.
func pathSchema(t reflect.Type) *schema.Schema {
	s := schema.NewGenerator().Generate(t)
	if s.Ref != "" {
		return &schema.Schema{Type: "string"}
	}

	return s
}

// Extract binds rc.Variables into T.
func (e *PathExtractor[T]) Extract(rc *RequestContext, r *http.Request) (T, error) {
	_, span := rc.Telemetry.Start(r.Context(), telemetry.SpanPathParams)
	defer span.End()

	var out T
	if err := bindPath(rc.Binder, rc.Variables, &out, nil); err != nil {
		span.Fail(err)
		rc.logger().DebugContext(r.Context(), "path parameter rejected", "error", err,
			semconv.PathParam, pathParamName(err))

		return out, err
	}

	return out, nil
}

// templateParams returns the variable names of a route template such as
// "/orgs/{org}/users/{id:[0-9]{4}}" or "/files/{path...}".
func templateParams(pattern string) ([]string, error) {
	var names []string
	seen := make(map[string]bool)

	depth, start := 0, 0
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '{':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced '}' in %q", ErrInvalidTemplate, pattern)
			}
			if depth > 0 {
				continue
			}

			name, _, _ := strings.Cut(pattern[start:i], ":")
			name = strings.TrimSuffix(name, "...")
			if name == "" {
				return nil, fmt.Errorf("%w: empty variable in %q", ErrInvalidTemplate, pattern)
			}
			if seen[name] {
				return nil, fmt.Errorf("%w: variable %q repeated in %q", ErrInvalidTemplate, name, pattern)
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("%w: unterminated '{' in %q", ErrInvalidTemplate, pattern)
	}

	return names, nil
}
