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
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `json:"city" validate:"required"`
}

type createUser struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name" validate:"required,min=2,max=32" doc:"Display name"`
	Email    string            `json:"email,omitempty" validate:"email"`
	Age      uint8             `json:"age" validate:"lt=150"`
	Role     string            `json:"role" validate:"oneof=admin user"`
	Joined   time.Time         `json:"joined"`
	Tags     []string          `json:"tags"`
	Labels   map[string]string `json:"labels"`
	Avatar   []byte            `json:"avatar"`
	Home     address           `json:"home"`
	Work     *address          `json:"work"`
	Secret   string            `json:"-"`
	internal string
}

type node struct {
	Value    int     `json:"value"`
	Children []*node `json:"children"`
}

func TestFor_Struct(t *testing.T) {
	t.Parallel()

	s := For[createUser]()

	assert.Equal(t, "object", s.Type)
	assert.Equal(t, "createUser", s.Title)
	assert.Equal(t, []string{"name"}, s.Required)
	assert.NotContains(t, s.Properties, "Secret")
	assert.NotContains(t, s.Properties, "internal")

	name := s.Properties["name"]
	assert.Equal(t, "Display name", name.Description)
	require.NotNil(t, name.MinLength)
	assert.Equal(t, 2, *name.MinLength)
	assert.Equal(t, 32, *name.MaxLength)

	assert.Equal(t, "email", s.Properties["email"].Format)
	assert.Equal(t, "uuid", s.Properties["id"].Format)
	assert.Equal(t, "date-time", s.Properties["joined"].Format)
	assert.Equal(t, "base64", s.Properties["avatar"].ContentEncoding)
	assert.Equal(t, "array", s.Properties["tags"].Type)
	assert.Equal(t, "string", s.Properties["labels"].AdditionalProperties.Type)
	assert.Equal(t, []any{"admin", "user"}, s.Properties["role"].Enum)
	require.NotNil(t, s.Properties["age"].ExclusiveMaximum)
	assert.InDelta(t, 150, *s.Properties["age"].ExclusiveMaximum, 0)

	assert.Equal(t, DefsPrefix+"schema.address", s.Properties["home"].Ref)
	assert.Equal(t, DefsPrefix+"schema.address", s.Properties["work"].Ref)
	require.Contains(t, s.Defs, "schema.address")
	assert.NotContains(t, s.Defs, "schema.createUser")
}

func TestFor_Recursive(t *testing.T) {
	t.Parallel()

	s := For[node]()

	assert.Equal(t, "object", s.Type)
	assert.Equal(t, DefsPrefix+"schema.node", s.Properties["children"].Items.Ref)
	assert.Contains(t, s.Defs, "schema.node")
}

func TestFor_Primitives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema *Schema
		want   Schema
	}{
		{name: "string", schema: For[string](), want: Schema{Type: "string"}},
		{name: "bool", schema: For[bool](), want: Schema{Type: "boolean"}},
		{name: "int64", schema: For[int64](), want: Schema{Type: "integer", Format: "int64"}},
		{name: "float64", schema: For[float64](), want: Schema{Type: "number", Format: "double"}},
		{name: "any", schema: For[any](), want: Schema{}},
		{name: "raw message", schema: For[json.RawMessage](), want: Schema{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, *tt.schema)
		})
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "schema.createUser", Name(reflect.TypeFor[createUser]()))
	assert.Equal(t, "schema.createUser", Name(reflect.TypeFor[*createUser]()))
	assert.Equal(t, "int", Name(reflect.TypeFor[int]()))
	assert.Empty(t, Name(reflect.TypeFor[[]int]()))
	assert.Equal(t, "uuid.UUID", Name(reflect.TypeFor[uuid.UUID]()))
	assert.Regexp(t, `^[A-Za-z0-9._-]+$`, Name(reflect.TypeFor[page[createUser]]()))
}

type page[T any] struct {
	Items []T `json:"items"`
}

func TestGenFor(t *testing.T) {
	t.Parallel()

	gen := GenFor[createUser]()
	assert.Equal(t, "schema.createUser", gen.Name())
	assert.Equal(t, gen.Schema(), gen.Schema())

	name, s := GenSource(gen).Resolve()
	assert.Equal(t, "schema.createUser", name)
	assert.Equal(t, "object", s.Type)

	name, s = StaticSource(Binary()).Resolve()
	assert.Empty(t, name)
	assert.Equal(t, "binary", s.Format)
	assert.False(t, StaticSource(Binary()).IsDeferred())
}

func TestCheck(t *testing.T) {
	t.Parallel()

	type withChan struct {
		C chan int `json:"c"`
	}
	type nested struct {
		Inner struct {
			F func() `json:"f"`
		} `json:"inner"`
	}
	type skipped struct {
		F func() `json:"-"`
	}

	tests := []struct {
		name     string
		typ      reflect.Type
		wantKind reflect.Kind
		wantPath string
	}{
		{name: "struct", typ: reflect.TypeFor[createUser]()},
		{name: "recursive", typ: reflect.TypeFor[node]()},
		{name: "skipped func", typ: reflect.TypeFor[skipped]()},
		{name: "chan field", typ: reflect.TypeFor[withChan](), wantKind: reflect.Chan, wantPath: "C"},
		{name: "nested func", typ: reflect.TypeFor[nested](), wantKind: reflect.Func, wantPath: "Inner.F"},
		{name: "complex", typ: reflect.TypeFor[complex128](), wantKind: reflect.Complex128},
		{name: "bad map key", typ: reflect.TypeFor[map[bool]int](), wantKind: reflect.Bool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Check(tt.typ)
			if tt.wantKind == reflect.Invalid {
				require.NoError(t, err)
				return
			}

			var undescribable *UndescribableError
			require.ErrorAs(t, err, &undescribable)
			require.ErrorIs(t, err, ErrNotDescribable)
			assert.Equal(t, tt.wantKind, undescribable.Kind)
			assert.Equal(t, tt.wantPath, undescribable.Path)
		})
	}
}

func TestCompileAndValidate(t *testing.T) {
	t.Parallel()

	compiled, err := Compile("createUser", For[createUser]())
	require.NoError(t, err)

	require.NoError(t, Validate(compiled, []byte(`{"name":"ann","home":{"city":"Oslo"}}`)))
	require.Error(t, Validate(compiled, []byte(`{"name":"a"}`)), "name too short")
	require.Error(t, Validate(compiled, []byte(`{"home":{}}`)), "name missing")
	require.Error(t, Validate(compiled, []byte(`{`)))

	_, err = Compile("node", For[node]())
	require.NoError(t, err)

	_, err = Compile("", Binary())
	require.NoError(t, err)
}

func TestWalk(t *testing.T) {
	t.Parallel()

	var refs []string
	For[createUser]().Walk(func(s *Schema) {
		if s.Ref != "" {
			refs = append(refs, s.Ref)
		}
	})
	assert.Len(t, refs, 2)

	var none *Schema
	none.Walk(func(*Schema) { t.Fatal("nil schema must not be visited") })
	assert.True(t, errors.Is(&UndescribableError{}, ErrNotDescribable))
}
