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
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/extract/binding"
	apierrors "rivaas.dev/extract/errors"
)

type userPath struct {
	Org string    `path:"org"`
	ID  uuid.UUID `path:"id"`
}

type archivePath struct {
	Year  int           `path:"year"`
	Month *int          `path:"month"`
	Since time.Time     `path:"since"`
	TTL   time.Duration `path:"ttl"`
	Draft bool          `path:"draft"`
	Ratio float64       `path:"ratio"`
	Page  uint16        `path:"page"`
}

func recoverInvariant(fn func()) (err *InvariantError) {
	defer func() {
		if v := recover(); v != nil {
			err, _ = v.(*InvariantError)
		}
	}()
	fn()

	return nil
}

func TestExtractPathParams(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	got, err := ExtractPathParams[userPath](NewVariableSet("org", "acme", "id", id.String()))
	require.NoError(t, err)
	assert.Equal(t, userPath{Org: "acme", ID: id}, got)
}

func TestExtractPathParams_Types(t *testing.T) {
	t.Parallel()

	vars := NewVariableSet(
		"year", "2024",
		"month", "7",
		"since", "2024-07-01T00:00:00Z",
		"ttl", "90s",
		"draft", "on",
		"ratio", "0.5",
		"page", "3",
	)

	got, err := ExtractPathParams[archivePath](vars)
	require.NoError(t, err)

	assert.Equal(t, 2024, got.Year)
	require.NotNil(t, got.Month)
	assert.Equal(t, 7, *got.Month)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), got.Since)
	assert.Equal(t, 90*time.Second, got.TTL)
	assert.True(t, got.Draft)
	assert.InDelta(t, 0.5, got.Ratio, 0)
	assert.Equal(t, uint16(3), got.Page)
}

func TestExtractPathParams_ConversionError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		vars  VariableSet
		param string
	}{
		{name: "uuid", vars: NewVariableSet("org", "acme", "id", "not-a-uuid"), param: "id"},
		{name: "empty uuid", vars: NewVariableSet("org", "acme", "id", ""), param: "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ExtractPathParams[userPath](tt.vars)

			var paramErr *PathParamError
			require.ErrorAs(t, err, &paramErr)
			assert.Equal(t, tt.param, paramErr.Param)
			assert.Contains(t, err.Error(), "bad parameter in URL path: ")
			assert.Contains(t, err.Error(), `"`+tt.param+`"`)
			assert.Equal(t, http.StatusBadRequest, apierrors.StatusOf(err))
			assert.Equal(t, "bad_path_parameter", apierrors.CodeOf(err))

			var bindErr *binding.BindError
			require.ErrorAs(t, err, &bindErr)
			assert.Equal(t, binding.KindConversion, bindErr.Kind)
		})
	}
}

func TestExtractPathParams_MissingPanics(t *testing.T) {
	t.Parallel()

	invariant := recoverInvariant(func() {
		_, _ = ExtractPathParams[userPath](NewVariableSet("org", "acme"))
	})
	require.NotNil(t, invariant)
	assert.Contains(t, invariant.Error(), `"id"`)

	var bindErr *binding.BindError
	require.ErrorAs(t, invariant, &bindErr)
	assert.Equal(t, binding.KindMissing, bindErr.Kind)
}

func TestPathExtractor(t *testing.T) {
	t.Parallel()

	extractor := MustNewPathExtractor[userPath]()
	assert.Equal(t, []string{"org", "id"}, extractor.PathParams())
	assert.False(t, consumesBody(extractor))

	id := uuid.New()
	rc := &RequestContext{Variables: NewVariableSet("id", id.String(), "org", "acme")}
	got, err := extractor.Extract(rc, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	rc.Variables.Set("id", "nope")
	_, err = extractor.Extract(rc, httptest.NewRequest(http.MethodGet, "/", nil))
	var paramErr *PathParamError
	require.ErrorAs(t, err, &paramErr)
}

func TestPathExtractor_Metadata(t *testing.T) {
	t.Parallel()

	md := MustNewPathExtractor[archivePath]().Metadata(0)
	require.Len(t, md.Parameters, 7)

	byName := map[string]Parameter{}
	for _, p := range md.Parameters {
		assert.Equal(t, LocationPath, p.Location)
		assert.True(t, p.Required)
		byName[p.Name] = p
	}

	_, year := byName["year"].Schema.Resolve()
	assert.Equal(t, "integer", year.Type)

	_, since := byName["since"].Schema.Resolve()
	assert.Equal(t, "date-time", since.Format)

	_, month := byName["month"].Schema.Resolve()
	assert.Equal(t, "integer", month.Type)

	_, id := MustNewPathExtractor[userPath]().Metadata(0).Parameters[1].Schema.Resolve()
	assert.Equal(t, "uuid", id.Format)
}

func TestNewPathExtractor_Errors(t *testing.T) {
	t.Parallel()

	type nested struct {
		Inner struct {
			ID string `path:"id"`
		} `path:"inner"`
	}
	type twice struct {
		A string `path:"id"`
		B string `path:"id"`
	}

	_, err := NewPathExtractor[nested]()
	require.ErrorIs(t, err, binding.ErrUnsupportedType)

	_, err = NewPathExtractor[twice]()
	require.ErrorIs(t, err, ErrPathMismatch)

	_, err = NewPathExtractor[int]()
	require.ErrorIs(t, err, binding.ErrUnsupportedType)

	assert.Panics(t, func() { MustNewPathExtractor[string]() })
}

func TestTemplateParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    []string
		wantErr bool
	}{
		{pattern: "/", want: nil},
		{pattern: "/users/{id}", want: []string{"id"}},
		{pattern: "/orgs/{org}/users/{id:[0-9]+}", want: []string{"org", "id"}},
		{pattern: "/codes/{code:[A-Z]{3}}", want: []string{"code"}},
		{pattern: "/files/{path...}", want: []string{"path"}},
		{pattern: "/users/{id", wantErr: true},
		{pattern: "/users/id}", wantErr: true},
		{pattern: "/users/{}", wantErr: true},
		{pattern: "/{id}/{id}", wantErr: true},
	}

	for _, tt := range tests {
		got, err := templateParams(tt.pattern)
		if tt.wantErr {
			assert.True(t, errors.Is(err, ErrInvalidTemplate), tt.pattern)
			continue
		}
		require.NoError(t, err, tt.pattern)
		assert.Equal(t, tt.want, got, tt.pattern)
	}
}

func TestPathSchema_Fallback(t *testing.T) {
	t.Parallel()

	s := pathSchema(reflect.TypeFor[userPath]())
	assert.Equal(t, "string", s.Type)
}
