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
package binding

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userPath struct {
	Org  string    `path:"org"`
	ID   uuid.UUID `path:"id"`
	Page *int      `path:"page"`
}

func pathParams(m map[string]string) ValueGetter {
	return NewPathGetter(m)
}

func TestPath(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	tests := []struct {
		name      string
		params    map[string]string
		wantKind  ErrorKind
		wantParam string
		wantErr   bool
	}{
		{
			name:   "all present",
			params: map[string]string{"org": "acme", "id": id.String(), "page": "3"},
		},
		{
			name:      "missing field",
			params:    map[string]string{"org": "acme", "page": "3"},
			wantErr:   true,
			wantKind:  KindMissing,
			wantParam: "id",
		},
		{
			name:      "bad uuid",
			params:    map[string]string{"org": "acme", "id": "not-a-uuid", "page": "3"},
			wantErr:   true,
			wantKind:  KindConversion,
			wantParam: "id",
		},
		{
			name:      "bad int",
			params:    map[string]string{"org": "acme", "id": id.String(), "page": "x"},
			wantErr:   true,
			wantKind:  KindConversion,
			wantParam: "page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Path[userPath](pathParams(tt.params))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "acme", got.Org)
				assert.Equal(t, id, got.ID)
				require.NotNil(t, got.Page)
				assert.Equal(t, 3, *got.Page)

				return
			}

			var bindErr *BindError
			require.ErrorAs(t, err, &bindErr)
			assert.Equal(t, tt.wantKind, bindErr.Kind)
			assert.Equal(t, tt.wantParam, bindErr.Param)
			assert.Equal(t, SourcePath, bindErr.Source)
		})
	}
}

func TestBindError_Messages(t *testing.T) {
	t.Parallel()

	_, err := Path[userPath](pathParams(map[string]string{"org": "a", "page": "1"}))
	require.Error(t, err)
	assert.Equal(t, `missing field: "id"`, err.Error())

	_, err = Path[struct {
		N int `path:"n"`
	}](pathParams(map[string]string{"n": "1.5"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid value "1.5" for "n"`)
	assert.Contains(t, err.Error(), "hint: use float type")
}

func TestPathTo_OutValidation(t *testing.T) {
	t.Parallel()

	var n int
	require.ErrorIs(t, PathTo(pathParams(nil), n), ErrOutMustBePointer)
	require.ErrorIs(t, PathTo(pathParams(nil), &n), ErrOutMustBePointer)

	var nilPtr *userPath
	require.ErrorIs(t, PathTo(pathParams(nil), nilPtr), ErrOutPointerNil)
}

type signupForm struct {
	Name     string        `form:"name"`
	Age      uint8         `form:"age"`
	Tags     []string      `form:"tags"`
	Remember bool          `form:"remember"`
	Born     time.Time     `form:"born"`
	TTL      time.Duration `form:"ttl"`
	Nick     *string       `form:"nick"`
	Ignored  string        `form:"-"`
	Address  struct {
		City string `form:"city"`
	} `form:"address"`
}

func TestFormBytesTo(t *testing.T) {
	t.Parallel()

	body := "name=ann&age=30&tags=a&tags=b&remember=on&born=2024-02-01&ttl=90s&address.city=Oslo&Ignored=x"

	var got signupForm
	require.NoError(t, FormBytesTo([]byte(body), &got))

	assert.Equal(t, "ann", got.Name)
	assert.Equal(t, uint8(30), got.Age)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.True(t, got.Remember)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), got.Born)
	assert.Equal(t, 90*time.Second, got.TTL)
	assert.Nil(t, got.Nick)
	assert.Empty(t, got.Ignored)
	assert.Equal(t, "Oslo", got.Address.City)
}

func TestFormBytesTo_Errors(t *testing.T) {
	t.Parallel()

	t.Run("overflow", func(t *testing.T) {
		t.Parallel()

		var got signupForm
		err := FormBytesTo([]byte("age=300"), &got)

		var bindErr *BindError
		require.ErrorAs(t, err, &bindErr)
		assert.Equal(t, KindConversion, bindErr.Kind)
		assert.Equal(t, SourceForm, bindErr.Source)
		assert.Equal(t, "age", bindErr.Param)
	})

	t.Run("bad escape", func(t *testing.T) {
		t.Parallel()

		var got signupForm
		require.Error(t, FormBytesTo([]byte("name=%zz"), &got))
	})

	t.Run("bad bool", func(t *testing.T) {
		t.Parallel()

		var got signupForm
		err := FormBytesTo([]byte("remember=maybe"), &got)
		require.ErrorIs(t, err, ErrInvalidBooleanValue)
	})

	t.Run("slice limit", func(t *testing.T) {
		t.Parallel()

		var got signupForm
		err := FormBytesTo([]byte("tags=a&tags=b&tags=c"), &got, WithMaxSliceLen(2))
		require.ErrorIs(t, err, ErrSliceExceedsMaxLength)
	})
}

func TestFormBytesTo_BracketSlices(t *testing.T) {
	t.Parallel()

	got, err := Form[signupForm]([]byte("tags[]=x&tags[]=y"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got.Tags)
}

type money struct{ cents int64 }

func TestWithConverter(t *testing.T) {
	t.Parallel()

	type order struct {
		Total money  `form:"total"`
		Tip   *money `form:"tip"`
	}

	parse := func(s string) (money, error) {
		if s == "free" {
			return money{}, nil
		}

		return money{}, errors.New("unsupported amount")
	}

	got, err := Form[order]([]byte("total=free&tip=free"), WithConverter(parse))
	require.NoError(t, err)
	require.NotNil(t, got.Tip)

	_, err = Form[order]([]byte("total=10"), WithConverter(parse))
	require.Error(t, err)
}

func TestTagNames(t *testing.T) {
	t.Parallel()

	names, err := TagNames(reflect.TypeFor[userPath](), TagPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"org", "id", "page"}, names)

	_, err = TagNames(reflect.TypeFor[int](), TagPath)
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"true", "1", "YES", "on", "t", "y"} {
		b, err := parseBool(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"false", "0", "No", "off", "f", "n"} {
		b, err := parseBool(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
}
