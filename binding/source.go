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
	"net/url"
)

// Struct tags understood by the binder.
const (
	TagJSON = "json" // JSON body
	TagForm = "form" // URL-encoded body
	TagPath = "path" // URL path parameter
)

// Source identifies where a value was bound from.
type Source int

const (
	// SourceUnknown is an unspecified source.
	SourceUnknown Source = iota

	// SourcePath represents URL path parameters.
	SourcePath

	// SourceForm represents a URL-encoded body.
	SourceForm

	// SourceJSON represents a JSON body.
	SourceJSON
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourcePath:
		return "path"
	case SourceForm:
		return "form"
	case SourceJSON:
		return "json"
	default:
		return "unknown"
	}
}

func sourceFromTag(tag string) Source {
	switch tag {
	case TagPath:
		return SourcePath
	case TagForm:
		return SourceForm
	case TagJSON:
		return SourceJSON
	default:
		return SourceUnknown
	}
}

// ValueGetter abstracts a set of named string values.
//
// Implementers must distinguish between "key present with empty value" and
// "key not present": Has reports presence even when the value is empty.
type ValueGetter interface {
	// Get returns the first value for the given key, or "" if not present.
	Get(key string) string

	// GetAll returns all values for the given key, or nil if not present.
	GetAll(key string) []string

	// Has returns true if the key is present, even if its value is empty.
	Has(key string) bool
}

// GetterFunc is a function adapter that implements [ValueGetter].
//
// Example:
//
//	getter := binding.GetterFunc(func(key string) ([]string, bool) {
//	    v, ok := params[key]
//	    return []string{v}, ok
//	})
type GetterFunc func(key string) (values []string, has bool)

// Get returns the first value for the key.
func (f GetterFunc) Get(key string) string {
	values, has := f(key)
	if has && len(values) > 0 {
		return values[0]
	}

	return ""
}

// GetAll returns all values for the key.
func (f GetterFunc) GetAll(key string) []string {
	values, _ := f(key)
	return values
}

// Has returns whether the key exists.
func (f GetterFunc) Has(key string) bool {
	_, has := f(key)
	return has
}

// FormGetter implements [ValueGetter] for URL-encoded data.
type FormGetter struct {
	values url.Values
}

// NewFormGetter creates a [FormGetter] from url.Values.
func NewFormGetter(v url.Values) *FormGetter {
	return &FormGetter{values: v}
}

// Get returns the first value for the key.
func (f *FormGetter) Get(key string) string {
	return f.values.Get(key)
}

// GetAll returns all values for the key.
// Both "tags=a&tags=b" and "tags[]=a&tags[]=b" are accepted.
func (f *FormGetter) GetAll(key string) []string {
	if vals := f.values[key]; len(vals) > 0 {
		return vals
	}

	return f.values[key+"[]"]
}

// Has returns whether the key exists.
func (f *FormGetter) Has(key string) bool {
	return f.values.Has(key) || f.values.Has(key+"[]")
}

// PathGetter implements [ValueGetter] for URL path parameters.
type PathGetter struct {
	params map[string]string
}

// NewPathGetter creates a PathGetter from a map of path parameters.
func NewPathGetter(p map[string]string) *PathGetter {
	return &PathGetter{params: p}
}

// Get returns the value for the key.
func (p *PathGetter) Get(key string) string {
	return p.params[key]
}

// GetAll returns the single value for the key, if present.
func (p *PathGetter) GetAll(key string) []string {
	if val, ok := p.params[key]; ok {
		return []string{val}
	}

	return nil
}

// Has returns whether the key exists.
func (p *PathGetter) Has(key string) bool {
	_, ok := p.params[key]
	return ok
}
