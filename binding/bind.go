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
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// Path binds path parameters to type T. Every "path"-tagged field must be
// present in params; an absent key yields a [*BindError] of [KindMissing].
//
// Example:
//
//	type UserPath struct {
//	    ID uuid.UUID `path:"id"`
//	}
//	p, err := binding.Path[UserPath](binding.NewPathGetter(map[string]string{"id": id}))
func Path[T any](getter ValueGetter, opts ...Option) (T, error) {
	var result T
	err := PathTo(getter, &result, opts...)

	return result, err
}

// PathTo binds path parameters to out. See [Path].
func PathTo(getter ValueGetter, out any, opts ...Option) error {
	return bindFromSource(out, getter, TagPath, applyOptions(opts), true)
}

// FormBytesTo parses a URL-encoded body and binds it to out using "form"
// tags. Keys absent from the body leave their fields untouched.
//
// Example:
//
//	var req LoginRequest
//	err := binding.FormBytesTo([]byte("user=ann&remember=on"), &req)
func FormBytesTo(body []byte, out any, opts ...Option) error {
	return formBytesTo(body, out, applyOptions(opts))
}

// Form parses a URL-encoded body into a new T.
func Form[T any](body []byte, opts ...Option) (T, error) {
	var result T
	err := FormBytesTo(body, &result, opts...)

	return result, err
}

// Raw binds values from a custom getter using the given struct tag.
// Missing keys are not an error.
func Raw(getter ValueGetter, tag string, out any, opts ...Option) error {
	return bindFromSource(out, getter, tag, applyOptions(opts), false)
}

func formBytesTo(body []byte, out any, cfg *config) error {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return err
	}

	return bindFromSource(out, NewFormGetter(values), TagForm, cfg, false)
}

// bindFromSource validates out and binds all fields carrying tag.
func bindFromSource(out any, getter ValueGetter, tag string, cfg *config, requireAll bool) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer {
		return ErrOutMustBePointer
	}
	if rv.IsNil() {
		return ErrOutPointerNil
	}

	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return ErrOutMustBePointer
	}

	return bindFields(elem, getter, tag, getStructInfo(elem.Type(), tag), cfg, requireAll, 0)
}

func bindFields(elem reflect.Value, getter ValueGetter, tag string, info *structInfo,
	cfg *config, requireAll bool, depth int,
) error {
	if depth > cfg.maxDepth {
		return fmt.Errorf("%w of %d", ErrMaxDepthExceeded, cfg.maxDepth)
	}

	source := sourceFromTag(tag)

	for _, field := range info.fields {
		fv := elem.FieldByIndex(field.index)

		if _, converted := cfg.converters[field.fieldType]; field.isStruct && !converted {
			nested := prefixGetter{getter: getter, prefix: field.tagName + "."}
			if err := bindFields(fv, nested, tag, getStructInfo(field.fieldType, tag), cfg, requireAll, depth+1); err != nil {
				return err
			}

			continue
		}

		if !getter.Has(field.tagName) {
			if requireAll {
				return &BindError{
					Field:  field.name,
					Param:  field.tagName,
					Source: source,
					Kind:   KindMissing,
					Type:   field.fieldType,
				}
			}

			continue
		}

		var (
			err   error
			value string
		)
		if field.isSlice {
			values := getter.GetAll(field.tagName)
			value = strings.Join(values, ",")
			err = setSliceField(fv, values, cfg)
		} else {
			value = getter.Get(field.tagName)
			err = setField(fv, value, cfg)
		}

		if err != nil {
			return &BindError{
				Field:  field.name,
				Param:  field.tagName,
				Source: source,
				Kind:   KindConversion,
				Value:  value,
				Type:   field.fieldType,
				Err:    err,
			}
		}
	}

	return nil
}

// prefixGetter looks keys up under "prefix.key" in the wrapped getter.
type prefixGetter struct {
	getter ValueGetter
	prefix string
}

func (p prefixGetter) Get(key string) string      { return p.getter.Get(p.prefix + key) }
func (p prefixGetter) GetAll(key string) []string { return p.getter.GetAll(p.prefix + key) }
func (p prefixGetter) Has(key string) bool        { return p.getter.Has(p.prefix + key) }
