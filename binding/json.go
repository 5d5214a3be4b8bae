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
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"
)

// errTrailingData is returned when a JSON body holds more than one value.
var errTrailingData = errors.New("trailing data after JSON value")

// JSON decodes a JSON body into a new T.
//
// Example:
//
//	user, err := binding.JSON[CreateUserRequest](body,
//	    binding.WithUnknownFields(binding.UnknownError),
//	)
func JSON[T any](body []byte, opts ...Option) (T, error) {
	var result T
	err := JSONTo(body, &result, opts...)

	return result, err
}

// JSONTo decodes a JSON body into out. out may point to any type
// encoding/json accepts; the unknown-field policy only applies to structs.
//
// Errors:
//   - the encoding/json syntax or type error, unchanged
//   - [*UnknownFieldError]: [UnknownError] policy and an unknown key
//   - errTrailingData: more than one JSON value in body
func JSONTo(body []byte, out any, opts ...Option) error {
	return jsonTo(body, out, applyOptions(opts))
}

func jsonTo(body []byte, out any, cfg *config) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	if cfg.useNumber {
		dec.UseNumber()
	}
	if cfg.unknownFields == UnknownError {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(out); err != nil {
		if field, ok := unknownFieldName(err); ok {
			if cfg.onUnknownField != nil {
				cfg.onUnknownField(field)
			}

			return &UnknownFieldError{Field: field}
		}

		return err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}

	if cfg.unknownFields == UnknownWarn && cfg.onUnknownField != nil {
		for _, key := range unknownTopLevelKeys(body, reflect.TypeOf(out)) {
			cfg.onUnknownField(key)
		}
	}

	return nil
}

// unknownFieldName extracts the key from encoding/json's
// `json: unknown field "name"` error, which has no typed form.
func unknownFieldName(err error) (string, bool) {
	const prefix = "json: unknown field "

	msg := err.Error()
	if !strings.HasPrefix(msg, prefix) {
		return "", false
	}

	name, unquoteErr := strconv.Unquote(strings.TrimPrefix(msg, prefix))
	if unquoteErr != nil {
		return "", false
	}

	return name, true
}

// unknownTopLevelKeys lists object keys in body that no field of t accepts.
func unknownTopLevelKeys(body []byte, t reflect.Type) []string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	known := make(map[string]struct{})
	for _, f := range getStructInfo(t, TagJSON).fields {
		known[strings.ToLower(f.tagName)] = struct{}{}
	}
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.IsExported() && sf.Tag.Get(TagJSON) == "" {
			known[strings.ToLower(sf.Name)] = struct{}{}
		}
	}

	var unknown []string
	for key := range raw {
		if _, ok := known[strings.ToLower(key)]; !ok {
			unknown = append(unknown, key)
		}
	}

	return unknown
}
