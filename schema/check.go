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
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrNotDescribable is wrapped by [*UndescribableError].
var ErrNotDescribable = errors.New("type cannot be described by a schema")

// UndescribableError reports the first member of a type that has no JSON
// representation.
type UndescribableError struct {
	Type reflect.Type // Checked root type
	Path string       // Dotted path to the offending member, "" for the root
	Kind reflect.Kind // Offending kind
}

// Error returns the error message.
func (e *UndescribableError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s has kind %s", ErrNotDescribable, e.Type, e.Kind)
	}

	return fmt.Sprintf("%s: %s.%s has kind %s", ErrNotDescribable, e.Type, e.Path, e.Kind)
}

// Unwrap returns [ErrNotDescribable].
func (e *UndescribableError) Unwrap() error {
	return ErrNotDescribable
}

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textUnmarshaler   = reflect.TypeFor[encoding.TextUnmarshaler]()
)

type checkResult struct{ err error }

var checkCache sync.Map // reflect.Type -> checkResult

// Check reports whether values of t can be described by a JSON schema and
// decoded from JSON. Results are cached per type.
func Check(t reflect.Type) error {
	if t == nil {
		return &UndescribableError{Kind: reflect.Invalid}
	}

	if r, ok := checkCache.Load(t); ok {
		return r.(checkResult).err //nolint:forcetypeassert // only checkResult is stored
	}

	err := checkType(t, t, "", map[reflect.Type]bool{})
	checkCache.Store(t, checkResult{err: err})

	return err
}

func checkType(root, t reflect.Type, path string, visiting map[reflect.Type]bool) error {
	if t == timeType || t == uuidType || t == rawMessageType {
		return nil
	}
	if t.Implements(jsonMarshalerType) || reflect.PointerTo(t).Implements(textUnmarshaler) {
		return nil
	}

	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128,
		reflect.UnsafePointer, reflect.Invalid:
		return &UndescribableError{Type: root, Path: path, Kind: t.Kind()}

	case reflect.Pointer, reflect.Slice, reflect.Array:
		return checkType(root, t.Elem(), path, visiting)

	case reflect.Map:
		switch t.Key().Kind() {
		case reflect.String, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			if !reflect.PointerTo(t.Key()).Implements(textUnmarshaler) {
				return &UndescribableError{Type: root, Path: path, Kind: t.Key().Kind()}
			}
		}

		return checkType(root, t.Elem(), path, visiting)

	case reflect.Struct:
		if visiting[t] {
			return nil
		}
		visiting[t] = true
		defer delete(visiting, t)

		var err error
		walkFields(t, func(f reflect.StructField) {
			if err != nil || !f.IsExported() || f.Tag.Get("json") == "-" {
				return
			}

			p := f.Name
			if path != "" {
				p = path + "." + f.Name
			}
			err = checkType(root, f.Type, p, visiting)
		})

		return err

	default:
		return nil
	}
}
