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
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type references for special type handling.
var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	timeType            = reflect.TypeFor[time.Time]()
	durationType        = reflect.TypeFor[time.Duration]()
	uuidType            = reflect.TypeFor[uuid.UUID]()
)

// fieldInfo stores cached information about a struct field.
type fieldInfo struct {
	index     []int        // Field index path (supports embedded structs)
	name      string       // Struct field name
	tagName   string       // Key looked up in the source
	fieldType reflect.Type // Full type information
	isPtr     bool
	isSlice   bool
	isStruct  bool // Nested struct bound with "parent.child" keys
}

// structInfo holds the bindable fields of a struct type for one tag.
type structInfo struct {
	fields []fieldInfo
}

type cacheKey struct {
	typ reflect.Type
	tag string
}

var structInfoCache sync.Map // cacheKey -> *structInfo

// getStructInfo returns the cached field metadata for typ under tag,
// parsing it on first use. Safe for concurrent use.
func getStructInfo(typ reflect.Type, tag string) *structInfo {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	key := cacheKey{typ: typ, tag: tag}
	if si, ok := structInfoCache.Load(key); ok {
		return si.(*structInfo) //nolint:forcetypeassert // only *structInfo is stored
	}

	si, _ := structInfoCache.LoadOrStore(key, parseStructType(typ, tag, nil))

	return si.(*structInfo) //nolint:forcetypeassert // only *structInfo is stored
}

// parseStructType collects the exported fields of t that carry tag.
// Embedded structs are flattened. Fields tagged "-" are skipped.
func parseStructType(t reflect.Type, tag string, indexPrefix []int) *structInfo {
	info := &structInfo{fields: make([]fieldInfo, 0, t.NumField())}

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		index := append(append([]int(nil), indexPrefix...), i)

		fieldType := field.Type
		if field.Anonymous && fieldType.Kind() == reflect.Struct {
			if _, tagged := field.Tag.Lookup(tag); !tagged {
				info.fields = append(info.fields, parseStructType(fieldType, tag, index).fields...)
				continue
			}
		}

		raw, ok := field.Tag.Lookup(tag)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(raw, ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		fi := fieldInfo{
			index:     index,
			name:      field.Name,
			tagName:   name,
			fieldType: fieldType,
			isPtr:     fieldType.Kind() == reflect.Pointer,
		}

		switch {
		case fieldType.Kind() == reflect.Slice && fieldType.Elem().Kind() != reflect.Uint8:
			fi.isSlice = true
		case fieldType.Kind() == reflect.Struct && !isScalarStruct(fieldType):
			fi.isStruct = true
		}

		info.fields = append(info.fields, fi)
	}

	return info
}

// isScalarStruct reports whether a struct type is bound from one string.
func isScalarStruct(t reflect.Type) bool {
	return t == timeType || reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// TaggedField describes one field bound under a tag.
type TaggedField struct {
	Key    string       // Source key (tag value)
	Field  string       // Struct field name
	Type   reflect.Type // Declared field type
	Nested bool         // Struct bound from "key.child" entries
}

// TaggedFields returns the fields a struct type binds under tag, in field
// order. Embedded structs are flattened; nested struct fields are reported
// once with Nested set.
func TaggedFields(t reflect.Type, tag string) ([]TaggedField, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: expected struct, got %s", ErrUnsupportedType, t)
	}

	info := getStructInfo(t, tag)
	fields := make([]TaggedField, 0, len(info.fields))
	for _, f := range info.fields {
		fields = append(fields, TaggedField{
			Key:    f.tagName,
			Field:  f.name,
			Type:   f.fieldType,
			Nested: f.isStruct,
		})
	}

	return fields, nil
}

// TagNames returns the source keys a struct type binds under tag, in field
// order. Nested struct fields are not expanded.
//
// Example:
//
//	names, err := binding.TagNames(reflect.TypeFor[UserPath](), binding.TagPath)
//	// ["org", "id"]
func TagNames(t reflect.Type, tag string) ([]string, error) {
	fields, err := TaggedFields(t, tag)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Key)
	}

	return names, nil
}

// WarmupCache pre-parses struct types for the given tag.
func WarmupCache(tag string, types ...any) {
	for _, v := range types {
		t := reflect.TypeOf(v)
		if t == nil {
			continue
		}
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() == reflect.Struct {
			getStructInfo(t, tag)
		}
	}
}
