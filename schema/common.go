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
	"reflect"
	"strings"
)

// walkFields visits struct fields, descending into embedded structs.
func walkFields(t reflect.Type, fn func(reflect.StructField)) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	for i := range t.NumField() {
		f := t.Field(i)

		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if f.Anonymous && ft.Kind() == reflect.Struct && f.Tag.Get("json") == "" {
			walkFields(ft, fn)
			continue
		}

		fn(f)
	}
}

// Name returns the definition name of a type: "pkg.Type" for named types
// declared in a package, the bare name for predeclared types, "" for
// unnamed types. Characters outside [A-Za-z0-9._-] (e.g. from generic type
// arguments) are replaced with '_'.
func Name(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return ""
	}

	name := t.Name()
	if pkgPath := t.PkgPath(); pkgPath != "" {
		pkgName := pkgPath[strings.LastIndex(pkgPath, "/")+1:]
		if pkgName != "" && pkgName != name {
			name = pkgName + "." + name
		}
	}

	return sanitize(name)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

// parseJSONName extracts the JSON field name from a tag.
func parseJSONName(tag, fallback string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return fallback
	}

	return name
}

// isFieldRequired reports whether a non-pointer field carries validate:"required".
func isFieldRequired(f reflect.StructField) bool {
	if f.Type.Kind() == reflect.Pointer {
		return false
	}

	for part := range strings.SplitSeq(f.Tag.Get("validate"), ",") {
		if strings.TrimSpace(part) == "required" {
			return true
		}
	}

	return false
}
