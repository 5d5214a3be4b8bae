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

import "reflect"

// Gen defers schema generation until documentation is assembled. Both
// producers are pure and may be called any number of times.
type Gen struct {
	Name   func() string
	Schema func() *Schema
}

// GenFor returns the producers for T.
func GenFor[T any]() Gen {
	t := reflect.TypeFor[T]()

	return Gen{
		Name:   func() string { return Name(t) },
		Schema: func() *Schema { return NewGenerator().Root(t) },
	}
}

// Source is either a fixed schema or a deferred [Gen].
type Source struct {
	Static *Schema
	Gen    *Gen
}

// StaticSource wraps a fixed schema.
func StaticSource(s *Schema) Source {
	return Source{Static: s}
}

// GenSource wraps deferred producers.
func GenSource(g Gen) Source {
	return Source{Gen: &g}
}

// Resolve returns the schema name ("" for static or unnamed schemas) and the
// schema itself, invoking the producers if the source is deferred.
func (s Source) Resolve() (string, *Schema) {
	switch {
	case s.Gen != nil:
		return s.Gen.Name(), s.Gen.Schema()
	case s.Static != nil:
		return "", s.Static
	default:
		return "", &Schema{}
	}
}

// IsDeferred reports whether the source generates its schema lazily.
func (s Source) IsDeferred() bool {
	return s.Gen != nil
}
