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
	"net/http"

	"rivaas.dev/extract/contenttype"
	"rivaas.dev/extract/schema"
)

// Location says where in the request a parameter is read from.
type Location string

// Parameter locations.
const (
	LocationBody Location = "body"
	LocationPath Location = "path"
)

// Parameter documents one input of an endpoint.
type Parameter struct {
	Location    Location
	Name        string
	ContentType string // MIME type, body parameters only
	Required    bool
	Schema      schema.Source
}

// Metadata documents what an extractor reads. Producing it performs no I/O;
// deferred schemas are only generated when [schema.Source.Resolve] is called.
type Metadata struct {
	Parameters []Parameter
}

// Describer is implemented by anything that can document its inputs for a
// negotiated body kind.
type Describer interface {
	Metadata(kind contenttype.Kind) Metadata
}

// Extractor derives a T from a request.
type Extractor[T any] interface {
	Describer

	// Extract builds the value. The returned error reports a client status
	// through rivaas.dev/extract/errors.
	Extract(rc *RequestContext, r *http.Request) (T, error)
}

// Exclusive is implemented by extractors that consume the request body.
// An endpoint may register at most one.
type Exclusive interface {
	ConsumesBody() bool
}

// consumesBody reports whether d is an exclusive extractor.
func consumesBody(d Describer) bool {
	e, ok := d.(Exclusive)
	return ok && e.ConsumesBody()
}
