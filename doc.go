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

// Package extract turns HTTP request bodies and path parameters into typed
// values.
//
// Three extractors are provided:
//
//   - [TypedBodyExtractor] reads a bounded body, negotiates its content type
//     against the endpoint's declared kind and decodes it into T
//   - [UntypedBodyExtractor] reads a bounded body and exposes the raw bytes
//   - [PathExtractor] binds captured path variables into a struct
//
// Body extractors are exclusive: an endpoint may register at most one of
// them. [NewEndpoint] enforces that, checks that path-parameter structs
// match the route template and compiles the body schemas, so that
// misconfiguration fails at startup rather than per request.
//
// Every failure caused by client input is returned as an error that
// reports status 400 through rivaas.dev/extract/errors. A path-parameter
// struct that does not match its route is a programming error and panics
// with [*InvariantError].
//
// Example:
//
//	users := extract.MustNewTypedBody[CreateUser]()
//	ids := extract.MustNewPathExtractor[UserPath]()
//	ep := extract.MustNewEndpoint(http.MethodPut, "/users/{id}", contenttype.JSON, users, ids)
//
//	func(w http.ResponseWriter, r *http.Request) {
//	    rc := ep.Context(base, vars)
//	    body, err := users.Extract(rc, r)
//	    ...
//	}
package extract
