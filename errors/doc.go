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

// Package errors turns extraction failures into HTTP error responses.
//
// Every client-facing error produced by the bodyreader, contenttype and
// extract packages implements some of three small interfaces:
//
//   - ErrorType: the error declares its HTTP status (always 400 for
//     extraction failures)
//   - ErrorCode: a stable machine-readable code such as "body_too_large"
//   - ErrorDetails: structured data, e.g. per-field validation failures
//
// A Formatter converts any error into a [Response]. Two formats are
// provided:
//
//   - RFC9457: Problem Details (application/problem+json)
//   - Simple: {"error": "...", "code": "...", "details": ...}
//
// # Quick Start
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		body, err := extract.NewTypedBody[CreateUser]().Extract(rc, r)
//		if err != nil {
//			errors.Write(w, r, formatter, err)
//			return
//		}
//		// ...
//	}
//
// Errors that implement none of the interfaces are reported as 500.
package errors
