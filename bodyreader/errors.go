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

package bodyreader

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidLimit is returned when a negative size cap is requested.
var ErrInvalidLimit = errors.New("body size limit must not be negative")

// OversizeError is returned when a body is larger than the configured cap.
// By the time it is returned the stream has been fully drained.
type OversizeError struct {
	Limit    int64 // Configured cap in bytes
	Consumed int64 // Total bytes read from the stream, including drained bytes
}

// Error returns the error message.
func (e *OversizeError) Error() string {
	return fmt.Sprintf("request body exceeded maximum size of %d bytes", e.Limit)
}

// HTTPStatus implements rivaas.dev/extract/errors.ErrorType.
func (e *OversizeError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code implements rivaas.dev/extract/errors.ErrorCode.
func (e *OversizeError) Code() string {
	return "body_too_large"
}

// Details implements rivaas.dev/extract/errors.ErrorDetails.
func (e *OversizeError) Details() any {
	return map[string]int64{"max_bytes": e.Limit}
}

// TransportError wraps a failure of the underlying body stream. It says
// nothing about the body's content; the connection it came from should be
// considered unusable.
type TransportError struct {
	Err error
}

// Error returns the error message.
func (e *TransportError) Error() string {
	return "reading request body: " + e.Err.Error()
}

// Unwrap returns the stream error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatus implements rivaas.dev/extract/errors.ErrorType. Extraction
// failures are never reported as 5xx.
func (e *TransportError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code implements rivaas.dev/extract/errors.ErrorCode.
func (e *TransportError) Code() string {
	return "transport_error"
}
