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

package contenttype

import (
	"fmt"
	"net/http"
)

// UnsupportedMediaTypeError is returned when a Content-Type names a media
// type outside the negotiation table.
type UnsupportedMediaTypeError struct {
	Raw string // Normalized media type
}

// Error returns the error message.
func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("unsupported mime type: %q", e.Raw)
}

// HTTPStatus implements rivaas.dev/extract/errors.ErrorType.
func (e *UnsupportedMediaTypeError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code implements rivaas.dev/extract/errors.ErrorCode.
func (e *UnsupportedMediaTypeError) Code() string {
	return "unsupported_media_type"
}

// MismatchError is returned by [Negotiate] when the request's body kind
// differs from the one the handler expects.
type MismatchError struct {
	Expected Kind
	Found    Kind
}

// Error returns the error message.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected content type %q, got %q", e.Expected.MIME(), e.Found.MIME())
}

// HTTPStatus implements rivaas.dev/extract/errors.ErrorType.
func (e *MismatchError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code implements rivaas.dev/extract/errors.ErrorCode.
func (e *MismatchError) Code() string {
	return "content_type_mismatch"
}

// Details implements rivaas.dev/extract/errors.ErrorDetails.
func (e *MismatchError) Details() any {
	return map[string]string{
		"expected": e.Expected.MIME(),
		"found":    e.Found.MIME(),
	}
}

// InvalidHeaderError is returned when the Content-Type header value cannot
// be read as text.
type InvalidHeaderError struct {
	Raw    string
	Offset int // Index of the first invalid byte
}

// Error returns the error message.
func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("invalid content type: invalid byte 0x%02x at offset %d", e.Raw[e.Offset], e.Offset)
}

// HTTPStatus implements rivaas.dev/extract/errors.ErrorType.
func (e *InvalidHeaderError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code implements rivaas.dev/extract/errors.ErrorCode.
func (e *InvalidHeaderError) Code() string {
	return "invalid_content_type"
}
