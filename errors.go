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
	"errors"
	"fmt"
	"net/http"
	"strings"

	"rivaas.dev/extract/contenttype"
)

// Registration errors returned by [NewEndpoint] and the extractor
// constructors.
var (
	ErrMultipleExclusive = errors.New("more than one extractor consumes the request body")
	ErrPathMismatch      = errors.New("path parameters do not match route template")
	ErrBodyKind          = errors.New("body kind cannot be decoded into a typed value")
	ErrInvalidTemplate   = errors.New("invalid route template")
)

// DeserializeError is returned when a body of the negotiated kind cannot be
// decoded into the target type.
type DeserializeError struct {
	Kind contenttype.Kind
	Err  error
}

// Error returns the error message.
func (e *DeserializeError) Error() string {
	switch e.Kind {
	case contenttype.URLEncoded:
		return "unable to parse URL-encoded body: " + e.Err.Error()
	default:
		return "unable to parse JSON body: " + e.Err.Error()
	}
}

// Unwrap returns the decoder error.
func (e *DeserializeError) Unwrap() error {
	return e.Err
}

// HTTPStatus implements rivaas.dev/extract/errors.ErrorType.
func (e *DeserializeError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code implements rivaas.dev/extract/errors.ErrorCode.
func (e *DeserializeError) Code() string {
	return "deserialize_error"
}

// UTF8Error is returned by [UntypedBody.String] for a body that is not
// valid UTF-8.
type UTF8Error struct {
	Offset int // Index of the first invalid byte
}

// Error returns the error message.
func (e *UTF8Error) Error() string {
	return fmt.Sprintf("request body is not valid UTF-8: invalid byte at offset %d", e.Offset)
}

// HTTPStatus implements rivaas.dev/extract/errors.ErrorType.
func (e *UTF8Error) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code implements rivaas.dev/extract/errors.ErrorCode.
func (e *UTF8Error) Code() string {
	return "invalid_utf8"
}

// PathParamError is returned when a captured path variable cannot be
// converted to its field type.
type PathParamError struct {
	Param string
	Err   error
}

// Error returns the error message.
func (e *PathParamError) Error() string {
	return "bad parameter in URL path: " + e.Err.Error()
}

// Unwrap returns the conversion error.
func (e *PathParamError) Unwrap() error {
	return e.Err
}

// HTTPStatus implements rivaas.dev/extract/errors.ErrorType.
func (e *PathParamError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code implements rivaas.dev/extract/errors.ErrorCode.
func (e *PathParamError) Code() string {
	return "bad_path_parameter"
}

// Details implements rivaas.dev/extract/errors.ErrorDetails.
func (e *PathParamError) Details() any {
	return map[string]string{"parameter": e.Param}
}

// InvariantError is the panic value raised when a path-parameter struct
// asks for a variable the route never captures. Endpoint registration makes
// this unreachable; seeing it means a route was wired without
// [NewEndpoint].
type InvariantError struct {
	Msg string
	Err error
}

// Error returns the error message.
func (e *InvariantError) Error() string {
	if e.Err == nil {
		return "extract: invariant violated: " + e.Msg
	}

	return "extract: invariant violated: " + e.Msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InvariantError) Unwrap() error {
	return e.Err
}

// FieldError is one failed validation rule.
type FieldError struct {
	Path    string `json:"path"`            // JSON path, e.g. "items.2.price"
	Tag     string `json:"tag"`             // Validator tag, e.g. "required"
	Param   string `json:"param,omitempty"` // Tag parameter, e.g. "3" for min=3
	Message string `json:"message"`
}

// Error returns "path: message".
func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return e.Path + ": " + e.Message
}

// ValidationError is returned when a decoded body breaks its validate tags.
type ValidationError struct {
	Fields []FieldError
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}

// HTTPStatus implements rivaas.dev/extract/errors.ErrorType.
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code implements rivaas.dev/extract/errors.ErrorCode.
func (e *ValidationError) Code() string {
	return "validation_error"
}

// Details implements rivaas.dev/extract/errors.ErrorDetails.
func (e *ValidationError) Details() any {
	return e.Fields
}
