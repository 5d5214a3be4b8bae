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

package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Formatter defines how errors are formatted in HTTP responses.
//
// Example:
//
//	response := formatter.Format(req, err)
//	w.Header().Set("Content-Type", response.ContentType)
//	w.WriteHeader(response.Status)
//	json.NewEncoder(w).Encode(response.Body)
type Formatter interface {
	// Format converts an error into status code, content type and body.
	// The request is used for the problem instance URI where applicable.
	Format(req *http.Request, err error) Response
}

// Response represents a formatted error response.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body, marshaled as JSON by [Write].
	Body any

	// Headers contains additional headers to set (optional).
	Headers http.Header
}

// ErrorType allows errors to declare their own HTTP status code.
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured information.
type ErrorDetails interface {
	error
	// Details returns structured information about the error.
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// NewRFC9457 creates a new RFC9457 formatter.
// baseURL is prepended to error codes to build problem type URIs.
//
// Example:
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{
		BaseURL: baseURL,
	}
}

// NewSimple creates a new Simple formatter.
func NewSimple() *Simple {
	return &Simple{}
}

// StatusOf returns the HTTP status an error declares through [ErrorType],
// or 500 if it declares none.
func StatusOf(err error) int {
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}

// CodeOf returns the machine-readable code of an error, or "" if it has none.
func CodeOf(err error) string {
	var coded ErrorCode
	if errors.As(err, &coded) {
		return coded.Code()
	}

	return ""
}

// IsClientError reports whether err declares a 4xx status.
func IsClientError(err error) bool {
	status := StatusOf(err)
	return status >= 400 && status < 500
}

// Write formats err with f and writes the response to w.
//
// Example:
//
//	if err != nil {
//		errors.Write(w, r, formatter, err)
//		return
//	}
func Write(w http.ResponseWriter, req *http.Request, f Formatter, err error) {
	response := f.Format(req, err)

	for k, values := range response.Headers {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", response.ContentType)
	w.WriteHeader(response.Status)

	//nolint:errchkjson // Nothing useful to do once the header is written
	_ = json.NewEncoder(w).Encode(response.Body)
}

// WithStatus wraps an error with an explicit HTTP status code.
// If err is nil, the status text is used as the error message.
//
// Example:
//
//	return errors.WithStatus(err, http.StatusRequestEntityTooLarge)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

// statusError wraps an error with an explicit status code.
type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}

	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func (e *statusError) HTTPStatus() int {
	return e.status
}
