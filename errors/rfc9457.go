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

	"github.com/google/uuid"
)

// RFC9457 formats errors as RFC 9457 Problem Details.
// It produces responses with Content-Type "application/problem+json".
type RFC9457 struct {
	// BaseURL is prepended to error codes to create problem type URIs.
	// Example: "https://api.example.com/problems" + "/body_too_large"
	BaseURL string

	// TypeResolver maps errors to problem type URIs.
	// If nil, the ErrorCode interface is used.
	TypeResolver func(err error) string

	// StatusResolver determines HTTP status from error.
	// If nil, uses [StatusOf].
	StatusResolver func(err error) int

	// ErrorIDGenerator generates unique IDs for error correlation.
	// If nil, a random UUID is used.
	ErrorIDGenerator func() string

	// DisableErrorID disables automatic error ID generation.
	DisableErrorID bool
}

// ProblemDetail represents an RFC 9457 problem detail.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"` // Marshaled inline
}

// MarshalJSON writes extension members inline next to the standard members.
// Extensions cannot overwrite the standard members.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		m[k] = v
	}

	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	} else {
		delete(m, "detail")
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	} else {
		delete(m, "instance")
	}

	return json.Marshal(m)
}

// Format converts an error into an RFC 9457 Problem Details response.
// The "code" and "errors" extensions are filled from [ErrorCode] and
// [ErrorDetails] when the error implements them.
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := f.determineStatus(err)

	p := ProblemDetail{
		Type:       f.determineType(err),
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Extensions: make(map[string]any),
	}
	if req != nil && req.URL != nil {
		p.Instance = req.URL.Path
	}

	if !f.DisableErrorID {
		if f.ErrorIDGenerator != nil {
			p.Extensions["error_id"] = f.ErrorIDGenerator()
		} else {
			p.Extensions["error_id"] = uuid.NewString()
		}
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		if d := detailed.Details(); d != nil {
			p.Extensions["errors"] = d
		}
	}

	if code := CodeOf(err); code != "" {
		p.Extensions["code"] = code
	}

	return Response{
		Status:      status,
		ContentType: "application/problem+json; charset=utf-8",
		Body:        p,
	}
}

// determineStatus checks StatusResolver first, then [StatusOf].
func (f *RFC9457) determineStatus(err error) int {
	if f.StatusResolver != nil {
		return f.StatusResolver(err)
	}

	return StatusOf(err)
}

// determineType checks TypeResolver first, then the error code, then
// falls back to "about:blank".
func (f *RFC9457) determineType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}

	if code := CodeOf(err); code != "" {
		if f.BaseURL != "" {
			return f.BaseURL + "/" + code
		}

		return code
	}

	return "about:blank"
}
