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

// Package contenttype classifies request Content-Type headers into the closed
// set of body kinds understood by the extract package.
//
// Media types are compared case-insensitively and any parameters after the
// first ';' (charset, boundary, ...) are ignored, following RFC 7231
// section 3.1.1.1:
//
//	kind, err := contenttype.Parse("Application/JSON; charset=utf-8", true)
//	// kind == contenttype.JSON
//
// A missing header is treated as JSON. Negotiation never falls back from the
// kind a request declares to the kind a handler expects:
//
//	if err := contenttype.Negotiate(contenttype.JSON, found); err != nil {
//	    // *MismatchError
//	}
package contenttype

import (
	"net/http"
	"strings"
)

// Canonical MIME strings for each body kind.
const (
	MIMEJSON        = "application/json"
	MIMEURLEncoded  = "application/x-www-form-urlencoded"
	MIMEOctetStream = "application/octet-stream"

	// MIMENDJSON is reserved for streaming bodies. It is not part of the
	// negotiation table.
	MIMENDJSON = "application/x-ndjson"
)

// HeaderName is the request header consulted by [FromHeader].
const HeaderName = "Content-Type"

// Kind is the logical classification of a request body.
// Two kinds are equal only if they are the same constant; the MIME string is
// never compared.
type Kind int

const (
	// JSON is a JSON document (application/json).
	JSON Kind = iota

	// URLEncoded is an HTML form body (application/x-www-form-urlencoded).
	URLEncoded

	// Bytes is an opaque byte sequence (application/octet-stream).
	Bytes

	// NDJSON is newline-delimited JSON (application/x-ndjson). Reserved.
	NDJSON
)

// MIME returns the canonical MIME string for the kind.
func (k Kind) MIME() string {
	switch k {
	case JSON:
		return MIMEJSON
	case URLEncoded:
		return MIMEURLEncoded
	case Bytes:
		return MIMEOctetStream
	case NDJSON:
		return MIMENDJSON
	default:
		return ""
	}
}

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case JSON:
		return "json"
	case URLEncoded:
		return "urlencoded"
	case Bytes:
		return "bytes"
	case NDJSON:
		return "ndjson"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= JSON && k <= NDJSON
}

// negotiable maps normalized MIME strings to the kinds a request may declare.
// NDJSON is deliberately absent.
var negotiable = map[string]Kind{
	MIMEJSON:        JSON,
	MIMEURLEncoded:  URLEncoded,
	MIMEOctetStream: Bytes,
}

// FromMIME looks up a normalized MIME string in the negotiation table.
// The input must already be lower-cased and stripped of parameters; use
// [Parse] for raw header values.
func FromMIME(mime string) (Kind, error) {
	if k, ok := negotiable[mime]; ok {
		return k, nil
	}

	return 0, &UnsupportedMediaTypeError{Raw: mime}
}

// Normalize strips parameters and surrounding whitespace from a media type
// and lower-cases it.
//
// Example:
//
//	Normalize("Application/JSON ; charset=UTF-8") // "application/json"
func Normalize(value string) string {
	if i := strings.IndexByte(value, ';'); i >= 0 {
		value = value[:i]
	}

	return strings.ToLower(strings.TrimSpace(value))
}

// Parse classifies a Content-Type header value.
// When present is false the request carried no header and the result is
// [JSON]. Otherwise the value is validated, normalized with [Normalize] and
// looked up with [FromMIME].
//
// Errors:
//   - [InvalidHeaderError]: the value contains bytes that are not visible ASCII
//   - [UnsupportedMediaTypeError]: the media type is not in the table
func Parse(value string, present bool) (Kind, error) {
	if !present {
		return JSON, nil
	}

	if err := checkHeaderValue(value); err != nil {
		return 0, err
	}

	return FromMIME(Normalize(value))
}

// FromHeader classifies the Content-Type of a request header set.
func FromHeader(h http.Header) (Kind, error) {
	values, ok := h[HeaderName]
	if !ok || len(values) == 0 {
		return Parse("", false)
	}

	return Parse(values[0], true)
}

// Negotiate checks that the kind a request declared is the one the handler
// expects.
func Negotiate(expected, found Kind) error {
	if expected != found {
		return &MismatchError{Expected: expected, Found: found}
	}

	return nil
}

// checkHeaderValue rejects header values that are not visible ASCII,
// horizontal tab or space.
func checkHeaderValue(value string) error {
	for i := range len(value) {
		c := value[i]
		if c == '\t' || (c >= 0x20 && c < 0x7f) {
			continue
		}

		return &InvalidHeaderError{Raw: value, Offset: i}
	}

	return nil
}
