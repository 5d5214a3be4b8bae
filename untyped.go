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
	"context"
	"net/http"
	"unicode/utf8"

	"rivaas.dev/extract/bodyreader"
	"rivaas.dev/extract/contenttype"
	"rivaas.dev/extract/schema"
	"rivaas.dev/extract/telemetry"
)

// UntypedBody holds a raw request body.
type UntypedBody struct {
	buf []byte

	checked bool
	text    string
	err     error
}

// NewUntypedBody wraps buf. The body takes ownership of buf.
func NewUntypedBody(buf []byte) *UntypedBody {
	return &UntypedBody{buf: buf}
}

// Bytes returns the body. The slice is owned by b.
func (b *UntypedBody) Bytes() []byte {
	return b.buf
}

// String returns the body as text. The body is validated as UTF-8 on the
// first call and the result is reused afterwards.
func (b *UntypedBody) String() (string, error) {
	if !b.checked {
		b.checked = true
		if utf8.Valid(b.buf) {
			b.text = string(b.buf)
		} else {
			b.err = &UTF8Error{Offset: invalidUTF8Offset(b.buf)}
		}
	}

	return b.text, b.err
}

func invalidUTF8Offset(p []byte) int {
	for i := 0; i < len(p); {
		r, size := utf8.DecodeRune(p[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}

	return len(p)
}

// UntypedBodyExtractor reads the body without negotiating or decoding it.
// It is an exclusive extractor.
type UntypedBodyExtractor struct{}

// NewUntypedBodyExtractor returns the raw body extractor.
func NewUntypedBodyExtractor() *UntypedBodyExtractor {
	return &UntypedBodyExtractor{}
}

// ConsumesBody implements [Exclusive].
func (*UntypedBodyExtractor) ConsumesBody() bool { return true }

// Metadata documents a required binary body whatever kind was negotiated.
func (*UntypedBodyExtractor) Metadata(contenttype.Kind) Metadata {
	return Metadata{Parameters: []Parameter{{
		Location:    LocationBody,
		Name:        "body",
		ContentType: contenttype.Bytes.MIME(),
		Required:    true,
		Schema:      schema.StaticSource(schema.Binary()),
	}}}
}

// Extract reads the body of r.
func (e *UntypedBodyExtractor) Extract(rc *RequestContext, r *http.Request) (*UntypedBody, error) {
	return e.ExtractFrom(r.Context(), rc, requestStream(rc, r))
}

// ExtractFrom reads a body delivered by s.
//
// Errors:
//   - [*bodyreader.OversizeError]: the body exceeds the configured cap
//   - [*bodyreader.TransportError]: the stream failed
func (e *UntypedBodyExtractor) ExtractFrom(ctx context.Context, rc *RequestContext, s bodyreader.Stream) (*UntypedBody, error) {
	ctx, span := rc.Telemetry.Start(ctx, telemetry.SpanUntypedBody)
	defer span.End()

	buf, err := readBody(ctx, rc, s, span)
	if err != nil {
		span.Fail(err)
		return nil, err
	}

	return NewUntypedBody(buf), nil
}
