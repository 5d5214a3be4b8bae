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
	"fmt"
	"net/http"
	"reflect"

	"rivaas.dev/extract/bodyreader"
	"rivaas.dev/extract/contenttype"
	"rivaas.dev/extract/schema"
	"rivaas.dev/extract/telemetry"
)

// TypedBody holds a decoded request body.
type TypedBody[T any] struct {
	Value T
}

// TypedBodyExtractor decodes the request body into T according to the
// endpoint's declared body kind. Only JSON and URL-encoded bodies can be
// decoded. It is an exclusive extractor.
//
// Example:
//
//	users := extract.MustNewTypedBody[CreateUser]()
//	body, err := users.Extract(rc, r)
//	if err != nil {
//	    apierrors.Write(w, r, formatter, err)
//	    return
//	}
//	create(body.Value)
type TypedBodyExtractor[T any] struct{}

// NewTypedBody returns the extractor for T. It fails when T cannot be
// described by a JSON schema.
func NewTypedBody[T any]() (*TypedBodyExtractor[T], error) {
	if err := schema.Check(reflect.TypeFor[T]()); err != nil {
		return nil, fmt.Errorf("typed body %s: %w", reflect.TypeFor[T](), err)
	}

	return &TypedBodyExtractor[T]{}, nil
}

// MustNewTypedBody is like [NewTypedBody] but panics on error.
func MustNewTypedBody[T any]() *TypedBodyExtractor[T] {
	e, err := NewTypedBody[T]()
	if err != nil {
		panic(err)
	}

	return e
}

// ConsumesBody implements [Exclusive].
func (*TypedBodyExtractor[T]) ConsumesBody() bool { return true }

// Metadata documents a required body of kind whose schema is generated from
// T on demand.
func (*TypedBodyExtractor[T]) Metadata(kind contenttype.Kind) Metadata {
	return Metadata{Parameters: []Parameter{{
		Location:    LocationBody,
		Name:        "body",
		ContentType: kind.MIME(),
		Required:    true,
		Schema:      schema.GenSource(schema.GenFor[T]()),
	}}}
}

// Extract reads and decodes the body of r.
func (e *TypedBodyExtractor[T]) Extract(rc *RequestContext, r *http.Request) (TypedBody[T], error) {
	return e.ExtractFrom(r.Context(), rc, r.Header, requestStream(rc, r))
}

// ExtractFrom decodes a body delivered by s with the given request headers.
//
// Errors:
//   - [*bodyreader.OversizeError]: the body exceeds the configured cap
//   - [*bodyreader.TransportError]: the stream failed
//   - [*contenttype.UnsupportedMediaTypeError], [*contenttype.InvalidHeaderError]:
//     the Content-Type header cannot be classified
//   - [*contenttype.MismatchError]: the body kind is not the declared one
//   - [*DeserializeError]: the bytes do not decode into T
//   - [*ValidationError]: the decoded value breaks its validate tags
func (e *TypedBodyExtractor[T]) ExtractFrom(ctx context.Context, rc *RequestContext, header http.Header,
	s bodyreader.Stream,
) (TypedBody[T], error) {
	ctx, span := rc.Telemetry.Start(ctx, telemetry.SpanTypedBody,
		telemetry.AttrContentType.String(rc.BodyContentType.MIME()))
	defer span.End()

	body, err := e.extract(ctx, rc, header, s, span)
	if err != nil {
		span.Fail(err)
		return TypedBody[T]{}, err
	}

	return body, nil
}

// formTarget returns the struct pointer the form binder fills for out.
// A nil pointer T is allocated first, since the binder takes exactly one
// level of indirection.
func formTarget[T any](out *T) any {
	rv := reflect.ValueOf(out).Elem()
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		if rv.Elem().Kind() != reflect.Pointer {
			return rv.Interface()
		}
		rv = rv.Elem()
	}

	return out
}

func (e *TypedBodyExtractor[T]) extract(ctx context.Context, rc *RequestContext, header http.Header,
	s bodyreader.Stream, span *telemetry.Span,
) (TypedBody[T], error) {
	buf, err := readBody(ctx, rc, s, span)
	if err != nil {
		return TypedBody[T]{}, err
	}

	found, err := contenttype.FromHeader(header)
	if err != nil {
		return TypedBody[T]{}, err
	}

	expected := rc.BodyContentType
	if err = contenttype.Negotiate(expected, found); err != nil {
		return TypedBody[T]{}, err
	}

	var out T
	switch expected {
	case contenttype.JSON:
		err = rc.Binder.JSONTo(buf, &out)
	case contenttype.URLEncoded:
		err = rc.Binder.FormBytesTo(buf, formTarget(&out))
	default:
		return TypedBody[T]{}, &contenttype.MismatchError{Expected: expected, Found: found}
	}
	if err != nil {
		return TypedBody[T]{}, &DeserializeError{Kind: expected, Err: err}
	}

	if err = validateValue(rc.validate(), &out); err != nil {
		return TypedBody[T]{}, err
	}

	return TypedBody[T]{Value: out}, nil
}
