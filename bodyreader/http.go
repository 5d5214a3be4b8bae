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
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// DefaultChunkSize is the read size used by [NewHTTPStream].
const DefaultChunkSize = 32 << 10

// HTTPOption configures an [HTTPStream].
type HTTPOption func(*HTTPStream)

// WithChunkSize sets the maximum number of bytes returned by one Next call.
// Values below 1 are ignored.
func WithChunkSize(n int) HTTPOption {
	return func(s *HTTPStream) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithResponseController lets the stream abort a blocked read through the
// connection's read deadline. A server request body holds a lock for the
// whole of a Read, so closing it cannot interrupt the read.
func WithResponseController(rc *http.ResponseController) HTTPOption {
	return func(s *HTTPStream) {
		s.rc = rc
	}
}

// HTTPStream adapts an *http.Request body to [Stream].
//
// The slice returned by Next is only valid until the following call.
// When the context passed to Next is done, a blocked read is aborted by
// expiring the connection's read deadline (see [WithResponseController]),
// or by closing the body when no controller is set or deadlines are not
// supported.
type HTTPStream struct {
	req       *http.Request
	body      io.ReadCloser
	rc        *http.ResponseController
	chunkSize int
	buf       []byte
	eof       bool
}

// NewHTTPStream returns a [Stream] over r.Body and r.Trailer.
// A nil body (or http.NoBody) is an empty stream.
func NewHTTPStream(r *http.Request, opts ...HTTPOption) *HTTPStream {
	s := &HTTPStream{
		req:       r,
		body:      r.Body,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.body == nil || s.body == http.NoBody {
		s.eof = true
	}

	return s
}

// Next implements [Stream].
func (s *HTTPStream) Next(ctx context.Context) ([]byte, error) {
	if s.eof {
		return nil, io.EOF
	}
	if s.buf == nil {
		s.buf = make([]byte, s.chunkSize)
	}

	stop := context.AfterFunc(ctx, s.abort)
	n, err := s.body.Read(s.buf)
	stop()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, io.EOF) {
			return nil, err
		}
		s.eof = true
		if n == 0 {
			return nil, io.EOF
		}
	}

	return s.buf[:n], nil
}

// abort unblocks a pending Read.
func (s *HTTPStream) abort() {
	if s.rc != nil {
		if err := s.rc.SetReadDeadline(time.Now()); err == nil {
			return
		}
	}
	_ = s.body.Close()
}

// Trailers implements [Stream]. The net/http server fills in request
// trailers once the body has been read to EOF.
func (s *HTTPStream) Trailers(ctx context.Context) (http.Header, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.eof {
		return nil, ErrTrailersBeforeEOF
	}

	return s.req.Trailer, nil
}

// ErrTrailersBeforeEOF is returned when trailers are requested before the
// body has been fully read.
var ErrTrailersBeforeEOF = errors.New("trailers requested before end of body")
