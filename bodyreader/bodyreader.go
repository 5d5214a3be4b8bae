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

// Package bodyreader reads request bodies into a single buffer under a hard
// size cap.
//
// Bodies are consumed as a sequence of chunks followed by trailers. When the
// cap would be exceeded the rest of the stream is read and discarded before
// the error is returned, so a keep-alive connection is never left with an
// unread body:
//
//	buf, err := bodyreader.ReadBounded(ctx, bodyreader.NewHTTPStream(r), 1<<20)
//	var tooLarge *bodyreader.OversizeError
//	if errors.As(err, &tooLarge) {
//	    // 400, the stream has already been drained
//	}
package bodyreader

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// Stream is a request body delivered in chunks.
//
// Next returns the next chunk, or io.EOF once all data has been delivered.
// Zero-length chunks are allowed. Trailers must only be called after Next
// has returned io.EOF.
//
// Both methods are suspension points: they may block until the peer sends
// more data and must return promptly once ctx is done.
type Stream interface {
	Next(ctx context.Context) ([]byte, error)
	Trailers(ctx context.Context) (http.Header, error)
}

// ReadBounded reads all of s into one buffer of at most limit bytes.
//
// If the running total would exceed limit, accumulation stops, the rest of
// the stream is drained with [Drain] and an [OversizeError] is returned. A
// failure of the underlying stream, including context cancellation, is
// returned as a [TransportError]. On success the trailers are read and
// discarded. An empty body yields an empty, non-nil buffer.
//
// No partial buffer is ever returned alongside an error.
//
// Errors:
//   - [ErrInvalidLimit]: limit is negative
//   - [OversizeError]: the body is larger than limit
//   - [TransportError]: the stream failed or ctx was cancelled
func ReadBounded(ctx context.Context, s Stream, limit int64) ([]byte, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	buf := make([]byte, 0, initialCapacity(limit))
	var total int64

	for {
		if err := ctx.Err(); err != nil {
			return nil, &TransportError{Err: err}
		}

		chunk, err := s.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &TransportError{Err: err}
		}

		n := int64(len(chunk))
		if n > limit-total {
			consumed := total + n
			drained, derr := Drain(ctx, s)
			if derr != nil {
				return nil, derr
			}

			return nil, &OversizeError{Limit: limit, Consumed: consumed + drained}
		}

		total += n
		buf = append(buf, chunk...)
	}

	if _, err := s.Trailers(ctx); err != nil {
		return nil, &TransportError{Err: err}
	}

	return buf, nil
}

// Drain reads and discards the rest of s, including its trailers.
// It returns the number of body bytes discarded.
//
// Errors:
//   - [TransportError]: the stream failed or ctx was cancelled
func Drain(ctx context.Context, s Stream) (int64, error) {
	var n int64

	for {
		if err := ctx.Err(); err != nil {
			return n, &TransportError{Err: err}
		}

		chunk, err := s.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, &TransportError{Err: err}
		}
		n += int64(len(chunk))
	}

	if _, err := s.Trailers(ctx); err != nil {
		return n, &TransportError{Err: err}
	}

	return n, nil
}

// maxInitialCapacity bounds the up-front allocation for a body so a large
// configured cap does not cost memory for small requests.
const maxInitialCapacity = 64 << 10

// initialCapacity returns the starting buffer capacity for a read.
func initialCapacity(limit int64) int {
	if limit < maxInitialCapacity {
		return int(limit)
	}

	return maxInitialCapacity
}
