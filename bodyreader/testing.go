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
	"io"
	"net/http"
)

// ChunkStream is an in-memory [Stream] for tests and adapters.
// It records how much of itself has been consumed so callers can assert
// that nothing was left unread.
type ChunkStream struct {
	Chunks     [][]byte
	Trailer    http.Header
	Err        error // Returned instead of the chunk at index ErrAt
	ErrAt      int
	TrailerErr error

	next         int
	trailersRead bool
}

// NewChunkStream returns a [ChunkStream] yielding the given chunks.
func NewChunkStream(chunks ...[]byte) *ChunkStream {
	return &ChunkStream{Chunks: chunks, ErrAt: -1}
}

// Next implements [Stream].
func (s *ChunkStream) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil && s.next == s.ErrAt {
		return nil, s.Err
	}
	if s.next >= len(s.Chunks) {
		return nil, io.EOF
	}
	c := s.Chunks[s.next]
	s.next++

	return c, nil
}

// Trailers implements [Stream].
func (s *ChunkStream) Trailers(ctx context.Context) (http.Header, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.trailersRead = true
	if s.TrailerErr != nil {
		return nil, s.TrailerErr
	}

	return s.Trailer, nil
}

// Remaining returns the number of chunks not yet delivered.
func (s *ChunkStream) Remaining() int {
	return len(s.Chunks) - s.next
}

// TrailersRead reports whether Trailers has been called.
func (s *ChunkStream) TrailersRead() bool {
	return s.trailersRead
}
