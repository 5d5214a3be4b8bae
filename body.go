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
	"errors"
	"net/http"

	"rivaas.dev/extract/bodyreader"
	"rivaas.dev/extract/telemetry"
	"rivaas.dev/extract/telemetry/semconv"
)

// readBody reads a bounded body and records the outcome on span and in the
// request logger. On overflow the stream has already been drained.
func readBody(ctx context.Context, rc *RequestContext, s bodyreader.Stream, span *telemetry.Span) ([]byte, error) {
	limit := rc.bodyLimit()
	log := rc.logger()

	buf, err := bodyreader.ReadBounded(ctx, s, limit)
	if err != nil {
		var tooLarge *bodyreader.OversizeError
		if errors.As(err, &tooLarge) {
			span.Oversize(limit)
			log.DebugContext(ctx, "body drained", semconv.BodyConsumed, tooLarge.Consumed)
			log.WarnContext(ctx, "request body over limit",
				semconv.BodyLimit, limit,
				semconv.BodyConsumed, tooLarge.Consumed,
			)
		}

		return nil, err
	}

	span.BodyRead(int64(len(buf)), limit)
	log.DebugContext(ctx, "body read", semconv.BodyBytes, len(buf), semconv.BodyLimit, limit)

	return buf, nil
}

// requestStream adapts r's body. Cancellation uses rc.Response when set.
func requestStream(rc *RequestContext, r *http.Request) bodyreader.Stream {
	if rc.Response == nil {
		return bodyreader.NewHTTPStream(r)
	}

	return bodyreader.NewHTTPStream(r, bodyreader.WithResponseController(rc.Response))
}
