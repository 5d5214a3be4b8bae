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

// Package semconv names the attributes shared by extraction logs, spans and
// metrics, so a log line and the span it belongs to use the same keys.
//
//	logger.Warn("request body over limit",
//	    semconv.BodyLimit, limit,
//	    semconv.BodyConsumed, consumed,
//	)
package semconv

// Body attributes.
const (
	// BodyBytes is the size of an accepted body.
	BodyBytes = "extract.body.bytes"

	// BodyLimit is the configured body cap.
	BodyLimit = "extract.body.limit"

	// BodyConsumed counts every byte read from the stream, drained bytes
	// included.
	BodyConsumed = "extract.body.consumed"

	// ContentType is the MIME type of the declared body kind.
	ContentType = "extract.content_type"
)

// Outcome attributes.
const (
	// ErrorCode is the stable code of a failed extraction, e.g. "body_too_large".
	ErrorCode = "extract.error.code"

	// Extractor is the span name of the extractor that ran.
	Extractor = "extract.extractor"

	// PathParam names a rejected path variable.
	PathParam = "extract.path.param"
)

// HTTP attributes, following OpenTelemetry naming.
const (
	HTTPMethod = "http.request.method"
	HTTPRoute  = "http.route"
)
