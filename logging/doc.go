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

// Package logging builds the structured loggers used across the module.
//
// Loggers are plain *slog.Logger values; this package only assembles the
// handler from options:
//
//	logger := logging.MustNew(
//	    logging.WithJSONHandler(),
//	    logging.WithLevel(logging.LevelDebug),
//	    logging.WithServiceName("orders"),
//	)
//	logger.Debug("body read", "bytes", 512)
//
// Values under common credential keys (password, token, secret, api_key,
// authorization) are redacted before they reach the handler.
//
// For tests, [NewTestLogger] writes JSON into a buffer that
// [ParseJSONLogEntries] turns back into entries.
package logging
