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

// Package telemetry records traces and metrics for body extraction.
//
// A [Recorder] wraps an OpenTelemetry tracer and meter. Every extraction
// runs inside a span ("extract.typed_body", "extract.untyped_body",
// "extract.path_params") and updates three instruments:
//
//   - extract.body.bytes: histogram of accepted body sizes
//   - extract.body.oversize: counter of bodies rejected for size
//   - extract.failures: counter of failed extractions, by error code
//
// The zero configuration uses no-op providers, so a Recorder costs nothing
// until a real provider is supplied:
//
//	rec, err := telemetry.New(
//	    telemetry.WithServiceName("orders"),
//	    telemetry.WithPrometheus(),
//	)
//	http.Handle("/metrics", rec.Handler())
//
// [WithOTLP] pushes traces and metrics to a collector over OTLP/HTTP, and
// [WithStdout] writes them to standard output. Both own their providers;
// call [Recorder.Shutdown] to flush them.
//
// A nil *Recorder is valid and records nothing.
package telemetry
