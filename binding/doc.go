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

// Package binding decodes already-buffered request data into Go values.
//
// Three sources are supported, matching what the extract package needs:
//
//   - JSON bodies ([JSONTo]), decoded with encoding/json and an optional
//     unknown-field policy
//   - URL-encoded bodies ([FormBytesTo]), bound field by field using the
//     "form" struct tag
//   - Path parameters ([Path], [PathTo]), bound using the "path" struct tag
//
// Field-level failures are reported as [*BindError]. Its Kind field tells a
// missing value apart from a value that failed conversion without any
// inspection of the error text:
//
//	var bindErr *binding.BindError
//	if errors.As(err, &bindErr) && bindErr.Kind == binding.KindMissing {
//	    // the source never had the key
//	}
//
// # Supported field types
//
// string, all int and uint sizes, float32/64, bool, time.Time,
// time.Duration, uuid.UUID, any encoding.TextUnmarshaler, pointers to
// those, and slices of those (repeated keys). Custom conversions are
// registered with [WithConverter].
//
// # Binder
//
// A [Binder] holds a fixed option set and is safe for concurrent use:
//
//	binder := binding.MustNew(
//	    binding.WithUnknownFields(binding.UnknownError),
//	    binding.WithTimeLayouts("2006-01-02"),
//	)
//	err := binder.JSONTo(body, &req)
//
// Struct metadata is parsed once per (type, tag) and cached.
package binding
