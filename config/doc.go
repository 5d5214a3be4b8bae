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

// Package config loads the server settings that drive body extraction.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults ([Defaults])
//  2. an optional file: YAML (.yaml, .yml), TOML (.toml) or JSON (.json)
//  3. environment variables with a prefix (default "EXTRACT_")
//
// Environment variables name a section and a key separated by the first
// underscore after the prefix:
//
//	EXTRACT_SERVER_REQUEST_BODY_MAX_BYTES=2MiB  -> server.request_body_max_bytes
//	EXTRACT_LOG_LEVEL=debug                     -> log.level
//
// Byte sizes accept plain integers or human units ("512KiB", "1MB"; both
// binary). Durations use time.ParseDuration syntax.
//
//	cfg, err := config.Load(ctx, config.WithFile("server.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
