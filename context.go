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
	"iter"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/extract/binding"
	"rivaas.dev/extract/contenttype"
	"rivaas.dev/extract/logging"
	"rivaas.dev/extract/telemetry"
)

// DefaultRequestBodyMaxBytes is the body cap used when no server
// configuration is present.
const DefaultRequestBodyMaxBytes int64 = 1 << 20

// ServerConfig holds the server settings extraction depends on.
type ServerConfig struct {
	// RequestBodyMaxBytes caps the size of a buffered body.
	RequestBodyMaxBytes int64
}

// RequestContext is the per-request state extractors read from. It is
// borrowed for the duration of one extraction and never retained.
//
// All fields except BodyContentType are optional.
type RequestContext struct {
	Server          *ServerConfig
	BodyContentType contenttype.Kind // Kind the endpoint declared
	Variables       VariableSet      // Captured path variables

	// Response aborts a blocked body read on cancellation by expiring the
	// connection's read deadline. Without it the body is closed instead,
	// which a net/http server body does not honour mid-read.
	Response *http.ResponseController

	Logger    *slog.Logger
	Telemetry *telemetry.Recorder
	Binder    *binding.Binder
	Validator *validator.Validate
}

func (rc *RequestContext) bodyLimit() int64 {
	if rc.Server == nil {
		return DefaultRequestBodyMaxBytes
	}

	return rc.Server.RequestBodyMaxBytes
}

func (rc *RequestContext) logger() *slog.Logger {
	if rc.Logger == nil {
		return logging.Discard()
	}

	return rc.Logger
}

func (rc *RequestContext) validate() *validator.Validate {
	if rc.Validator == nil {
		return defaultValidator()
	}

	return rc.Validator
}

// VariableSet is the ordered set of variables a router captured from the
// request path. The zero value is empty and ready to use.
//
// VariableSet implements [binding.ValueGetter].
type VariableSet struct {
	names  []string
	values []string
}

// NewVariableSet builds a set from name, value pairs. A trailing name
// without a value is ignored.
//
// Example:
//
//	vars := extract.NewVariableSet("org", "acme", "id", "42")
func NewVariableSet(pairs ...string) VariableSet {
	var v VariableSet
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}

	return v
}

// Set adds a variable, replacing the value of an existing one in place.
func (v *VariableSet) Set(name, value string) {
	for i, n := range v.names {
		if n == name {
			v.values[i] = value
			return
		}
	}
	v.names = append(v.names, name)
	v.values = append(v.values, value)
}

// Lookup returns the value of name and whether it was captured.
func (v VariableSet) Lookup(name string) (string, bool) {
	for i, n := range v.names {
		if n == name {
			return v.values[i], true
		}
	}

	return "", false
}

// Get returns the value of name, or "".
func (v VariableSet) Get(name string) string {
	value, _ := v.Lookup(name)
	return value
}

// GetAll returns the value of name as a one-element slice, or nil.
func (v VariableSet) GetAll(name string) []string {
	if value, ok := v.Lookup(name); ok {
		return []string{value}
	}

	return nil
}

// Has reports whether name was captured, even with an empty value.
func (v VariableSet) Has(name string) bool {
	_, ok := v.Lookup(name)
	return ok
}

// Len returns the number of variables.
func (v VariableSet) Len() int {
	return len(v.names)
}

// Names returns the variable names in capture order.
func (v VariableSet) Names() []string {
	return append([]string(nil), v.names...)
}

// All iterates over the variables in capture order.
func (v VariableSet) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i, n := range v.names {
			if !yield(n, v.values[i]) {
				return
			}
		}
	}
}
