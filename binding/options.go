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

package binding

import (
	"fmt"
	"maps"
	"reflect"
	"time"
)

// UnknownFieldPolicy defines how to handle unknown fields during JSON decoding.
type UnknownFieldPolicy int

const (
	// UnknownIgnore silently ignores unknown JSON fields.
	// This is the default policy.
	UnknownIgnore UnknownFieldPolicy = iota

	// UnknownWarn reports top-level unknown keys through the OnUnknownField
	// hook but continues binding.
	UnknownWarn

	// UnknownError returns an [*UnknownFieldError] on the first unknown field.
	UnknownError
)

// Limits applied when no option overrides them.
const (
	// DefaultMaxDepth bounds nested struct recursion for form and path binding.
	DefaultMaxDepth = 32

	// DefaultMaxSliceLen bounds the number of repeated values per field.
	DefaultMaxSliceLen = 10_000
)

// TypeConverter converts a string value to a custom type.
// Registered converters are checked before built-in type handling.
type TypeConverter func(string) (any, error)

// Option configures binding behavior.
type Option func(*config)

type config struct {
	unknownFields  UnknownFieldPolicy
	useNumber      bool
	timeLayouts    []string
	converters     map[reflect.Type]TypeConverter
	maxDepth       int
	maxSliceLen    int
	onUnknownField func(path string)
}

func defaultConfig() *config {
	return &config{
		unknownFields: UnknownIgnore,
		timeLayouts:   defaultTimeLayouts,
		maxDepth:      DefaultMaxDepth,
		maxSliceLen:   DefaultMaxSliceLen,
	}
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

func (c *config) validate() error {
	if c.maxDepth <= 0 {
		return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidOption, c.maxDepth)
	}
	if c.maxSliceLen <= 0 {
		return fmt.Errorf("%w: max slice length must be positive, got %d", ErrInvalidOption, c.maxSliceLen)
	}
	if len(c.timeLayouts) == 0 {
		return fmt.Errorf("%w: at least one time layout is required", ErrInvalidOption)
	}

	return nil
}

// with returns a copy of c with opts applied on top.
func (c *config) with(opts []Option) *config {
	if len(opts) == 0 {
		return c
	}

	clone := *c
	clone.converters = maps.Clone(c.converters)
	for _, opt := range opts {
		opt(&clone)
	}

	return &clone
}

// WithUnknownFields sets the policy for JSON keys that match no field.
//
// Example:
//
//	err := binding.JSONTo(body, &req, binding.WithUnknownFields(binding.UnknownError))
func WithUnknownFields(policy UnknownFieldPolicy) Option {
	return func(c *config) {
		c.unknownFields = policy
	}
}

// OnUnknownField registers a hook called for each unknown JSON key under
// [UnknownWarn] or [UnknownError].
func OnUnknownField(fn func(path string)) Option {
	return func(c *config) {
		c.onUnknownField = fn
	}
}

// WithJSONUseNumber decodes JSON numbers into json.Number for interface{} fields.
func WithJSONUseNumber() Option {
	return func(c *config) {
		c.useNumber = true
	}
}

// WithTimeLayouts replaces the layouts tried when parsing time.Time fields.
func WithTimeLayouts(layouts ...string) Option {
	return func(c *config) {
		c.timeLayouts = layouts
	}
}

// WithMaxDepth sets the maximum nested struct depth.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithMaxSliceLen sets the maximum number of values bound into one slice field.
func WithMaxSliceLen(n int) Option {
	return func(c *config) {
		c.maxSliceLen = n
	}
}

// WithConverter registers a conversion function for type T.
//
// Example:
//
//	binding.WithConverter(func(s string) (Currency, error) {
//	    return ParseCurrency(s)
//	})
func WithConverter[T any](fn func(string) (T, error)) Option {
	return func(c *config) {
		if c.converters == nil {
			c.converters = make(map[reflect.Type]TypeConverter)
		} else {
			c.converters = maps.Clone(c.converters)
		}
		c.converters[reflect.TypeFor[T]()] = func(s string) (any, error) {
			return fn(s)
		}
	}
}

var defaultTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}
