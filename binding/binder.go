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

import "fmt"

// Binder provides binding with a fixed option set.
//
// Binder is safe for concurrent use by multiple goroutines. A nil *Binder
// behaves like one built with no options.
//
// Example:
//
//	binder := binding.MustNew(
//	    binding.WithConverter(ParseCurrency),
//	    binding.WithTimeLayouts("2006-01-02"),
//	)
//	err := binder.JSONTo(body, &req)
type Binder struct {
	cfg *config
}

// New creates a [Binder] with the given options.
// Returns an error if the configuration is invalid.
func New(opts ...Option) (*Binder, error) {
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Binder{cfg: cfg}, nil
}

// MustNew creates a [Binder] with the given options.
// Panics if the configuration is invalid.
func MustNew(opts ...Option) *Binder {
	b, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("binding.MustNew: %v", err))
	}

	return b
}

func (b *Binder) resolve(opts []Option) *config {
	if b == nil || b.cfg == nil {
		return applyOptions(opts)
	}

	return b.cfg.with(opts)
}

// JSONTo decodes a JSON body into out. See [JSONTo].
func (b *Binder) JSONTo(body []byte, out any, opts ...Option) error {
	return jsonTo(body, out, b.resolve(opts))
}

// FormBytesTo binds a URL-encoded body into out. See [FormBytesTo].
func (b *Binder) FormBytesTo(body []byte, out any, opts ...Option) error {
	return formBytesTo(body, out, b.resolve(opts))
}

// PathTo binds path parameters into out. See [PathTo].
func (b *Binder) PathTo(getter ValueGetter, out any, opts ...Option) error {
	return bindFromSource(out, getter, TagPath, b.resolve(opts), true)
}
