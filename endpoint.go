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
	"fmt"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/extract/contenttype"
	"rivaas.dev/extract/schema"
)

// pathBinder is implemented by extractors that read path variables.
type pathBinder interface {
	PathParams() []string
}

// Endpoint is a validated registration of extractors for one route.
type Endpoint struct {
	Method  string
	Pattern string
	Kind    contenttype.Kind // Declared body kind

	metadata   Metadata
	bodySchema *jsonschema.Schema
}

// NewEndpoint checks that the extractors can serve method and pattern
// together and collects their metadata.
//
// Registration fails when:
//   - more than one extractor consumes the body ([ErrMultipleExclusive])
//   - a typed body is declared with a kind other than JSON or URL-encoded
//     ([ErrBodyKind])
//   - a path extractor's tagged fields differ from the template's variables
//     ([ErrPathMismatch])
//   - a body schema does not compile
func NewEndpoint(method, pattern string, kind contenttype.Kind, parts ...Describer) (*Endpoint, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("endpoint %s %s: %w: %s", method, pattern, ErrBodyKind, kind)
	}

	vars, err := templateParams(pattern)
	if err != nil {
		return nil, fmt.Errorf("endpoint %s %s: %w", method, pattern, err)
	}

	ep := &Endpoint{Method: method, Pattern: pattern, Kind: kind}

	var exclusive Describer
	for _, part := range parts {
		if consumesBody(part) {
			if exclusive != nil {
				return nil, fmt.Errorf("endpoint %s %s: %w: %T and %T", method, pattern, ErrMultipleExclusive, exclusive, part)
			}
			exclusive = part
		}

		if pb, ok := part.(pathBinder); ok {
			if err = matchTemplate(vars, pb.PathParams()); err != nil {
				return nil, fmt.Errorf("endpoint %s %s: %T: %w", method, pattern, part, err)
			}
		}

		ep.metadata.Parameters = append(ep.metadata.Parameters, part.Metadata(kind).Parameters...)
	}

	if exclusive != nil {
		if _, untyped := exclusive.(*UntypedBodyExtractor); !untyped && kind != contenttype.JSON && kind != contenttype.URLEncoded {
			return nil, fmt.Errorf("endpoint %s %s: %w: %s", method, pattern, ErrBodyKind, kind)
		}
	}

	for _, p := range ep.metadata.Parameters {
		if p.Location != LocationBody {
			continue
		}

		name, s := p.Schema.Resolve()
		compiled, cerr := schema.Compile(name, s)
		if cerr != nil {
			return nil, fmt.Errorf("endpoint %s %s: %w", method, pattern, cerr)
		}
		ep.bodySchema = compiled
	}

	return ep, nil
}

// MustNewEndpoint is like [NewEndpoint] but panics on error.
func MustNewEndpoint(method, pattern string, kind contenttype.Kind, parts ...Describer) *Endpoint {
	ep, err := NewEndpoint(method, pattern, kind, parts...)
	if err != nil {
		panic(err)
	}

	return ep
}

// matchTemplate reports whether bound is exactly the set of template vars.
func matchTemplate(vars, bound []string) error {
	want := slices.Sorted(slices.Values(vars))
	got := slices.Sorted(slices.Values(bound))
	if slices.Equal(want, got) {
		return nil
	}

	var missing, extra []string
	for _, v := range want {
		if !slices.Contains(got, v) {
			missing = append(missing, v)
		}
	}
	for _, b := range got {
		if !slices.Contains(want, b) {
			extra = append(extra, b)
		}
	}

	return fmt.Errorf("%w: unbound [%s], not in template [%s]",
		ErrPathMismatch, strings.Join(missing, ", "), strings.Join(extra, ", "))
}

// Metadata returns the parameters of all registered extractors.
func (e *Endpoint) Metadata() Metadata {
	return Metadata{Parameters: slices.Clone(e.metadata.Parameters)}
}

// ValidateBody checks a JSON document against the compiled body schema.
// Endpoints without a body accept anything.
func (e *Endpoint) ValidateBody(instance []byte) error {
	if e.bodySchema == nil {
		return nil
	}

	return schema.Validate(e.bodySchema, instance)
}

// Context returns a request context for this endpoint: a copy of base with
// the declared body kind and the captured variables.
func (e *Endpoint) Context(base RequestContext, vars VariableSet) *RequestContext {
	base.BodyContentType = e.Kind
	base.Variables = vars

	return &base
}
