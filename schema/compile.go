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

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Compile compiles s with the draft 2020-12 metaschema. name identifies the
// resource in error messages.
//
// Example:
//
//	compiled, err := schema.Compile("CreateUser", schema.For[CreateUser]())
//	if err != nil {
//	    return err
//	}
//	err = schema.Validate(compiled, body)
func Compile(name string, s *Schema) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", name, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	if name == "" {
		name = "anonymous"
	}
	url := "mem://schema/" + sanitize(name) + ".json"

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)

	if err = c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", name, err)
	}

	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}

	return compiled, nil
}

// Validate checks a JSON instance against a compiled schema. A failed check
// returns the library's *jsonschema.ValidationError.
func Validate(compiled *jsonschema.Schema, instance []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(instance))
	if err != nil {
		return fmt.Errorf("parse instance: %w", err)
	}

	return compiled.Validate(inst)
}
