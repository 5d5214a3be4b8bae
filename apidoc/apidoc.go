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

// Package apidoc assembles an OpenAPI 3.1 document from registered
// endpoints.
//
// Body schemas are generated only when [Builder.Build] runs. Named types
// and their nested definitions are hoisted into components.schemas and
// every "#/$defs/" reference is rewritten to point there.
//
//	doc, err := apidoc.New("Orders", "1.0.0").Add(createOrder, getOrder).Build()
//	if err != nil {
//	    return err
//	}
//	raw, _ := doc.JSON()
package apidoc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"rivaas.dev/extract"
	"rivaas.dev/extract/schema"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.1.0"

const componentsPrefix = "#/components/schemas/"

// Document is an OpenAPI document.
type Document struct {
	OpenAPI    string               `json:"openapi" yaml:"openapi"`
	Info       Info                 `json:"info" yaml:"info"`
	Paths      map[string]*PathItem `json:"paths" yaml:"paths"`
	Components *Components          `json:"components,omitempty" yaml:"components,omitempty"`
}

// Info describes the API.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem maps lower-case HTTP methods to operations.
type PathItem map[string]*Operation

// Operation is one method on one path.
type Operation struct {
	Parameters  []Parameter          `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody         `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]*Response `json:"responses" yaml:"responses"`
}

// Parameter is a non-body operation input.
type Parameter struct {
	Name     string         `json:"name" yaml:"name"`
	In       string         `json:"in" yaml:"in"`
	Required bool           `json:"required" yaml:"required"`
	Schema   *schema.Schema `json:"schema" yaml:"schema"`
}

// RequestBody documents the request body.
type RequestBody struct {
	Required bool                 `json:"required" yaml:"required"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

// MediaType binds a schema to a content type.
type MediaType struct {
	Schema *schema.Schema `json:"schema" yaml:"schema"`
}

// Response documents one response status.
type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// Components holds shared schemas.
type Components struct {
	Schemas map[string]*schema.Schema `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// Option configures a [Builder].
type Option func(*Builder)

// WithDescription sets info.description.
func WithDescription(desc string) Option {
	return func(b *Builder) { b.info.Description = desc }
}

// WithProblemResponses documents a 400 application/problem+json response
// on every operation that reads input.
func WithProblemResponses() Option {
	return func(b *Builder) { b.problems = true }
}

// Builder collects endpoints. It is not safe for concurrent use.
type Builder struct {
	info      Info
	problems  bool
	endpoints []*extract.Endpoint
}

// New creates a builder for an API.
func New(title, version string, opts ...Option) *Builder {
	b := &Builder{info: Info{Title: title, Version: version}}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Add registers endpoints.
func (b *Builder) Add(eps ...*extract.Endpoint) *Builder {
	b.endpoints = append(b.endpoints, eps...)
	return b
}

// Build generates the document.
func (b *Builder) Build() (*Document, error) {
	doc := &Document{
		OpenAPI: Version,
		Info:    b.info,
		Paths:   map[string]*PathItem{},
	}
	components := map[string]*schema.Schema{}

	for _, ep := range b.endpoints {
		path := openAPIPath(ep.Pattern)
		method := strings.ToLower(ep.Method)

		item := doc.Paths[path]
		if item == nil {
			item = &PathItem{}
			doc.Paths[path] = item
		}
		if _, dup := (*item)[method]; dup {
			return nil, fmt.Errorf("apidoc: duplicate operation %s %s", ep.Method, path)
		}

		op := &Operation{Responses: map[string]*Response{
			"200": {Description: http.StatusText(http.StatusOK)},
		}}

		for _, p := range ep.Metadata().Parameters {
			name, s := p.Schema.Resolve()
			s = hoist(name, cloneSchema(s), components)

			switch p.Location {
			case extract.LocationBody:
				op.RequestBody = &RequestBody{
					Required: p.Required,
					Content:  map[string]MediaType{p.ContentType: {Schema: s}},
				}
			default:
				op.Parameters = append(op.Parameters, Parameter{
					Name:     p.Name,
					In:       string(p.Location),
					Required: p.Required,
					Schema:   s,
				})
			}
		}

		if b.problems && (op.RequestBody != nil || len(op.Parameters) > 0) {
			op.Responses["400"] = &Response{
				Description: http.StatusText(http.StatusBadRequest),
				Content: map[string]MediaType{
					"application/problem+json": {Schema: problemSchema()},
				},
			}
		}

		(*item)[method] = op
	}

	if len(components) > 0 {
		doc.Components = &Components{Schemas: components}
	}

	return doc, nil
}

// JSON returns the indented JSON encoding of the document.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML returns the YAML encoding of the document.
func (d *Document) YAML() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("apidoc: marshal YAML: %w", err)
	}

	return out, nil
}

// Handler serves the document as JSON, or as YAML when the request path
// ends in ".yaml".
func (d *Document) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encode, contentType := d.JSON, "application/json"
		if strings.HasSuffix(r.URL.Path, ".yaml") {
			encode, contentType = d.YAML, "application/yaml"
		}

		raw, err := encode()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(raw)
	})
}

// hoist moves s's definitions, and s itself when named, into components and
// returns the schema to embed in the operation.
func hoist(name string, s *schema.Schema, components map[string]*schema.Schema) *schema.Schema {
	defs := s.Defs
	s.Defs = nil

	rewrite := func(sub *schema.Schema) {
		if ref, ok := strings.CutPrefix(sub.Ref, schema.DefsPrefix); ok {
			sub.Ref = componentsPrefix + ref
		}
	}

	for defName, def := range defs {
		def.Walk(rewrite)
		if _, exists := components[defName]; !exists {
			components[defName] = def
		}
	}
	s.Walk(rewrite)

	if name == "" {
		return s
	}
	if _, exists := components[name]; !exists {
		components[name] = s
	}

	return &schema.Schema{Ref: componentsPrefix + name}
}

// cloneSchema deep-copies the schema tree so hoisting never mutates a
// schema shared with the endpoint.
func cloneSchema(s *schema.Schema) *schema.Schema {
	if s == nil {
		return nil
	}

	c := *s
	c.Items = cloneSchema(s.Items)
	c.AdditionalProperties = cloneSchema(s.AdditionalProperties)
	c.Properties = cloneMap(s.Properties)
	c.Defs = cloneMap(s.Defs)

	return &c
}

func cloneMap(m map[string]*schema.Schema) map[string]*schema.Schema {
	if m == nil {
		return nil
	}

	out := make(map[string]*schema.Schema, len(m))
	for k, v := range m {
		out[k] = cloneSchema(v)
	}

	return out
}

// problemSchema describes an RFC 9457 problem document.
func problemSchema() *schema.Schema {
	str := &schema.Schema{Type: "string"}

	return &schema.Schema{
		Type: "object",
		Properties: map[string]*schema.Schema{
			"type":     str,
			"title":    str,
			"status":   {Type: "integer"},
			"detail":   str,
			"instance": str,
			"code":     str,
			"error_id": str,
		},
		Required: []string{"type", "title", "status"},
	}
}

// openAPIPath rewrites router variables ("{id:[0-9]+}", "{rest...}") into
// plain OpenAPI templates ("{id}", "{rest}").
func openAPIPath(pattern string) string {
	var sb strings.Builder
	depth := 0
	var name strings.Builder

	for _, r := range pattern {
		switch {
		case r == '{':
			if depth == 0 {
				name.Reset()
			} else {
				name.WriteRune(r)
			}
			depth++
		case r == '}' && depth > 0:
			depth--
			if depth > 0 {
				name.WriteRune(r)
				continue
			}
			v, _, _ := strings.Cut(name.String(), ":")
			sb.WriteString("{" + strings.TrimSuffix(v, "...") + "}")
		case depth > 0:
			name.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
