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

package apidoc_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"rivaas.dev/extract"
	"rivaas.dev/extract/apidoc"
	"rivaas.dev/extract/contenttype"
)

type Address struct {
	City string `json:"city" validate:"required"`
}

type CreateOrder struct {
	SKU      string   `json:"sku" validate:"required"`
	Quantity int      `json:"quantity" validate:"gte=1"`
	Ship     Address  `json:"ship"`
	Bill     *Address `json:"bill,omitempty"`
}

type Category struct {
	Name     string     `json:"name"`
	Children []Category `json:"children"`
}

type OrderPath struct {
	Store string `path:"store"`
	ID    int64  `path:"id"`
}

var _ = Describe("Builder", func() {
	var (
		create *extract.Endpoint
		get    *extract.Endpoint
		upload *extract.Endpoint
	)

	BeforeEach(func() {
		create = extract.MustNewEndpoint(http.MethodPost, "/stores/{store}/orders/{id:[0-9]+}", contenttype.JSON,
			extract.MustNewTypedBody[CreateOrder](),
			extract.MustNewPathExtractor[OrderPath](),
		)
		get = extract.MustNewEndpoint(http.MethodGet, "/stores/{store}/orders/{id:[0-9]+}", contenttype.JSON,
			extract.MustNewPathExtractor[OrderPath](),
		)
		upload = extract.MustNewEndpoint(http.MethodPut, "/blobs", contenttype.Bytes,
			extract.NewUntypedBodyExtractor(),
		)
	})

	Describe("Build", func() {
		It("documents paths, parameters and bodies", func() {
			doc, err := apidoc.New("Orders", "1.2.3", apidoc.WithDescription("order API")).
				Add(create, get, upload).
				Build()
			Expect(err).NotTo(HaveOccurred())

			Expect(doc.OpenAPI).To(Equal(apidoc.Version))
			Expect(doc.Info.Description).To(Equal("order API"))
			Expect(doc.Paths).To(HaveKey("/stores/{store}/orders/{id}"))
			Expect(doc.Paths).To(HaveKey("/blobs"))

			item := *doc.Paths["/stores/{store}/orders/{id}"]
			Expect(item).To(HaveKey("post"))
			Expect(item).To(HaveKey("get"))

			post := item["post"]
			Expect(post.Parameters).To(HaveLen(2))
			Expect(post.Parameters[0].In).To(Equal("path"))
			Expect(post.Parameters[1].Schema.Type).To(Equal("integer"))

			Expect(post.RequestBody).NotTo(BeNil())
			Expect(post.RequestBody.Required).To(BeTrue())
			Expect(post.RequestBody.Content).To(HaveKey(contenttype.MIMEJSON))
			Expect(post.RequestBody.Content[contenttype.MIMEJSON].Schema.Ref).
				To(Equal("#/components/schemas/apidoc_test.CreateOrder"))

			blob := (*doc.Paths["/blobs"])["put"]
			media := blob.RequestBody.Content[contenttype.MIMEOctetStream]
			Expect(media.Schema.Format).To(Equal("binary"))
		})

		It("hoists nested definitions into components", func() {
			doc, err := apidoc.New("Orders", "1").Add(create).Build()
			Expect(err).NotTo(HaveOccurred())

			Expect(doc.Components).NotTo(BeNil())
			schemas := doc.Components.Schemas
			Expect(schemas).To(HaveKey("apidoc_test.CreateOrder"))
			Expect(schemas).To(HaveKey("apidoc_test.Address"))

			order := schemas["apidoc_test.CreateOrder"]
			Expect(order.Defs).To(BeEmpty())
			Expect(order.Required).To(ConsistOf("sku"))
			Expect(order.Properties["ship"].Ref).To(Equal("#/components/schemas/apidoc_test.Address"))
			Expect(order.Properties["bill"].Ref).To(Equal("#/components/schemas/apidoc_test.Address"))

			raw, err := doc.JSON()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).NotTo(ContainSubstring("#/$defs/"))
		})

		It("keeps recursive types resolvable", func() {
			ep := extract.MustNewEndpoint(http.MethodPost, "/categories", contenttype.JSON,
				extract.MustNewTypedBody[Category]())

			doc, err := apidoc.New("Catalog", "1").Add(ep).Build()
			Expect(err).NotTo(HaveOccurred())

			category := doc.Components.Schemas["apidoc_test.Category"]
			Expect(category).NotTo(BeNil())
			Expect(category.Properties["children"].Items.Ref).
				To(Equal("#/components/schemas/apidoc_test.Category"))
		})

		It("adds problem responses when asked", func() {
			doc, err := apidoc.New("Orders", "1", apidoc.WithProblemResponses()).Add(create).Build()
			Expect(err).NotTo(HaveOccurred())

			post := (*doc.Paths["/stores/{store}/orders/{id}"])["post"]
			Expect(post.Responses).To(HaveKey("200"))
			Expect(post.Responses).To(HaveKey("400"))
			Expect(post.Responses["400"].Content).To(HaveKey("application/problem+json"))
		})

		It("rejects duplicate operations", func() {
			_, err := apidoc.New("Orders", "1").Add(get, get).Build()
			Expect(err).To(MatchError(ContainSubstring("duplicate operation")))
		})

		It("does not mutate endpoint metadata", func() {
			_, err := apidoc.New("Orders", "1").Add(create).Build()
			Expect(err).NotTo(HaveOccurred())

			_, s := create.Metadata().Parameters[0].Schema.Resolve()
			Expect(s.Properties["ship"].Ref).To(HavePrefix("#/$defs/"))
		})
	})

	Describe("Export", func() {
		var doc *apidoc.Document

		BeforeEach(func() {
			var err error
			doc, err = apidoc.New("Orders", "1").Add(create, upload).Build()
			Expect(err).NotTo(HaveOccurred())
		})

		It("encodes JSON", func() {
			raw, err := doc.JSON()
			Expect(err).NotTo(HaveOccurred())

			var decoded map[string]any
			Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
			Expect(decoded["openapi"]).To(Equal("3.1.0"))
			Expect(decoded).To(HaveKey("components"))
		})

		It("encodes YAML with the same content", func() {
			raw, err := doc.YAML()
			Expect(err).NotTo(HaveOccurred())

			var decoded map[string]any
			Expect(yaml.Unmarshal(raw, &decoded)).To(Succeed())
			Expect(decoded["openapi"]).To(Equal("3.1.0"))

			paths, ok := decoded["paths"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(paths).To(HaveKey("/blobs"))
		})

		DescribeTable("serves over HTTP",
			func(path, contentType string) {
				rec := httptest.NewRecorder()
				doc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

				Expect(rec.Code).To(Equal(http.StatusOK))
				Expect(rec.Header().Get("Content-Type")).To(Equal(contentType))
				Expect(rec.Body.String()).To(ContainSubstring("Orders"))
			},
			Entry("json", "/openapi.json", "application/json"),
			Entry("yaml", "/openapi.yaml", "application/yaml"),
		)
	})
})
