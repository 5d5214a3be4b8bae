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

package errors

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimple_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    any
		wantDetails bool
	}{
		{name: "plain error", err: stderrors.New("boom"), wantStatus: http.StatusInternalServerError},
		{
			name:       "mismatch",
			err:        &bodyError{message: "expected content type", code: "content_type_mismatch", status: http.StatusBadRequest},
			wantStatus: http.StatusBadRequest,
			wantCode:   "content_type_mismatch",
		},
		{
			name: "with details",
			err: &bodyError{
				message: "bad", code: "validation_error", status: http.StatusBadRequest,
				details: map[string]string{"name": "required"},
			},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "validation_error",
			wantDetails: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := NewSimple().Format(httptest.NewRequest(http.MethodPost, "/", nil), tt.err)
			assert.Equal(t, tt.wantStatus, resp.Status)

			body, ok := resp.Body.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.err.Error(), body["error"])
			assert.Equal(t, tt.wantCode, body["code"])
			if tt.wantDetails {
				assert.Contains(t, body, "details")
			} else {
				assert.NotContains(t, body, "details")
			}
		})
	}
}

func TestSimple_StatusResolver(t *testing.T) {
	t.Parallel()

	f := &Simple{StatusResolver: func(error) int { return http.StatusUnprocessableEntity }}
	resp := f.Format(nil, &bodyError{message: "x", status: http.StatusBadRequest})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
}
