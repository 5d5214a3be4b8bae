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

// bodyError mimics the extraction errors: it can carry a status, a code
// and details independently.
type bodyError struct {
	message string
	code    string
	status  int
	details any
}

func (e *bodyError) Error() string { return e.message }

// codedError has a code but no status.
type codedError struct {
	message string
	code    string
}

func (e *codedError) Error() string { return e.message }
func (e *codedError) Code() string  { return e.code }

func (e *bodyError) Code() string    { return e.code }
func (e *bodyError) HTTPStatus() int { return e.status }
func (e *bodyError) Details() any    { return e.details }
