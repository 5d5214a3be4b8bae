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
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Static errors for binding operations.
var (
	ErrOutMustBePointer      = errors.New("out must be a pointer to struct")
	ErrOutPointerNil         = errors.New("out pointer is nil")
	ErrUnsupportedType       = errors.New("unsupported type")
	ErrInvalidBooleanValue   = errors.New("invalid boolean value")
	ErrEmptyTimeValue        = errors.New("empty time value")
	ErrUnableToParseTime     = errors.New("unable to parse time")
	ErrInvalidUUIDFormat     = errors.New("invalid UUID format")
	ErrSliceExceedsMaxLength = errors.New("slice exceeds max length")
	ErrMaxDepthExceeded      = errors.New("exceeded maximum nesting depth")
	ErrInvalidOption         = errors.New("invalid binding option")
)

// ErrorKind classifies a [BindError].
type ErrorKind int

const (
	// KindConversion means the value was present but could not be
	// converted to the field's type.
	KindConversion ErrorKind = iota

	// KindMissing means the source did not contain the key at all.
	KindMissing
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	default:
		return "conversion"
	}
}

// BindError represents a binding error with field-level context.
//
// Use [errors.As] to check for BindError:
//
//	var bindErr *BindError
//	if errors.As(err, &bindErr) {
//	    fmt.Printf("param %s (%s): %v\n", bindErr.Param, bindErr.Kind, bindErr.Err)
//	}
type BindError struct {
	Field  string       // Struct field name
	Param  string       // Key looked up in the source (tag value)
	Source Source       // Binding source
	Kind   ErrorKind    // Missing or conversion failure
	Value  string       // The value that failed conversion
	Type   reflect.Type // Expected Go type
	Err    error        // Underlying error
}

// Error returns a formatted error message with contextual hints.
func (e *BindError) Error() string {
	if e.Kind == KindMissing {
		return fmt.Sprintf("missing field: %q", e.Param)
	}

	typeName := "unknown"
	if e.Type != nil {
		typeName = e.Type.String()
	}

	base := fmt.Sprintf("invalid value %q for %q: cannot convert to %s: %v",
		e.Value, e.Param, typeName, e.Err)

	if hint := e.hint(); hint != "" {
		base += " (hint: " + hint + ")"
	}

	return base
}

// Unwrap returns the underlying error.
func (e *BindError) Unwrap() error {
	return e.Err
}

// hint suggests a fix for common conversion mistakes.
func (e *BindError) hint() string {
	if e.Type == nil {
		return ""
	}

	t := e.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch {
	case isIntKind(t.Kind()) && strings.Contains(e.Value, "."):
		return "use float type for decimal values"
	case t == timeType:
		return "use RFC3339 format (2006-01-02T15:04:05Z07:00)"
	case t == uuidType:
		return "expected format xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
	}

	return ""
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

// UnknownFieldError is returned by [JSONTo] under [UnknownError] when the
// body contains a key that no struct field accepts.
type UnknownFieldError struct {
	Field string
}

// Error returns the error message.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}
