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
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// setField sets a single struct field from a string, allocating pointers.
func setField(field reflect.Value, value string, cfg *config) error {
	if field.Kind() == reflect.Pointer {
		if _, ok := cfg.converters[field.Type()]; !ok {
			ptr := reflect.New(field.Type().Elem())
			if err := setFieldValue(ptr.Elem(), value, cfg); err != nil {
				return err
			}
			field.Set(ptr)

			return nil
		}
	}

	return setFieldValue(field, value, cfg)
}

// setFieldValue converts value into field. Custom converters win, then the
// special types, then encoding.TextUnmarshaler, then primitive kinds.
func setFieldValue(field reflect.Value, value string, cfg *config) error {
	fieldType := field.Type()

	if converter, ok := cfg.converters[fieldType]; ok {
		converted, err := converter(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(converted))

		return nil
	}

	switch fieldType {
	case timeType:
		t, err := parseTime(value, cfg.timeLayouts)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(t))

		return nil

	case durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))

		return nil

	case uuidType:
		u, err := uuid.Parse(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUUIDFormat, err)
		}
		field.Set(reflect.ValueOf(u))

		return nil
	}

	if field.CanAddr() && field.Addr().Type().Implements(textUnmarshalerType) {
		u, ok := field.Addr().Interface().(encoding.TextUnmarshaler)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedType, fieldType)
		}

		return u.UnmarshalText([]byte(value))
	}

	switch fieldType.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %w", err)
		}
		field.SetUint(u)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid float: %w", err)
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		if fieldType.Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("%w: %s", ErrUnsupportedType, fieldType)
		}
		field.SetBytes([]byte(value))

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, fieldType)
	}

	return nil
}

// setSliceField binds repeated values into a slice field.
func setSliceField(field reflect.Value, values []string, cfg *config) error {
	if len(values) > cfg.maxSliceLen {
		return fmt.Errorf("%w: %d > %d", ErrSliceExceedsMaxLength, len(values), cfg.maxSliceLen)
	}

	slice := reflect.MakeSlice(field.Type(), len(values), len(values))
	for i, v := range values {
		if err := setField(slice.Index(i), v, cfg); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	field.Set(slice)

	return nil
}

// parseBool accepts true/false, 1/0, yes/no, on/off, t/f, y/n in any case.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on", "t", "y":
		return true, nil
	case "false", "0", "no", "off", "f", "n":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidBooleanValue, value)
	}
}

// parseTime tries each layout in order.
func parseTime(value string, layouts []string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmptyTimeValue
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnableToParseTime, value)
}
