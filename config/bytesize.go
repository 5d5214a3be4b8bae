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

package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/docker/go-units"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

var byteSizeType = reflect.TypeFor[ByteSize]()

// byteSizeHook decodes "1MiB"-style strings and plain numbers into ByteSize.
func byteSizeHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != byteSizeType {
			return data, nil
		}

		return ParseByteSize(data)
	}
}

// ParseByteSize converts an integer or a size string into a ByteSize.
func ParseByteSize(v any) (ByteSize, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		n, err := units.RAMInBytes(s)
		if err != nil {
			return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
		}

		return ByteSize(n), nil
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %v: %w", v, err)
	}

	return ByteSize(n), nil
}

// String formats the size with binary units.
func (b ByteSize) String() string {
	return units.BytesSize(float64(b))
}
