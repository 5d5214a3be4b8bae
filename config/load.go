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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
)

// DefaultEnvPrefix is the environment prefix used when none is configured.
const DefaultEnvPrefix = "EXTRACT_"

// Option configures [Load].
type Option func(*loader)

type loader struct {
	file      string
	envPrefix string
	environ   func() []string
	overrides map[string]any
}

// WithFile reads settings from path. The format follows the extension.
func WithFile(path string) Option {
	return func(l *loader) { l.file = path }
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) { l.envPrefix = prefix }
}

// WithEnviron replaces os.Environ as the environment source.
func WithEnviron(fn func() []string) Option {
	return func(l *loader) { l.environ = fn }
}

// WithValues applies nested key/value overrides after all other layers.
//
// Example:
//
//	config.WithValues(map[string]any{"server": map[string]any{"addr": ":9090"}})
func WithValues(values map[string]any) Option {
	return func(l *loader) { l.overrides = values }
}

// Load assembles and validates a [Config].
func Load(ctx context.Context, opts ...Option) (*Config, error) {
	l := &loader{envPrefix: DefaultEnvPrefix, environ: os.Environ}
	for _, opt := range opts {
		opt(l)
	}

	merged := map[string]any{}

	if l.file != "" {
		values, err := readFile(l.file)
		if err != nil {
			return nil, err
		}
		if err = mergo.Merge(&merged, values, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge %s: %w", l.file, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := mergo.Merge(&merged, envValues(l.envPrefix, l.environ()), mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merge environment: %w", err)
	}

	if l.overrides != nil {
		if err := mergo.Merge(&merged, normalizeKeys(l.overrides), mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge overrides: %w", err)
		}
	}

	var cfg Config
	if err := decode(merged, &cfg); err != nil {
		return nil, err
	}

	defaults := Defaults()
	if err := mergo.Merge(&cfg, defaults); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readFile decodes a configuration file into a lower-cased nested map.
func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	values := map[string]any{}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &values)
	case ".toml":
		err = toml.Unmarshal(data, &values)
	case ".json":
		err = json.Unmarshal(data, &values)
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return normalizeKeys(values), nil
}

// envValues maps PREFIX_SECTION_KEY=value to {"section": {"key": value}}.
func envValues(prefix string, environ []string) map[string]any {
	out := map[string]any{}

	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}

		section, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, prefix)), "_")
		if !ok || section == "" || key == "" {
			continue
		}

		m, _ := out[section].(map[string]any)
		if m == nil {
			m = map[string]any{}
			out[section] = m
		}
		m[key] = strings.TrimSpace(value)
	}

	return out
}

// normalizeKeys lower-cases keys recursively so file and env layers merge.
func normalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = normalizeValue(v)
	}

	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeKeys(t)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = val
		}

		return normalizeKeys(m)
	default:
		return v
	}
}

func decode(input map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			byteSizeHook(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}

	if err = dec.Decode(input); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}
