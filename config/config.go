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
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rivaas.dev/extract/logging"
	"rivaas.dev/extract/telemetry"
)

// ErrInvalid is wrapped by every error returned from [Config.Validate].
var ErrInvalid = errors.New("invalid configuration")

// ByteSize is a size in bytes. It decodes from integers and from strings
// with binary units.
type ByteSize int64

// Common sizes.
const (
	KiB ByteSize = 1 << 10
	MiB ByteSize = 1 << 20
)

// Config is the complete server configuration.
type Config struct {
	Server    Server    `config:"server"`
	Log       Log       `config:"log"`
	Telemetry Telemetry `config:"telemetry"`
}

// Server holds HTTP server and extraction limits.
type Server struct {
	Addr                string        `config:"addr"`
	ReadTimeout         time.Duration `config:"read_timeout"`
	RequestBodyMaxBytes ByteSize      `config:"request_body_max_bytes"`
}

// Log selects the logger handler and level.
type Log struct {
	Level  string `config:"level"`
	Format string `config:"format"`
}

// Telemetry configures tracing and metrics.
type Telemetry struct {
	ServiceName string `config:"service_name"`
	Exporter    string `config:"exporter"` // none, prometheus, otlp or stdout
	Endpoint    string `config:"endpoint"` // OTLP collector, "host:port" or URL
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:                ":8080",
			ReadTimeout:         10 * time.Second,
			RequestBodyMaxBytes: MiB,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		Telemetry: Telemetry{
			ServiceName: "extract",
			Exporter:    string(telemetry.ExporterPrometheus),
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.RequestBodyMaxBytes <= 0 {
		return fmt.Errorf("%w: server.request_body_max_bytes must be positive, got %d",
			ErrInvalid, c.Server.RequestBodyMaxBytes)
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("%w: server.read_timeout must not be negative, got %s", ErrInvalid, c.Server.ReadTimeout)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	if _, err := logging.ParseHandlerType(c.Log.Format); err != nil {
		return fmt.Errorf("%w: log.format: %w", ErrInvalid, err)
	}
	if c.Telemetry.ServiceName == "" {
		return fmt.Errorf("%w: telemetry.service_name must not be empty", ErrInvalid)
	}
	if _, err := telemetry.ParseExporter(c.Telemetry.Exporter); err != nil {
		return fmt.Errorf("%w: telemetry.exporter: %w", ErrInvalid, err)
	}

	return nil
}

// normalize lower-cases the enumerated settings so "DEBUG" and "debug"
// load the same.
func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Telemetry.Exporter = strings.ToLower(strings.TrimSpace(c.Telemetry.Exporter))
}

// TelemetryOptions translates the Telemetry section into recorder options.
func (c *Config) TelemetryOptions() ([]telemetry.Option, error) {
	exporter, err := telemetry.ParseExporter(c.Telemetry.Exporter)
	if err != nil {
		return nil, err
	}

	opts := []telemetry.Option{telemetry.WithServiceName(c.Telemetry.ServiceName)}
	switch exporter {
	case telemetry.ExporterOTLP:
		opts = append(opts, telemetry.WithOTLP(c.Telemetry.Endpoint))
	default:
		opts = append(opts, telemetry.WithExporter(exporter))
	}

	return opts, nil
}

// Logger builds the logger described by the Log section.
func (c *Config) Logger(opts ...logging.Option) (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseHandlerType(c.Log.Format)
	if err != nil {
		return nil, err
	}

	base := []logging.Option{
		logging.WithLevel(level),
		logging.WithHandlerType(format),
		logging.WithServiceName(c.Telemetry.ServiceName),
	}

	return logging.New(append(base, opts...)...)
}
