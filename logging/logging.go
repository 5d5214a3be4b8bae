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

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// HandlerType selects the slog handler.
type HandlerType string

const (
	// JSONHandler writes one JSON object per record.
	JSONHandler HandlerType = "json"

	// TextHandler writes key=value records.
	TextHandler HandlerType = "text"
)

// Level is an alias for slog.Level.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

const redacted = "***REDACTED***"

// Option configures logger construction.
type Option func(*config)

type config struct {
	handlerType    HandlerType
	output         io.Writer
	level          Level
	addSource      bool
	serviceName    string
	serviceVersion string
	replaceAttr    func(groups []string, a slog.Attr) slog.Attr
}

func defaultConfig() *config {
	return &config{
		handlerType: JSONHandler,
		output:      os.Stdout,
		level:       LevelInfo,
	}
}

func (c *config) validate() error {
	if c.output == nil {
		return ErrNilOutput
	}
	switch c.handlerType {
	case JSONHandler, TextHandler:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidHandler, c.handlerType)
	}

	return nil
}

// New builds a logger from options.
func New(opts ...Option) (*slog.Logger, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	hopts := &slog.HandlerOptions{
		Level:       c.level,
		AddSource:   c.addSource,
		ReplaceAttr: c.buildReplaceAttr(),
	}

	var handler slog.Handler
	if c.handlerType == TextHandler {
		handler = slog.NewTextHandler(c.output, hopts)
	} else {
		handler = slog.NewJSONHandler(c.output, hopts)
	}

	logger := slog.New(handler)
	if c.serviceName != "" {
		logger = logger.With("service", c.serviceName)
	}
	if c.serviceVersion != "" {
		logger = logger.With("version", c.serviceVersion)
	}

	return logger, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *slog.Logger {
	logger, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("logging.MustNew: %v", err))
	}

	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func (c *config) buildReplaceAttr() func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		switch strings.ToLower(a.Key) {
		case "password", "token", "secret", "api_key", "authorization":
			return slog.String(a.Key, redacted)
		}
		if c.replaceAttr != nil {
			return c.replaceAttr(groups, a)
		}

		return a
	}
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" (any case)
// to a [Level].
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// ParseHandlerType maps "json" and "text" (any case) to a [HandlerType].
func ParseHandlerType(s string) (HandlerType, error) {
	switch t := HandlerType(strings.ToLower(strings.TrimSpace(s))); t {
	case JSONHandler, TextHandler:
		return t, nil
	case "":
		return JSONHandler, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidHandler, s)
	}
}
