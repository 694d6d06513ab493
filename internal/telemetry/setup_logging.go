// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package telemetry sets up the observability of the dashboard service:
// structured logging compatible with Google Cloud Logging, and the
// OpenTelemetry trace and metric providers.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/jaycherian/linkpreview-dashboard/internal/config"
	"go.opentelemetry.io/otel/trace"
)

// spanContextLogHandler injects the trace and span ids of the context's span
// into every record, under the keys Cloud Logging correlates on.
type spanContextLogHandler struct {
	slog.Handler
}

func handlerWithSpanContext(handler slog.Handler) *spanContextLogHandler {
	return &spanContextLogHandler{Handler: handler}
}

func (t *spanContextLogHandler) Handle(ctx context.Context, record slog.Record) error {
	// See: https://cloud.google.com/logging/docs/structured-logging#special-payload-fields
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(
			slog.Any("logging.googleapis.com/trace", s.TraceID()),
			slog.Any("logging.googleapis.com/spanId", s.SpanID()),
			slog.Bool("logging.googleapis.com/trace_sampled", s.TraceFlags().IsSampled()),
		)
	}
	return t.Handler.Handle(ctx, record)
}

func (t *spanContextLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return handlerWithSpanContext(t.Handler.WithAttrs(attrs))
}

func (t *spanContextLogHandler) WithGroup(name string) slog.Handler {
	return handlerWithSpanContext(t.Handler.WithGroup(name))
}

// replacer renames the slog keys to the ones Cloud Logging expects.
func replacer(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		a.Key = "severity"
		// https://cloud.google.com/logging/docs/reference/v2/rest/v2/LogEntry#LogSeverity
		if level, ok := a.Value.Any().(slog.Level); ok && level == slog.LevelWarn {
			a.Value = slog.StringValue("WARNING")
		}
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

// NewLogger builds the JSON, trace-correlated logger writing to w.
//
// Inputs:
//   - w: The destination of the JSON records.
//   - level: The minimum level written.
//
// Outputs:
//   - *slog.Logger: A logger using Cloud Logging keys and injecting the
//     trace and span ids of the context it is called with.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: replacer})
	return slog.New(handlerWithSpanContext(jsonHandler))
}

// SetupLogging installs the application logger as the slog default and points
// the standard log package at the same writers. Output goes to stdout and, if
// app.LogFile is set, to that file as well.
//
// Inputs:
//   - app: The application section of the configuration; LogFile and Debug
//     are read.
//
// Returns:
//   - closeFn: Closes the log file, if one was opened. Defer it in main.
//   - err: An error if the log file cannot be opened.
func SetupLogging(app config.Application) (closeFn func() error, err error) {
	writers := []io.Writer{os.Stdout}
	closeFn = func() error { return nil }

	if app.LogFile != "" {
		file, err := os.Create(app.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file %s: %w", app.LogFile, err)
		}
		writers = append(writers, file)
		closeFn = file.Close
	}
	multiWriter := io.MultiWriter(writers...)

	log.SetOutput(multiWriter)
	log.SetPrefix("[INFO] ")
	log.SetFlags(log.Ldate | log.Ltime)

	level := slog.LevelInfo
	if app.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(NewLogger(multiWriter, level))
	return closeFn, nil
}
