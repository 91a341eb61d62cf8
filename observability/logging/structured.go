// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package logging

import (
	"context"
	"io"
	"math/rand"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StructuredLogger is a JSON structured logger backed by a zapcore.Core.
// It implements Logger on top of zap's field encoding rather than a
// hand-rolled JSON writer, so every sideband log line shares the
// allocation-light encoding zap uses elsewhere in the ecosystem.
type StructuredLogger struct {
	level        Level
	core         zapcore.Core
	fields       []zap.Field
	samplingRate float64
	mu           sync.Mutex
}

// NewStructuredLogger creates a new structured logger writing to stdout.
func NewStructuredLogger(level Level) *StructuredLogger {
	return NewStructuredLoggerWithOutput(level, os.Stdout)
}

// NewStructuredLoggerWithOutput creates a logger with custom output.
func NewStructuredLoggerWithOutput(level Level, output io.Writer) *StructuredLogger {
	return &StructuredLogger{
		level:        level,
		core:         newZapCore(output),
		samplingRate: 1.0, // No sampling by default
	}
}

// newZapCore builds a core that always accepts entries; StructuredLogger
// does its own level and sampling gating before writing, so the core's
// own level enabler stays wide open.
func newZapCore(output io.Writer) zapcore.Core {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.UTC().Format(time.RFC3339Nano))
		},
	}
	return zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(zapcore.AddSync(output)), zapcore.DebugLevel)
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields ...Field) []zap.Field {
	zfs := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zfs = append(zfs, zap.Any(f.Key, f.Value))
	}
	return zfs
}

// Debug logs a debug message.
func (l *StructuredLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	if !l.shouldLog(LevelDebug) {
		return
	}

	// Apply sampling for debug logs
	if l.level == LevelDebug && l.samplingRate < 1.0 {
		if rand.Float64() > l.samplingRate {
			return
		}
	}

	l.log(ctx, LevelDebug, msg, fields...)
}

// Info logs an informational message.
func (l *StructuredLogger) Info(ctx context.Context, msg string, fields ...Field) {
	if !l.shouldLog(LevelInfo) {
		return
	}
	l.log(ctx, LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *StructuredLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	if !l.shouldLog(LevelWarn) {
		return
	}
	l.log(ctx, LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *StructuredLogger) Error(ctx context.Context, msg string, fields ...Field) {
	if !l.shouldLog(LevelError) {
		return
	}
	l.log(ctx, LevelError, msg, fields...)
}

// Fatal logs a fatal message and exits.
func (l *StructuredLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelFatal, msg, fields...)
	os.Exit(1)
}

// With creates a child logger with persistent fields.
func (l *StructuredLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	zfs := toZapFields(fields...)
	newFields := make([]zap.Field, len(l.fields)+len(zfs))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], zfs)

	return &StructuredLogger{
		level:        l.level,
		core:         l.core,
		fields:       newFields,
		samplingRate: l.samplingRate,
	}
}

// SetLevel sets the minimum log level.
func (l *StructuredLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetSamplingRate sets the sampling rate for debug logs.
func (l *StructuredLogger) SetSamplingRate(rate float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rate < 0.0 {
		rate = 0.0
	}
	if rate > 1.0 {
		rate = 1.0
	}

	l.samplingRate = rate
}

// shouldLog checks if a message should be logged based on level.
func (l *StructuredLogger) shouldLog(level Level) bool {
	return levelPriority(level) >= levelPriority(l.level)
}

// log builds the zap entry and writes it through the core.
func (l *StructuredLogger) log(ctx context.Context, level Level, msg string, fields ...Field) {
	all := make([]zap.Field, 0, len(l.fields)+len(fields)+5)
	all = append(all, l.fields...)
	all = append(all, toZapFields(extractContextFields(ctx)...)...)
	all = append(all, toZapFields(fields...)...)

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := zapcore.Entry{Level: toZapLevel(level), Time: time.Now(), Message: msg}
	if err := l.core.Write(entry, all); err != nil {
		// The core's own WriteSyncer failed; there is no further sideband
		// to report this on, so drop it rather than risk recursing into
		// the protocol stream.
		_ = err
	}
}
