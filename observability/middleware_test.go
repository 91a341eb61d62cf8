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

package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agrama-db/agrama/observability/logging"
	"github.com/agrama-db/agrama/observability/metrics"
)

func TestNewMiddleware(t *testing.T) {
	logger := logging.NewStructuredLogger(logging.LevelInfo)
	collector := metrics.NewPrometheusCollector()
	engineMetrics := metrics.NewEngineMetrics(collector)

	middleware := NewMiddleware(logger, engineMetrics)

	if middleware == nil {
		t.Fatal("expected non-nil middleware")
	}
}

func TestMiddleware_Handler_Success(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLoggerWithOutput(logging.LevelInfo, &buf)

	collector := metrics.NewPrometheusCollector()
	engineMetrics := metrics.NewEngineMetrics(collector)
	middleware := NewMiddleware(logger, engineMetrics)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	wrapped := middleware.Handler(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "test-request-123")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if buf.Len() == 0 {
		t.Error("expected logs to be written")
	}

	metricsReq := httptest.NewRequest("GET", "/metrics", nil)
	metricsRec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(metricsRec, metricsReq)
	if !strings.Contains(metricsRec.Body.String(), metrics.MetricHTTPRequests) {
		t.Error("expected HTTP request metric to be recorded")
	}
}

func TestMiddleware_Handler_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLoggerWithOutput(logging.LevelInfo, &buf)

	collector := metrics.NewPrometheusCollector()
	engineMetrics := metrics.NewEngineMetrics(collector)
	middleware := NewMiddleware(logger, engineMetrics)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("error"))
	})

	wrapped := middleware.Handler(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if buf.Len() == 0 {
		t.Error("expected error logs to be written")
	}
}

func TestMiddleware_Handler_ClientError(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLoggerWithOutput(logging.LevelInfo, &buf)

	collector := metrics.NewPrometheusCollector()
	engineMetrics := metrics.NewEngineMetrics(collector)
	middleware := NewMiddleware(logger, engineMetrics)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad request"))
	})

	wrapped := middleware.Handler(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestMiddleware_HandlerFunc(t *testing.T) {
	logger := logging.NewStructuredLogger(logging.LevelInfo)
	collector := metrics.NewPrometheusCollector()
	engineMetrics := metrics.NewEngineMetrics(collector)
	middleware := NewMiddleware(logger, engineMetrics)

	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}

	wrapped := middleware.HandlerFunc(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	wrapped(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got '%s'", rec.Body.String())
	}
}

func TestResponseWriter_WriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{
		ResponseWriter: rec,
		statusCode:     http.StatusOK,
	}

	rw.WriteHeader(http.StatusCreated)

	if rw.statusCode != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, rw.statusCode)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected recorder status %d, got %d", http.StatusCreated, rec.Code)
	}
}

func TestResponseWriter_Write(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{
		ResponseWriter: rec,
		statusCode:     http.StatusOK,
	}

	data := []byte("test data")
	n, err := rw.Write(data)

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if n != len(data) {
		t.Errorf("expected %d bytes written, got %d", len(data), n)
	}
	if rw.written != int64(len(data)) {
		t.Errorf("expected %d bytes tracked, got %d", len(data), rw.written)
	}
	if rec.Body.String() != string(data) {
		t.Errorf("expected body '%s', got '%s'", string(data), rec.Body.String())
	}
}
