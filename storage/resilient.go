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

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/agrama-db/agrama/core/resilience"
)

// ResilientStorage wraps a Storage durability hook with a circuit
// breaker and bounded retry, so a flaky Redis/Postgres backend degrades
// to fast, logged failures instead of stalling every temporal store
// write behind a dying connection (§5's "write failures leave no
// partial state" still holds: the in-memory Put already succeeded by
// the time core/temporal calls the hook, so a hook failure here is
// always best-effort and never unwinds the caller's write).
type ResilientStorage struct {
	inner   Storage
	breaker *resilience.CircuitBreaker
	retry   *resilience.RetryConfig
}

// ResilientConfig tunes ResilientStorage's circuit breaker and retry
// policy. The zero value is valid and uses the defaults noted below.
type ResilientConfig struct {
	MaxFailures   int           // default 5
	OpenTimeout   time.Duration // default 30s
	MaxAttempts   int           // default 3
	RetryBaseWait time.Duration // default 50ms
}

// NewResilientStorage wraps inner with a circuit breaker (opens after
// MaxFailures consecutive failures, tries again after OpenTimeout) and
// an exponential-backoff retry (MaxAttempts attempts) that never
// retries ErrNotFound, since a missing key is not a transient failure.
func NewResilientStorage(inner Storage, cfg ResilientConfig) *ResilientStorage {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBaseWait <= 0 {
		cfg.RetryBaseWait = 50 * time.Millisecond
	}

	return &ResilientStorage{
		inner: inner,
		breaker: resilience.NewCircuitBreaker(&resilience.CircuitBreakerConfig{
			MaxFailures:         cfg.MaxFailures,
			Timeout:             cfg.OpenTimeout,
			MaxHalfOpenRequests: 1,
		}),
		retry: &resilience.RetryConfig{
			MaxAttempts: cfg.MaxAttempts,
			Backoff:     resilience.ExponentialBackoff(cfg.RetryBaseWait, 2.0, 2*time.Second),
			ShouldRetry: shouldRetryStorageErr,
		},
	}
}

func shouldRetryStorageErr(err error) bool {
	return err != nil && !errors.Is(err, ErrNotFound)
}

// call runs fn through the retry policy, itself guarded by the circuit
// breaker, so a sustained outage trips the breaker and fails fast
// rather than paying MaxAttempts' worth of backoff on every call.
func (s *ResilientStorage) call(ctx context.Context, fn resilience.Executor) error {
	return s.breaker.Execute(ctx, func(ctx context.Context) error {
		return resilience.Retry(ctx, s.retry, fn)
	})
}

func (s *ResilientStorage) Store(ctx context.Context, namespace, key string, value interface{}) error {
	return s.call(ctx, func(ctx context.Context) error {
		return s.inner.Store(ctx, namespace, key, value)
	})
}

func (s *ResilientStorage) Get(ctx context.Context, namespace, key string) (interface{}, error) {
	var out interface{}
	err := s.call(ctx, func(ctx context.Context) error {
		v, getErr := s.inner.Get(ctx, namespace, key)
		if getErr != nil {
			return getErr
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, unwrapNotFound(err)
	}
	return out, nil
}

func (s *ResilientStorage) List(ctx context.Context, namespace string) ([]interface{}, error) {
	var out []interface{}
	err := s.call(ctx, func(ctx context.Context) error {
		v, listErr := s.inner.List(ctx, namespace)
		if listErr != nil {
			return listErr
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ResilientStorage) Delete(ctx context.Context, namespace, key string) error {
	err := s.call(ctx, func(ctx context.Context) error {
		return s.inner.Delete(ctx, namespace, key)
	})
	return unwrapNotFound(err)
}

func (s *ResilientStorage) Clear(ctx context.Context, namespace string) error {
	return s.call(ctx, func(ctx context.Context) error {
		return s.inner.Clear(ctx, namespace)
	})
}

func (s *ResilientStorage) Exists(ctx context.Context, namespace, key string) (bool, error) {
	var out bool
	err := s.call(ctx, func(ctx context.Context) error {
		v, existsErr := s.inner.Exists(ctx, namespace, key)
		if existsErr != nil {
			return existsErr
		}
		out = v
		return nil
	})
	if err != nil {
		return false, err
	}
	return out, nil
}

// unwrapNotFound recovers ErrNotFound from underneath Retry's
// "non-retryable error: %w" wrapping, so callers can still
// errors.Is(err, ErrNotFound) the way they do against the bare
// backends.
func unwrapNotFound(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return err
}
