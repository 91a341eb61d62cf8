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

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agrama-db/agrama/observability"
	"github.com/agrama-db/agrama/observability/health"
	"github.com/agrama-db/agrama/observability/logging"
	"github.com/agrama-db/agrama/server/rpc"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON-RPC server mode over stdio (§6)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}
}

// serve runs the stdio JSON-RPC transport to completion and, if
// metrics are enabled, a sideband HTTP mux carrying /healthz,
// /readyz, and the metrics path — never the protocol stream itself.
func (a *app) serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.ready.MarkReady()
	a.logger.Info(ctx, "agent starting",
		logging.String("agent_name", a.cfg.Server.AgentName),
		logging.String("version", a.cfg.Server.Version),
	)

	if srv := a.startObservabilityServer(); srv != nil {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		go a.runMetricsSampler(ctx)
	}

	agentID := "stdio-agent"
	sessionID, err := a.newStdioSession(ctx, agentID)
	if err != nil {
		return err
	}
	defer a.sessions.Leave(ctx, sessionID) //nolint:errcheck

	errCh := make(chan error, 1)
	go func() {
		errCh <- rpc.Serve(ctx, a.dispatcher, os.Stdin, os.Stdout, agentID, sessionID)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info(context.Background(), "shutdown signal received")
		return nil
	case err := <-errCh:
		return err
	}
}

// startObservabilityServer launches the sideband HTTP mux described in
// §6 ("Logging. All operational logs go to a sideband channel") when
// metrics are enabled, returning nil otherwise so serve has nothing to
// shut down.
func (a *app) startObservabilityServer() *http.Server {
	if a.metrics == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", health.Handler(a.liveness))
	mux.Handle("/readyz", health.Handler(a.ready))
	mux.Handle(a.cfg.Metrics.Path, a.metrics.Handler())
	mux.Handle("/events", a.broadcast.Handler([]string{"*"}))

	var handler http.Handler = mux
	if a.engineMetrics != nil {
		handler = observability.NewMiddleware(a.logger, a.engineMetrics).Handler(mux)
	}

	srv := &http.Server{
		Addr:              a.cfg.Metrics.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error(context.Background(), "observability server exited", logging.Error(err))
		}
	}()
	return srv
}

// runMetricsSampler snapshots gauge metrics on a fixed interval until
// ctx is done. Index sizes and cache ratios change on every RPC call,
// too often to record from inside the hot path, so a periodic sample
// stands in for push-on-change.
func (a *app) runMetricsSampler(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.sampleMetrics()
		}
	}
}

// newStdioSession registers the single long-lived session the stdio
// transport holds for the lifetime of the process (§6: "the stdio
// transport is a single connection for the process's lifetime").
func (a *app) newStdioSession(ctx context.Context, agentID string) (string, error) {
	sess, err := a.sessions.Join(ctx, agentID, agentID)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}
