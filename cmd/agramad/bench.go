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
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Drive the primitive engine in-process and report latency (§6 benchmark mode)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Embedding.Provider = "mock" // reproducible, no network round-trip
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			return a.bench(cmd.Context(), n)
		},
	}
	cmd.Flags().IntVar(&n, "n", 1000, "number of store+retrieve cycles to run before the single search")
	return cmd
}

// bench exercises the embedded-library mode directly: it calls the
// primitive engine in-process the way a host application would,
// bypassing the JSON-RPC dispatcher entirely, and reports the average
// store and retrieve latency over n cycles plus the latency of one
// lexical search run after them. It is the third of §6's
// three process modes: server, embedded-library, benchmark.
func (a *app) bench(ctx context.Context, n int) error {
	const agentID, sessionID = "bench-agent", "bench-session"

	var storeTotal, retrieveTotal, searchTotal time.Duration
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("bench/key-%d", i)
		value := fmt.Sprintf("function benchProbe%d(x) { return x * %d; }", i, i)

		start := time.Now()
		if _, err := a.engine.Execute(ctx, "store", map[string]interface{}{
			"key":   key,
			"value": value,
		}, agentID, sessionID); err != nil {
			return fmt.Errorf("store #%d: %w", i, err)
		}
		storeTotal += time.Since(start)

		start = time.Now()
		if _, err := a.engine.Execute(ctx, "retrieve", map[string]interface{}{
			"key": key,
		}, agentID, sessionID); err != nil {
			return fmt.Errorf("retrieve #%d: %w", i, err)
		}
		retrieveTotal += time.Since(start)
	}

	start := time.Now()
	if _, err := a.engine.Execute(ctx, "search", map[string]interface{}{
		"query": "benchProbe",
		"mode":  "lexical",
	}, agentID, sessionID); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	searchTotal = time.Since(start)

	fmt.Printf("store:    %d ops, avg %s\n", n, storeTotal/time.Duration(n))
	fmt.Printf("retrieve: %d ops, avg %s\n", n, retrieveTotal/time.Duration(n))
	fmt.Printf("search:   1 op,  %s\n", searchTotal)
	return nil
}
