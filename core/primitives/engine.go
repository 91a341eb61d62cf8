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

package primitives

import (
	"context"
	"time"

	"github.com/agrama-db/agrama/core/embedding"
	"github.com/agrama-db/agrama/core/index/bm25"
	"github.com/agrama-db/agrama/core/index/fre"
	"github.com/agrama-db/agrama/core/index/hnsw"
	"github.com/agrama-db/agrama/core/pathvalidator"
	"github.com/agrama-db/agrama/core/pool"
	"github.com/agrama-db/agrama/core/query"
	"github.com/agrama-db/agrama/core/temporal"
	"github.com/agrama-db/agrama/core/timer"
	"github.com/agrama-db/agrama/pkg/types"
)

// ProvenanceRecorder appends a record to the provenance log. Engine
// calls it synchronously after every invocation, success or failure;
// implementations that need durability or signing (core/provenance)
// do their own buffering.
type ProvenanceRecorder interface {
	Record(ctx context.Context, rec types.ProvenanceRecord)
}

// EventEmitter enqueues a broadcast event. Engine calls it after every
// successful invocation; a slow or absent subscriber must never block
// the primitive call itself, so implementations (core/events) are
// expected to enqueue without waiting on delivery.
type EventEmitter interface {
	Emit(ctx context.Context, evt types.Event)
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, types.ProvenanceRecord) {}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, types.Event) {}

// InvocationMetrics observes every primitive invocation's name, calling
// agent, latency, and outcome (§11 DOMAIN STACK: "primitive invocation
// latency by name"). Engine calls it once per Execute of a registered
// primitive, regardless of success or failure; an unknown primitive
// name returns before it is called.
type InvocationMetrics interface {
	RecordInvocation(ctx context.Context, primitive, agentID string, duration time.Duration, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordInvocation(context.Context, string, string, time.Duration, error) {}

// Config wires an Engine's shared components and policy knobs.
type Config struct {
	Temporal *temporal.Store
	Lex      *bm25.Index
	Sem      *hnsw.Index
	Graph    *fre.Graph
	FRE      *fre.Engine
	Hybrid   *query.Engine
	Embedder embedding.Provider

	// PathValidator, if non-nil, is applied to every key passed to
	// store/retrieve/link. Most keys are opaque and this should stay
	// nil; set it only when the deployment's keys are path-shaped
	// (§4.10).
	PathValidator *pathvalidator.Validator

	// EmbedThreshold is the value length, in bytes, that a stored value
	// must exceed to trigger embedding generation (§4.6 default 50).
	EmbedThreshold int

	// Deadline bounds a single invocation (§5 default 30s). Zero
	// disables the deadline.
	Deadline time.Duration

	Provenance ProvenanceRecorder
	Events     EventEmitter
	Metrics    InvocationMetrics
}

// Engine dispatches primitive invocations per §4.6's execution
// contract: construct context, validate, execute, reset arena, log
// provenance, emit event.
type Engine struct {
	registry *Registry
	cfg      Config
	arenas   *pool.ArenaPool
	timer    *timer.SafeTimer
}

// New creates an Engine over reg with the given shared components.
func New(reg *Registry, cfg Config) *Engine {
	if cfg.EmbedThreshold <= 0 {
		cfg.EmbedThreshold = 50
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = 30 * time.Second
	}
	if cfg.Provenance == nil {
		cfg.Provenance = noopRecorder{}
	}
	if cfg.Events == nil {
		cfg.Events = noopEmitter{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	return &Engine{
		registry: reg,
		cfg:      cfg,
		arenas:   pool.NewArenaPool(),
		timer:    timer.New(),
	}
}

// Registry returns the engine's primitive registry, mainly for
// list_primitives().
func (e *Engine) Registry() *Registry { return e.registry }

// Execute runs one primitive invocation end to end.
func (e *Engine) Execute(ctx context.Context, name string, params map[string]interface{}, agentID, sessionID string) (interface{}, error) {
	prim, err := e.registry.resolve(name)
	if err != nil {
		return nil, err
	}

	arena := e.arenas.Get()
	defer e.arenas.Put(arena)

	now := e.timer.Now()
	pc := &Context{
		Arena:          arena,
		Temporal:       e.cfg.Temporal,
		Lex:            e.cfg.Lex,
		Sem:            e.cfg.Sem,
		Graph:          e.cfg.Graph,
		FRE:            e.cfg.FRE,
		Hybrid:         e.cfg.Hybrid,
		Embedder:       e.cfg.Embedder,
		PathValidator:  e.cfg.PathValidator,
		EmbedThreshold: e.cfg.EmbedThreshold,
		AgentID:        agentID,
		SessionID:      sessionID,
		Timestamp:      now.Unix(),
	}
	if e.cfg.Deadline > 0 {
		pc.deadline = now.Add(e.cfg.Deadline)
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, pc.deadline)
		defer cancel()
	}

	result, execErr := e.runValidated(ctx, prim, pc, params)
	e.cfg.Metrics.RecordInvocation(ctx, name, agentID, e.timer.Since(now), execErr)

	rec := types.ProvenanceRecord{
		Primitive: name,
		AgentID:   agentID,
		SessionID: sessionID,
		Params:    params,
		Result:    result,
		Timestamp: pc.Timestamp,
	}
	if execErr != nil {
		rec.Err = execErr.Error()
	}
	e.cfg.Provenance.Record(ctx, rec)

	if execErr == nil {
		e.cfg.Events.Emit(ctx, types.Event{
			Type: types.EventPrimitiveExecuted,
			Payload: map[string]interface{}{
				"primitive":  name,
				"agent_id":   agentID,
				"session_id": sessionID,
			},
			Timestamp: pc.Timestamp,
		})
	}

	return result, execErr
}

func (e *Engine) runValidated(ctx context.Context, prim *Primitive, pc *Context, params map[string]interface{}) (interface{}, error) {
	if err := prim.Validate(params); err != nil {
		return nil, err
	}
	if err := pc.CheckDeadline(); err != nil {
		return nil, err
	}
	return prim.Execute(ctx, pc, params)
}
