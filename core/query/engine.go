package query

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agrama-db/agrama/core/index/bm25"
	"github.com/agrama-db/agrama/core/index/fre"
	"github.com/agrama-db/agrama/core/index/hnsw"
	"github.com/agrama-db/agrama/core/resilience"
	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

// Weights are the per-component weights of a hybrid query. Source
// priority for tie-breaking is always lex > sem > graph (§4.5).
type Weights struct {
	Lex   float64
	Sem   float64
	Graph float64
}

// Validate reports whether weights sum to more than zero with no
// negative component.
func (w Weights) Validate() error {
	if w.Lex < 0 || w.Sem < 0 || w.Graph < 0 {
		return errors.ErrInvalidWeights.WithDetail("reason", "negative component")
	}
	if w.Lex+w.Sem+w.Graph <= 0 {
		return errors.ErrInvalidWeights.WithDetail("reason", "weights sum to zero")
	}
	return nil
}

// Request is one hybrid query.
type Request struct {
	Text       string
	Vector     []float32
	K          int
	Weights    Weights
	GraphRoot  types.Key
	GraphDepth int
	Threshold  float64
}

// ComponentScores breaks a ranked result's combined score down by
// source, before weighting.
type ComponentScores struct {
	Lex   float64
	Sem   float64
	Graph float64
}

// Ranked is one scored, ranked result.
type Ranked struct {
	Key       types.Key
	Score     float64
	Component ComponentScores
}

// Response is the result of a hybrid query.
type Response struct {
	Results  []Ranked
	Degraded bool
}

// Embedder resolves query text to a vector for the semantic component,
// when Request.Vector is not supplied directly.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// indexVersions tracks a monotonically increasing version per
// component, bumped on every mutating call, so the cache fingerprint
// naturally changes when the underlying data does.
type indexVersions struct {
	lex, sem, graph atomic.Uint64
}

func (v *indexVersions) snapshot() [3]uint64 {
	return [3]uint64{v.lex.Load(), v.sem.Load(), v.graph.Load()}
}

// Engine runs hybrid queries over the three indices (§4.5).
type Engine struct {
	lex      *bm25.Index
	sem      *hnsw.Index
	graph    *fre.Engine
	embedder Embedder

	cache    *resultCache
	versions indexVersions

	// embedBreaker trips after repeated embedding-provider failures so a
	// down remote API degrades the semantic component immediately
	// instead of paying its timeout on every query (§4.5, §7:
	// "a failure inside one index during hybrid query degrades that
	// component's contribution to zero").
	embedBreaker *resilience.CircuitBreaker

	// bulkhead bounds the number of hybrid queries fanning out at once,
	// the same worst-case-memory-bounding discipline §5/§9 asks of
	// every shared resource in the engine.
	bulkhead *resilience.Bulkhead
}

// Config configures an Engine.
type Config struct {
	CacheCapacity int

	// MaxConcurrentQueries bounds fanOut concurrency (default 64).
	MaxConcurrentQueries int
}

// New creates an Engine. Any of lex, sem, graph may be nil, in which
// case that component contributes a score of 0 regardless of its
// requested weight (§4.5: "absent indices receive weight 0
// effectively").
func New(lex *bm25.Index, sem *hnsw.Index, graph *fre.Engine, embedder Embedder, cfg Config) *Engine {
	maxConcurrent := cfg.MaxConcurrentQueries
	if maxConcurrent <= 0 {
		maxConcurrent = 64
	}

	return &Engine{
		lex:      lex,
		sem:      sem,
		graph:    graph,
		embedder: embedder,
		cache:    newResultCache(cfg.CacheCapacity),
		embedBreaker: resilience.NewCircuitBreaker(&resilience.CircuitBreakerConfig{
			MaxFailures:         5,
			Timeout:             30 * time.Second,
			MaxHalfOpenRequests: 1,
		}),
		bulkhead: resilience.NewBulkhead(&resilience.BulkheadConfig{
			MaxConcurrent: maxConcurrent,
			Timeout:       5 * time.Second,
		}),
	}
}

// NotifyLexChanged, NotifySemChanged, and NotifyGraphChanged bump the
// respective index's version, invalidating future cache fingerprints
// that depended on its old state. Callers wire these to the
// corresponding index's mutation path.
func (e *Engine) NotifyLexChanged()   { e.versions.lex.Add(1) }
func (e *Engine) NotifySemChanged()   { e.versions.sem.Add(1) }
func (e *Engine) NotifyGraphChanged() { e.versions.graph.Add(1) }

// Stats reports the result cache's lifetime hit/miss counts and the
// embedding circuit breaker's current state, for the periodic sampler
// in cmd/agramad that feeds observability/metrics.
func (e *Engine) Stats() (cacheHits, cacheMisses uint64, breakerState resilience.State) {
	hits, misses := e.cache.stats()
	return hits, misses, e.embedBreaker.State()
}

// Query executes req, consulting the result cache first (§4.5 step 6).
func (e *Engine) Query(ctx context.Context, req Request) (Response, error) {
	if err := req.Weights.Validate(); err != nil {
		return Response{}, err
	}

	fp := fingerprint(req, e.versions.snapshot())
	if cached, ok := e.cache.get(fp); ok {
		return cached, nil
	}

	resp, err := e.cache.coalesce(fp, func() (Response, error) {
		var r Response
		bhErr := e.bulkhead.Execute(ctx, func(ctx context.Context) error {
			var fanErr error
			r, fanErr = e.fanOut(ctx, req)
			return fanErr
		})
		if bhErr != nil {
			return Response{}, bhErr
		}
		e.cache.put(fp, r)
		return r, nil
	})
	return resp, err
}

type componentResult struct {
	name   string // "lex", "sem", "graph"
	scores map[types.Key]float64
	failed bool
}

// fanOut runs the three components concurrently and fuses their
// results (§4.5 steps 2-5).
func (e *Engine) fanOut(ctx context.Context, req Request) (Response, error) {
	g, gctx := errgroup.WithContext(ctx)
	results := make([]componentResult, 3)

	if req.Weights.Lex > 0 && e.lex != nil {
		g.Go(func() error {
			results[0] = componentResult{name: "lex", scores: e.queryLex(req)}
			return nil
		})
	} else {
		results[0] = componentResult{name: "lex", scores: map[types.Key]float64{}}
	}

	if req.Weights.Sem > 0 && e.sem != nil {
		g.Go(func() error {
			scores, failed := e.querySem(gctx, req)
			results[1] = componentResult{name: "sem", scores: scores, failed: failed}
			return nil
		})
	} else {
		results[1] = componentResult{name: "sem", scores: map[types.Key]float64{}}
	}

	if req.Weights.Graph > 0 && e.graph != nil && req.GraphRoot != "" {
		g.Go(func() error {
			scores, failed := e.queryGraph(req)
			results[2] = componentResult{name: "graph", scores: scores, failed: failed}
			return nil
		})
	} else {
		results[2] = componentResult{name: "graph", scores: map[types.Key]float64{}}
	}

	// Component failures are captured per-result (failed flag), not
	// propagated as a Go error: a failing index degrades the response
	// rather than failing the whole query (§4.5 failure modes).
	_ = g.Wait()

	lexNorm := normalize(results[0].scores)
	semNorm := normalize(results[1].scores)
	graphNorm := normalize(results[2].scores)

	degraded := results[1].failed || results[2].failed

	combined := make(map[types.Key]*Ranked)
	for key, s := range lexNorm {
		r := combinedFor(combined, key)
		r.Component.Lex = s
	}
	for key, s := range semNorm {
		r := combinedFor(combined, key)
		r.Component.Sem = s
	}
	for key, s := range graphNorm {
		r := combinedFor(combined, key)
		r.Component.Graph = s
	}

	out := make([]Ranked, 0, len(combined))
	for _, r := range combined {
		r.Score = req.Weights.Lex*r.Component.Lex + req.Weights.Sem*r.Component.Sem + req.Weights.Graph*r.Component.Graph
		if req.Threshold > 0 && r.Score < req.Threshold {
			continue
		}
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return tieBreak(out[i], out[j])
	})

	if req.K > 0 && req.K < len(out) {
		out = out[:req.K]
	}

	return Response{Results: out, Degraded: degraded}, nil
}

func combinedFor(m map[types.Key]*Ranked, key types.Key) *Ranked {
	r, ok := m[key]
	if !ok {
		r = &Ranked{Key: key}
		m[key] = r
	}
	return r
}

// tieBreak breaks a score tie by source priority (lex > sem > graph)
// then by key, per §4.5 step 4.
func tieBreak(a, b Ranked) bool {
	if (a.Component.Lex > 0) != (b.Component.Lex > 0) {
		return a.Component.Lex > 0
	}
	if (a.Component.Sem > 0) != (b.Component.Sem > 0) {
		return a.Component.Sem > 0
	}
	if (a.Component.Graph > 0) != (b.Component.Graph > 0) {
		return a.Component.Graph > 0
	}
	return a.Key < b.Key
}

func (e *Engine) queryLex(req Request) map[types.Key]float64 {
	results := e.lex.Search(req.Text, resultPoolSize(req.K))
	out := make(map[types.Key]float64, len(results))
	for _, r := range results {
		out[r.Key] = r.Score
	}
	return out
}

func (e *Engine) querySem(ctx context.Context, req Request) (map[types.Key]float64, bool) {
	vec := req.Vector
	if vec == nil && e.embedder != nil {
		var v []float32
		err := e.embedBreaker.Execute(ctx, func(ctx context.Context) error {
			embedded, embedErr := e.embedder.Embed(ctx, req.Text)
			if embedErr != nil {
				return embedErr
			}
			v = embedded
			return nil
		})
		if err != nil {
			return map[types.Key]float64{}, true
		}
		vec = v
	}
	if vec == nil {
		return map[types.Key]float64{}, true
	}

	results, err := e.sem.Search(vec, resultPoolSize(req.K))
	if err != nil {
		return map[types.Key]float64{}, true
	}
	out := make(map[types.Key]float64, len(results))
	for _, r := range results {
		// Distance: smaller is better. Convert to a similarity so every
		// component is "higher is better" before normalization.
		out[r.Key] = -float64(r.Distance)
	}
	return out, false
}

func (e *Engine) queryGraph(req Request) (map[types.Key]float64, bool) {
	dist, err := e.graph.SingleSource(req.GraphRoot, 0)
	if err != nil && !errors.Is(err, errors.ErrBoundExceeded) {
		return map[types.Key]float64{}, true
	}
	out := make(map[types.Key]float64, len(dist))
	for key, d := range dist {
		// Closer is better; convert to a similarity the same way as
		// querySem so normalize treats all three components uniformly.
		out[key] = -d
	}
	return out, false
}

// resultPoolSize widens the per-component candidate pool beyond k so
// normalization and fusion have enough of the tail to work with before
// the final top-k cut.
func resultPoolSize(k int) int {
	if k <= 0 {
		return 100
	}
	return k * 4
}

// normalize linearly scales scores to [0,1] over the returned set
// (§4.5 step 3).
func normalize(scores map[types.Key]float64) map[types.Key]float64 {
	if len(scores) == 0 {
		return scores
	}
	min, max := minMax(scores)
	out := make(map[types.Key]float64, len(scores))
	if max == min {
		for k := range scores {
			out[k] = 1
		}
		return out
	}
	for k, s := range scores {
		out[k] = (s - min) / (max - min)
	}
	return out
}

func minMax(scores map[types.Key]float64) (min, max float64) {
	first := true
	for _, s := range scores {
		if first {
			min, max = s, s
			first = false
			continue
		}
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return min, max
}
