package query

import (
	"context"
	"testing"

	"github.com/agrama-db/agrama/core/index/bm25"
	"github.com/agrama-db/agrama/core/index/fre"
	"github.com/agrama-db/agrama/core/index/hnsw"
	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

func TestWeightsValidateRejectsNegativeAndZero(t *testing.T) {
	cases := []Weights{
		{Lex: -1, Sem: 1},
		{Lex: 0, Sem: 0, Graph: 0},
	}
	for _, w := range cases {
		if err := w.Validate(); err == nil {
			t.Errorf("Validate() on %+v = nil, want error", w)
		}
	}
	if err := (Weights{Lex: 1}).Validate(); err != nil {
		t.Errorf("Validate() on lex-only weights = %v, want nil", err)
	}
}

func newLex(t *testing.T) *bm25.Index {
	t.Helper()
	idx := bm25.New(bm25.DefaultConfig())
	idx.Add("doc-auth", "authentication middleware handles login tokens")
	idx.Add("doc-cache", "cache eviction policy for the result store")
	return idx
}

func newSem(t *testing.T) *hnsw.Index {
	t.Helper()
	idx := hnsw.New(hnsw.DefaultConfig(4))
	unit := func(vals ...float32) []float32 { return vals }
	if err := idx.Insert("doc-auth", unit(1, 0, 0, 0)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := idx.Insert("doc-cache", unit(0, 1, 0, 0)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	return idx
}

func newGraph(t *testing.T) *fre.Engine {
	t.Helper()
	g := fre.NewGraph()
	if err := g.AddEdge("doc-auth", "doc-cache", "references", 1); err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}
	return fre.New(g, fre.DefaultConfig())
}

func TestQueryLexOnly(t *testing.T) {
	e := New(newLex(t), nil, nil, nil, Config{})

	resp, err := e.Query(context.Background(), Request{
		Text:    "authentication tokens",
		K:       5,
		Weights: Weights{Lex: 1},
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("Query() returned no results")
	}
	if resp.Results[0].Key != "doc-auth" {
		t.Errorf("top result = %s, want doc-auth", resp.Results[0].Key)
	}
	if resp.Degraded {
		t.Error("Degraded = true, want false (no requested component absent)")
	}
}

func TestQueryRejectsInvalidWeights(t *testing.T) {
	e := New(newLex(t), nil, nil, nil, Config{})
	_, err := e.Query(context.Background(), Request{Text: "x", Weights: Weights{}})
	if !errors.Is(err, errors.ErrInvalidWeights) {
		t.Fatalf("Query() error = %v, want ErrInvalidWeights", err)
	}
}

func TestQueryAbsentIndexContributesZero(t *testing.T) {
	e := New(newLex(t), nil, nil, nil, Config{})
	resp, err := e.Query(context.Background(), Request{
		Text:    "authentication tokens",
		K:       5,
		Weights: Weights{Lex: 1, Sem: 1},
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	for _, r := range resp.Results {
		if r.Component.Sem != 0 {
			t.Errorf("result %s has nonzero Sem component %f with no sem index wired", r.Key, r.Component.Sem)
		}
	}
}

func TestQuerySemanticRanksClosestVector(t *testing.T) {
	e := New(nil, newSem(t), nil, nil, Config{})
	resp, err := e.Query(context.Background(), Request{
		Vector:  []float32{1, 0, 0, 0},
		K:       5,
		Weights: Weights{Sem: 1},
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("Query() returned no results")
	}
	if resp.Results[0].Key != "doc-auth" {
		t.Errorf("top result = %s, want doc-auth", resp.Results[0].Key)
	}
}

func TestQuerySemanticWithoutVectorOrEmbedderDegrades(t *testing.T) {
	e := New(nil, newSem(t), nil, nil, Config{})
	resp, err := e.Query(context.Background(), Request{
		Text:    "no vector supplied",
		Weights: Weights{Sem: 1},
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if !resp.Degraded {
		t.Error("Degraded = false, want true when sem requested with no vector or embedder")
	}
}

func TestQueryGraphComponent(t *testing.T) {
	e := New(nil, nil, newGraph(t), nil, Config{})
	resp, err := e.Query(context.Background(), Request{
		GraphRoot:  types.Key("doc-auth"),
		GraphDepth: 2,
		Weights:    Weights{Graph: 1},
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	found := false
	for _, r := range resp.Results {
		if r.Key == "doc-cache" {
			found = true
		}
	}
	if !found {
		t.Error("Query() graph component did not surface reachable doc-cache")
	}
}

func TestQueryThresholdFiltersLowScores(t *testing.T) {
	e := New(newLex(t), nil, nil, nil, Config{})
	resp, err := e.Query(context.Background(), Request{
		Text:      "authentication tokens",
		K:         5,
		Weights:   Weights{Lex: 1},
		Threshold: 1.5, // above any single normalized-lex score of 1.0
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("Query() with high threshold returned %d results, want 0", len(resp.Results))
	}
}

func TestQueryCacheHitAvoidsRefan(t *testing.T) {
	e := New(newLex(t), nil, nil, nil, Config{})
	req := Request{Text: "authentication tokens", K: 5, Weights: Weights{Lex: 1}}

	first, err := e.Query(context.Background(), req)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	e.lex.Add("doc-auth", "completely different content now")

	second, err := e.Query(context.Background(), req)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(first.Results) != len(second.Results) || (len(first.Results) > 0 && first.Results[0].Key != second.Results[0].Key) {
		t.Error("cached Query() result changed despite no NotifyLexChanged() call")
	}
}

func TestQueryCacheInvalidatedByVersionBump(t *testing.T) {
	e := New(newLex(t), nil, nil, nil, Config{})
	req := Request{Text: "authentication tokens", K: 5, Weights: Weights{Lex: 1}}

	if _, err := e.Query(context.Background(), req); err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	e.lex.Add("doc-new", "authentication tokens authentication tokens")
	e.NotifyLexChanged()

	resp, err := e.Query(context.Background(), req)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	found := false
	for _, r := range resp.Results {
		if r.Key == "doc-new" {
			found = true
		}
	}
	if !found {
		t.Error("Query() after NotifyLexChanged() did not reflect newly added document")
	}
}

func TestFingerprintDiffersOnWeights(t *testing.T) {
	req1 := Request{Text: "q", K: 5, Weights: Weights{Lex: 1}}
	req2 := Request{Text: "q", K: 5, Weights: Weights{Sem: 1}}
	v := [3]uint64{0, 0, 0}
	if fingerprint(req1, v) == fingerprint(req2, v) {
		t.Error("fingerprint() identical for different weight vectors")
	}
}

func TestResultCacheEvictsOldest(t *testing.T) {
	c := newResultCache(2)
	c.put("a", Response{})
	c.put("b", Response{})
	c.put("c", Response{})

	if _, ok := c.get("a"); ok {
		t.Error("get(\"a\") = found, want evicted as least recently used")
	}
	if _, ok := c.get("b"); !ok {
		t.Error("get(\"b\") = not found, want present")
	}
	if _, ok := c.get("c"); !ok {
		t.Error("get(\"c\") = not found, want present")
	}
}
