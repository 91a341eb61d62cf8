package hnsw

import (
	"math"
	"testing"

	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

func unitVector(dims int, hot int) []float32 {
	v := make([]float32, dims)
	v[hot%dims] = 1.0
	return v
}

func TestInsertAndSearchFindsClosest(t *testing.T) {
	idx := New(DefaultConfig(8))

	for i := 0; i < 8; i++ {
		if err := idx.Insert(types.Key(rune('a'+i)), unitVector(8, i)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	results, err := idx.Search(unitVector(8, 3), 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search() len = %d, want 1", len(results))
	}
	if results[0].Key != types.Key(rune('a'+3)) {
		t.Errorf("Search() top = %q, want %q", results[0].Key, rune('a'+3))
	}
}

func TestInsertDimensionMismatch(t *testing.T) {
	idx := New(DefaultConfig(8))
	err := idx.Insert("k", make([]float32, 4))
	if !errors.IsValidation(err) {
		t.Errorf("Insert() error = %v, want validation error", err)
	}
}

func TestSearchBeforeAnyInsertIsNotReady(t *testing.T) {
	idx := New(DefaultConfig(8))
	_, err := idx.Search(unitVector(8, 0), 1)
	if !errors.IsNotFound(err) {
		t.Errorf("Search() on empty index error = %v, want IndexNotReady (category NotFound)", err)
	}
}

func TestRemoveTombstonesAndExcludesFromSearch(t *testing.T) {
	idx := New(DefaultConfig(8))
	for i := 0; i < 5; i++ {
		if err := idx.Insert(types.Key(rune('a'+i)), unitVector(8, i)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	if err := idx.Remove("a"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	results, err := idx.Search(unitVector(8, 0), 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, r := range results {
		if r.Key == "a" {
			t.Errorf("Search() returned tombstoned key %q", r.Key)
		}
	}
}

func TestRemoveMissingKey(t *testing.T) {
	idx := New(DefaultConfig(8))
	if err := idx.Insert("a", unitVector(8, 0)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := idx.Remove("missing"); !errors.IsNotFound(err) {
		t.Errorf("Remove() error = %v, want NotFound", err)
	}
}

func TestSearchNeverExceedsLiveCount(t *testing.T) {
	idx := New(DefaultConfig(8))
	for i := 0; i < 3; i++ {
		if err := idx.Insert(types.Key(rune('a'+i)), unitVector(8, i)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	results, err := idx.Search(unitVector(8, 0), 100)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) > 3 {
		t.Errorf("Search() returned %d results, want at most 3", len(results))
	}
}

func TestBulkLoadRoundTrip(t *testing.T) {
	idx := New(DefaultConfig(8))
	idx.BeginBulkLoad(16)
	for i := 0; i < 16; i++ {
		if err := idx.Insert(types.Key(rune('a'+i)), unitVector(8, i%8)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	idx.EndBulkLoad()

	results, err := idx.Search(unitVector(8, 0), 4)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("Search() len = %d, want 4", len(results))
	}
}

func TestDotProductMatchesScalar(t *testing.T) {
	a := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	b := []float32{9, 8, 7, 6, 5, 4, 3, 2, 1}

	var want float32
	for i := range a {
		want += a[i] * b[i]
	}

	got := dotProduct(a, b)
	if math.Abs(float64(got-want)) > 1e-4 {
		t.Errorf("dotProduct() = %v, want %v", got, want)
	}
}
