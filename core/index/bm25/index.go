package bm25

import (
	"math"
	"sort"
	"sync"

	"github.com/agrama-db/agrama/pkg/types"
)

// Config holds the two standard BM25 tuning parameters.
type Config struct {
	// K1 controls term-frequency saturation. Higher values let repeated
	// terms keep contributing score for longer.
	K1 float64
	// B controls document-length normalization, from 0 (none) to 1
	// (full).
	B float64
}

// DefaultConfig returns the conventional BM25 defaults.
func DefaultConfig() Config {
	return Config{K1: 1.2, B: 0.75}
}

// Result is one scored match from Search.
type Result struct {
	Key   types.Key
	Score float64
}

// postingList maps a document key to the term's frequency within that
// document.
type postingList map[types.Key]int

// Index is an in-memory inverted-index BM25 lexical index (§4.2).
type Index struct {
	cfg Config

	mu          sync.RWMutex
	postings    map[string]postingList
	docLength   map[types.Key]int
	docTerms    map[types.Key][]string // raw term list, for remove()
	totalLength int64
	docCount    int
}

// New creates an empty Index with the given BM25 parameters.
func New(cfg Config) *Index {
	return &Index{
		cfg:       cfg,
		postings:  make(map[string]postingList),
		docLength: make(map[types.Key]int),
		docTerms:  make(map[types.Key][]string),
	}
}

// Add tokenizes text and indexes it under key, replacing any prior
// content indexed under the same key.
func (idx *Index) Add(key types.Key, text string) {
	tokens := tokenize(text)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(key)

	idx.docTerms[key] = tokens
	idx.docLength[key] = len(tokens)
	idx.totalLength += int64(len(tokens))
	idx.docCount++

	for _, term := range tokens {
		pl, ok := idx.postings[term]
		if !ok {
			pl = make(postingList)
			idx.postings[term] = pl
		}
		pl[key]++
	}
}

// Len reports the number of documents currently indexed, for the
// index-size gauge in observability/metrics (§11 DOMAIN STACK).
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.docCount
}

// Remove deletes key from the index. Removing a key not present is a
// no-op.
func (idx *Index) Remove(key types.Key) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(key)
}

func (idx *Index) removeLocked(key types.Key) {
	length, ok := idx.docLength[key]
	if !ok {
		return
	}

	for _, term := range idx.docTerms[key] {
		pl := idx.postings[term]
		if pl == nil {
			continue
		}
		delete(pl, key)
		if len(pl) == 0 {
			delete(idx.postings, term)
		}
	}

	delete(idx.docLength, key)
	delete(idx.docTerms, key)
	idx.totalLength -= int64(length)
	idx.docCount--
}

// Search tokenizes query and returns the top k documents by BM25 score,
// descending, ties broken by key ascending.
func (idx *Index) Search(query string, k int) []Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.docCount == 0 {
		return nil
	}

	avgLen := float64(idx.totalLength) / float64(idx.docCount)
	scores := make(map[types.Key]float64)

	for _, term := range uniqueTerms(tokenize(query)) {
		pl, ok := idx.postings[term]
		if !ok {
			continue
		}
		idf := idfFor(idx.docCount, len(pl))
		for key, freq := range pl {
			dl := float64(idx.docLength[key])
			denom := float64(freq) + idx.cfg.K1*(1-idx.cfg.B+idx.cfg.B*dl/avgLen)
			scores[key] += idf * (float64(freq) * (idx.cfg.K1 + 1) / denom)
		}
	}

	results := make([]Result, 0, len(scores))
	for key, score := range scores {
		results = append(results, Result{Key: key, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Key < results[j].Key
	})

	if k > 0 && k < len(results) {
		results = results[:k]
	}
	return results
}

// idfFor returns the BM25 inverse-document-frequency weight for a term
// appearing in df of n documents. The classic "+1 inside, +1 outside"
// form keeps the weight non-negative even when df > n/2.
func idfFor(n, df int) float64 {
	return math.Log(1 + (float64(n)-float64(df)+0.5)/(float64(df)+0.5))
}

func uniqueTerms(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
