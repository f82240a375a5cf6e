// Package search finds buttons by label with fuzzy matching and caches the
// results per configuration snapshot.
package search

import (
	"crypto/md5"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sahilm/fuzzy"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
)

// Match is one search hit. Index is the entry's position in the list that
// was searched.
type Match struct {
	Entry          buttons.Entry `json:"entry" yaml:"entry"`
	Index          int           `json:"index" yaml:"index"`
	Score          int           `json:"score" yaml:"score"`
	MatchedIndexes []int         `json:"-" yaml:"-"`
}

type labels []buttons.Entry

func (l labels) String(i int) string { return l[i].Label }
func (l labels) Len() int            { return len(l) }

// Find ranks entries whose label fuzzily matches query. Prefix matches come
// first, then higher scores, then list order. An empty query returns the
// entries in order.
func Find(query string, entries []buttons.Entry, maxResults int) []Match {
	return FindBoosted(query, entries, maxResults, nil)
}

// FindBoosted is Find with usage scores per button id breaking ties between
// equally good matches.
func FindBoosted(query string, entries []buttons.Entry, maxResults int, boost map[string]float64) []Match {
	query = strings.TrimSpace(query)
	var matches []Match

	if query == "" {
		for i, e := range entries {
			matches = append(matches, Match{Entry: e, Index: i})
		}
	} else {
		lowerQuery := strings.ToLower(query)
		for _, m := range fuzzy.FindFrom(query, labels(entries)) {
			matches = append(matches, Match{
				Entry:          entries[m.Index],
				Index:          m.Index,
				Score:          m.Score,
				MatchedIndexes: m.MatchedIndexes,
			})
		}
		sort.SliceStable(matches, func(i, j int) bool {
			p1 := strings.HasPrefix(strings.ToLower(matches[i].Entry.Label), lowerQuery)
			p2 := strings.HasPrefix(strings.ToLower(matches[j].Entry.Label), lowerQuery)
			if p1 != p2 {
				return p1
			}
			if matches[i].Score != matches[j].Score {
				return matches[i].Score > matches[j].Score
			}
			if b1, b2 := boost[matches[i].Entry.ID], boost[matches[j].Entry.ID]; b1 != b2 {
				return b1 > b2
			}
			return matches[i].Index < matches[j].Index
		})
	}

	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// Hash identifies a button list for cache invalidation.
func Hash(entries []buttons.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	h := md5.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%t\n", e.ID, e.Label, e.ActionType, e.Target, e.Enabled)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Index caches Find results keyed by query and configuration hash.
type Index struct {
	cache      *lru.Cache[string, []Match]
	maxSize    int
	maxResults int
	boost      map[string]float64
	hits       int64
	misses     int64
	mu         sync.Mutex
}

// CacheStats holds cache statistics
type CacheStats struct {
	Size    int     `json:"size" yaml:"size"`
	MaxSize int     `json:"max_size" yaml:"max_size"`
	Hits    int64   `json:"hits" yaml:"hits"`
	Misses  int64   `json:"misses" yaml:"misses"`
	HitRate float64 `json:"hit_rate" yaml:"hit_rate"`
}

func NewIndex(cacheSize, maxResults int) (*Index, error) {
	if cacheSize <= 0 {
		cacheSize = 100
	}
	cache, err := lru.New[string, []Match](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &Index{cache: cache, maxSize: cacheSize, maxResults: maxResults}, nil
}

// Search returns cached results when the same query was run against the same
// button list, and computes them otherwise.
func (x *Index) Search(query string, entries []buttons.Entry) []Match {
	key := makeKey(query, Hash(entries))

	x.mu.Lock()
	if cached, ok := x.cache.Get(key); ok {
		x.mu.Unlock()
		atomic.AddInt64(&x.hits, 1)
		return cached
	}
	boost := x.boost
	x.mu.Unlock()

	atomic.AddInt64(&x.misses, 1)
	results := FindBoosted(query, entries, x.maxResults, boost)

	x.mu.Lock()
	x.cache.Add(key, results)
	x.mu.Unlock()

	log.Printf("[SEARCH] query='%s' matched %d of %d buttons", query, len(results), len(entries))
	return results
}

// SetBoost replaces the usage scores used to break ties and drops cached
// results ranked with the old ones.
func (x *Index) SetBoost(boost map[string]float64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.boost = boost
	x.cache.Purge()
}

// Invalidate drops all cached results.
func (x *Index) Invalidate() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.cache.Purge()
	atomic.StoreInt64(&x.hits, 0)
	atomic.StoreInt64(&x.misses, 0)
}

func (x *Index) Stats() CacheStats {
	x.mu.Lock()
	size := x.cache.Len()
	x.mu.Unlock()

	hits := atomic.LoadInt64(&x.hits)
	misses := atomic.LoadInt64(&x.misses)
	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return CacheStats{
		Size:    size,
		MaxSize: x.maxSize,
		Hits:    hits,
		Misses:  misses,
		HitRate: hitRate,
	}
}

func makeKey(query, hash string) string {
	return fmt.Sprintf("%s:%s", strings.ToLower(strings.TrimSpace(query)), hash)
}
