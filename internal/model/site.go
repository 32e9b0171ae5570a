package model

import (
	"sync"
	"time"

	"github.com/karlseguin/typed"
)

// TaxonomyItem is an immutable snapshot of a page taken at indexing time.
// It does not reference the page it was copied from.
type TaxonomyItem struct {
	URL  string
	Date *time.Time
	Data typed.Typed
}

// Site is the one shared aggregate of a build run: the taxonomy index,
// mapping taxonomy key to term to the pages carrying that term.
//
// It is created once per run, mutated incrementally by the taxonomy stage
// (one short critical section per page) and read only after the pipeline
// completes. It is an explicit handle passed to the stages that need it,
// not a global.
type Site struct {
	mu         sync.RWMutex
	taxonomies map[string]map[string][]TaxonomyItem
	termOrder  map[string][]string
}

// NewSite creates a site with one empty term map per configured taxonomy
// key, so configured-but-unused keys still appear in the result.
func NewSite(taxonomies []string) *Site {
	s := &Site{
		taxonomies: make(map[string]map[string][]TaxonomyItem, len(taxonomies)),
		termOrder:  make(map[string][]string, len(taxonomies)),
	}
	for _, key := range taxonomies {
		s.taxonomies[key] = make(map[string][]TaxonomyItem)
	}
	return s
}

// AddTaxonomyItem appends a snapshot under the given key and term,
// preserving arrival order. Unknown keys are ignored; only configured
// taxonomies are indexed. The lock is held only for the append, never
// across a channel operation.
func (s *Site) AddTaxonomyItem(key, term string, item TaxonomyItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	terms, ok := s.taxonomies[key]
	if !ok {
		return
	}
	if _, seen := terms[term]; !seen {
		s.termOrder[key] = append(s.termOrder[key], term)
	}
	terms[term] = append(terms[term], item)
}

// Taxonomy returns the items recorded under key and term, in arrival order.
func (s *Site) Taxonomy(key, term string) []TaxonomyItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.taxonomies[key][term]
	out := make([]TaxonomyItem, len(items))
	copy(out, items)
	return out
}

// Terms returns the terms recorded under key, in first-seen order.
func (s *Site) Terms(key string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.termOrder[key]
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Taxonomies returns a snapshot of the whole index.
func (s *Site) Taxonomies() map[string]map[string][]TaxonomyItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string][]TaxonomyItem, len(s.taxonomies))
	for key, terms := range s.taxonomies {
		tc := make(map[string][]TaxonomyItem, len(terms))
		for term, items := range terms {
			ic := make([]TaxonomyItem, len(items))
			copy(ic, items)
			tc[term] = ic
		}
		out[key] = tc
	}
	return out
}
