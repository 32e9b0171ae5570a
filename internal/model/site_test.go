package model

import (
	"fmt"
	"sync"
	"testing"

	"github.com/karlseguin/typed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitePreseedsConfiguredKeys(t *testing.T) {
	s := NewSite([]string{"tags", "category"})
	taxonomies := s.Taxonomies()

	require.Contains(t, taxonomies, "tags")
	require.Contains(t, taxonomies, "category")
	assert.Empty(t, taxonomies["category"], "configured-but-unused key must be present and empty")
}

func TestSiteArrivalOrderNoDedup(t *testing.T) {
	s := NewSite([]string{"tags"})

	s.AddTaxonomyItem("tags", "b", TaxonomyItem{URL: "/first.html"})
	s.AddTaxonomyItem("tags", "b", TaxonomyItem{URL: "/second.html"})
	s.AddTaxonomyItem("tags", "b", TaxonomyItem{URL: "/first.html"})

	items := s.Taxonomy("tags", "b")
	require.Len(t, items, 3)
	assert.Equal(t, "/first.html", items[0].URL)
	assert.Equal(t, "/second.html", items[1].URL)
	assert.Equal(t, "/first.html", items[2].URL)
}

func TestSiteIgnoresUnconfiguredKeys(t *testing.T) {
	s := NewSite([]string{"tags"})
	s.AddTaxonomyItem("authors", "me", TaxonomyItem{URL: "/x.html"})

	_, ok := s.Taxonomies()["authors"]
	assert.False(t, ok)
}

func TestSiteTermOrder(t *testing.T) {
	s := NewSite([]string{"tags"})
	s.AddTaxonomyItem("tags", "zebra", TaxonomyItem{URL: "/1.html"})
	s.AddTaxonomyItem("tags", "ant", TaxonomyItem{URL: "/2.html"})
	s.AddTaxonomyItem("tags", "zebra", TaxonomyItem{URL: "/3.html"})

	assert.Equal(t, []string{"zebra", "ant"}, s.Terms("tags"))
}

func TestSiteSnapshotIsolation(t *testing.T) {
	s := NewSite([]string{"tags"})
	s.AddTaxonomyItem("tags", "a", TaxonomyItem{URL: "/1.html", Data: typed.Typed{"k": "v"}})

	snap := s.Taxonomies()
	snap["tags"]["a"][0].URL = "/mutated"

	assert.Equal(t, "/1.html", s.Taxonomy("tags", "a")[0].URL)
}

func TestSiteConcurrentAppends(t *testing.T) {
	s := NewSite([]string{"tags"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.AddTaxonomyItem("tags", "t", TaxonomyItem{URL: fmt.Sprintf("/%d-%d", n, j)})
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Taxonomy("tags", "t"), 800)
}
