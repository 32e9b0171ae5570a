package stages

import (
	"testing"

	"github.com/karlseguin/typed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlyisidore/vitrine-sub001/internal/config"
	"github.com/charlyisidore/vitrine-sub001/internal/model"
)

func navEnv(key string) *config.Config {
	cfg := config.Default()
	if key != "" {
		cfg.Navigation = &config.NavigationConfig{Key: key}
	}
	return cfg
}

func titledPage(rel, title string) *model.Entry {
	e := fileEntry(rel, model.FormatHTML, "<p>x</p>")
	e.Data = &model.EntryData{Title: title, Extra: typed.Typed{}}
	return e
}

func TestNavigationInjectsSubtree(t *testing.T) {
	blog := titledPage("blog/index.html", "Blog")
	post := titledPage("blog/post.html", "Post")

	out, err := runStage(t, Navigation(), testEnv(navEnv("nav")), blog, post)
	require.NoError(t, err)
	require.Len(t, out, 2)

	nav, ok := out[0].Data.Extra["nav"].(map[string]any)
	require.True(t, ok, "blog page gets its subtree injected")
	assert.Equal(t, "Blog", nav["title"])
	children, ok := nav["children"].(map[string]any)
	require.True(t, ok)
	postNode, ok := children["post"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/blog/post.html", postNode["url"])

	leaf, ok := out[1].Data.Extra["nav"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Post", leaf["title"])
}

func TestNavigationNeverOverwrites(t *testing.T) {
	page := titledPage("blog/post.html", "Post")
	page.Data.Extra["nav"] = "already here"

	out, err := runStage(t, Navigation(), testEnv(navEnv("nav")), page)
	require.NoError(t, err)
	assert.Equal(t, "already here", out[0].Data.Extra["nav"])
}

func TestNavigationSkipsNonPages(t *testing.T) {
	style := fileEntry("a.css", model.FormatCSS, "a{}")

	out, err := runStage(t, Navigation(), testEnv(navEnv("nav")), style)
	require.NoError(t, err)
	assert.Nil(t, out[0].Data)
}

func TestNavigationDisabledWithoutKey(t *testing.T) {
	page := titledPage("p.html", "P")

	out, err := runStage(t, Navigation(), testEnv(navEnv("")), page)
	require.NoError(t, err)
	_, ok := out[0].Data.Extra["nav"]
	assert.False(t, ok)
}

func TestNavigationCreatesMetadataWhenAbsent(t *testing.T) {
	bare := fileEntry("bare.html", model.FormatHTML, "x")

	out, err := runStage(t, Navigation(), testEnv(navEnv("nav")), bare)
	require.NoError(t, err)
	require.NotNil(t, out[0].Data)
	_, ok := out[0].Data.Extra["nav"].(map[string]any)
	assert.True(t, ok)
}

func TestNavPath(t *testing.T) {
	assert.Equal(t, "/blog/post", navPath("/blog/post.html"))
	assert.Equal(t, "/blog", navPath("/blog/index.html"))
	assert.Equal(t, "/", navPath("/index.html"))
	assert.Equal(t, "/raw", navPath("/raw"))
}
