package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationInsertLookup(t *testing.T) {
	tree := NewNavigationTree()
	tree.Insert("/blog/post", "Post")
	tree.Insert("/blog", "Blog")

	node := tree.Lookup("/blog/post")
	require.NotNil(t, node)
	assert.Equal(t, "Post", node.Title)
	assert.Equal(t, "/blog/post", node.URL)

	parent := tree.Lookup("/blog")
	require.NotNil(t, parent)
	assert.Equal(t, "Blog", parent.Title)
	require.Contains(t, parent.Children, "post")
}

func TestNavigationIntermediateNodes(t *testing.T) {
	tree := NewNavigationTree()
	tree.Insert("/docs/guide/intro", "Intro")

	// /docs exists as a bare intermediate node without page data.
	node := tree.Lookup("/docs")
	require.NotNil(t, node)
	assert.Empty(t, node.URL)
	require.Contains(t, node.Children, "guide")
}

func TestNavigationLookupMissing(t *testing.T) {
	tree := NewNavigationTree()
	tree.Insert("/a", "A")
	assert.Nil(t, tree.Lookup("/a/b"))
	assert.Nil(t, tree.Lookup("/other"))
}

func TestNavigationRoot(t *testing.T) {
	tree := NewNavigationTree()
	tree.Insert("/", "Home")
	tree.Insert("/about", "About")

	root := tree.Lookup("/")
	require.NotNil(t, root)
	assert.Equal(t, "Home", root.Title)
	require.Contains(t, root.Children, "about")
}

func TestNavigationSerialize(t *testing.T) {
	tree := NewNavigationTree()
	tree.Insert("/blog", "Blog")
	tree.Insert("/blog/post", "Post")

	out := tree.Lookup("/blog").Serialize()
	assert.Equal(t, "Blog", out["title"])
	assert.Equal(t, "/blog", out["url"])

	children, ok := out["children"].(map[string]any)
	require.True(t, ok)
	post, ok := children["post"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Post", post["title"])
	assert.Equal(t, "/blog/post", post["url"])
	assert.NotContains(t, post, "children")
}
