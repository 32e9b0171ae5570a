package model

import "strings"

// NavigationNode is one node of the URL-segment trie. A node holds page
// data when a page lives exactly at its path; intermediate nodes carry
// only children.
type NavigationNode struct {
	Title    string
	URL      string
	Children map[string]*NavigationNode
}

// NavigationTree is a trie keyed by URL path segment. It is built once per
// barrier invocation from the full page set, then discarded after the
// per-page subtrees are copied into page metadata.
type NavigationTree struct {
	root NavigationNode
}

// NewNavigationTree returns an empty tree.
func NewNavigationTree() *NavigationTree {
	return &NavigationTree{}
}

// splitSegments splits a "/"-rooted URL into its path segments.
// "/blog/post.html" yields ["blog", "post.html"]; "/" yields nil.
func splitSegments(url string) []string {
	trimmed := strings.Trim(url, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Insert stores {title, url} at the node addressed by the URL's segments,
// creating intermediate nodes as needed.
func (t *NavigationTree) Insert(url, title string) {
	node := &t.root
	for _, seg := range splitSegments(url) {
		if node.Children == nil {
			node.Children = make(map[string]*NavigationNode)
		}
		child, ok := node.Children[seg]
		if !ok {
			child = &NavigationNode{}
			node.Children[seg] = child
		}
		node = child
	}
	node.Title = title
	node.URL = url
}

// Lookup returns the node at the URL's segments, or nil.
func (t *NavigationTree) Lookup(url string) *NavigationNode {
	node := &t.root
	for _, seg := range splitSegments(url) {
		child, ok := node.Children[seg]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// Serialize renders the node's subtree (self data plus children) as plain
// maps suitable for injection into entry metadata.
func (n *NavigationNode) Serialize() map[string]any {
	out := make(map[string]any, 3)
	if n.URL != "" {
		out["title"] = n.Title
		out["url"] = n.URL
	}
	if len(n.Children) > 0 {
		children := make(map[string]any, len(n.Children))
		for seg, child := range n.Children {
			children[seg] = child.Serialize()
		}
		out["children"] = children
	}
	return out
}
