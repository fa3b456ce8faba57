// Package tree rebuilds the directory hierarchy implied by a flat listing of
// slash-delimited object keys.
package tree

import (
	"strings"

	"blobutil/internal/storage"
)

// Node is one path segment. Siblings never share a label.
type Node struct {
	Label    string
	Children []*Node

	// IsObject is set when some listed key ended at this node; Size is that
	// object's size. A node may be both an object and a directory.
	IsObject bool
	Size     int64
}

// Child returns the first child labeled label, or nil.
func (n *Node) Child(label string) *Node {
	for _, c := range n.Children {
		if c.Label == label {
			return c
		}
	}
	return nil
}

// FromObjects builds a tree rooted at a node labeled prefix. Each key has the
// prefix stripped and is split on "/"; empty segments and segments repeating
// the label of the node being extended are skipped. Existing children are
// reused by label, first match wins, so keys that reuse a segment name at
// different branch points merge into the branch created first.
func FromObjects(objects []storage.Object, prefix string) *Node {
	root := &Node{Label: prefix}
	for _, obj := range objects {
		root.add(strings.TrimPrefix(obj.Key(), prefix), obj.Size())
	}
	return root
}

func (n *Node) add(rel string, size int64) {
	parent := n
	for _, part := range strings.Split(rel, "/") {
		if part == "" || part == parent.Label {
			continue
		}
		child := parent.Child(part)
		if child == nil {
			child = &Node{Label: part}
			parent.Children = append(parent.Children, child)
		}
		parent = child
	}
	if parent != n {
		parent.IsObject = true
		parent.Size = size
	}
}

// Len returns the number of nodes in the tree, root included.
func (n *Node) Len() int {
	total := 1
	for _, c := range n.Children {
		total += c.Len()
	}
	return total
}
