package tree

import (
	"fmt"
	"io"
	"iter"

	"blobutil/pkg/utils"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	fillMid    = "│   "
	fillLast   = "    "
)

// Row is one rendered line: the branch-drawing prefix and the node.
type Row struct {
	Prefix string
	Depth  int
	Node   *Node
}

// Walk yields every node in pre-order. The sequence is lazy and may be
// ranged over any number of times.
func Walk(root *Node) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		walk(root, "", "", 0, yield)
	}
}

func walk(n *Node, prefix, fill string, depth int, yield func(Row) bool) bool {
	if !yield(Row{Prefix: prefix, Depth: depth, Node: n}) {
		return false
	}
	for i, c := range n.Children {
		branch, cont := branchMid, fillMid
		if i == len(n.Children)-1 {
			branch, cont = branchLast, fillLast
		}
		if !walk(c, fill+branch, fill+cont, depth+1, yield) {
			return false
		}
	}
	return true
}

// RenderOptions controls what Render prints next to each label.
type RenderOptions struct {
	// Sizes appends the object size to nodes that end a listed key.
	Sizes bool
}

// Render writes one line per node of root to w.
func Render(w io.Writer, root *Node, opts RenderOptions) error {
	for row := range Walk(root) {
		line := row.Prefix + row.Node.Label
		if opts.Sizes && row.Node.IsObject {
			line += " (" + utils.FormatBytes(row.Node.Size) + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to render tree: %w", err)
		}
	}
	return nil
}
