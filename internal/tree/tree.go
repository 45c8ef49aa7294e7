// Package tree arranges archive entries into a browsable directory tree.
package tree

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/Uday9909/ExplainMyRepo/internal/archive"
)

// Node is a file or directory in the tree. Directory paths carry no trailing slash.
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	Size     int64
	Children []*Node
}

// Row is one visible line of a flattened tree.
type Row struct {
	Node  *Node
	Depth int
}

// Build creates a tree rooted at an unnamed directory. Parent directories
// missing from entries are created.
func Build(entries []archive.Entry) *Node {
	root := &Node{IsDir: true}
	dirs := map[string]*Node{"": root}

	var dirFor func(p string) *Node
	dirFor = func(p string) *Node {
		if n, ok := dirs[p]; ok {
			return n
		}
		parent, name := split(p)
		n := &Node{Name: name, Path: p, IsDir: true}
		dirs[p] = n
		pn := dirFor(parent)
		pn.Children = append(pn.Children, n)
		return n
	}

	for _, e := range entries {
		p := strings.Trim(e.Path, "/")
		if p == "" {
			continue
		}
		if e.IsDir {
			dirFor(p)
			continue
		}
		parent, name := split(p)
		pn := dirFor(parent)
		pn.Children = append(pn.Children, &Node{Name: name, Path: p, Size: e.Size})
	}

	sortChildren(root)
	return root
}

func split(p string) (parent, name string) {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}

// sortChildren orders directories first, then by name.
func sortChildren(n *Node) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.IsDir {
			sortChildren(c)
		}
	}
}

// Flatten returns the rows visible when the directories in expanded are open.
// The root itself is not a row and is always open.
func Flatten(root *Node, expanded map[string]bool) []Row {
	var rows []Row
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		for _, c := range n.Children {
			rows = append(rows, Row{Node: c, Depth: depth})
			if c.IsDir && expanded[c.Path] {
				walk(c, depth+1)
			}
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return rows
}

// Files returns the paths of every file below n in display order.
func Files(n *Node) []string {
	var out []string
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if c.IsDir {
				walk(c)
			} else {
				out = append(out, c.Path)
			}
		}
	}
	walk(n)
	return out
}

// Filter fuzzy-matches pattern against paths, best match first.
// An empty pattern returns paths unchanged.
func Filter(paths []string, pattern string) []string {
	if pattern == "" {
		return paths
	}
	matches := fuzzy.Find(pattern, paths)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

// Render writes the tree with box-drawing connectors.
func Render(w io.Writer, root *Node) error {
	var walk func(n *Node, prefix string) error
	walk = func(n *Node, prefix string) error {
		for i, c := range n.Children {
			connector, next := "├── ", "│   "
			if i == len(n.Children)-1 {
				connector, next = "└── ", "    "
			}
			name := c.Name
			if c.IsDir {
				name += "/"
			}
			if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, connector, name); err != nil {
				return err
			}
			if c.IsDir {
				if err := walk(c, prefix+next); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(root, "")
}

// FormatSize formats a byte count for display, e.g. "1.5 KB".
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
