package tree

import "github.com/likhit-sai/CogniFlow/internal/entity"

// Node is the nested rendering of an item and its children, used by read APIs only.
// Persistence always stays flat.
type Node struct {
	Item     *entity.Item `json:"item"`
	Children []*Node      `json:"children"`
}

// Build nests the flat collection. Items whose parent is missing become roots.
func Build(items []*entity.Item) []*Node {
	byId := IndexById(items)
	nodes := make(map[string]*Node, len(items))
	for _, it := range items {
		nodes[it.Id] = &Node{Item: it, Children: make([]*Node, 0)}
	}

	roots := make([]*Node, 0)
	for _, it := range items {
		n := nodes[it.Id]
		if it.ParentId == nil {
			roots = append(roots, n)
			continue
		}
		if _, ok := byId[*it.ParentId]; !ok || *it.ParentId == it.Id {
			roots = append(roots, n)
			continue
		}
		parent := nodes[*it.ParentId]
		parent.Children = append(parent.Children, n)
	}
	return roots
}

// Walk visits nodes depth first, passing the depth of each node.
func Walk(nodes []*Node, fn func(n *Node, depth int)) {
	var visit func(ns []*Node, depth int, seen map[string]bool)
	visit = func(ns []*Node, depth int, seen map[string]bool) {
		for _, n := range ns {
			if seen[n.Item.Id] {
				continue
			}
			seen[n.Item.Id] = true
			fn(n, depth)
			visit(n.Children, depth+1, seen)
		}
	}
	visit(nodes, 0, make(map[string]bool))
}
