package catalog

import "shopRecs/domain"

// Tree is an arena of category nodes with index-based child lookup. Walks are
// iterative, so a deep or even cyclic parent chain can never blow the stack.
type Tree struct {
	nodes []node
	index map[uint64]int
}

type node struct {
	id       uint64
	children []int
}

func NewTree(categories []domain.Category) *Tree {
	t := &Tree{
		nodes: make([]node, 0, len(categories)),
		index: make(map[uint64]int, len(categories)),
	}

	for _, c := range categories {
		if _, ok := t.index[c.CategoryID]; ok {
			continue
		}
		t.index[c.CategoryID] = len(t.nodes)
		t.nodes = append(t.nodes, node{id: c.CategoryID})
	}

	for _, c := range categories {
		if c.ParentID == nil {
			continue
		}
		parentIdx, ok := t.index[*c.ParentID]
		if !ok {
			continue
		}
		childIdx := t.index[c.CategoryID]
		if parentIdx == childIdx {
			continue
		}
		t.nodes[parentIdx].children = append(t.nodes[parentIdx].children, childIdx)
	}

	return t
}

func (t *Tree) Contains(id uint64) bool {
	_, ok := t.index[id]
	return ok
}

// DescendantsAndSelf returns the category id plus every category below it.
// Unknown ids return just themselves, so callers can use the result directly
// as a filter.
func (t *Tree) DescendantsAndSelf(id uint64) []uint64 {
	start, ok := t.index[id]
	if !ok {
		return []uint64{id}
	}

	out := make([]uint64, 0, 4)
	visited := make(map[int]bool)
	stack := []int{start}

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[idx] {
			continue
		}
		visited[idx] = true

		out = append(out, t.nodes[idx].id)
		stack = append(stack, t.nodes[idx].children...)
	}

	return out
}
