package catalog

import (
	"sort"
	"testing"

	"shopRecs/domain"
)

func ptr(v uint64) *uint64 { return &v }

func TestDescendantsAndSelf(t *testing.T) {
	tree := NewTree([]domain.Category{
		{CategoryID: 1, Name: "apparel"},
		{CategoryID: 2, Name: "shoes", ParentID: ptr(1)},
		{CategoryID: 3, Name: "sneakers", ParentID: ptr(2)},
		{CategoryID: 4, Name: "boots", ParentID: ptr(2)},
		{CategoryID: 5, Name: "electronics"},
	})

	got := tree.DescendantsAndSelf(1)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	want := []uint64{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if leaf := tree.DescendantsAndSelf(3); len(leaf) != 1 || leaf[0] != 3 {
		t.Errorf("leaf walk = %v, want [3]", leaf)
	}
}

func TestDescendantsAndSelfUnknownID(t *testing.T) {
	tree := NewTree(nil)

	got := tree.DescendantsAndSelf(42)
	if len(got) != 1 || got[0] != 42 {
		t.Fatalf("unknown id walk = %v, want [42]", got)
	}
}

func TestNewTreeIgnoresBrokenEdges(t *testing.T) {
	tree := NewTree([]domain.Category{
		{CategoryID: 1, ParentID: ptr(99)}, // unknown parent
		{CategoryID: 2, ParentID: ptr(2)},  // self parent
		{CategoryID: 2, ParentID: ptr(1)},  // duplicate id
	})

	if !tree.Contains(1) || !tree.Contains(2) {
		t.Fatal("valid ids dropped")
	}
	if got := tree.DescendantsAndSelf(2); len(got) != 1 || got[0] != 2 {
		t.Errorf("self-parented walk = %v, want [2]", got)
	}
}

// A parent cycle in bad data must terminate, not hang or overflow.
func TestDescendantsAndSelfCycleSafe(t *testing.T) {
	tree := NewTree([]domain.Category{
		{CategoryID: 1, ParentID: ptr(3)},
		{CategoryID: 2, ParentID: ptr(1)},
		{CategoryID: 3, ParentID: ptr(2)},
	})

	got := tree.DescendantsAndSelf(1)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	want := []uint64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("cycle walk = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cycle walk = %v, want %v", got, want)
		}
	}
}

// Deep chains walk iteratively; 100k levels would overflow a recursive
// implementation's stack.
func TestDescendantsAndSelfDeepChain(t *testing.T) {
	const depth = 100_000

	categories := make([]domain.Category, 0, depth)
	categories = append(categories, domain.Category{CategoryID: 1})
	for i := uint64(2); i <= depth; i++ {
		parent := i - 1
		categories = append(categories, domain.Category{CategoryID: i, ParentID: &parent})
	}

	tree := NewTree(categories)
	got := tree.DescendantsAndSelf(1)
	if len(got) != depth {
		t.Fatalf("deep walk returned %d ids, want %d", len(got), depth)
	}
}
