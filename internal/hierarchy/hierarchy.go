// Package hierarchy resolves a flat chart of accounts into an index-addressed tree.
package hierarchy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// Node is one subject in the tree. Parent and Children are indexes into Tree.Nodes.
type Node struct {
	Subject  model.Subject
	Parent   int // -1 for roots
	Children []int
	IsLeaf   bool
}

// Tree is a chart of accounts sorted by code.
type Tree struct {
	Nodes  []Node
	byCode map[string]int
	byID   map[string]int
}

// Build sorts subjects by code and links each to the longest active proper-prefix
// subject. A subject is a leaf when no other active subject's code extends its own.
func Build(subjects []model.Subject) (*Tree, error) {
	sorted := make([]model.Subject, len(subjects))
	copy(sorted, subjects)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	t := &Tree{
		Nodes:  make([]Node, len(sorted)),
		byCode: make(map[string]int, len(sorted)),
		byID:   make(map[string]int, len(sorted)),
	}
	for i, s := range sorted {
		if s.Code == "" {
			return nil, fmt.Errorf("%w: subject %q has no code", model.ErrInvalidSubjectConfiguration, s.ID)
		}
		if !s.Direction.Valid() {
			return nil, fmt.Errorf("%w: subject %s has direction %q", model.ErrInvalidSubjectConfiguration, s.Code, s.Direction)
		}
		if _, dup := t.byCode[s.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %s", model.ErrInvalidSubjectConfiguration, s.Code)
		}
		if s.ID != "" {
			if _, dup := t.byID[s.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate id %s", model.ErrInvalidSubjectConfiguration, s.ID)
			}
			t.byID[s.ID] = i
		}
		t.byCode[s.Code] = i
		t.Nodes[i] = Node{Subject: s, Parent: -1, IsLeaf: true}
	}

	for i := range t.Nodes {
		s := t.Nodes[i].Subject
		if s.ParentID != "" {
			if _, ok := t.byID[s.ParentID]; !ok {
				return nil, fmt.Errorf("%w: subject %s names parent %q", model.ErrUnknownSubjectReference, s.Code, s.ParentID)
			}
		}
		// Sorted order puts every prefix before its extensions, so the nearest
		// active ancestor is found by trying successively shorter prefixes.
		for n := len(s.Code) - 1; n > 0; n-- {
			j, ok := t.byCode[s.Code[:n]]
			if !ok || !t.Nodes[j].Subject.Active {
				continue
			}
			t.Nodes[i].Parent = j
			t.Nodes[j].Children = append(t.Nodes[j].Children, i)
			break
		}
		if s.Active {
			t.markAncestorsNonLeaf(s.Code)
		}
	}
	return t, nil
}

// markAncestorsNonLeaf clears IsLeaf on every subject whose code is a proper prefix of code.
func (t *Tree) markAncestorsNonLeaf(code string) {
	for n := len(code) - 1; n > 0; n-- {
		if j, ok := t.byCode[code[:n]]; ok {
			t.Nodes[j].IsLeaf = false
		}
	}
}

// Len returns the number of subjects.
func (t *Tree) Len() int { return len(t.Nodes) }

// Lookup returns the index of the subject with code.
func (t *Tree) Lookup(code string) (int, bool) {
	i, ok := t.byCode[code]
	return i, ok
}

// Index returns the index of the subject with id.
func (t *Tree) Index(id string) (int, bool) {
	i, ok := t.byID[id]
	return i, ok
}

// Subject returns the subject with code or fails with ErrUnknownSubjectReference.
func (t *Tree) Subject(code string) (model.Subject, error) {
	i, ok := t.byCode[code]
	if !ok {
		return model.Subject{}, fmt.Errorf("%w: %s", model.ErrUnknownSubjectReference, code)
	}
	return t.Nodes[i].Subject, nil
}

// Roots returns the indexes of subjects without a parent, in code order.
func (t *Tree) Roots() []int {
	var roots []int
	for i, n := range t.Nodes {
		if n.Parent < 0 {
			roots = append(roots, i)
		}
	}
	return roots
}

// Leaves returns the indexes of leaf subjects, in code order.
func (t *Tree) Leaves() []int {
	var leaves []int
	for i, n := range t.Nodes {
		if n.IsLeaf {
			leaves = append(leaves, i)
		}
	}
	return leaves
}

// PostOrder returns every index with children before their parent.
// Reverse code order has that property because a prefix sorts before its extensions.
func (t *Tree) PostOrder() []int {
	order := make([]int, len(t.Nodes))
	for i := range order {
		order[i] = len(t.Nodes) - 1 - i
	}
	return order
}

// Descendants returns all indexes below i, in code order.
func (t *Tree) Descendants(i int) []int {
	var out []int
	var walk func(int)
	walk = func(n int) {
		for _, c := range t.Nodes[n].Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(i)
	sort.Ints(out)
	return out
}

// IsDescendantCode reports whether code sits under ancestor by the prefix rule.
func IsDescendantCode(code, ancestor string) bool {
	return len(code) > len(ancestor) && strings.HasPrefix(code, ancestor)
}

// CheckCodes fails with ErrUnknownSubjectReference on the first code not in the tree.
func (t *Tree) CheckCodes(codes ...string) error {
	for _, c := range codes {
		if _, ok := t.byCode[c]; !ok {
			return fmt.Errorf("%w: %s", model.ErrUnknownSubjectReference, c)
		}
	}
	return nil
}

// CheckLeaf fails with ErrUnknownSubjectReference when code is not in the tree
// and with ErrInvalidSubjectConfiguration when the subject has sub-subjects.
// Amounts are only ever kept on leaves.
func (t *Tree) CheckLeaf(code string) error {
	i, ok := t.byCode[code]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrUnknownSubjectReference, code)
	}
	if !t.Nodes[i].IsLeaf {
		return fmt.Errorf("%w: subject %s has sub-subjects", model.ErrInvalidSubjectConfiguration, code)
	}
	return nil
}

// CheckMovements runs CheckLeaf on every movement's key.
func (t *Tree) CheckMovements(movements []model.Movement) error {
	for _, m := range movements {
		if err := t.CheckLeaf(m.Key); err != nil {
			return fmt.Errorf("%s: %w", m.SourceRef, err)
		}
	}
	return nil
}
