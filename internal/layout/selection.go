package layout

import "sort"

// Selection is the transient set of selected cell indices.
type Selection map[int]struct{}

// NewSelection returns a selection holding the given indices.
func NewSelection(indices ...int) Selection {
	s := make(Selection, len(indices))
	for _, i := range indices {
		s[i] = struct{}{}
	}
	return s
}

func (s Selection) Has(i int) bool {
	_, ok := s[i]
	return ok
}

func (s Selection) Add(i int) { s[i] = struct{}{} }

func (s Selection) Remove(i int) { delete(s, i) }

// Toggle flips membership of i and reports whether it is now selected.
func (s Selection) Toggle(i int) bool {
	if s.Has(i) {
		delete(s, i)
		return false
	}
	s[i] = struct{}{}
	return true
}

func (s Selection) Len() int { return len(s) }

// Clear empties the selection in place.
func (s Selection) Clear() {
	for i := range s {
		delete(s, i)
	}
}

// Indices returns the selected indices in ascending order.
func (s Selection) Indices() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
