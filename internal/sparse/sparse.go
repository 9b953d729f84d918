// Package sparse provides a sparse set of small dense integers.
//
// The NFA simulator keeps its active state sets in sparse sets: insertion,
// membership and clearing are O(1) and iteration follows insertion order, so
// a whole simulation step touches only the states that are actually alive.
package sparse

// SparseSet is a set of uint32 values in [0, capacity).
// It pairs a sparse index (value -> position) with a dense list of members.
type SparseSet struct {
	sparse []uint32
	dense  []uint32
}

// NewSparseSet creates an empty set able to hold values below capacity.
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Cap returns the exclusive upper bound on stored values.
func (s *SparseSet) Cap() int {
	return len(s.sparse)
}

// Insert adds value and reports whether it was newly added.
// Panics if value >= Cap().
func (s *SparseSet) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
// Values outside the capacity are never members.
func (s *SparseSet) Contains(value uint32) bool {
	if uint64(value) >= uint64(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Clear empties the set in O(1).
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *SparseSet) Len() int {
	return len(s.dense)
}

// IsEmpty reports whether the set has no members.
func (s *SparseSet) IsEmpty() bool {
	return len(s.dense) == 0
}

// Values returns the members in insertion order.
// The slice is only valid until the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}
