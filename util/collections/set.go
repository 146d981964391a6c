package collections

type Set[V comparable] map[V]struct{}

// NewSet returns a set holding the given values
func NewSet[V comparable](values ...V) Set[V] {
	set := make(Set[V], len(values))
	for _, value := range values {
		set.Add(value)
	}
	return set
}

// Add an element to the set
func (set Set[V]) Add(value V) {
	set[value] = struct{}{}
}

// Remove an element from the set (or no-op if element not present)
func (set Set[V]) Remove(value V) {
	delete(set, value)
}

// Contains returns whether the element exists within the set
func (set Set[V]) Contains(value V) bool {
	_, contains := set[value]
	return contains
}

func (set Set[V]) Len() int {
	return len(set)
}

// Filter returns the values, in their given order, that are in the set
func (set Set[V]) Filter(values []V) []V {
	kept := make([]V, 0, len(values))
	for _, value := range values {
		if set.Contains(value) {
			kept = append(kept, value)
		}
	}
	return kept
}
