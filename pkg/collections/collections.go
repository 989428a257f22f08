// Package collections provides default-constructible, clearable collections
// for use with pool.CollectionPolicy. The zero value of each type is ready to
// use, so a pool can build one with new() and reset it with Clear() without
// giving up the backing storage.
package collections

// List is a slice-backed sequence.
type List[E any] struct {
	items []E
}

// Append adds items to the end of the list.
func (l *List[E]) Append(items ...E) {
	l.items = append(l.items, items...)
}

// At returns the item at index i.
func (l *List[E]) At(i int) E {
	return l.items[i]
}

// Items exposes the backing slice. It is only valid until the next mutation.
func (l *List[E]) Items() []E {
	return l.items
}

// Len returns the number of items.
func (l *List[E]) Len() int {
	return len(l.items)
}

// Cap returns the capacity retained across Clear calls.
func (l *List[E]) Cap() int {
	return cap(l.items)
}

// Clear empties the list, keeping its capacity. Elements are zeroed so the
// list does not pin garbage while it sits in a pool.
func (l *List[E]) Clear() {
	clear(l.items)
	l.items = l.items[:0]
}

// Set is an unordered collection of unique values.
type Set[E comparable] struct {
	m map[E]struct{}
}

// Add inserts v and reports whether it was absent.
func (s *Set[E]) Add(v E) bool {
	if s.m == nil {
		s.m = make(map[E]struct{})
	}
	if _, ok := s.m[v]; ok {
		return false
	}
	s.m[v] = struct{}{}
	return true
}

// Has reports whether v is present.
func (s *Set[E]) Has(v E) bool {
	_, ok := s.m[v]
	return ok
}

// Remove deletes v.
func (s *Set[E]) Remove(v E) {
	delete(s.m, v)
}

// Len returns the number of values.
func (s *Set[E]) Len() int {
	return len(s.m)
}

// Clear removes every value. The map keeps its buckets.
func (s *Set[E]) Clear() {
	clear(s.m)
}

// Dict is a key/value map.
type Dict[K comparable, V any] struct {
	m map[K]V
}

// Put stores v under k.
func (d *Dict[K, V]) Put(k K, v V) {
	if d.m == nil {
		d.m = make(map[K]V)
	}
	d.m[k] = v
}

// Get returns the value for k.
func (d *Dict[K, V]) Get(k K) (V, bool) {
	v, ok := d.m[k]
	return v, ok
}

// Delete removes k.
func (d *Dict[K, V]) Delete(k K) {
	delete(d.m, k)
}

// Range calls fn for every entry until fn returns false.
func (d *Dict[K, V]) Range(fn func(K, V) bool) {
	for k, v := range d.m {
		if !fn(k, v) {
			return
		}
	}
}

// Len returns the number of entries.
func (d *Dict[K, V]) Len() int {
	return len(d.m)
}

// Clear removes every entry. The map keeps its buckets.
func (d *Dict[K, V]) Clear() {
	clear(d.m)
}
