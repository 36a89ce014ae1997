// Package aggregate holds the pure grouping and reduction functions used by
// the reports. None of them mutate their input or fail on empty input.
package aggregate

// Number is the value type of a grouped aggregate.
type Number interface {
	~int | ~int64 | ~float64
}

// Entry is one key/value pair of a grouped aggregate.
type Entry[K comparable, V Number] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// Grouped maps keys to aggregated values and remembers the order in which
// keys were first seen.
type Grouped[K comparable, V Number] struct {
	keys   []K
	values map[K]V
}

func newGrouped[K comparable, V Number]() *Grouped[K, V] {
	return &Grouped[K, V]{values: make(map[K]V)}
}

func (g *Grouped[K, V]) add(key K, v V) {
	if _, seen := g.values[key]; !seen {
		g.keys = append(g.keys, key)
	}
	g.values[key] += v
}

// Len returns the number of distinct keys.
func (g *Grouped[K, V]) Len() int {
	return len(g.keys)
}

// Keys returns the keys in first-occurrence order.
func (g *Grouped[K, V]) Keys() []K {
	out := make([]K, len(g.keys))
	copy(out, g.keys)
	return out
}

// Values returns the values aligned with Keys.
func (g *Grouped[K, V]) Values() []V {
	out := make([]V, len(g.keys))
	for i, k := range g.keys {
		out[i] = g.values[k]
	}
	return out
}

// Get returns the value for key and whether the key occurred.
func (g *Grouped[K, V]) Get(key K) (V, bool) {
	v, ok := g.values[key]
	return v, ok
}

// Entries returns the pairs in first-occurrence order.
func (g *Grouped[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], len(g.keys))
	for i, k := range g.keys {
		out[i] = Entry[K, V]{Key: k, Value: g.values[k]}
	}
	return out
}

// Total sums every value.
func (g *Grouped[K, V]) Total() V {
	var total V
	for _, k := range g.keys {
		total += g.values[k]
	}
	return total
}

// SumByKey totals valueFn over records grouped by keyFn.
func SumByKey[T any, K comparable](records []T, keyFn func(T) K, valueFn func(T) float64) *Grouped[K, float64] {
	out := newGrouped[K, float64]()
	for _, r := range records {
		out.add(keyFn(r), valueFn(r))
	}
	return out
}

// CountByKey counts records grouped by keyFn.
func CountByKey[T any, K comparable](records []T, keyFn func(T) K) *Grouped[K, int] {
	out := newGrouped[K, int]()
	for _, r := range records {
		out.add(keyFn(r), 1)
	}
	return out
}

// Sum totals valueFn over items.
func Sum[T any](items []T, valueFn func(T) float64) float64 {
	var total float64
	for _, it := range items {
		total += valueFn(it)
	}
	return total
}

// Average returns the mean of valueFn over items, or 0 for an empty collection.
func Average[T any](items []T, valueFn func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return Sum(items, valueFn) / float64(len(items))
}
