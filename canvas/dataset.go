package canvas

import (
	"fmt"
	"sync"
)

// DataSet is a keyed collection that notifies observers when items are added.
// Observers run on the goroutine that added the items, after the set is unlocked.
type DataSet[K comparable, T any] struct {
	mu    sync.Mutex
	key   func(T) K
	items map[K]T
	order []K
	onAdd []func(keys []K)
}

func NewDataSet[K comparable, T any](key func(T) K) *DataSet[K, T] {
	return &DataSet[K, T]{
		key:   key,
		items: make(map[K]T),
	}
}

// Add inserts all items or none of them
func (d *DataSet[K, T]) Add(items ...T) error {
	d.mu.Lock()
	keys := make([]K, 0, len(items))
	for _, item := range items {
		k := d.key(item)
		if _, ok := d.items[k]; ok {
			d.mu.Unlock()
			return fmt.Errorf("item %v already exists", k)
		}
		keys = append(keys, k)
	}
	for i, item := range items {
		d.items[keys[i]] = item
	}
	d.order = append(d.order, keys...)
	observers := append([]func([]K){}, d.onAdd...)
	d.mu.Unlock()

	for _, fn := range observers {
		fn(keys)
	}
	return nil
}

func (d *DataSet[K, T]) Get(k K) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	item, ok := d.items[k]
	return item, ok
}

func (d *DataSet[K, T]) Remove(k K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.items[k]; !ok {
		return false
	}
	delete(d.items, k)
	for i, o := range d.order {
		if o == k {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

func (d *DataSet[K, T]) All() []T {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]T, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.items[k])
	}
	return out
}

func (d *DataSet[K, T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}

func (d *DataSet[K, T]) OnAdd(fn func(keys []K)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onAdd = append(d.onAdd, fn)
}
