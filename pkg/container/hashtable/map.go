// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashtable

import (
	"iter"
)

// Map is an unordered hash map with open addressing and linear probing.
// Iteration follows slot order, which changes on every resize. A Map is
// not safe for concurrent use.
type Map[K, V any] struct {
	mapCore[K, V]

	keys    iteratorPair[K, V, K]
	values  iteratorPair[K, V, V]
	entries iteratorPair[K, V, Entry[K, V]]
}

func NewMap[K, V any](hasher Hasher[K], opts ...Option) (*Map[K, V], error) {
	m := &Map[K, V]{}
	if err := m.init(hasher, buildOptions(opts)); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMapFrom builds a map of keys[i] to values[i]. Extra items of the
// longer slice are ignored.
func NewMapFrom[K, V any](hasher Hasher[K], keys []K, values []V, opts ...Option) (*Map[K, V], error) {
	n := min(len(keys), len(values))
	m, err := NewMap[K, V](hasher, append([]Option{WithCapacity(n)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := m.PutAllSlices(keys, values); err != nil {
		return nil, err
	}
	return m, nil
}

// Put maps k to v and returns the previous value, or DefaultValue when k
// was absent.
func (m *Map[K, V]) Put(k K, v V) V {
	old, _ := m.put(k, v)
	return old
}

// PutIfAbsent maps k to v unless k is present. It returns the current value
// of a present key and DefaultValue otherwise.
func (m *Map[K, V]) PutIfAbsent(k K, v V) V {
	if slot, found := m.find(k); found {
		return m.valueAt(slot)
	}
	m.put(k, v)
	return m.defaultValue
}

// Replace changes the value of a present key only.
func (m *Map[K, V]) Replace(k K, v V) (V, bool) {
	slot, found := m.find(k)
	if !found {
		return m.defaultValue, false
	}
	return m.setValueAt(slot, v), true
}

// PutAll puts every entry of other. It fails without changing m when the
// combined size cannot fit in a table.
func (m *Map[K, V]) PutAll(other Reader[K, V]) error {
	if err := m.ensureCapacity(other.Size()); err != nil {
		return err
	}
	for k, v := range other.All() {
		m.put(k, v)
	}
	return nil
}

func (m *Map[K, V]) PutAllSlices(keys []K, values []V) error {
	n := min(len(keys), len(values))
	if err := m.ensureCapacity(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		m.put(keys[i], values[i])
	}
	return nil
}

func (m *Map[K, V]) PutAllSeq(seq iter.Seq2[K, V]) {
	for k, v := range seq {
		m.put(k, v)
	}
}

// Remove deletes k and returns its value, or DefaultValue when k was
// absent.
func (m *Map[K, V]) Remove(k K) V {
	old, _ := m.remove(k)
	return old
}

func (m *Map[K, V]) Clear() {
	m.clear()
}

// ClearTo removes every entry and shrinks the table to the size that holds
// maxCapacity entries if it is larger.
func (m *Map[K, V]) ClearTo(maxCapacity int) error {
	return m.clearTo(maxCapacity)
}

// EnsureCapacity grows the table so additional entries fit without a
// resize.
func (m *Map[K, V]) EnsureCapacity(additional int) error {
	return m.ensureCapacity(additional)
}

// First returns a key, the zero key if present.
func (m *Map[K, V]) First() (K, error) {
	slot, ok := m.firstSlot()
	if !ok {
		var zero K
		return zero, errEmpty("map")
	}
	return m.keyAt(slot), nil
}

// Keys returns one of the two pooled key iterators, reset.
func (m *Map[K, V]) Keys() *Iterator[K, V, K] {
	return m.keys.acquire(newTableCursor(&m.table), pickKey[K, V])
}

// Values returns one of the two pooled value iterators, reset.
func (m *Map[K, V]) Values() *Iterator[K, V, V] {
	return m.values.acquire(newTableCursor(&m.table), pickValue[K, V])
}

// Entries returns one of the two pooled entry iterators, reset.
func (m *Map[K, V]) Entries() *Iterator[K, V, Entry[K, V]] {
	return m.entries.acquire(newTableCursor(&m.table), pickEntry[K, V])
}

// All yields every entry. The map must not be modified during the loop.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return m.tableSeq()
}

func (m *Map[K, V]) KeySeq() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.tableSeq() {
			if !yield(k) {
				return
			}
		}
	}
}

func (m *Map[K, V]) ValueSeq() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.tableSeq() {
			if !yield(v) {
				return
			}
		}
	}
}

// Clone returns a copy with the same table layout. Iterators are not
// shared.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := &Map[K, V]{}
	c.cloneFrom(&m.mapCore)
	return c
}

func (m *Map[K, V]) String() string {
	return formatEntries(m.tableSeq())
}
