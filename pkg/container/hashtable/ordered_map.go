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

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/container/order"
)

// OrderedMap is a Map that also keeps its keys in an order.Index. New keys
// go to the end unless placed with PutAt, and iteration follows the index.
// Positional methods cost O(1) for lookups and O(n) for searches by key.
type OrderedMap[K, V any] struct {
	mapCore[K, V]
	keys order.Index[K]

	keyIters   iteratorPair[K, V, K]
	valueIters iteratorPair[K, V, V]
	entryIters iteratorPair[K, V, Entry[K, V]]
}

func NewOrderedMap[K, V any](hasher Hasher[K], opts ...Option) (*OrderedMap[K, V], error) {
	o := buildOptions(opts)
	m := &OrderedMap[K, V]{}
	if err := m.init(hasher, o); err != nil {
		return nil, err
	}
	m.keys = order.New[K](o.order, o.capacity)
	return m, nil
}

// NewOrderedMapFrom builds a map of keys[i] to values[i] in slice order.
// Extra items of the longer slice are ignored.
func NewOrderedMapFrom[K, V any](hasher Hasher[K], keys []K, values []V, opts ...Option) (*OrderedMap[K, V], error) {
	n := min(len(keys), len(values))
	m, err := NewOrderedMap[K, V](hasher, append([]Option{WithCapacity(n)}, opts...)...)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.Put(keys[i], values[i])
	}
	return m, nil
}

// Put maps k to v. A new key is appended to the order, a present key keeps
// its position.
func (m *OrderedMap[K, V]) Put(k K, v V) V {
	old, inserted := m.put(k, v)
	if inserted {
		m.keys.Add(k)
	}
	return old
}

// PutAt maps k to v and moves k to index. A present key may go anywhere in
// [0, Size()), a new one anywhere in [0, Size()].
func (m *OrderedMap[K, V]) PutAt(k K, v V, index int) (V, error) {
	slot, found := m.find(k)
	if found {
		if err := checkPosition(index, m.size); err != nil {
			return m.defaultValue, err
		}
		old := m.setValueAt(slot, v)
		if oldIndex := m.indexOf(k); oldIndex != index {
			m.keys.Insert(index, m.keys.RemoveAt(oldIndex))
		}
		return old, nil
	}
	if err := checkInsertPosition(index, m.size); err != nil {
		return m.defaultValue, err
	}
	m.put(k, v)
	m.keys.Insert(index, k)
	return m.defaultValue, nil
}

func (m *OrderedMap[K, V]) PutIfAbsent(k K, v V) V {
	if slot, found := m.find(k); found {
		return m.valueAt(slot)
	}
	m.Put(k, v)
	return m.defaultValue
}

func (m *OrderedMap[K, V]) Replace(k K, v V) (V, bool) {
	slot, found := m.find(k)
	if !found {
		return m.defaultValue, false
	}
	return m.setValueAt(slot, v), true
}

// PutAll puts every entry of other, in the order other yields them. It
// fails without changing m when the combined size cannot fit in a table.
func (m *OrderedMap[K, V]) PutAll(other Reader[K, V]) error {
	if err := m.EnsureCapacity(other.Size()); err != nil {
		return err
	}
	for k, v := range other.All() {
		m.Put(k, v)
	}
	return nil
}

// PutAllRange puts count entries of other starting at position offset.
func (m *OrderedMap[K, V]) PutAllRange(other *OrderedMap[K, V], offset, count int) error {
	end, err := other.rangeEnd(offset, count)
	if err != nil {
		return err
	}
	if err := m.EnsureCapacity(end - offset); err != nil {
		return err
	}
	for i := offset; i < end; i++ {
		k := other.keys.Get(i)
		m.Put(k, other.Get(k))
	}
	return nil
}

// PutAllAt is PutAllRange with the entries placed starting at
// insertionIndex, keeping their relative order.
func (m *OrderedMap[K, V]) PutAllAt(insertionIndex int, other *OrderedMap[K, V], offset, count int) error {
	end, err := other.rangeEnd(offset, count)
	if err != nil {
		return err
	}
	if err := checkInsertPosition(insertionIndex, m.size); err != nil {
		return err
	}
	if err := m.EnsureCapacity(end - offset); err != nil {
		return err
	}
	for i := end - 1; i >= offset; i-- {
		k := other.keys.Get(i)
		index := min(insertionIndex, m.size)
		if m.ContainsKey(k) {
			index = min(insertionIndex, m.size-1)
		}
		if _, err := m.PutAt(k, other.Get(k), index); err != nil {
			return err
		}
	}
	return nil
}

func (m *OrderedMap[K, V]) rangeEnd(offset, count int) (int, error) {
	if offset < 0 || count < 0 || offset > m.size {
		return 0, moerr.NewOutOfRangeNoCtx("range", "offset %d count %d not in [0, %d]", offset, count, m.size)
	}
	return min(m.size, offset+count), nil
}

// Remove deletes k from the map and the order.
func (m *OrderedMap[K, V]) Remove(k K) V {
	old, removed := m.remove(k)
	if removed {
		m.keys.RemoveAt(m.indexOf(k))
	}
	return old
}

// RemoveAt deletes the entry at index and returns its value.
func (m *OrderedMap[K, V]) RemoveAt(index int) (V, error) {
	if err := checkPosition(index, m.size); err != nil {
		return m.defaultValue, err
	}
	old, _ := m.remove(m.keys.RemoveAt(index))
	return old, nil
}

// RemoveRange deletes the entries at [start, end).
func (m *OrderedMap[K, V]) RemoveRange(start, end int) error {
	if err := checkPositionRange(start, end, m.size); err != nil {
		return err
	}
	for i := start; i < end; i++ {
		m.remove(m.keys.Get(i))
	}
	m.keys.RemoveRange(start, end)
	return nil
}

// Truncate drops entries from the end until at most n remain.
func (m *OrderedMap[K, V]) Truncate(n int) {
	n = max(n, 0)
	if n < m.size {
		_ = m.RemoveRange(n, m.size)
	}
}

// Alter renames before to after, keeping its value and position. It fails
// when before is absent or after is present.
func (m *OrderedMap[K, V]) Alter(before, after K) bool {
	if m.ContainsKey(after) {
		return false
	}
	index := m.indexOf(before)
	if index < 0 {
		return false
	}
	m.rename(index, before, after)
	return true
}

// AlterAt renames the key at index to after. It fails when index is out of
// range or after is present.
func (m *OrderedMap[K, V]) AlterAt(index int, after K) bool {
	if index < 0 || index >= m.size || m.ContainsKey(after) {
		return false
	}
	m.rename(index, m.keys.Get(index), after)
	return true
}

func (m *OrderedMap[K, V]) rename(index int, before, after K) {
	v, _ := m.remove(before)
	m.put(after, v)
	m.keys.Set(index, after)
}

// SetAt replaces the value at index and returns the old one.
func (m *OrderedMap[K, V]) SetAt(index int, v V) (V, error) {
	if err := checkPosition(index, m.size); err != nil {
		return m.defaultValue, err
	}
	slot, _ := m.find(m.keys.Get(index))
	return m.setValueAt(slot, v), nil
}

func (m *OrderedMap[K, V]) GetAt(index int) (V, error) {
	if err := checkPosition(index, m.size); err != nil {
		return m.defaultValue, err
	}
	return m.Get(m.keys.Get(index)), nil
}

func (m *OrderedMap[K, V]) KeyAt(index int) (K, error) {
	if err := checkPosition(index, m.size); err != nil {
		var zero K
		return zero, err
	}
	return m.keys.Get(index), nil
}

// IndexOf returns the position of k, or -1.
func (m *OrderedMap[K, V]) IndexOf(k K) int {
	return m.indexOf(k)
}

func (m *OrderedMap[K, V]) indexOf(k K) int {
	for i, other := range m.keys.All() {
		if m.hasher.Equal(k, other) {
			return i
		}
	}
	return -1
}

// Order exposes the key index. Changing its contents other than by
// reordering breaks the map.
func (m *OrderedMap[K, V]) Order() order.Index[K] {
	return m.keys
}

// Sort reorders the keys, the entries are untouched.
func (m *OrderedMap[K, V]) Sort(cmp order.Comparator[K]) {
	m.keys.Sort(cmp)
}

// SortByValue reorders the keys by their values.
func (m *OrderedMap[K, V]) SortByValue(cmp order.Comparator[V]) {
	m.keys.Sort(func(a, b K) int {
		return cmp(m.Get(a), m.Get(b))
	})
}

func (m *OrderedMap[K, V]) Clear() {
	m.clear()
	m.keys.Clear()
}

func (m *OrderedMap[K, V]) ClearTo(maxCapacity int) error {
	if err := m.clearTo(maxCapacity); err != nil {
		return err
	}
	m.keys.Clear()
	return nil
}

func (m *OrderedMap[K, V]) EnsureCapacity(additional int) error {
	if err := m.ensureCapacity(additional); err != nil {
		return err
	}
	m.keys.EnsureCapacity(additional)
	return nil
}

// First returns the first key in order.
func (m *OrderedMap[K, V]) First() (K, error) {
	if m.size == 0 {
		var zero K
		return zero, errEmpty("map")
	}
	return m.keys.Get(0), nil
}

func (m *OrderedMap[K, V]) Keys() *Iterator[K, V, K] {
	return m.keyIters.acquire(m.newCursor, pickKey[K, V])
}

func (m *OrderedMap[K, V]) Values() *Iterator[K, V, V] {
	return m.valueIters.acquire(m.newCursor, pickValue[K, V])
}

func (m *OrderedMap[K, V]) Entries() *Iterator[K, V, Entry[K, V]] {
	return m.entryIters.acquire(m.newCursor, pickEntry[K, V])
}

func (m *OrderedMap[K, V]) newCursor() cursor[K, V] {
	return &orderCursor[K, V]{
		keys:     func() order.Index[K] { return m.keys },
		value:    m.Get,
		removeAt: func(i int) { _, _ = m.RemoveAt(i) },
	}
}

// All yields the entries in order. The map must not be modified during the
// loop.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys.All() {
			if !yield(k, m.Get(k)) {
				return
			}
		}
	}
}

func (m *OrderedMap[K, V]) KeySeq() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range m.keys.All() {
			if !yield(k) {
				return
			}
		}
	}
}

func (m *OrderedMap[K, V]) ValueSeq() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, k := range m.keys.All() {
			if !yield(m.Get(k)) {
				return
			}
		}
	}
}

func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	c := &OrderedMap[K, V]{}
	c.cloneFrom(&m.mapCore)
	c.keys = order.Clone(m.keys)
	return c
}

func (m *OrderedMap[K, V]) String() string {
	return formatEntries(m.All())
}

// orderCursor walks an ordered collection by position.
type orderCursor[K, V any] struct {
	keys     func() order.Index[K]
	value    func(K) V
	removeAt func(int)

	nextIndex    int
	currentIndex int
}

func (c *orderCursor[K, V]) reset() {
	c.nextIndex = 0
	c.currentIndex = -1
}

func (c *orderCursor[K, V]) hasNext() bool {
	return c.nextIndex < c.keys().Len()
}

func (c *orderCursor[K, V]) next() (K, V) {
	k := c.keys().Get(c.nextIndex)
	c.currentIndex = c.nextIndex
	c.nextIndex++
	return k, c.value(k)
}

func (c *orderCursor[K, V]) remove() error {
	if c.currentIndex < 0 {
		return moerr.NewInvalidStateNoCtx("next must be called before remove")
	}
	c.removeAt(c.currentIndex)
	c.nextIndex = c.currentIndex
	c.currentIndex = -1
	return nil
}
