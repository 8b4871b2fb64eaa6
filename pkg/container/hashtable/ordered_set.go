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

// OrderedSet is a Set that also keeps its items in an order.Index.
type OrderedSet[K any] struct {
	setCore[K]
	items order.Index[K]

	iters iteratorPair[K, struct{}, K]
}

func NewOrderedSet[K any](hasher Hasher[K], opts ...Option) (*OrderedSet[K], error) {
	o := buildOptions(opts)
	s := &OrderedSet[K]{}
	if err := s.init(hasher, o); err != nil {
		return nil, err
	}
	s.items = order.New[K](o.order, o.capacity)
	return s, nil
}

func NewOrderedSetFrom[K any](hasher Hasher[K], items []K, opts ...Option) (*OrderedSet[K], error) {
	s, err := NewOrderedSet[K](hasher, append([]Option{WithCapacity(len(items))}, opts...)...)
	if err != nil {
		return nil, err
	}
	s.AddAll(items...)
	return s, nil
}

// Add appends k and reports whether it was absent. A present key keeps its
// position.
func (s *OrderedSet[K]) Add(k K) bool {
	if _, inserted := s.put(k, struct{}{}); !inserted {
		return false
	}
	s.items.Add(k)
	return true
}

// AddAt places k at index, moving it there when it is already present, and
// reports whether it was absent.
func (s *OrderedSet[K]) AddAt(k K, index int) (bool, error) {
	if s.Contains(k) {
		if err := checkPosition(index, s.size); err != nil {
			return false, err
		}
		if oldIndex := s.indexOf(k); oldIndex != index {
			s.items.Insert(index, s.items.RemoveAt(oldIndex))
		}
		return false, nil
	}
	if err := checkInsertPosition(index, s.size); err != nil {
		return false, err
	}
	s.put(k, struct{}{})
	s.items.Insert(index, k)
	return true, nil
}

// AddAll appends the absent items and reports whether the set changed.
// Presizing is best effort: when it fails the items are still added and the
// table grows as they go.
func (s *OrderedSet[K]) AddAll(items ...K) bool {
	_ = s.EnsureCapacity(len(items))
	changed := false
	for _, k := range items {
		if s.Add(k) {
			changed = true
		}
	}
	return changed
}

func (s *OrderedSet[K]) AddAllSeq(seq iter.Seq[K]) bool {
	changed := false
	for k := range seq {
		if s.Add(k) {
			changed = true
		}
	}
	return changed
}

// AddAllRange adds count items of other starting at position offset.
func (s *OrderedSet[K]) AddAllRange(other *OrderedSet[K], offset, count int) (bool, error) {
	if offset < 0 || count < 0 || offset > other.size {
		return false, moerr.NewOutOfRangeNoCtx("range", "offset %d count %d not in [0, %d]", offset, count, other.size)
	}
	end := min(other.size, offset+count)
	if err := s.EnsureCapacity(end - offset); err != nil {
		return false, err
	}
	changed := false
	for i := offset; i < end; i++ {
		if s.Add(other.items.Get(i)) {
			changed = true
		}
	}
	return changed, nil
}

func (s *OrderedSet[K]) Remove(k K) bool {
	if _, removed := s.remove(k); !removed {
		return false
	}
	s.items.RemoveAt(s.indexOf(k))
	return true
}

func (s *OrderedSet[K]) RemoveAt(index int) (K, error) {
	if err := checkPosition(index, s.size); err != nil {
		var zero K
		return zero, err
	}
	k := s.items.RemoveAt(index)
	s.remove(k)
	return k, nil
}

func (s *OrderedSet[K]) RemoveRange(start, end int) error {
	if err := checkPositionRange(start, end, s.size); err != nil {
		return err
	}
	for i := start; i < end; i++ {
		s.remove(s.items.Get(i))
	}
	s.items.RemoveRange(start, end)
	return nil
}

func (s *OrderedSet[K]) Truncate(n int) {
	n = max(n, 0)
	if n < s.size {
		_ = s.RemoveRange(n, s.size)
	}
}

// Alter replaces before with after at the same position. It fails when
// before is absent or after is present.
func (s *OrderedSet[K]) Alter(before, after K) bool {
	if s.Contains(after) {
		return false
	}
	index := s.indexOf(before)
	if index < 0 {
		return false
	}
	s.rename(index, before, after)
	return true
}

func (s *OrderedSet[K]) AlterAt(index int, after K) bool {
	if index < 0 || index >= s.size || s.Contains(after) {
		return false
	}
	s.rename(index, s.items.Get(index), after)
	return true
}

func (s *OrderedSet[K]) rename(index int, before, after K) {
	s.remove(before)
	s.put(after, struct{}{})
	s.items.Set(index, after)
}

func (s *OrderedSet[K]) GetAt(index int) (K, error) {
	if err := checkPosition(index, s.size); err != nil {
		var zero K
		return zero, err
	}
	return s.items.Get(index), nil
}

func (s *OrderedSet[K]) IndexOf(k K) int {
	return s.indexOf(k)
}

func (s *OrderedSet[K]) indexOf(k K) int {
	for i, other := range s.items.All() {
		if s.hasher.Equal(k, other) {
			return i
		}
	}
	return -1
}

func (s *OrderedSet[K]) Order() order.Index[K] {
	return s.items
}

func (s *OrderedSet[K]) Sort(cmp order.Comparator[K]) {
	s.items.Sort(cmp)
}

func (s *OrderedSet[K]) Clear() {
	s.clear()
	s.items.Clear()
}

func (s *OrderedSet[K]) ClearTo(maxCapacity int) error {
	if err := s.clearTo(maxCapacity); err != nil {
		return err
	}
	s.items.Clear()
	return nil
}

func (s *OrderedSet[K]) EnsureCapacity(additional int) error {
	if err := s.ensureCapacity(additional); err != nil {
		return err
	}
	s.items.EnsureCapacity(additional)
	return nil
}

func (s *OrderedSet[K]) First() (K, error) {
	if s.size == 0 {
		var zero K
		return zero, errEmpty("set")
	}
	return s.items.Get(0), nil
}

func (s *OrderedSet[K]) Iterator() *Iterator[K, struct{}, K] {
	return s.iters.acquire(s.newCursor, pickKey[K, struct{}])
}

func (s *OrderedSet[K]) newCursor() cursor[K, struct{}] {
	return &orderCursor[K, struct{}]{
		keys:     func() order.Index[K] { return s.items },
		value:    func(K) struct{} { return struct{}{} },
		removeAt: func(i int) { _, _ = s.RemoveAt(i) },
	}
}

// All yields the items in order.
func (s *OrderedSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range s.items.All() {
			if !yield(k) {
				return
			}
		}
	}
}

func (s *OrderedSet[K]) Clone() *OrderedSet[K] {
	c := &OrderedSet[K]{}
	c.cloneFrom(&s.table)
	c.items = order.Clone(s.items)
	return c
}

func (s *OrderedSet[K]) String() string {
	return formatKeys(s.All())
}
