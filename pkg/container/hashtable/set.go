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

// Set is an unordered hash set with open addressing and linear probing.
type Set[K any] struct {
	setCore[K]

	items iteratorPair[K, struct{}, K]
}

func NewSet[K any](hasher Hasher[K], opts ...Option) (*Set[K], error) {
	s := &Set[K]{}
	if err := s.init(hasher, buildOptions(opts)); err != nil {
		return nil, err
	}
	return s, nil
}

func NewSetFrom[K any](hasher Hasher[K], items []K, opts ...Option) (*Set[K], error) {
	s, err := NewSet[K](hasher, append([]Option{WithCapacity(len(items))}, opts...)...)
	if err != nil {
		return nil, err
	}
	s.AddAll(items...)
	return s, nil
}

// Add inserts k and reports whether it was absent.
func (s *Set[K]) Add(k K) bool {
	_, inserted := s.put(k, struct{}{})
	return inserted
}

// AddAll inserts every item and reports whether the set changed. Presizing
// is best effort, as in OrderedSet.AddAll.
func (s *Set[K]) AddAll(items ...K) bool {
	_ = s.ensureCapacity(len(items))
	changed := false
	for _, k := range items {
		if s.Add(k) {
			changed = true
		}
	}
	return changed
}

func (s *Set[K]) AddAllSeq(seq iter.Seq[K]) bool {
	changed := false
	for k := range seq {
		if s.Add(k) {
			changed = true
		}
	}
	return changed
}

// Remove deletes k and reports whether it was present.
func (s *Set[K]) Remove(k K) bool {
	_, removed := s.remove(k)
	return removed
}

func (s *Set[K]) Clear() {
	s.clear()
}

func (s *Set[K]) ClearTo(maxCapacity int) error {
	return s.clearTo(maxCapacity)
}

func (s *Set[K]) EnsureCapacity(additional int) error {
	return s.ensureCapacity(additional)
}

func (s *Set[K]) First() (K, error) {
	slot, ok := s.firstSlot()
	if !ok {
		var zero K
		return zero, errEmpty("set")
	}
	return s.keyAt(slot), nil
}

// Iterator returns one of the two pooled iterators, reset.
func (s *Set[K]) Iterator() *Iterator[K, struct{}, K] {
	return s.items.acquire(newTableCursor(&s.table), pickKey[K, struct{}])
}

func (s *Set[K]) All() iter.Seq[K] {
	return s.tableSeq()
}

func (s *Set[K]) Clone() *Set[K] {
	c := &Set[K]{}
	c.cloneFrom(&s.table)
	return c
}

func (s *Set[K]) String() string {
	return formatKeys(s.tableSeq())
}
