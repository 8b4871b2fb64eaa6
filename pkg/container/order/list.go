// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package order

import (
	"iter"

	"golang.org/x/exp/slices"
)

// List is a slice backed Index that keeps order on removal.
type List[K any] struct {
	items []K
}

func NewList[K any](capacity int) *List[K] {
	return &List[K]{items: make([]K, 0, capacity)}
}

func (l *List[K]) Kind() Kind { return KindList }

func (l *List[K]) Len() int { return len(l.items) }

func (l *List[K]) Get(i int) K {
	checkIndex(i, len(l.items))
	return l.items[i]
}

func (l *List[K]) Set(i int, k K) K {
	checkIndex(i, len(l.items))
	old := l.items[i]
	l.items[i] = k
	return old
}

func (l *List[K]) Add(k K) {
	l.items = append(l.items, k)
}

func (l *List[K]) Insert(i int, k K) {
	checkInsert(i, len(l.items))
	l.items = slices.Insert(l.items, i, k)
}

func (l *List[K]) RemoveAt(i int) K {
	checkIndex(i, len(l.items))
	k := l.items[i]
	copy(l.items[i:], l.items[i+1:])
	l.shrinkTo(len(l.items) - 1)
	return k
}

func (l *List[K]) RemoveRange(start, end int) {
	checkRange(start, end, len(l.items))
	n := copy(l.items[start:], l.items[end:])
	l.shrinkTo(start + n)
}

func (l *List[K]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(l.items) {
		l.shrinkTo(n)
	}
}

func (l *List[K]) Clear() {
	l.shrinkTo(0)
}

func (l *List[K]) EnsureCapacity(additional int) {
	if additional > 0 {
		l.items = slices.Grow(l.items, additional)
	}
}

func (l *List[K]) Sort(cmp Comparator[K]) {
	slices.SortStableFunc(l.items, cmp)
}

func (l *List[K]) All() iter.Seq2[int, K] {
	return func(yield func(int, K) bool) {
		for i, k := range l.items {
			if !yield(i, k) {
				return
			}
		}
	}
}

func (l *List[K]) AppendTo(dst []K) []K {
	return append(dst, l.items...)
}

// shrinkTo zeroes the dropped tail so removed keys can be collected.
func (l *List[K]) shrinkTo(n int) {
	var zero K
	for i := n; i < len(l.items); i++ {
		l.items[i] = zero
	}
	l.items = l.items[:n]
}
