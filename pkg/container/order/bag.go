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

// Bag is an unordered Index: RemoveAt moves the last item into the hole and
// Insert moves the displaced item to the end, both O(1).
type Bag[K any] struct {
	items []K
}

func NewBag[K any](capacity int) *Bag[K] {
	return &Bag[K]{items: make([]K, 0, capacity)}
}

func (b *Bag[K]) Kind() Kind { return KindBag }

func (b *Bag[K]) Len() int { return len(b.items) }

func (b *Bag[K]) Get(i int) K {
	checkIndex(i, len(b.items))
	return b.items[i]
}

func (b *Bag[K]) Set(i int, k K) K {
	checkIndex(i, len(b.items))
	old := b.items[i]
	b.items[i] = k
	return old
}

func (b *Bag[K]) Add(k K) {
	b.items = append(b.items, k)
}

func (b *Bag[K]) Insert(i int, k K) {
	checkInsert(i, len(b.items))
	if i == len(b.items) {
		b.items = append(b.items, k)
		return
	}
	b.items = append(b.items, b.items[i])
	b.items[i] = k
}

func (b *Bag[K]) RemoveAt(i int) K {
	checkIndex(i, len(b.items))
	last := len(b.items) - 1
	k := b.items[i]
	b.items[i] = b.items[last]
	var zero K
	b.items[last] = zero
	b.items = b.items[:last]
	return k
}

// RemoveRange fills the gap with items taken from the end.
func (b *Bag[K]) RemoveRange(start, end int) {
	n := len(b.items)
	checkRange(start, end, n)
	count := end - start
	tail := n - end
	if tail > count {
		tail = count
	}
	copy(b.items[start:], b.items[n-tail:])
	var zero K
	for i := n - count; i < n; i++ {
		b.items[i] = zero
	}
	b.items = b.items[:n-count]
}

func (b *Bag[K]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	var zero K
	for i := n; i < len(b.items); i++ {
		b.items[i] = zero
	}
	if n < len(b.items) {
		b.items = b.items[:n]
	}
}

func (b *Bag[K]) Clear() {
	b.Truncate(0)
}

func (b *Bag[K]) EnsureCapacity(additional int) {
	if additional > 0 {
		b.items = slices.Grow(b.items, additional)
	}
}

func (b *Bag[K]) Sort(cmp Comparator[K]) {
	slices.SortStableFunc(b.items, cmp)
}

func (b *Bag[K]) All() iter.Seq2[int, K] {
	return func(yield func(int, K) bool) {
		for i, k := range b.items {
			if !yield(i, k) {
				return
			}
		}
	}
}

func (b *Bag[K]) AppendTo(dst []K) []K {
	return append(dst, b.items...)
}
