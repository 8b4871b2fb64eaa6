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
	"math/bits"

	"golang.org/x/exp/slices"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

const minDequeCap = 8

// Deque is a ring buffer Index. Items at either end are added and removed
// in O(1); positional inserts and removals move the shorter side.
type Deque[K any] struct {
	items []K // len(items) is zero or a power of two
	head  int
	size  int
}

func NewDeque[K any](capacity int) *Deque[K] {
	d := &Deque[K]{}
	if capacity > 0 {
		d.items = make([]K, ringCap(capacity))
	}
	return d
}

func ringCap(n int) int {
	if n < minDequeCap {
		return minDequeCap
	}
	return 1 << bits.Len(uint(n-1))
}

func (d *Deque[K]) Kind() Kind { return KindDeque }

func (d *Deque[K]) Len() int { return d.size }

func (d *Deque[K]) slot(i int) int {
	return (d.head + i) & (len(d.items) - 1)
}

func (d *Deque[K]) Get(i int) K {
	checkIndex(i, d.size)
	return d.items[d.slot(i)]
}

func (d *Deque[K]) Set(i int, k K) K {
	checkIndex(i, d.size)
	s := d.slot(i)
	old := d.items[s]
	d.items[s] = k
	return old
}

func (d *Deque[K]) Add(k K) {
	d.AddLast(k)
}

func (d *Deque[K]) AddLast(k K) {
	d.grow(1)
	d.items[d.slot(d.size)] = k
	d.size++
}

func (d *Deque[K]) AddFirst(k K) {
	d.grow(1)
	d.head = (d.head - 1) & (len(d.items) - 1)
	d.items[d.head] = k
	d.size++
}

// PeekFirst returns the first item, ok is false on an empty deque.
func (d *Deque[K]) PeekFirst() (k K, ok bool) {
	if d.size == 0 {
		return k, false
	}
	return d.items[d.head], true
}

func (d *Deque[K]) PeekLast() (k K, ok bool) {
	if d.size == 0 {
		return k, false
	}
	return d.items[d.slot(d.size-1)], true
}

func (d *Deque[K]) PollFirst() (k K, ok bool) {
	if d.size == 0 {
		return k, false
	}
	return d.RemoveAt(0), true
}

func (d *Deque[K]) PollLast() (k K, ok bool) {
	if d.size == 0 {
		return k, false
	}
	return d.RemoveAt(d.size - 1), true
}

func (d *Deque[K]) Insert(i int, k K) {
	checkInsert(i, d.size)
	d.grow(1)
	mask := len(d.items) - 1
	if i < d.size/2 {
		d.head = (d.head - 1) & mask
		for j := 0; j < i; j++ {
			d.items[d.slot(j)] = d.items[d.slot(j+1)]
		}
	} else {
		for j := d.size; j > i; j-- {
			d.items[d.slot(j)] = d.items[d.slot(j-1)]
		}
	}
	d.items[d.slot(i)] = k
	d.size++
}

func (d *Deque[K]) RemoveAt(i int) K {
	checkIndex(i, d.size)
	var zero K
	k := d.items[d.slot(i)]
	if i < d.size/2 {
		for j := i; j > 0; j-- {
			d.items[d.slot(j)] = d.items[d.slot(j-1)]
		}
		d.items[d.head] = zero
		d.head = (d.head + 1) & (len(d.items) - 1)
	} else {
		for j := i; j < d.size-1; j++ {
			d.items[d.slot(j)] = d.items[d.slot(j+1)]
		}
		d.items[d.slot(d.size-1)] = zero
	}
	d.size--
	return k
}

func (d *Deque[K]) RemoveRange(start, end int) {
	checkRange(start, end, d.size)
	count := end - start
	if count == 0 {
		return
	}
	var zero K
	for j := start; j+count < d.size; j++ {
		d.items[d.slot(j)] = d.items[d.slot(j+count)]
	}
	for j := d.size - count; j < d.size; j++ {
		d.items[d.slot(j)] = zero
	}
	d.size -= count
}

func (d *Deque[K]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= d.size {
		return
	}
	d.RemoveRange(n, d.size)
}

func (d *Deque[K]) Clear() {
	var zero K
	for i := range d.items {
		d.items[i] = zero
	}
	d.head, d.size = 0, 0
}

func (d *Deque[K]) EnsureCapacity(additional int) {
	if additional > 0 {
		d.grow(additional)
	}
}

// grow makes room for n more items, linearizing the ring when it
// reallocates.
func (d *Deque[K]) grow(n int) {
	need := d.size + n
	if need <= len(d.items) {
		return
	}
	if need < 0 {
		panic(moerr.NewOutOfRangeNoCtx("deque", "capacity overflow"))
	}
	items := make([]K, ringCap(need))
	d.AppendTo(items[:0])
	d.items = items
	d.head = 0
}

// Sort linearizes the ring before sorting.
func (d *Deque[K]) Sort(cmp Comparator[K]) {
	if d.size < 2 {
		return
	}
	if d.head+d.size > len(d.items) {
		items := make([]K, len(d.items))
		d.AppendTo(items[:0])
		d.items = items
		d.head = 0
	}
	slices.SortStableFunc(d.items[d.head:d.head+d.size], cmp)
}

func (d *Deque[K]) All() iter.Seq2[int, K] {
	return func(yield func(int, K) bool) {
		for i := 0; i < d.size; i++ {
			if !yield(i, d.items[d.slot(i)]) {
				return
			}
		}
	}
}

func (d *Deque[K]) AppendTo(dst []K) []K {
	if d.size == 0 {
		return dst
	}
	end := d.head + d.size
	if end <= len(d.items) {
		return append(dst, d.items[d.head:end]...)
	}
	dst = append(dst, d.items[d.head:]...)
	return append(dst, d.items[:end-len(d.items)]...)
}
