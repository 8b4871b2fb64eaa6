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

// Package order holds the growable sequences the ordered hash containers
// use to remember their iteration order.
package order

import (
	"fmt"
	"iter"

	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

// Kind selects the Index implementation backing an ordered container.
type Kind uint8

const (
	// KindList keeps order on removal, removal is O(n).
	KindList Kind = iota
	// KindDeque is a ring buffer, cheap at both ends.
	KindDeque
	// KindBag does not keep order on removal, removal is O(1).
	KindBag
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindDeque:
		return "deque"
	case KindBag:
		return "bag"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "list", "":
		return KindList, nil
	case "deque":
		return KindDeque, nil
	case "bag":
		return KindBag, nil
	}
	return KindList, moerr.NewInvalidArgNoCtx("order kind", s)
}

// Comparator returns a negative number, zero or a positive number when a
// sorts before, together with or after b.
type Comparator[K any] func(a, b K) int

// Natural orders by the < operator. NaNs sort first.
func Natural[K constraints.Ordered]() Comparator[K] {
	return func(a, b K) int {
		aNaN, bNaN := a != a, b != b
		switch {
		case aNaN || bNaN:
			if aNaN && bNaN {
				return 0
			}
			if aNaN {
				return -1
			}
			return 1
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
}

// Reverse flips cmp.
func Reverse[K any](cmp Comparator[K]) Comparator[K] {
	return func(a, b K) int {
		return cmp(b, a)
	}
}

// Index is an ordered sequence of keys. Positional methods panic with an
// ErrOutOfRange error when given a bad index, the same way slice indexing
// panics.
type Index[K any] interface {
	Kind() Kind
	Len() int
	Get(i int) K
	// Set replaces the item at i and returns the old one.
	Set(i int, k K) K
	Add(k K)
	// Insert places k at i, 0 <= i <= Len().
	Insert(i int, k K)
	RemoveAt(i int) K
	// RemoveRange removes [start, end).
	RemoveRange(start, end int)
	// Truncate drops items from the end until Len() <= n.
	Truncate(n int)
	Clear()
	EnsureCapacity(additional int)
	Sort(cmp Comparator[K])
	All() iter.Seq2[int, K]
	// AppendTo appends the items in order to dst.
	AppendTo(dst []K) []K
}

// New returns an empty Index of the given kind.
func New[K any](kind Kind, capacity int) Index[K] {
	if capacity < 0 {
		capacity = 0
	}
	switch kind {
	case KindDeque:
		return NewDeque[K](capacity)
	case KindBag:
		return NewBag[K](capacity)
	default:
		return NewList[K](capacity)
	}
}

// Clone returns an Index of the same kind holding the same items.
func Clone[K any](src Index[K]) Index[K] {
	dst := New[K](src.Kind(), src.Len())
	for _, k := range src.All() {
		dst.Add(k)
	}
	return dst
}

func checkIndex(i, n int) {
	if i < 0 || i >= n {
		panic(moerr.NewOutOfRangeNoCtx("index", "%d not in [0, %d)", i, n))
	}
}

func checkInsert(i, n int) {
	if i < 0 || i > n {
		panic(moerr.NewOutOfRangeNoCtx("index", "%d not in [0, %d]", i, n))
	}
}

func checkRange(start, end, n int) {
	if start < 0 || end > n || start > end {
		panic(moerr.NewOutOfRangeNoCtx("range", "[%d, %d) not in [0, %d)", start, end, n))
	}
}
