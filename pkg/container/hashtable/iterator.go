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
	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

// Iterator walks a collection one element at a time and can remove the
// element it returned last. A collection owns two iterators per view and
// hands them out in turn, so getting a third iterator of a view invalidates
// the oldest one. Use All or a Clone when more are needed.
type Iterator[K, V, T any] struct {
	c     cursor[K, V]
	pick  func(K, V) T
	valid bool
}

type cursor[K, V any] interface {
	reset()
	hasNext() bool
	next() (K, V)
	remove() error
}

// Entry is a key and its value.
type Entry[K, V any] struct {
	Key   K
	Value V
}

func pickKey[K, V any](k K, _ V) K { return k }

func pickValue[K, V any](_ K, v V) V { return v }

func pickEntry[K, V any](k K, v V) Entry[K, V] { return Entry[K, V]{Key: k, Value: v} }

// HasNext reports whether Next has another element. It panics with
// ErrInvalidState when the iterator was invalidated by a newer one of the
// same view, so a nested loop fails instead of ending early.
func (it *Iterator[K, V, T]) HasNext() bool {
	if !it.valid {
		panic(moerr.NewInvalidStateNoCtx("iterator cannot be used nested"))
	}
	return it.c.hasNext()
}

// Next returns the next element. It fails with ErrInvalidState when the
// iterator was invalidated, and returns moerr.GetOkExpectedEOF() after the
// last element.
func (it *Iterator[K, V, T]) Next() (T, error) {
	var t T
	if !it.valid {
		return t, moerr.NewInvalidStateNoCtx("iterator cannot be used nested")
	}
	if !it.c.hasNext() {
		return t, moerr.GetOkExpectedEOF()
	}
	return it.pick(it.c.next()), nil
}

// Remove deletes the element returned by the last call to Next.
func (it *Iterator[K, V, T]) Remove() error {
	if !it.valid {
		return moerr.NewInvalidStateNoCtx("iterator cannot be used nested")
	}
	return it.c.remove()
}

// Reset rewinds the iterator to the first element.
func (it *Iterator[K, V, T]) Reset() {
	it.c.reset()
}

func (it *Iterator[K, V, T]) Valid() bool {
	return it.valid
}

// AppendTo drains the rest of the iterator into dst.
func (it *Iterator[K, V, T]) AppendTo(dst []T) ([]T, error) {
	if !it.valid {
		return dst, moerr.NewInvalidStateNoCtx("iterator cannot be used nested")
	}
	for it.c.hasNext() {
		dst = append(dst, it.pick(it.c.next()))
	}
	return dst, nil
}

// iteratorPair is the two iterators of one view.
type iteratorPair[K, V, T any] struct {
	first, second *Iterator[K, V, T]
}

func (p *iteratorPair[K, V, T]) acquire(newCursor func() cursor[K, V], pick func(K, V) T) *Iterator[K, V, T] {
	if p.first == nil {
		p.first = &Iterator[K, V, T]{c: newCursor(), pick: pick}
		p.second = &Iterator[K, V, T]{c: newCursor(), pick: pick}
	}
	if !p.first.valid {
		p.first.Reset()
		p.first.valid = true
		p.second.valid = false
		return p.first
	}
	p.second.Reset()
	p.second.valid = true
	p.first.valid = false
	return p.second
}

const (
	posIllegal = -2
	posZero    = -1
)

// tableCursor walks a table in slot order, starting with the zero key and
// then at table.iterationStart. Positions are relative to that start.
type tableCursor[K, V any] struct {
	t       *table[K, V]
	start   int
	pos     int
	current int
	more    bool
}

func newTableCursor[K, V any](t *table[K, V]) func() cursor[K, V] {
	return func() cursor[K, V] {
		return &tableCursor[K, V]{t: t}
	}
}

func (c *tableCursor[K, V]) slot(pos int) int {
	return (c.start + pos) & c.t.mask
}

func (c *tableCursor[K, V]) reset() {
	c.current = posIllegal
	c.start = c.t.iterationStart()
	c.pos = posZero
	if c.t.hasZeroValue {
		c.more = true
		return
	}
	c.findNext()
}

func (c *tableCursor[K, V]) findNext() {
	n := len(c.t.keyTable)
	for c.pos++; c.pos < n; c.pos++ {
		if !c.t.isZero(c.t.keyTable[c.slot(c.pos)]) {
			c.more = true
			return
		}
	}
	c.more = false
}

func (c *tableCursor[K, V]) hasNext() bool { return c.more }

func (c *tableCursor[K, V]) next() (k K, v V) {
	if c.pos == posZero {
		k, v = c.t.zeroKey, c.t.zeroValue
	} else {
		s := c.slot(c.pos)
		k, v = c.t.keyTable[s], c.t.valueTable[s]
	}
	c.current = c.pos
	c.findNext()
	return k, v
}

func (c *tableCursor[K, V]) remove() error {
	switch {
	case c.current == posZero && c.t.hasZeroValue:
		c.t.removeZero()
	case c.current < 0:
		return moerr.NewInvalidStateNoCtx("next must be called before remove")
	default:
		s := c.slot(c.current)
		if hole := c.t.removeSlot(s); hole != s {
			// a later key moved into the visited slot
			c.pos = c.current - 1
			c.findNext()
		}
	}
	c.current = posIllegal
	return nil
}
