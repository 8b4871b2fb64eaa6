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
	"fmt"
	"iter"
	"strings"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

// Reader is the read side of a map.
type Reader[K, V any] interface {
	Size() int
	Lookup(k K) (V, bool)
	All() iter.Seq2[K, V]
}

// Container is the read side of a set.
type Container[K any] interface {
	Size() int
	Contains(k K) bool
	All() iter.Seq[K]
}

// mapCore holds what Map and OrderedMap share.
type mapCore[K, V any] struct {
	table[K, V]
	valueEqual func(a, b V) bool
}

func (m *mapCore[K, V]) equalValues(a, b V) bool {
	if m.valueEqual != nil {
		return m.valueEqual(a, b)
	}
	return any(a) == any(b)
}

// SetValueEqual replaces the value comparison used by ContainsValue,
// FindKey and Equal. The default compares with ==, which panics for values
// holding slices, maps or funcs.
func (m *mapCore[K, V]) SetValueEqual(eq func(a, b V) bool) {
	m.valueEqual = eq
}

func (m *mapCore[K, V]) ContainsKey(k K) bool {
	_, found := m.find(k)
	return found
}

// Get returns the value of k, or DefaultValue when k is absent.
func (m *mapCore[K, V]) Get(k K) V {
	return m.GetOrDefault(k, m.defaultValue)
}

func (m *mapCore[K, V]) GetOrDefault(k K, d V) V {
	slot, found := m.find(k)
	if !found {
		return d
	}
	return m.valueAt(slot)
}

func (m *mapCore[K, V]) Lookup(k K) (V, bool) {
	slot, found := m.find(k)
	if !found {
		return m.defaultValue, false
	}
	return m.valueAt(slot), true
}

// ContainsValue scans every entry.
func (m *mapCore[K, V]) ContainsValue(v V) bool {
	_, found := m.FindKey(v)
	return found
}

// FindKey returns a key mapped to v. Which key is unspecified when several
// are.
func (m *mapCore[K, V]) FindKey(v V) (K, bool) {
	if m.hasZeroValue && m.equalValues(m.zeroValue, v) {
		return m.zeroKey, true
	}
	for i, k := range m.keyTable {
		if !m.isZero(k) && m.equalValues(m.valueTable[i], v) {
			return k, true
		}
	}
	var zero K
	return zero, false
}

// DefaultValue is returned by lookups of absent keys.
func (m *mapCore[K, V]) DefaultValue() V { return m.defaultValue }

func (m *mapCore[K, V]) SetDefaultValue(v V) { m.defaultValue = v }

// Equal reports whether other holds the same keys mapped to equal values.
// Order is not compared.
func (m *mapCore[K, V]) Equal(other Reader[K, V]) bool {
	if other == nil || other.Size() != m.size {
		return false
	}
	for k, v := range m.tableSeq() {
		ov, ok := other.Lookup(k)
		if !ok || !m.equalValues(v, ov) {
			return false
		}
	}
	return true
}

// tableSeq yields entries in slot order, zero key first.
func (m *mapCore[K, V]) tableSeq() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m.hasZeroValue {
			if !yield(m.zeroKey, m.zeroValue) {
				return
			}
		}
		for i, k := range m.keyTable {
			if !m.isZero(k) && !yield(k, m.valueTable[i]) {
				return
			}
		}
	}
}

func (m *mapCore[K, V]) cloneFrom(src *mapCore[K, V]) {
	m.table.cloneFrom(&src.table)
	m.valueEqual = src.valueEqual
}

func formatEntries[K, V any](seq iter.Seq2[K, V]) string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for k, v := range seq {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%v=%v", k, v)
	}
	sb.WriteByte('}')
	return sb.String()
}

// setCore holds what Set and OrderedSet share.
type setCore[K any] struct {
	table[K, struct{}]
}

func (s *setCore[K]) Contains(k K) bool {
	_, found := s.find(k)
	return found
}

// Equal reports whether other holds the same keys. Order is not compared.
func (s *setCore[K]) Equal(other Container[K]) bool {
	if other == nil || other.Size() != s.size {
		return false
	}
	for k := range s.tableSeq() {
		if !other.Contains(k) {
			return false
		}
	}
	return true
}

func (s *setCore[K]) tableSeq() iter.Seq[K] {
	return func(yield func(K) bool) {
		if s.hasZeroValue {
			if !yield(s.zeroKey) {
				return
			}
		}
		for _, k := range s.keyTable {
			if !s.isZero(k) && !yield(k) {
				return
			}
		}
	}
}

func formatKeys[K any](seq iter.Seq[K]) string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for k := range seq {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%v", k)
	}
	sb.WriteByte('}')
	return sb.String()
}

func errEmpty(what string) error {
	return moerr.NewInvalidStateNoCtx("cannot get first from an empty %s", what)
}

func checkPosition(i, n int) error {
	if i < 0 || i >= n {
		return moerr.NewOutOfRangeNoCtx("index", "%d not in [0, %d)", i, n)
	}
	return nil
}

func checkInsertPosition(i, n int) error {
	if i < 0 || i > n {
		return moerr.NewOutOfRangeNoCtx("index", "%d not in [0, %d]", i, n)
	}
	return nil
}

func checkPositionRange(start, end, n int) error {
	if start < 0 || end > n || start > end {
		return moerr.NewOutOfRangeNoCtx("range", "[%d, %d) not in [0, %d)", start, end, n)
	}
	return nil
}
