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
	"math/bits"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/logutil"
)

// zeroSlot addresses the out-of-band entry of the zero key.
const zeroSlot = -1

// table is the open addressing engine shared by every collection. Keys live
// in keyTable, values in the parallel valueTable, and a slot is empty when
// its key is the zero key. The zero key itself is stored out of band in
// zeroKey and zeroValue. zeroKey keeps the spelling it was put with, which
// differs from the zero K for hashers that fold several keys together.
//
// Collisions are resolved by linear probing and removal shifts later keys
// of the cluster back, so there are no tombstones.
type table[K, V any] struct {
	hasher Hasher[K]

	keyTable   []K
	valueTable []V

	hasZeroValue bool
	zeroKey      K
	zeroValue    V

	size       int
	loadFactor float64
	threshold  int
	mask       int
	shift      int

	hashMultiplier uint64
	defaultValue   V
}

func (t *table[K, V]) init(hasher Hasher[K], o options) error {
	if hasher == nil {
		return moerr.NewInvalidArgNoCtx("hasher", "nil")
	}
	if err := checkLoadFactor(o.loadFactor); err != nil {
		return err
	}
	n, err := tableSize(o.capacity, o.loadFactor)
	if err != nil {
		return err
	}
	t.hasher = hasher
	t.loadFactor = o.loadFactor
	t.hashMultiplier = o.multiplier
	if t.hashMultiplier == 0 {
		t.hashMultiplier = randomMultiplier()
	}
	t.setLength(n)
	t.keyTable = make([]K, n)
	t.valueTable = make([]V, n)
	return nil
}

func (t *table[K, V]) setLength(n int) {
	t.threshold = int(float64(n) * t.loadFactor)
	t.mask = n - 1
	t.shift = bits.LeadingZeros64(uint64(t.mask))
}

func (t *table[K, V]) isZero(k K) bool {
	var zero K
	return t.hasher.Equal(k, zero)
}

// place returns the home slot of k.
func (t *table[K, V]) place(k K) int {
	return int((t.hasher.Hash(k) * t.hashMultiplier) >> t.shift)
}

// locateKey returns the slot holding k, or the empty slot ending its probe.
// k must not be the zero key.
func (t *table[K, V]) locateKey(k K) (int, bool) {
	for i := t.place(k); ; i = (i + 1) & t.mask {
		other := t.keyTable[i]
		if t.isZero(other) {
			return i, false
		}
		if t.hasher.Equal(k, other) {
			return i, true
		}
	}
}

// find returns the slot of k, zeroSlot for the zero key.
func (t *table[K, V]) find(k K) (int, bool) {
	if t.isZero(k) {
		return zeroSlot, t.hasZeroValue
	}
	return t.locateKey(k)
}

func (t *table[K, V]) valueAt(slot int) V {
	if slot == zeroSlot {
		return t.zeroValue
	}
	return t.valueTable[slot]
}

func (t *table[K, V]) setValueAt(slot int, v V) V {
	var old V
	if slot == zeroSlot {
		old, t.zeroValue = t.zeroValue, v
	} else {
		old, t.valueTable[slot] = t.valueTable[slot], v
	}
	return old
}

// put stores v under k. It returns the replaced value, or the default value
// and true when k is new.
func (t *table[K, V]) put(k K, v V) (V, bool) {
	slot, found := t.find(k)
	if found {
		return t.setValueAt(slot, v), false
	}
	if slot == zeroSlot {
		t.hasZeroValue = true
		t.zeroKey = k
		t.zeroValue = v
	} else {
		t.keyTable[slot] = k
		t.valueTable[slot] = v
	}
	t.size++
	if t.size >= t.threshold {
		t.resize(t.grownSize())
	}
	return t.defaultValue, true
}

// grownSize doubles the table length until the threshold clears size.
// Small load factors need more than one doubling.
func (t *table[K, V]) grownSize() int {
	n := len(t.keyTable) << 1
	for int(float64(n)*t.loadFactor) <= t.size {
		n <<= 1
	}
	return n
}

// putResize places a key known to be absent, without size bookkeeping.
func (t *table[K, V]) putResize(k K, v V) {
	for i := t.place(k); ; i = (i + 1) & t.mask {
		if t.isZero(t.keyTable[i]) {
			t.keyTable[i] = k
			t.valueTable[i] = v
			return
		}
	}
}

// remove deletes k and returns its value, or the default value and false
// when k is absent.
func (t *table[K, V]) remove(k K) (V, bool) {
	slot, found := t.find(k)
	if !found {
		return t.defaultValue, false
	}
	old := t.valueAt(slot)
	if slot == zeroSlot {
		t.removeZero()
	} else {
		t.removeSlot(slot)
	}
	return old, true
}

func (t *table[K, V]) removeZero() {
	t.resetZero()
	t.size--
}

func (t *table[K, V]) resetZero() {
	var (
		zk K
		zv V
	)
	t.hasZeroValue = false
	t.zeroKey = zk
	t.zeroValue = zv
}

// removeSlot empties slot i and pulls later keys of its cluster back into
// the hole whenever the hole lies on their probe path. It returns the slot
// left empty at the end.
func (t *table[K, V]) removeSlot(i int) int {
	mask := t.mask
	for next := (i + 1) & mask; ; next = (next + 1) & mask {
		k := t.keyTable[next]
		if t.isZero(k) {
			break
		}
		p := t.place(k)
		if (next-p)&mask > (i-p)&mask {
			t.keyTable[i] = k
			t.valueTable[i] = t.valueTable[next]
			i = next
		}
	}
	var (
		zeroK K
		zeroV V
	)
	t.keyTable[i] = zeroK
	t.valueTable[i] = zeroV
	t.size--
	return i
}

func (t *table[K, V]) resize(newSize int) {
	oldLen := len(t.keyTable)
	oldKeys, oldValues := t.keyTable, t.valueTable
	t.setLength(newSize)
	t.hashMultiplier = nextMultiplier(t.hashMultiplier, t.shift)
	t.rehash(oldKeys, oldValues)
	if logutil.Enabled(zapcore.DebugLevel) {
		logutil.Debug("table resized",
			zap.Int("from", oldLen),
			zap.Int("to", newSize),
			zap.Int("size", t.size),
			zap.Uint64("multiplier", t.hashMultiplier))
	}
}

func (t *table[K, V]) rehash(oldKeys []K, oldValues []V) {
	n := t.mask + 1
	t.keyTable = make([]K, n)
	t.valueTable = make([]V, n)
	if t.size == 0 {
		return
	}
	for i, k := range oldKeys {
		if !t.isZero(k) {
			t.putResize(k, oldValues[i])
		}
	}
}

func (t *table[K, V]) clear() {
	t.size = 0
	t.resetZero()
	clear(t.keyTable)
	clear(t.valueTable)
}

func (t *table[K, V]) clearTo(maxCapacity int) error {
	n, err := tableSize(maxCapacity, t.loadFactor)
	if err != nil {
		return err
	}
	if len(t.keyTable) <= n {
		t.clear()
		return nil
	}
	t.size = 0
	t.resetZero()
	t.resize(n)
	return nil
}

func (t *table[K, V]) ensureCapacity(additional int) error {
	if additional < 0 {
		return moerr.NewInvalidArgNoCtx("additional capacity", additional)
	}
	n, err := tableSize(t.size+additional, t.loadFactor)
	if err != nil {
		return err
	}
	if len(t.keyTable) < n {
		t.resize(n)
	}
	return nil
}

// Shrink reduces the table to the smallest length that holds
// max(maxCapacity, Size()) entries. It never grows the table.
func (t *table[K, V]) Shrink(maxCapacity int) error {
	if maxCapacity < 0 {
		return moerr.NewInvalidArgNoCtx("capacity", maxCapacity)
	}
	n, err := tableSize(max(maxCapacity, t.size), t.loadFactor)
	if err != nil {
		return err
	}
	if len(t.keyTable) > n {
		t.resize(n)
	}
	return nil
}

// SetLoadFactor changes the load factor, growing the table if the current
// entries no longer fit.
func (t *table[K, V]) SetLoadFactor(f float64) error {
	if err := checkLoadFactor(f); err != nil {
		return err
	}
	n, err := tableSize(t.size, f)
	if err != nil {
		return err
	}
	t.loadFactor = f
	if n > len(t.keyTable) {
		t.resize(n)
		return nil
	}
	t.threshold = int(float64(len(t.keyTable)) * f)
	return nil
}

func (t *table[K, V]) LoadFactor() float64 { return t.loadFactor }

// Size returns the number of entries, the zero key included.
func (t *table[K, V]) Size() int { return t.size }

func (t *table[K, V]) IsEmpty() bool { return t.size == 0 }

func (t *table[K, V]) NotEmpty() bool { return t.size != 0 }

// TableSize returns the length of the backing arrays.
func (t *table[K, V]) TableSize() int { return len(t.keyTable) }

func (t *table[K, V]) HashMultiplier() uint64 { return t.hashMultiplier }

// SetHashMultiplier installs m|1 and rehashes every key in place. Bad
// multipliers only cost speed.
func (t *table[K, V]) SetHashMultiplier(m uint64) {
	t.hashMultiplier = m | 1
	t.rehash(t.keyTable, t.valueTable)
}

// firstSlot returns the first live slot in table order, zeroSlot for the
// zero key, or false when the table is empty.
func (t *table[K, V]) firstSlot() (int, bool) {
	if t.hasZeroValue {
		return zeroSlot, true
	}
	for i, k := range t.keyTable {
		if !t.isZero(k) {
			return i, true
		}
	}
	return 0, false
}

func (t *table[K, V]) keyAt(slot int) K {
	if slot == zeroSlot {
		return t.zeroKey
	}
	return t.keyTable[slot]
}

// iterationStart returns the slot right after the first empty slot. Table
// order iteration begins there so that the shifts done by removal never
// carry a key across the start of the walk.
func (t *table[K, V]) iterationStart() int {
	for i, k := range t.keyTable {
		if t.isZero(k) {
			return (i + 1) & t.mask
		}
	}
	return 0
}

// cloneFrom makes t a deep copy of src.
func (t *table[K, V]) cloneFrom(src *table[K, V]) {
	*t = *src
	t.keyTable = append([]K(nil), src.keyTable...)
	t.valueTable = append([]V(nil), src.valueTable...)
}
