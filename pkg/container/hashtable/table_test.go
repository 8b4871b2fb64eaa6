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
	"math"
	"math/bits"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/exp/rand"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/logutil"
)

// clusterKeys sends every key to one of four home slots.
type clusterKeys struct{}

func (clusterKeys) Hash(k int) uint64 { return uint64(k) & 3 }

func (clusterKeys) Equal(a, b int) bool { return a == b }

// checkTable verifies the structural invariants of a table.
func checkTable[K, V any](t *testing.T, tb *table[K, V]) {
	n := len(tb.keyTable)
	require.Equal(t, n, len(tb.valueTable))
	require.Equal(t, 0, n&(n-1), "table size %d", n)
	require.Equal(t, n-1, tb.mask)
	require.Equal(t, bits.LeadingZeros64(uint64(tb.mask)), tb.shift)

	live := 0
	for i, k := range tb.keyTable {
		if tb.isZero(k) {
			continue
		}
		live++
		for j := tb.place(k); j != i; j = (j + 1) & tb.mask {
			require.False(t, tb.isZero(tb.keyTable[j]), "key in slot %d unreachable from %d", i, tb.place(k))
		}
	}
	require.Less(t, live, n)
	if tb.hasZeroValue {
		live++
	}
	require.Equal(t, tb.size, live)
	require.LessOrEqual(t, tb.size, tb.threshold)
}

func TestTableSize(t *testing.T) {
	tests := []struct {
		capacity   int
		loadFactor float64
		want       int
	}{
		{0, DefaultLoadFactor, 2},
		{1, 1, 2},
		{2, 1, 4},
		{4, 0.75, 8},
		{6, 0.75, 8},
		{7, 0.75, 16},
		{DefaultCapacity, DefaultLoadFactor, 64},
		{1000, 0.5, 2048},
		{3, 0.1, 32},
		{200, 0.1, 2048},
	}
	for _, tt := range tests {
		got, err := tableSize(tt.capacity, tt.loadFactor)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "capacity %d load factor %v", tt.capacity, tt.loadFactor)
	}

	_, err := tableSize(-1, DefaultLoadFactor)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
	_, err = tableSize(math.MaxInt32, 0.5)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
}

func TestNewErrors(t *testing.T) {
	for _, f := range []float64{0, -0.5, 1.01, math.NaN(), math.Inf(1)} {
		_, err := NewIntMap[int, int](WithLoadFactor(f))
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg), "load factor %v", f)
	}
	_, err := NewIntSet[int](WithCapacity(-1))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
	_, err = NewMap[int, int](nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	m, err := NewIntMap[int, int](WithLoadFactor(1))
	require.NoError(t, err)
	require.Equal(t, 1.0, m.LoadFactor())
}

func TestInsertWithinThreshold(t *testing.T) {
	m, err := NewIntMap[int, string](WithCapacity(4), WithLoadFactor(0.75))
	require.NoError(t, err)
	require.Equal(t, 8, m.TableSize())
	require.Equal(t, 6, m.threshold)
	require.Equal(t, int(float64(m.TableSize())*0.75), m.threshold)

	for _, k := range []int{0, 1, 17, 33} {
		_, inserted := m.put(k, "v")
		require.True(t, inserted)
	}
	require.Equal(t, 4, m.Size())
	require.Equal(t, 8, m.TableSize(), "4 entries stay below threshold 6")
	for _, k := range []int{0, 1, 17, 33} {
		require.True(t, m.ContainsKey(k))
		require.Equal(t, "v", m.Get(k))
	}
	checkTable(t, &m.table)

	require.Equal(t, "v", m.Remove(17))
	require.True(t, m.ContainsKey(33))
	require.True(t, m.ContainsKey(1))
	require.False(t, m.ContainsKey(17))
	require.Equal(t, 3, m.Size())
	checkTable(t, &m.table)

	m.Put(2, "w")
	m.Put(3, "w")
	require.Equal(t, 5, m.Size())
	require.Equal(t, 8, m.TableSize())
	m.Put(4, "w")
	require.Equal(t, 16, m.TableSize(), "the 6th entry reaches the threshold")
	checkTable(t, &m.table)
}

func TestSmallLoadFactor(t *testing.T) {
	m, err := NewIntMap[int, int](WithCapacity(0), WithLoadFactor(0.1))
	require.NoError(t, err)
	checkTable(t, &m.table)

	resizes := 0
	for i := 1; i <= 200; i++ {
		before := m.TableSize()
		m.Put(i, i)
		if m.TableSize() != before {
			resizes++
		}
		checkTable(t, &m.table)
		require.Greater(t, m.threshold, m.Size(), "after put %d", i)
	}
	require.LessOrEqual(t, resizes, 10)
	m.Put(0, 0)
	checkTable(t, &m.table)

	s, err := NewIntSet[int](WithCapacity(3), WithLoadFactor(0.1))
	require.NoError(t, err)
	require.Equal(t, 3, s.threshold)
	s.AddAll(1, 2, 3)
	checkTable(t, &s.table)
}

func TestZeroKey(t *testing.T) {
	m, err := NewIntMap[int64, string]()
	require.NoError(t, err)
	m.SetDefaultValue("none")

	require.Equal(t, "none", m.Put(0, "zero"))
	require.True(t, m.hasZeroValue)
	require.Equal(t, 1, m.Size())
	for _, k := range m.keyTable {
		require.Equal(t, int64(0), k)
	}
	require.Equal(t, "zero", m.Put(0, "again"))
	require.Equal(t, "again", m.Get(0))
	v, ok := m.Lookup(0)
	require.True(t, ok)
	require.Equal(t, "again", v)
	k, err := m.First()
	require.NoError(t, err)
	require.Equal(t, int64(0), k)

	require.Equal(t, "again", m.Remove(0))
	require.False(t, m.ContainsKey(0))
	require.Equal(t, "none", m.Get(0))
	require.Equal(t, "none", m.Remove(0))
	require.Equal(t, 0, m.Size())
	_, err = m.First()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))
}

func TestClusteredRemove(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		m, err := NewMap[int, int](clusterKeys{}, WithCapacity(40), WithLoadFactor(0.9))
		require.NoError(t, err)
		ref := make(map[int]int)
		for i := 0; i < 2000; i++ {
			k := int(r.Intn(60))
			if r.Intn(3) == 0 {
				old, ok := ref[k]
				if !ok {
					old = m.DefaultValue()
				}
				require.Equal(t, old, m.Remove(k))
				delete(ref, k)
				checkTable(t, &m.table)
			} else {
				m.Put(k, i)
				ref[k] = i
			}
			require.Equal(t, len(ref), m.Size())
		}
		for k, v := range ref {
			got, ok := m.Lookup(k)
			require.True(t, ok)
			require.Equal(t, v, got)
		}
	}
}

func TestSetAgainstBitmap(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	s, err := NewIntSet[uint32](WithCapacity(8))
	require.NoError(t, err)
	ref := roaring.New()
	for i := 0; i < 50000; i++ {
		k := uint32(r.Intn(4096))
		switch r.Intn(4) {
		case 0:
			require.Equal(t, ref.CheckedRemove(k), s.Remove(k))
		default:
			require.Equal(t, ref.CheckedAdd(k), s.Add(k))
		}
		if i%1000 == 0 {
			checkTable(t, &s.table)
		}
	}
	require.Equal(t, int(ref.GetCardinality()), s.Size())
	for k := range s.All() {
		require.True(t, ref.Contains(k))
	}
	it := ref.Iterator()
	for it.HasNext() {
		require.True(t, s.Contains(it.Next()))
	}
	checkTable(t, &s.table)
}

func TestResizePreservesContents(t *testing.T) {
	m, err := NewIntMap[int64, int64](WithCapacity(2), WithLoadFactor(0.5))
	require.NoError(t, err)
	sizes := []int{m.TableSize()}
	for i := int64(1); i <= 10000; i++ {
		m.Put(i*7919, -i)
		if m.TableSize() != sizes[len(sizes)-1] {
			sizes = append(sizes, m.TableSize())
			require.Contains(t, goodMultipliers[:], m.HashMultiplier())
			for j := int64(1); j <= i; j++ {
				require.Equal(t, -j, m.Get(j*7919))
			}
		}
	}
	require.Greater(t, len(sizes), 10)
	for i := 1; i < len(sizes); i++ {
		require.Equal(t, sizes[i-1]*2, sizes[i])
	}
	checkTable(t, &m.table)
}

func TestStubbedMultiplier(t *testing.T) {
	stubs := gostub.Stub(&randomMultiplier, func() uint64 {
		return goodMultipliers[17]
	})
	defer stubs.Reset()

	a, err := NewStringMap[int]()
	require.NoError(t, err)
	b, err := NewStringMap[int]()
	require.NoError(t, err)
	require.Equal(t, goodMultipliers[17], a.HashMultiplier())
	for i, k := range []string{"ant", "bee", "cat", "dog", "eel", "fox", "gnu"} {
		a.Put(k, i)
		b.Put(k, i)
	}
	require.Equal(t, a.keyTable, b.keyTable)

	c, err := NewStringMap[int](WithHashMultiplier(10))
	require.NoError(t, err)
	require.Equal(t, uint64(11), c.HashMultiplier())
}

func TestSetHashMultiplier(t *testing.T) {
	m, err := NewIntMap[int, int]()
	require.NoError(t, err)
	for i := 0; i < 40; i++ {
		m.Put(i, i*i)
	}
	size := m.TableSize()
	m.SetHashMultiplier(2)
	require.Equal(t, uint64(3), m.HashMultiplier())
	require.Equal(t, size, m.TableSize())
	for i := 0; i < 40; i++ {
		require.Equal(t, i*i, m.Get(i))
	}
	checkTable(t, &m.table)
}

func TestGoodMultipliers(t *testing.T) {
	seen := make(map[uint64]struct{}, multiplierPoolSize)
	for _, m := range goodMultipliers {
		require.Equal(t, uint64(1), m&1)
		require.NotZero(t, m>>63)
		c := bits.OnesCount64(m)
		require.True(t, c >= 29 && c <= 35)
		seen[m] = struct{}{}
	}
	require.Equal(t, multiplierPoolSize, len(seen))
	require.Equal(t, buildMultipliers(), goodMultipliers)
	require.Contains(t, goodMultipliers[:], nextMultiplier(12345, 60))
}

func TestCapacityManagement(t *testing.T) {
	m, err := NewIntMap[int, int](WithLoadFactor(0.5))
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		m.Put(i, i)
	}
	require.NoError(t, m.EnsureCapacity(1000))
	want, _ := tableSize(1003, 0.5)
	require.Equal(t, want, m.TableSize())
	require.True(t, moerr.IsMoErrCode(m.EnsureCapacity(-1), moerr.ErrInvalidArg))

	require.NoError(t, m.Shrink(0))
	want, _ = tableSize(3, 0.5)
	require.Equal(t, want, m.TableSize())
	require.Equal(t, 3, m.Get(3))
	require.True(t, moerr.IsMoErrCode(m.Shrink(-1), moerr.ErrInvalidArg))

	require.NoError(t, m.EnsureCapacity(500))
	m.Put(0, 100)
	require.NoError(t, m.ClearTo(10))
	want, _ = tableSize(10, 0.5)
	require.Equal(t, want, m.TableSize())
	require.Equal(t, 0, m.Size())
	require.False(t, m.ContainsKey(0))

	m.Put(5, 5)
	m.Clear()
	require.Equal(t, want, m.TableSize())
	require.True(t, m.IsEmpty())
	checkTable(t, &m.table)
}

func TestFullLoadFactor(t *testing.T) {
	m, err := NewIntMap[int, int](WithLoadFactor(1))
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		m.Put(i, i)
	}
	require.NoError(t, m.Shrink(0))
	require.Equal(t, 4, m.TableSize())
	require.False(t, m.ContainsKey(99))
	m.Put(4, 4)
	require.Equal(t, 8, m.TableSize())
	checkTable(t, &m.table)
}

func TestSetLoadFactor(t *testing.T) {
	m, err := NewIntMap[int, int](WithCapacity(10), WithLoadFactor(1))
	require.NoError(t, err)
	for i := 1; i <= 10; i++ {
		m.Put(i, i)
	}
	require.Equal(t, 16, m.TableSize())
	require.True(t, moerr.IsMoErrCode(m.SetLoadFactor(0), moerr.ErrInvalidArg))
	require.NoError(t, m.SetLoadFactor(0.25))
	require.Equal(t, 64, m.TableSize())
	require.NoError(t, m.SetLoadFactor(0.9))
	require.Equal(t, 64, m.TableSize())
	require.Equal(t, 57, m.threshold)
	checkTable(t, &m.table)
}

func TestResizeLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	old := logutil.GetGlobalLogger()
	logutil.SetGlobalLogger(zap.New(core))
	defer logutil.SetGlobalLogger(old)

	s, err := NewIntSet[int](WithCapacity(2))
	require.NoError(t, err)
	for i := 1; i <= 4; i++ {
		s.Add(i)
	}
	entries := logs.FilterMessage("table resized").All()
	require.NotEmpty(t, entries)
	fields := entries[0].ContextMap()
	require.Equal(t, int64(4), fields["from"])
	require.Equal(t, int64(8), fields["to"])
}
