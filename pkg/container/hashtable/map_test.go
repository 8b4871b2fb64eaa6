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
	"maps"
	"math"
	"slices"
	"sort"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

func TestMapOperations(t *testing.T) {
	m, err := NewMapFrom[string, int](StringKeys{}, []string{"a", "b", "c", "d"}, []int{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, m.Size())
	require.False(t, m.ContainsKey("d"))

	require.Equal(t, 1, m.PutIfAbsent("a", 10))
	require.Equal(t, 0, m.PutIfAbsent("e", 5))
	require.Equal(t, 5, m.Get("e"))

	old, ok := m.Replace("b", 20)
	require.True(t, ok)
	require.Equal(t, 2, old)
	_, ok = m.Replace("zz", 1)
	require.False(t, ok)
	require.False(t, m.ContainsKey("zz"))

	require.True(t, m.ContainsValue(20))
	require.False(t, m.ContainsValue(2))
	k, ok := m.FindKey(3)
	require.True(t, ok)
	require.Equal(t, "c", k)
	require.Equal(t, 7, m.GetOrDefault("nope", 7))

	m.PutAllSeq(maps.All(map[string]int{"x": 100, "y": 200}))
	require.Equal(t, 6, m.Size())
	keys := slices.Sorted(m.KeySeq())
	require.Equal(t, []string{"a", "b", "c", "e", "x", "y"}, keys)
	values := slices.Sorted(m.ValueSeq())
	require.Equal(t, []int{1, 3, 5, 20, 100, 200}, values)
	require.Equal(t, map[string]int{"a": 1, "b": 20, "c": 3, "e": 5, "x": 100, "y": 200}, maps.Collect(m.All()))

	c := m.Clone()
	require.True(t, c.Equal(m))
	c.Put("a", -1)
	require.Equal(t, 1, m.Get("a"))
	require.False(t, c.Equal(m))
	require.False(t, m.Equal(nil))
}

func TestMapValueEqual(t *testing.T) {
	m, err := NewIntMap[int, []int]()
	require.NoError(t, err)
	m.Put(1, []int{1, 2})
	m.Put(2, []int{3})
	m.SetValueEqual(slices.Equal[[]int])
	require.True(t, m.ContainsValue([]int{3}))
	k, ok := m.FindKey([]int{1, 2})
	require.True(t, ok)
	require.Equal(t, 1, k)

	c := m.Clone()
	require.True(t, c.Equal(m))
}

func TestMapString(t *testing.T) {
	m, err := NewIntMap[int, string]()
	require.NoError(t, err)
	require.Equal(t, "{}", m.String())
	m.Put(0, "zero")
	require.Equal(t, "{0=zero}", m.String())
}

func TestSetOperations(t *testing.T) {
	s, err := NewSetFrom[int](IntegerKeys[int]{}, []int{5, 1, 5, 0})
	require.NoError(t, err)
	require.Equal(t, 3, s.Size())
	require.True(t, s.Contains(0))
	require.False(t, s.AddAll(1, 5))
	require.True(t, s.AddAllSeq(slices.Values([]int{7, 8})))
	require.Equal(t, []int{0, 1, 5, 7, 8}, slices.Sorted(s.All()))

	first, err := s.First()
	require.NoError(t, err)
	require.Equal(t, 0, first)

	c := s.Clone()
	require.True(t, c.Equal(s))
	require.True(t, c.Remove(7))
	require.False(t, c.Remove(7))
	require.True(t, s.Contains(7))
	require.False(t, s.Equal(c))

	o, err := NewIntOrderedSet[int]()
	require.NoError(t, err)
	o.AddAllSeq(s.All())
	require.True(t, o.Equal(s))
	require.True(t, s.Equal(o))

	s.Clear()
	require.Equal(t, "{}", s.String())
	_, err = s.First()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))
	require.Equal(t, "invalid state cannot get first from an empty set", err.Error())
}

func TestFloatKeys(t *testing.T) {
	m, err := NewFloatMap[float64, string]()
	require.NoError(t, err)
	negZero := math.Copysign(0, -1)
	m.Put(0, "pos")
	m.Put(negZero, "neg")
	require.Equal(t, 2, m.Size())
	require.True(t, m.hasZeroValue)
	require.Equal(t, "pos", m.Get(0))
	require.Equal(t, "neg", m.Get(negZero))

	m.Put(math.NaN(), "nan")
	require.Equal(t, "nan", m.Get(math.Float64frombits(0x7ff8000000000042)))
	require.Equal(t, 3, m.Size())
	m.Remove(math.NaN())
	require.False(t, m.ContainsKey(math.NaN()))

	s, err := NewFloatSet[float32]()
	require.NoError(t, err)
	require.True(t, s.Add(1.5))
	require.False(t, s.Add(1.5))
	require.True(t, s.Add(float32(math.Inf(-1))))
	require.Equal(t, 2, s.Size())
}

func TestCaseInsensitiveKeys(t *testing.T) {
	m, err := NewCaseInsensitiveOrderedMap[int]()
	require.NoError(t, err)
	m.Put("Hello", 1)
	require.Equal(t, 1, m.Put("HELLO", 2))
	require.Equal(t, 1, m.Size())
	require.Equal(t, 2, m.Get("hello"))
	require.Equal(t, []string{"Hello"}, m.Order().AppendTo(nil))
	require.Equal(t, CaseInsensitiveKeys.Hash("STRASSE"), CaseInsensitiveKeys.Hash("strasse"))
	require.True(t, CaseInsensitiveKeys.Equal("Ǆ", "ǆ"))
	require.False(t, CaseInsensitiveKeys.Equal("abc", "abcd"))
	require.True(t, m.Alter("hELLO", "World"))
	require.Equal(t, 2, m.Get("WORLD"))

	s, err := NewCaseInsensitiveSet()
	require.NoError(t, err)
	s.AddAll("Go", "GO", "go", "gO")
	require.Equal(t, 1, s.Size())
}

func TestFilteredKeys(t *testing.T) {
	keys := FilteredStringKeys{
		Filter: func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) },
		Editor: unicode.ToUpper,
	}
	require.True(t, keys.Equal("read-me.txt", "README TXT"))
	require.Equal(t, keys.Hash("read-me.txt"), keys.Hash("README TXT"))
	require.False(t, keys.Equal("readme", "readme2"))
	require.True(t, keys.Equal("--", ""))

	s, err := NewFilteredSet(keys)
	require.NoError(t, err)
	require.True(t, s.Add("user_id"))
	require.False(t, s.Add("USER-ID"))
	require.True(t, s.Contains("u s e r i d"))
	require.True(t, s.Add("***"))
	require.True(t, s.hasZeroValue)
	require.False(t, s.Add("--"))
	first, err := s.First()
	require.NoError(t, err)
	require.Equal(t, "***", first)
	it := s.Iterator()
	k, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, "***", k)
	require.NoError(t, it.Remove())
	require.False(t, s.Contains(""))
	require.Equal(t, 1, s.Size())

	m, err := NewFilteredMap[int](keys)
	require.NoError(t, err)
	m.Put("#", 1)
	m.Put("", 2)
	m.Put("x", 3)
	got := map[string]int{}
	for k, v := range m.All() {
		got[k] = v
	}
	require.Equal(t, map[string]int{"#": 2, "x": 3}, got)
	zk, found := m.FindKey(2)
	require.True(t, found)
	require.Equal(t, "#", zk)
	require.Equal(t, "#", m.keyAt(zeroSlot))
	m.Clear()
	require.Equal(t, "", m.zeroKey)

	plain := FilteredStringKeys{}
	require.Equal(t, StringKeys{}.Hash("héllo"), plain.Hash("héllo"))
	require.True(t, plain.Equal("abc", "abc"))
	require.False(t, plain.Equal("abc", "ABC"))
}

func TestOtherKeys(t *testing.T) {
	b, err := NewBytesMap[int]()
	require.NoError(t, err)
	b.Put([]byte("key"), 1)
	require.Equal(t, 1, b.Get([]byte("key")))
	b.Put(nil, 2)
	require.Equal(t, 2, b.Get([]byte{}))
	require.Equal(t, 2, b.Size())

	flags, err := NewBoolSet()
	require.NoError(t, err)
	flags.AddAll(true, false, true)
	require.Equal(t, 2, flags.Size())

	type point struct{ x, y int }
	pm, err := NewComparableOrderedMap[point, string]()
	require.NoError(t, err)
	pm.Put(point{1, 2}, "a")
	pm.Put(point{}, "origin")
	pm.Put(point{2, 1}, "b")
	require.Equal(t, "a", pm.Get(point{1, 2}))
	require.Equal(t, "origin", pm.Get(point{}))
	require.Equal(t, []point{{1, 2}, {}, {2, 1}}, pm.Order().AppendTo(nil))

	runes, err := NewIntSet[rune]()
	require.NoError(t, err)
	for _, r := range "mississippi" {
		runes.Add(r)
	}
	got := slices.Collect(runes.All())
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	require.Equal(t, []rune{'i', 'm', 'p', 's'}, got)

	neg, err := NewIntMap[int8, int]()
	require.NoError(t, err)
	for i := -128; i < 128; i++ {
		neg.Put(int8(i), i)
	}
	require.Equal(t, 256, neg.Size())
	require.Equal(t, -128, neg.Get(-128))
	checkTable(t, &neg.table)
}
