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
	"bytes"
	"hash/maphash"
	"math"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// Hasher supplies the per key type behavior of a table. The zero value of
// K is the empty slot marker: any key k with Equal(k, zero) is kept out of
// the key array. Equal(a, b) must imply Hash(a) == Hash(b).
type Hasher[K any] interface {
	Hash(k K) uint64
	Equal(a, b K) bool
}

// IntegerKeys hashes integers by their bit pattern.
type IntegerKeys[K constraints.Integer] struct{}

func (IntegerKeys[K]) Hash(k K) uint64 { return uint64(k) }

func (IntegerKeys[K]) Equal(a, b K) bool { return a == b }

const canonicalNaN = 0x7ff8000000000001

func floatBits[K constraints.Float](k K) uint64 {
	f := float64(k)
	if f != f {
		return canonicalNaN
	}
	return math.Float64bits(f)
}

// FloatKeys compares floats by bit pattern, so -0 and +0 are different
// keys and every NaN is the same key. Only +0 is the zero key.
type FloatKeys[K constraints.Float] struct{}

func (FloatKeys[K]) Hash(k K) uint64 { return floatBits(k) }

func (FloatKeys[K]) Equal(a, b K) bool { return floatBits(a) == floatBits(b) }

type BoolKeys struct{}

func (BoolKeys) Hash(k bool) uint64 {
	if k {
		return 1
	}
	return 0
}

func (BoolKeys) Equal(a, b bool) bool { return a == b }

type StringKeys struct{}

func (StringKeys) Hash(k string) uint64 { return xxhash.Sum64String(k) }

func (StringKeys) Equal(a, b string) bool { return a == b }

// BytesKeys compares byte slices by content. Nil and empty slices are both
// the zero key.
type BytesKeys struct{}

func (BytesKeys) Hash(k []byte) uint64 { return xxhash.Sum64(k) }

func (BytesKeys) Equal(a, b []byte) bool { return bytes.Equal(a, b) }

var comparableSeed = maphash.MakeSeed()

// ComparableKeys works for any comparable key using ==. Float fields follow
// == semantics, so a NaN key can be stored but never found again; use
// FloatKeys for float keys.
type ComparableKeys[K comparable] struct{}

func (ComparableKeys[K]) Hash(k K) uint64 { return maphash.Comparable(comparableSeed, k) }

func (ComparableKeys[K]) Equal(a, b K) bool { return a == b }

// FilteredStringKeys treats two strings as the same key when the runes
// kept by Filter, after passing through Editor, are the same. A nil Filter
// keeps every rune and a nil Editor leaves runes unchanged.
type FilteredStringKeys struct {
	Filter func(r rune) bool
	Editor func(r rune) rune
}

func (f FilteredStringKeys) keep(r rune) bool {
	return f.Filter == nil || f.Filter(r)
}

func (f FilteredStringKeys) edit(r rune) rune {
	if f.Editor == nil {
		return r
	}
	return f.Editor(r)
}

func (f FilteredStringKeys) Hash(k string) uint64 {
	var d xxhash.Digest
	d.Reset()
	var buf [utf8.UTFMax]byte
	for _, r := range k {
		if !f.keep(r) {
			continue
		}
		n := utf8.EncodeRune(buf[:], f.edit(r))
		_, _ = d.Write(buf[:n])
	}
	return d.Sum64()
}

func (f FilteredStringKeys) Equal(a, b string) bool {
	i, j := 0, 0
	for {
		ra, na := f.nextRune(a, i)
		rb, nb := f.nextRune(b, j)
		if na < 0 || nb < 0 {
			return na < 0 && nb < 0
		}
		if ra != rb {
			return false
		}
		i, j = na, nb
	}
}

// nextRune returns the next kept and edited rune at or after byte offset i
// and the offset following it, or -1 at the end of s.
func (f FilteredStringKeys) nextRune(s string, i int) (rune, int) {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if f.keep(r) {
			return f.edit(r), i
		}
	}
	return 0, -1
}

func foldCase(r rune) rune {
	return unicode.ToLower(unicode.ToUpper(r))
}

// CaseInsensitiveKeys compares strings ignoring letter case.
var CaseInsensitiveKeys = FilteredStringKeys{Editor: foldCase}
