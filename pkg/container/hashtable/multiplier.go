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
	"time"

	"golang.org/x/exp/rand"
)

const multiplierPoolSize = 512

// goodMultipliers holds odd 64-bit multipliers with a balanced bit count and
// the top bit set. A resize picks the next multiplier from here, so every
// table walks a fixed cycle through the pool that depends only on its
// starting multiplier and its sizes.
var goodMultipliers = buildMultipliers()

func buildMultipliers() [multiplierPoolSize]uint64 {
	var pool [multiplierPoolSize]uint64
	state := uint64(0x2545f4914f6cdd1d)
	for n := 0; n < multiplierPoolSize; {
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31
		z |= 1<<63 | 1
		if c := bits.OnesCount64(z); c < 29 || c > 35 {
			continue
		}
		pool[n] = z
		n++
	}
	return pool
}

// nextMultiplier derives the multiplier used after a resize to shift.
func nextMultiplier(m uint64, shift int) uint64 {
	return goodMultipliers[(m*uint64(shift))>>5&(multiplierPoolSize-1)]
}

var multiplierRand = func() *rand.Rand {
	src := &rand.LockedSource{}
	src.Seed(uint64(time.Now().UnixNano()))
	return rand.New(src)
}()

// randomMultiplier picks the starting multiplier of a table built without
// WithHashMultiplier. Tests replace it to get reproducible layouts.
var randomMultiplier = func() uint64 {
	return goodMultipliers[multiplierRand.Uint64()&(multiplierPoolSize-1)]
}
