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

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/container/order"
)

const (
	DefaultCapacity   = 51
	DefaultLoadFactor = 0.9

	minTableSize = 2
	maxTableSize = 1 << 30
)

type options struct {
	capacity   int
	loadFactor float64
	multiplier uint64
	order      order.Kind
}

// Option configures a collection at construction.
type Option func(*options)

// WithCapacity sets how many entries fit before the first resize.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithLoadFactor sets the fill ratio in (0, 1] that triggers a resize.
func WithLoadFactor(f float64) Option {
	return func(o *options) {
		o.loadFactor = f
	}
}

// WithHashMultiplier fixes the starting hash multiplier. It is forced odd.
func WithHashMultiplier(m uint64) Option {
	return func(o *options) {
		o.multiplier = m | 1
	}
}

// WithOrder picks the index kind of ordered collections. Unordered
// collections ignore it.
func WithOrder(k order.Kind) Option {
	return func(o *options) {
		o.order = k
	}
}

func buildOptions(opts []Option) options {
	o := options{
		capacity:   DefaultCapacity,
		loadFactor: DefaultLoadFactor,
		order:      order.KindList,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func checkLoadFactor(f float64) error {
	if !(f > 0 && f <= 1) {
		return moerr.NewInvalidArgNoCtx("load factor", f)
	}
	return nil
}

// tableSize returns the power of two table length able to hold capacity
// entries at loadFactor. The result is always larger than capacity, so a
// full table still has an empty slot to end every probe.
func tableSize(capacity int, loadFactor float64) (int, error) {
	if capacity < 0 {
		return 0, moerr.NewInvalidArgNoCtx("capacity", capacity)
	}
	want := math.Ceil(float64(capacity) / loadFactor)
	if want > maxTableSize {
		return 0, moerr.NewInvalidArgNoCtx("capacity", capacity)
	}
	size := nextPowerOfTwo(max(int(want), minTableSize))
	if size <= capacity {
		size <<= 1
	}
	for int(float64(size)*loadFactor) < capacity {
		size <<= 1
	}
	if size > maxTableSize {
		return 0, moerr.NewInvalidArgNoCtx("capacity", capacity)
	}
	return size, nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << (64 - bits.LeadingZeros64(uint64(n-1)))
}
