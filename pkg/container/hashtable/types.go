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
	"golang.org/x/exp/constraints"
)

func NewIntMap[K constraints.Integer, V any](opts ...Option) (*Map[K, V], error) {
	return NewMap[K, V](IntegerKeys[K]{}, opts...)
}

func NewIntSet[K constraints.Integer](opts ...Option) (*Set[K], error) {
	return NewSet[K](IntegerKeys[K]{}, opts...)
}

func NewIntOrderedMap[K constraints.Integer, V any](opts ...Option) (*OrderedMap[K, V], error) {
	return NewOrderedMap[K, V](IntegerKeys[K]{}, opts...)
}

func NewIntOrderedSet[K constraints.Integer](opts ...Option) (*OrderedSet[K], error) {
	return NewOrderedSet[K](IntegerKeys[K]{}, opts...)
}

func NewFloatMap[K constraints.Float, V any](opts ...Option) (*Map[K, V], error) {
	return NewMap[K, V](FloatKeys[K]{}, opts...)
}

func NewFloatSet[K constraints.Float](opts ...Option) (*Set[K], error) {
	return NewSet[K](FloatKeys[K]{}, opts...)
}

func NewFloatOrderedMap[K constraints.Float, V any](opts ...Option) (*OrderedMap[K, V], error) {
	return NewOrderedMap[K, V](FloatKeys[K]{}, opts...)
}

func NewFloatOrderedSet[K constraints.Float](opts ...Option) (*OrderedSet[K], error) {
	return NewOrderedSet[K](FloatKeys[K]{}, opts...)
}

func NewStringMap[V any](opts ...Option) (*Map[string, V], error) {
	return NewMap[string, V](StringKeys{}, opts...)
}

func NewStringSet(opts ...Option) (*Set[string], error) {
	return NewSet[string](StringKeys{}, opts...)
}

func NewStringOrderedMap[V any](opts ...Option) (*OrderedMap[string, V], error) {
	return NewOrderedMap[string, V](StringKeys{}, opts...)
}

func NewStringOrderedSet(opts ...Option) (*OrderedSet[string], error) {
	return NewOrderedSet[string](StringKeys{}, opts...)
}

func NewBytesMap[V any](opts ...Option) (*Map[[]byte, V], error) {
	return NewMap[[]byte, V](BytesKeys{}, opts...)
}

func NewBytesSet(opts ...Option) (*Set[[]byte], error) {
	return NewSet[[]byte](BytesKeys{}, opts...)
}

func NewBoolMap[V any](opts ...Option) (*Map[bool, V], error) {
	return NewMap[bool, V](BoolKeys{}, opts...)
}

func NewBoolSet(opts ...Option) (*Set[bool], error) {
	return NewSet[bool](BoolKeys{}, opts...)
}

func NewComparableMap[K comparable, V any](opts ...Option) (*Map[K, V], error) {
	return NewMap[K, V](ComparableKeys[K]{}, opts...)
}

func NewComparableSet[K comparable](opts ...Option) (*Set[K], error) {
	return NewSet[K](ComparableKeys[K]{}, opts...)
}

func NewComparableOrderedMap[K comparable, V any](opts ...Option) (*OrderedMap[K, V], error) {
	return NewOrderedMap[K, V](ComparableKeys[K]{}, opts...)
}

func NewComparableOrderedSet[K comparable](opts ...Option) (*OrderedSet[K], error) {
	return NewOrderedSet[K](ComparableKeys[K]{}, opts...)
}

// NewCaseInsensitiveMap returns a string map whose keys ignore letter
// case. The first spelling put is the one kept.
func NewCaseInsensitiveMap[V any](opts ...Option) (*Map[string, V], error) {
	return NewMap[string, V](CaseInsensitiveKeys, opts...)
}

func NewCaseInsensitiveSet(opts ...Option) (*Set[string], error) {
	return NewSet[string](CaseInsensitiveKeys, opts...)
}

func NewCaseInsensitiveOrderedMap[V any](opts ...Option) (*OrderedMap[string, V], error) {
	return NewOrderedMap[string, V](CaseInsensitiveKeys, opts...)
}

func NewCaseInsensitiveOrderedSet(opts ...Option) (*OrderedSet[string], error) {
	return NewOrderedSet[string](CaseInsensitiveKeys, opts...)
}

func NewFilteredMap[V any](keys FilteredStringKeys, opts ...Option) (*Map[string, V], error) {
	return NewMap[string, V](keys, opts...)
}

func NewFilteredSet(keys FilteredStringKeys, opts ...Option) (*Set[string], error) {
	return NewSet[string](keys, opts...)
}

func NewFilteredOrderedMap[V any](keys FilteredStringKeys, opts ...Option) (*OrderedMap[string, V], error) {
	return NewOrderedMap[string, V](keys, opts...)
}

func NewFilteredOrderedSet(keys FilteredStringKeys, opts ...Option) (*OrderedSet[string], error) {
	return NewOrderedSet[string](keys, opts...)
}
