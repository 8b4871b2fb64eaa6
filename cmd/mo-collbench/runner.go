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

package main

import (
	"context"
	"iter"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/container/hashtable"
	"github.com/matrixorigin/mocollections/pkg/logutil"
	v2 "github.com/matrixorigin/mocollections/pkg/util/metric/v2"
)

const (
	opPut    = "put"
	opGet    = "get"
	opRemove = "remove"
)

// result summarizes one finished workload.
type result struct {
	name      string
	kind      string
	ops       map[string]int
	resizes   int
	size      int
	tableSize int
	duration  time.Duration
}

// target adapts one collection kind to the op mix. Values are ignored by
// sets, whose reference entries always hold zero.
type target[K comparable] interface {
	put(k K, v int64) (old int64, existed bool)
	get(k K) (int64, bool)
	remove(k K) (old int64, existed bool)
	size() int
	tableSize() int
	check(ref map[K]int64) error
}

func runWorkloads(ctx context.Context, cfg *Config) ([]result, error) {
	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]result, 0, len(cfg.Workloads))
		errs    error
	)
	for i := range cfg.Workloads {
		w := cfg.Workloads[i]
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			res, err := runWorkload(ctx, w)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, err)
				return
			}
			results = append(results, res)
		}); err != nil {
			wg.Done()
			mu.Lock()
			errs = multierr.Append(errs, err)
			mu.Unlock()
		}
	}
	wg.Wait()
	return results, errs
}

func runWorkload(ctx context.Context, w Workload) (result, error) {
	switch w.Key {
	case keyString:
		return drive(ctx, w, hashtable.StringKeys{}, func(r *rand.Rand) string {
			n := r.Intn(w.KeySpace)
			if n == 0 {
				return ""
			}
			return "k" + strconv.Itoa(n)
		})
	default:
		return drive(ctx, w, hashtable.IntegerKeys[int64]{}, func(r *rand.Rand) int64 {
			return int64(r.Intn(w.KeySpace)) - int64(w.KeySpace/4)
		})
	}
}

func newTarget[K comparable](w Workload, hasher hashtable.Hasher[K]) (target[K], error) {
	opts := w.options()
	switch w.Kind {
	case kindSet:
		s, err := hashtable.NewSet[K](hasher, opts...)
		if err != nil {
			return nil, err
		}
		return &setTarget[K]{s: s}, nil
	case kindOrderedMap:
		m, err := hashtable.NewOrderedMap[K, int64](hasher, opts...)
		if err != nil {
			return nil, err
		}
		return &orderedMapTarget[K]{m: m}, nil
	case kindOrderedSet:
		s, err := hashtable.NewOrderedSet[K](hasher, opts...)
		if err != nil {
			return nil, err
		}
		return &orderedSetTarget[K]{s: s}, nil
	default:
		m, err := hashtable.NewMap[K, int64](hasher, opts...)
		if err != nil {
			return nil, err
		}
		return &mapTarget[K]{m: m}, nil
	}
}

func drive[K comparable](ctx context.Context, w Workload, hasher hashtable.Hasher[K], gen func(*rand.Rand) K) (result, error) {
	res := result{name: w.Name, kind: w.Kind, ops: make(map[string]int)}
	t, err := newTarget[K](w, hasher)
	if err != nil {
		return res, err
	}
	isSet := w.Kind == kindSet || w.Kind == kindOrderedSet
	r := rand.New(rand.NewSource(w.Seed))
	ref := make(map[K]int64)
	start := time.Now()
	tableSize := t.tableSize()

	for i := 0; i < w.Ops; i++ {
		if i&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		k := gen(r)
		v := int64(i)
		if isSet {
			v = 0
		}
		want, present := ref[k]
		var (
			op     string
			got    int64
			gotHas bool
		)
		switch n := r.Intn(10); {
		case n < 5:
			op = opPut
			got, gotHas = t.put(k, v)
			ref[k] = v
		case n < 8:
			op = opGet
			got, gotHas = t.get(k)
		default:
			op = opRemove
			got, gotHas = t.remove(k)
			delete(ref, k)
		}
		res.ops[op]++
		if gotHas != present || (present && got != want) {
			return res, moerr.NewInternalErrorNoCtx("workload %s: %s of %v at op %d returned (%d, %v), want (%d, %v)",
				w.Name, op, k, i, got, gotHas, want, present)
		}
		if ts := t.tableSize(); ts != tableSize {
			res.resizes++
			tableSize = ts
		}
	}
	if err := t.check(ref); err != nil {
		return res, moerr.NewInternalErrorNoCtx("workload %s: %v", w.Name, err)
	}

	res.duration = time.Since(start)
	res.size = t.size()
	res.tableSize = tableSize
	for op, n := range res.ops {
		v2.CollectionOpsCounter.WithLabelValues(w.Kind, op).Add(float64(n))
	}
	v2.CollectionResizeCounter.WithLabelValues(w.Kind).Add(float64(res.resizes))
	v2.CollectionWorkloadDurationHistogram.WithLabelValues(w.Kind).Observe(res.duration.Seconds())
	logutil.Info("workload finished",
		zap.String("name", w.Name),
		zap.String("kind", w.Kind),
		zap.Int("size", res.size),
		zap.Int("table-size", res.tableSize),
		zap.Int("resizes", res.resizes),
		zap.Duration("duration", res.duration))
	return res, nil
}

func checkSize[K comparable](got int, ref map[K]int64) error {
	if got != len(ref) {
		return moerr.NewInternalErrorNoCtx("size %d, reference holds %d", got, len(ref))
	}
	return nil
}

type mapTarget[K comparable] struct {
	m *hashtable.Map[K, int64]
}

func (t *mapTarget[K]) put(k K, v int64) (int64, bool) {
	present := t.m.ContainsKey(k)
	return t.m.Put(k, v), present
}

func (t *mapTarget[K]) get(k K) (int64, bool) { return t.m.Lookup(k) }

func (t *mapTarget[K]) remove(k K) (int64, bool) {
	present := t.m.ContainsKey(k)
	return t.m.Remove(k), present
}

func (t *mapTarget[K]) size() int { return t.m.Size() }

func (t *mapTarget[K]) tableSize() int { return t.m.TableSize() }

func (t *mapTarget[K]) check(ref map[K]int64) error {
	if err := checkSize(t.m.Size(), ref); err != nil {
		return err
	}
	for k, v := range ref {
		if got, ok := t.m.Lookup(k); !ok || got != v {
			return moerr.NewInternalErrorNoCtx("key %v maps to (%d, %v), want %d", k, got, ok, v)
		}
	}
	return nil
}

type setTarget[K comparable] struct {
	s *hashtable.Set[K]
}

func (t *setTarget[K]) put(k K, _ int64) (int64, bool) { return 0, !t.s.Add(k) }

func (t *setTarget[K]) get(k K) (int64, bool) { return 0, t.s.Contains(k) }

func (t *setTarget[K]) remove(k K) (int64, bool) { return 0, t.s.Remove(k) }

func (t *setTarget[K]) size() int { return t.s.Size() }

func (t *setTarget[K]) tableSize() int { return t.s.TableSize() }

func (t *setTarget[K]) check(ref map[K]int64) error {
	if err := checkSize(t.s.Size(), ref); err != nil {
		return err
	}
	for k := range t.s.All() {
		if _, ok := ref[k]; !ok {
			return moerr.NewInternalErrorNoCtx("unexpected key %v", k)
		}
	}
	return nil
}

type orderedMapTarget[K comparable] struct {
	m *hashtable.OrderedMap[K, int64]
}

func (t *orderedMapTarget[K]) put(k K, v int64) (int64, bool) {
	present := t.m.ContainsKey(k)
	return t.m.Put(k, v), present
}

func (t *orderedMapTarget[K]) get(k K) (int64, bool) { return t.m.Lookup(k) }

func (t *orderedMapTarget[K]) remove(k K) (int64, bool) {
	present := t.m.ContainsKey(k)
	return t.m.Remove(k), present
}

func (t *orderedMapTarget[K]) size() int { return t.m.Size() }

func (t *orderedMapTarget[K]) tableSize() int { return t.m.TableSize() }

func (t *orderedMapTarget[K]) check(ref map[K]int64) error {
	if err := checkSize(t.m.Size(), ref); err != nil {
		return err
	}
	if err := checkOrder(t.m.Order().All(), ref); err != nil {
		return err
	}
	for k, v := range t.m.All() {
		if ref[k] != v {
			return moerr.NewInternalErrorNoCtx("key %v maps to %d, want %d", k, v, ref[k])
		}
	}
	return nil
}

type orderedSetTarget[K comparable] struct {
	s *hashtable.OrderedSet[K]
}

func (t *orderedSetTarget[K]) put(k K, _ int64) (int64, bool) { return 0, !t.s.Add(k) }

func (t *orderedSetTarget[K]) get(k K) (int64, bool) { return 0, t.s.Contains(k) }

func (t *orderedSetTarget[K]) remove(k K) (int64, bool) { return 0, t.s.Remove(k) }

func (t *orderedSetTarget[K]) size() int { return t.s.Size() }

func (t *orderedSetTarget[K]) tableSize() int { return t.s.TableSize() }

func (t *orderedSetTarget[K]) check(ref map[K]int64) error {
	if err := checkSize(t.s.Size(), ref); err != nil {
		return err
	}
	return checkOrder(t.s.Order().All(), ref)
}

// checkOrder verifies the order index holds every reference key once.
func checkOrder[K comparable](keys iter.Seq2[int, K], ref map[K]int64) error {
	seen := make(map[K]struct{}, len(ref))
	for _, k := range keys {
		if _, ok := ref[k]; !ok {
			return moerr.NewInternalErrorNoCtx("order holds removed key %v", k)
		}
		if _, dup := seen[k]; dup {
			return moerr.NewInternalErrorNoCtx("order holds key %v twice", k)
		}
		seen[k] = struct{}{}
	}
	if len(seen) != len(ref) {
		return moerr.NewInternalErrorNoCtx("order holds %d keys, want %d", len(seen), len(ref))
	}
	return nil
}
