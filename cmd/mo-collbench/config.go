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
	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/container/hashtable"
	"github.com/matrixorigin/mocollections/pkg/container/order"
	"github.com/matrixorigin/mocollections/pkg/logutil"
)

const (
	kindMap        = "map"
	kindSet        = "set"
	kindOrderedMap = "ordered-map"
	kindOrderedSet = "ordered-set"

	keyInt    = "int"
	keyString = "string"

	defaultOps = 100000
)

// Config is the toml configuration of mo-collbench.
type Config struct {
	Log logutil.LogConfig `toml:"log"`
	// MetricsAddr serves /metrics when not empty.
	MetricsAddr string `toml:"metrics-addr"`
	// Workers bounds how many workloads run at once.
	Workers   int        `toml:"workers"`
	Workloads []Workload `toml:"workload"`
}

// Workload drives one collection with a random op mix.
type Workload struct {
	Name       string  `toml:"name"`
	Kind       string  `toml:"kind"`
	Key        string  `toml:"key"`
	Ops        int     `toml:"ops"`
	Seed       uint64  `toml:"seed"`
	Capacity   int     `toml:"capacity"`
	LoadFactor float64 `toml:"load-factor"`
	Order      string  `toml:"order"`
	// KeySpace bounds the distinct keys, defaults to Ops/4.
	KeySpace int `toml:"key-space"`
}

func parseConfigFromFile(file string) (*Config, error) {
	if file == "" {
		return nil, moerr.NewBadConfigNoCtx("toml config file not set")
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(file, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if len(c.Workloads) == 0 {
		return moerr.NewBadConfigNoCtx("no workload configured")
	}
	var err error
	for i := range c.Workloads {
		err = multierr.Append(err, c.Workloads[i].validate())
	}
	return err
}

func (w *Workload) validate() error {
	if w.Name == "" {
		return moerr.NewBadConfigNoCtx("workload without name")
	}
	switch w.Kind {
	case kindMap, kindSet, kindOrderedMap, kindOrderedSet:
	default:
		return moerr.NewBadConfigNoCtx("workload %s: unknown kind %q", w.Name, w.Kind)
	}
	switch w.Key {
	case "":
		w.Key = keyInt
	case keyInt, keyString:
	default:
		return moerr.NewBadConfigNoCtx("workload %s: unknown key %q", w.Name, w.Key)
	}
	if _, err := order.ParseKind(w.Order); err != nil {
		return moerr.NewBadConfigNoCtx("workload %s: %v", w.Name, err)
	}
	if w.Ops <= 0 {
		w.Ops = defaultOps
	}
	if w.KeySpace <= 0 {
		w.KeySpace = max(w.Ops/4, 16)
	}
	if w.Capacity == 0 {
		w.Capacity = hashtable.DefaultCapacity
	}
	if w.LoadFactor == 0 {
		w.LoadFactor = hashtable.DefaultLoadFactor
	}
	if !(w.LoadFactor > 0 && w.LoadFactor <= 1) {
		return moerr.NewBadConfigNoCtx("workload %s: load factor %v not in (0, 1]", w.Name, w.LoadFactor)
	}
	if w.Capacity < 0 {
		return moerr.NewBadConfigNoCtx("workload %s: negative capacity %d", w.Name, w.Capacity)
	}
	return nil
}

func (w *Workload) options() []hashtable.Option {
	kind, _ := order.ParseKind(w.Order)
	return []hashtable.Option{
		hashtable.WithCapacity(w.Capacity),
		hashtable.WithLoadFactor(w.LoadFactor),
		hashtable.WithOrder(kind),
	}
}
