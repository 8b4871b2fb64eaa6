// Copyright 2023 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v2

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CollectionOpsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mocoll",
			Name:      "ops_total",
			Help:      "Total number of collection operations run by workloads.",
		}, []string{"kind", "op"})

	CollectionResizeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mocoll",
			Name:      "resizes_total",
			Help:      "Total number of table resizes observed by workloads.",
		}, []string{"kind"})

	CollectionWorkloadDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mocoll",
			Subsystem: "workload",
			Name:      "duration_seconds",
			Help:      "Bucketed histogram of workload duration.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2.0, 20),
		}, []string{"kind"})
)

func initCollectionMetrics() {
	registry.MustRegister(CollectionOpsCounter)
	registry.MustRegister(CollectionResizeCounter)
	registry.MustRegister(CollectionWorkloadDurationHistogram)
}
