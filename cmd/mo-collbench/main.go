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
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/matrixorigin/mocollections/pkg/logutil"
	v2 "github.com/matrixorigin/mocollections/pkg/util/metric/v2"
)

var (
	configFile = flag.String("cfg", "./collbench.toml", "toml configuration used to run mo-collbench")
)

func main() {
	flag.Parse()

	cfg, err := parseConfigFromFile(*configFile)
	if err != nil {
		panic(fmt.Sprintf("failed to parse config from %s, error: %s", *configFile, err.Error()))
	}

	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if cfg.MetricsAddr != "" {
		srv := startMetricsServer(cfg.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	results, err := runWorkloads(ctx, cfg)
	printResults(results)
	if err != nil {
		logutil.Error("workloads failed", zap.Error(err))
		os.Exit(1)
	}
}

func setupLogger(cfg *Config) {
	logutil.SetupMOLogger(&cfg.Log)
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(v2.GetPrometheusGatherer(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logutil.Error("metrics server stopped", zap.Error(err))
		}
	}()
	logutil.Info("metrics server started", zap.String("addr", addr))
	return srv
}

func printResults(results []result) {
	sort.Slice(results, func(i, j int) bool { return results[i].name < results[j].name })
	for _, r := range results {
		fmt.Printf("%-20s %-12s put=%-8d get=%-8d remove=%-8d size=%-8d table=%-8d resizes=%-4d %v\n",
			r.name, r.kind, r.ops[opPut], r.ops[opGet], r.ops[opRemove],
			r.size, r.tableSize, r.resizes, r.duration)
	}
}
