// File created by olandr (c) 2025.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olandr/pollwatch/metrics"
)

// watcher is the part of *pollwatch.Watcher the HTTP endpoints need.
type watcher interface {
	metrics.Source
	Running() bool
}

func newRouter(w watcher, root string) *chi.Mux {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		metrics.NewCollector(w, root),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		if !w.Running() {
			http.Error(rw, "stopped", http.StatusServiceUnavailable)
			return
		}
		rw.Write([]byte("ok\n"))
	})
	return r
}
