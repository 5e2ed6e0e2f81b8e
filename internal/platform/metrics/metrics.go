// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

// Package metrics exposes Prometheus instrumentation for HTTP traffic, wizard
// transitions and session resolution.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bazaari"

// Registry owns every collector of the process.
type Registry struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	wizardTransitions   *prometheus.CounterVec
	sessionResolutions  *prometheus.CounterVec
}

// New builds a registry with HTTP, wizard and session collectors plus the Go runtime collectors.
func New() *Registry {
	registry := &Registry{
		registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		wizardTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_transitions_total",
			Help:      "Wizard state transitions by flow and target state.",
		}, []string{"flow", "state"}),
		sessionResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_resolutions_total",
			Help:      "Principal materializations by trigger and resolved role.",
		}, []string{"source", "role"}),
	}

	registry.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		registry.httpInFlight,
		registry.httpRequestsTotal,
		registry.httpRequestDuration,
		registry.wizardTransitions,
		registry.sessionResolutions,
	)

	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func (registry *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(registry.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (registry *Registry) Gatherer() prometheus.Gatherer {
	return registry.registry
}

// ObserveTransition counts one wizard transition.
func (registry *Registry) ObserveTransition(flow, state string) {
	registry.wizardTransitions.WithLabelValues(flow, state).Inc()
}

// ObserveResolution counts one principal materialization.
func (registry *Registry) ObserveResolution(source, role string) {
	registry.sessionResolutions.WithLabelValues(source, role).Inc()
}

// Instrument measures request count, latency and in-flight requests.
// The route label uses the chi pattern so ids do not explode cardinality.
func (registry *Registry) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		registry.httpInFlight.Inc()
		defer registry.httpInFlight.Dec()

		start := time.Now()
		recorder := &statusWriter{ResponseWriter: writer, code: http.StatusOK}
		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := strconv.Itoa(recorder.code)
		registry.httpRequestDuration.WithLabelValues(request.Method, route, status).Observe(time.Since(start).Seconds())
		registry.httpRequestsTotal.WithLabelValues(request.Method, route, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.code = code
	writer.ResponseWriter.WriteHeader(code)
}
