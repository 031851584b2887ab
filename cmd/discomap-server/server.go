package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grailbio/base/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/satindergrewal/discomap"
	"github.com/satindergrewal/discomap/internal/sink"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 32 << 20
	defaultSVGSize  = 800
	maxSVGSize      = 8192
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	build    prometheus.Histogram
	skipped  prometheus.Counter
	labels   prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discomap_requests_total",
			Help: "HTTP requests by handler and status code.",
		}, []string{"handler", "code"}),
		build: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "discomap_build_seconds",
			Help:    "Time spent laying out one plot.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "discomap_skipped_records_total",
			Help: "Input records that could not be placed on the reference.",
		}),
		labels: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "discomap_labels",
			Help:    "Gene labels shown per plot.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	m.registry.MustRegister(m.requests, m.build, m.skipped, m.labels)
	return m
}

// server lays out plots for one reference genome.
type server struct {
	ref      *discomap.Reference
	settings discomap.Settings
	classes  discomap.ClassTable
	genes    discomap.GeneSet
	measurer discomap.TextMeasurer
	metrics  *metrics

	// archive, when set, receives a copy of every rendered SVG.
	archive       sink.Sink
	archivePrefix string
}

// builder returns a builder for the request's gene set, if it names one.
func (s *server) builder(r *http.Request) (*discomap.Builder, error) {
	genes := s.genes
	if q := r.URL.Query().Get("genes"); q != "" {
		genes = discomap.NewGeneSet(strings.Split(q, ",")...)
	}
	return discomap.NewBuilder(s.ref, s.settings,
		discomap.WithClassTable(s.classes),
		discomap.WithGeneSet(genes),
		discomap.WithTextMeasurer(s.measurer))
}

func (s *server) build(w http.ResponseWriter, r *http.Request) (*discomap.ViewModel, error) {
	b, err := s.builder(r)
	if err != nil {
		return nil, err
	}
	records, err := discomap.ReadRecords(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	start := time.Now()
	vm := b.Build(records)
	s.metrics.build.Observe(time.Since(start).Seconds())
	s.metrics.skipped.Add(float64(len(vm.Diagnostics)))
	s.metrics.labels.Observe(float64(len(vm.Rings.Labels.Labels)))
	log.Printf("%s: %d records, %d labels, %d skipped",
		requestID(r), len(records), len(vm.Rings.Labels.Labels), len(vm.Diagnostics))
	return vm, nil
}

func (s *server) handleViewModel(w http.ResponseWriter, r *http.Request) {
	vm, err := s.build(w, r)
	if err != nil {
		httpError(w, r, err, http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(vm); err != nil {
		log.Error.Printf("%s: write view-model: %v", requestID(r), err)
	}
}

func (s *server) handleSVG(w http.ResponseWriter, r *http.Request) {
	size := defaultSVGSize
	if q := r.URL.Query().Get("size"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 || n > maxSVGSize {
			httpError(w, r, fmt.Errorf("size must be between 1 and %d", maxSVGSize), http.StatusBadRequest)
			return
		}
		size = n
	}
	vm, err := s.build(w, r)
	if err != nil {
		httpError(w, r, err, http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := discomap.WriteSVG(&buf, vm, size); err != nil {
		httpError(w, r, err, http.StatusInternalServerError)
		return
	}
	if s.archive != nil {
		key := s.archivePrefix + requestID(r) + ".svg"
		if err := s.archive.Put(r.Context(), key, bytes.NewReader(buf.Bytes()), "image/svg+xml"); err != nil {
			log.Error.Printf("%s: archive: %v", requestID(r), err)
		}
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func httpError(w http.ResponseWriter, r *http.Request, err error, code int) {
	log.Error.Printf("%s: %v", requestID(r), err)
	http.Error(w, err.Error(), code)
}

func (s *server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/viewmodel", s.instrument("viewmodel", s.handleViewModel))
	mux.Handle("POST /api/svg", s.instrument("svg", s.handleSVG))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok\n"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return withRequestID(mux)
}

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *server) instrument(name string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		s.metrics.requests.WithLabelValues(name, strconv.Itoa(rec.code)).Inc()
	})
}

type requestIDKey struct{}

// withRequestID tags every request with an ID, reusing the client's if sent.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}
