package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentCountsRequests(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	r := mux.NewRouter()
	r.Use(metrics.Instrument)
	r.HandleFunc("/api/users/{userId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("GET")

	req := httptest.NewRequest(http.MethodGet, "/api/users/u1", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	count := testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/api/users/{userId}", "404"))
	assert.Equal(t, 1.0, count, "route label must use the path template, not the raw path")
}

func TestInstrumentDefaultsToOK(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	r := mux.NewRouter()
	r.Use(metrics.Instrument)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	count := testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/health", "200"))
	require.Equal(t, 1.0, count)
}

func TestRequestLoggerPreservesStatus(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
