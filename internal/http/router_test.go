package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cruce/internal/http/export"
	"github.com/MrJamesThe3rd/cruce/internal/http/importcsv"
	"github.com/MrJamesThe3rd/cruce/internal/http/report"
	"github.com/MrJamesThe3rd/cruce/internal/http/run"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/metrics"
)

func newTestRouter() http.Handler {
	log := logger.Nop()
	reg := prometheus.NewRegistry()
	metrics.NewReconciliation(reg).ObserveJob("executed")

	return New(log, Options{AllowedOrigins: []string{"https://backoffice.example.com"}, Gatherer: reg},
		report.NewHandler(nil, log),
		importcsv.NewHandler(nil, nil, log, 1),
		run.NewHandler(nil, nil, log),
		export.NewHandler(nil, log),
	)
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/api/v1/reports/bogus", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/reports/bogus/import", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/reports/bogus/export", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/runs/bogus/rows", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/runs/bogus/export", http.StatusBadRequest},
		{http.MethodPut, "/api/v1/runs/bogus", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/transactions", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cruce_worker_jobs_total{outcome="executed"} 1`)
}

func TestRouter_CORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/runs", nil)
	req.Header.Set("Origin", "https://backoffice.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, "https://backoffice.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
