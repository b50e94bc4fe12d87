package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/report"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

type stubService struct {
	report  *report.Report
	err     error
	created report.CreateParams
	filter  report.ListFilter
}

func (s *stubService) Create(_ context.Context, params report.CreateParams) (*report.Report, error) {
	s.created = params
	if s.err != nil {
		return nil, s.err
	}

	return &report.Report{
		ID:        uuid.New(),
		Platform:  params.Platform,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Status:    status.Pending,
	}, nil
}

func (s *stubService) Get(_ context.Context, _ uuid.UUID) (*report.Report, error) {
	return s.report, s.err
}

func (s *stubService) List(_ context.Context, filter report.ListFilter) ([]*report.Report, error) {
	s.filter = filter
	return []*report.Report{s.report}, s.err
}

func (s *stubService) Retry(_ context.Context, _ uuid.UUID) (*report.Report, error) {
	return s.report, s.err
}

func (s *stubService) Delete(_ context.Context, _ uuid.UUID) error {
	return s.err
}

func serve(t *testing.T, svc *stubService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	NewHandler(svc, logger.Nop()).Routes(router)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{
			name:     "Created",
			body:     `{"platform":"payments","start_date":"2024-03-01","end_date":"2024-03-07"}`,
			wantCode: http.StatusCreated,
		},
		{
			name:     "UnknownPlatform",
			body:     `{"platform":"ledger","start_date":"2024-03-01","end_date":"2024-03-07"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "BadDate",
			body:     `{"platform":"orders","start_date":"01/03/2024","end_date":"2024-03-07"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "EndBeforeStart",
			body:     `{"platform":"orders","start_date":"2024-03-07","end_date":"2024-03-01"}`,
			err:      report.ErrInvalidDateRange,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "NotJSON",
			body:     `platform=orders`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &stubService{err: tt.err}, http.MethodPost, "/", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_Create_Response(t *testing.T) {
	svc := &stubService{}

	rec := serve(t, svc, http.MethodPost, "/", `{"platform":"secondary_oms","start_date":"2024-03-01","end_date":"2024-03-07"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, platform.SecondaryOMS, svc.created.Platform)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), svc.created.EndDate)

	var resp reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-03-01", resp.StartDate)
	assert.Equal(t, status.Pending, resp.Status)
}

func TestHandler_List(t *testing.T) {
	svc := &stubService{report: &report.Report{ID: uuid.New(), Platform: platform.Orders, Status: status.Completed}}

	rec := serve(t, svc, http.MethodGet, "/?platform=orders&status=COMPLETED", "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.filter.Platform)
	assert.Equal(t, platform.Orders, *svc.filter.Platform)
	assert.Equal(t, status.Completed, *svc.filter.Status)

	var resp []reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)

	rec = serve(t, svc, http.MethodGet, "/?platform=ledger", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Retry(t *testing.T) {
	rec := serve(t, &stubService{err: status.ErrInvalidTransition}, http.MethodPost, "/"+uuid.NewString()+"/retry", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(t, &stubService{err: report.ErrNotFound}, http.MethodDelete, "/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
