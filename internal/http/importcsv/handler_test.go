package importcsv

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cruce/internal/importer"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/report"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

type stubReports struct {
	report   *report.Report
	err      error
	importer error
	batch    *platform.Batch
}

func (s *stubReports) Get(_ context.Context, _ uuid.UUID) (*report.Report, error) {
	return s.report, s.err
}

func (s *stubReports) Import(_ context.Context, _ uuid.UUID, batch *platform.Batch) (*report.Report, error) {
	if s.importer != nil {
		return nil, s.importer
	}

	s.batch = batch

	done := *s.report
	done.Status = status.Completed

	return &done, nil
}

func upload(t *testing.T, reports *stubReports, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)

		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	h := NewHandler(importer.NewService(time.UTC, logger.Nop()), reports, logger.Nop(), 1)

	router := chi.NewRouter()
	router.Post("/reports/{id}/import", h.Upload)

	req := httptest.NewRequest(http.MethodPost, "/reports/"+uuid.NewString()+"/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

const fulfillmentCSV = "NUMERO PEDIDO;FECHA PEDIDO;NUMERO DE PUNTO;ESTADO\n" +
	"1234567890123;2024-03-01 10:00:00;17;ENTREGADO\n" +
	"1234567890124;2024-03-01 11:00:00;sin tienda;PENDIENTE\n" +
	"1234567890123;2024-03-01 10:00:00;17;ENTREGADO\n"

func TestHandler_Upload(t *testing.T) {
	reports := &stubReports{report: &report.Report{ID: uuid.New(), Platform: platform.Fulfillment, Status: status.Pending}}

	rec := upload(t, reports, "cdp.csv", fulfillmentCSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp importResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, status.Completed, resp.Status)
	assert.Equal(t, "cdp.csv", resp.Filename)
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, 1, resp.Skipped)
	assert.Zero(t, resp.Duplicates)

	require.NotNil(t, reports.batch)
	assert.Equal(t, "1234567890123", reports.batch.Fulfillment[0].OrderNumber)
}

func TestHandler_Upload_Errors(t *testing.T) {
	pending := &report.Report{ID: uuid.New(), Platform: platform.Orders, Status: status.Pending}

	tests := []struct {
		name     string
		reports  *stubReports
		filename string
		content  string
		wantCode int
	}{
		{
			name:     "ReportNotFound",
			reports:  &stubReports{err: report.ErrNotFound},
			filename: "vtex.csv",
			content:  fulfillmentCSV,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "MissingFile",
			reports:  &stubReports{report: pending},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "WrongExport",
			reports:  &stubReports{report: pending},
			filename: "cdp.csv",
			content:  fulfillmentCSV,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "ReportAlreadyImported",
			reports:  &stubReports{report: pending, importer: status.ErrInvalidTransition},
			filename: "vtex.csv",
			content:  "orderId;sequence;creationDate;paymentNames;seller;statusDescription\n1-01;1;2024-03-01T10:00:00Z;Visa;Hogar & Electro;Faturado\n",
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := upload(t, tt.reports, tt.filename, tt.content)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}
