package export

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cruce/internal/export"
	"github.com/MrJamesThe3rd/cruce/internal/http/respond"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
)

// Exporter builds the workbooks. export.Service implements it.
type Exporter interface {
	Workbook(ctx context.Context, runID uuid.UUID, onlyDiscrepancies bool) (*export.Document, error)
	ReportWorkbook(ctx context.Context, reportID uuid.UUID) (*export.Document, error)
}

type Handler struct {
	svc Exporter
	log *logger.Logger
}

func NewHandler(svc Exporter, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Run downloads the rows of a run. ?only_discrepancies=true keeps the rows
// that need action.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	only := false

	if s := r.URL.Query().Get("only_discrepancies"); s != "" {
		only, err = strconv.ParseBool(s)
		if err != nil {
			respond.Error(r.Context(), h.log, w, respond.BadRequest("only_discrepancies must be a boolean"))
			return
		}
	}

	doc, err := h.svc.Workbook(r.Context(), id, only)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	h.write(w, r, doc)
}

// Report downloads the records stored on a report.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	doc, err := h.svc.ReportWorkbook(r.Context(), id)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	h.write(w, r, doc)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, doc *export.Document) {
	defer func() {
		if err := doc.Close(); err != nil {
			h.log.Warn(r.Context(), "closing workbook", err)
		}
	}()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))

	if err := doc.Write(w); err != nil {
		h.log.Error(r.Context(), "failed to write workbook", err)
	}
}
