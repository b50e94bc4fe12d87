package importcsv

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cruce/internal/http/respond"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/report"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

// Parser turns an uploaded export into records. importer.Service implements it.
type Parser interface {
	Import(ctx context.Context, p platform.Platform, filename string, r io.Reader) (*platform.Batch, error)
}

// Reports stores parsed records on a report. report.Service implements it.
type Reports interface {
	Get(ctx context.Context, id uuid.UUID) (*report.Report, error)
	Import(ctx context.Context, id uuid.UUID, batch *platform.Batch) (*report.Report, error)
}

type Handler struct {
	parser   Parser
	reports  Reports
	log      *logger.Logger
	maxBytes int64
}

func NewHandler(parser Parser, reports Reports, log *logger.Logger, maxUploadMB int64) *Handler {
	return &Handler{
		parser:   parser,
		reports:  reports,
		log:      log,
		maxBytes: maxUploadMB << 20,
	}
}

type importResponse struct {
	ID         uuid.UUID         `json:"id"`
	Platform   platform.Platform `json:"platform"`
	Status     status.Status     `json:"status"`
	Filename   string            `json:"filename"`
	Imported   int               `json:"imported"`
	Skipped    int               `json:"skipped"`
	Duplicates int               `json:"duplicates"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Upload parses the multipart "file" field with the column profile of the
// report platform and stores its records on the report.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := respond.ID(r)
	if err != nil {
		respond.Error(ctx, h.log, w, err)
		return
	}

	rep, err := h.reports.Get(ctx, id)
	if err != nil {
		respond.Error(ctx, h.log, w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		respond.Error(ctx, h.log, w, respond.BadRequest("failed to parse form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(ctx, h.log, w, respond.BadRequest("file field is required"))
		return
	}
	defer file.Close()

	ctx = h.log.WithFields(ctx, map[string]any{
		"report_id": rep.ID.String(),
		"file":      header.Filename,
	})

	batch, err := h.parser.Import(ctx, rep.Platform, header.Filename, file)
	if err != nil {
		respond.Error(ctx, h.log, w, err)
		return
	}

	stored, err := h.reports.Import(ctx, rep.ID, batch)
	if err != nil {
		respond.Error(ctx, h.log, w, err)
		return
	}

	respond.JSON(ctx, h.log, w, http.StatusOK, importResponse{
		ID:         stored.ID,
		Platform:   stored.Platform,
		Status:     stored.Status,
		Filename:   header.Filename,
		Imported:   batch.Len(),
		Skipped:    batch.Skipped,
		Duplicates: batch.Duplicates,
		UpdatedAt:  stored.UpdatedAt,
	})
}
