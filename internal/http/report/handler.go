package report

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cruce/internal/http/respond"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/report"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

// Service is the part of report.Service the handler needs.
type Service interface {
	Create(ctx context.Context, params report.CreateParams) (*report.Report, error)
	Get(ctx context.Context, id uuid.UUID) (*report.Report, error)
	List(ctx context.Context, filter report.ListFilter) ([]*report.Report, error)
	Retry(ctx context.Context, id uuid.UUID) (*report.Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	svc Service
	log *logger.Logger
}

func NewHandler(svc Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/retry", h.retry)
}

type createReportRequest struct {
	Platform  string `json:"platform" validate:"required,oneof=orders payments fulfillment secondary_oms"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	// Both already passed the datetime and oneof checks.
	start, _ := time.Parse(time.DateOnly, req.StartDate)
	end, _ := time.Parse(time.DateOnly, req.EndDate)

	rep, err := h.svc.Create(r.Context(), report.CreateParams{
		Platform:  platform.Platform(req.Platform),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	respond.JSON(r.Context(), h.log, w, http.StatusCreated, toResponse(rep))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := report.ListFilter{}

	if s := r.URL.Query().Get("platform"); s != "" {
		p, err := platform.Parse(s)
		if err != nil {
			respond.Error(r.Context(), h.log, w, respond.BadRequest("%v", err))
			return
		}

		filter.Platform = &p
	}

	if s := r.URL.Query().Get("status"); s != "" {
		st := status.Status(s)
		filter.Status = &st
	}

	reports, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	respond.JSON(r.Context(), h.log, w, http.StatusOK, toResponseList(reports))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	rep, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	respond.JSON(r.Context(), h.log, w, http.StatusOK, toResponse(rep))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) retry(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	rep, err := h.svc.Retry(r.Context(), id)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	respond.JSON(r.Context(), h.log, w, http.StatusOK, toResponse(rep))
}
