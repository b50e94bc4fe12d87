package run

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cruce/internal/http/respond"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/reconcile"
	"github.com/MrJamesThe3rd/cruce/internal/run"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

// Service is the part of run.Service the handler needs.
type Service interface {
	Create(ctx context.Context, params run.CreateParams) (*run.Run, error)
	Get(ctx context.Context, id uuid.UUID) (*run.Run, error)
	List(ctx context.Context, filter run.ListFilter) ([]*run.Run, error)
	ListRows(ctx context.Context, id uuid.UUID, onlyDiscrepancies bool) ([]reconcile.Row, error)
	SetReviewNote(ctx context.Context, id uuid.UUID, note string) error
	Retry(ctx context.Context, id uuid.UUID) (*run.Run, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Enqueuer hands a run to the workers.
type Enqueuer interface {
	Enqueue(ctx context.Context, runID uuid.UUID) error
}

type Handler struct {
	svc   Service
	queue Enqueuer
	log   *logger.Logger
}

func NewHandler(svc Service, queue Enqueuer, log *logger.Logger) *Handler {
	return &Handler{svc: svc, queue: queue, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/rows", h.rows)
	r.Patch("/{id}/review", h.review)
	r.Post("/{id}/retry", h.retry)
	r.Post("/{id}/enqueue", h.enqueue)
}

type createRunRequest struct {
	StartDate            string     `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string     `json:"end_date" validate:"required,datetime=2006-01-02"`
	OrdersReportID       *uuid.UUID `json:"orders_report_id"`
	PaymentsReportID     *uuid.UUID `json:"payments_report_id"`
	FulfillmentReportID  *uuid.UUID `json:"fulfillment_report_id"`
	SecondaryOMSReportID *uuid.UUID `json:"secondary_oms_report_id"`
}

type reviewRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	start, _ := time.Parse(time.DateOnly, req.StartDate)
	end, _ := time.Parse(time.DateOnly, req.EndDate)

	created, err := h.svc.Create(r.Context(), run.CreateParams{
		StartDate: start,
		EndDate:   end,
		Reports: run.ReportRefs{
			Orders:       req.OrdersReportID,
			Payments:     req.PaymentsReportID,
			Fulfillment:  req.FulfillmentReportID,
			SecondaryOMS: req.SecondaryOMSReportID,
		},
	})
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	if err := h.queue.Enqueue(r.Context(), created.ID); err != nil {
		respond.Error(r.Context(), h.log, w, fmt.Errorf("queueing run %s: %w", created.ID, err))
		return
	}

	respond.JSON(r.Context(), h.log, w, http.StatusAccepted, toResponse(created))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := run.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		st := status.Status(s)
		filter.Status = &st
	}

	runs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	respond.JSON(r.Context(), h.log, w, http.StatusOK, toResponseList(runs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	found, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	respond.JSON(r.Context(), h.log, w, http.StatusOK, toResponse(found))
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

func (h *Handler) rows(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.svc.ListRows(r.Context(), id, only)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	respond.JSON(r.Context(), h.log, w, http.StatusOK, toRowList(rows))
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	var req reviewRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	if err := h.svc.SetReviewNote(r.Context(), id, req.Note); err != nil {
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

	retried, err := h.svc.Retry(r.Context(), id)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	if err := h.queue.Enqueue(r.Context(), retried.ID); err != nil {
		respond.Error(r.Context(), h.log, w, fmt.Errorf("queueing run %s: %w", retried.ID, err))
		return
	}

	respond.JSON(r.Context(), h.log, w, http.StatusAccepted, toResponse(retried))
}

// enqueue queues a PENDING run again, for when the first push was lost.
func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	found, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	if found.Status != status.Pending {
		respond.Error(r.Context(), h.log, w, fmt.Errorf("queueing run in status %s: %w", found.Status, status.ErrInvalidTransition))
		return
	}

	if err := h.queue.Enqueue(r.Context(), found.ID); err != nil {
		respond.Error(r.Context(), h.log, w, fmt.Errorf("queueing run %s: %w", found.ID, err))
		return
	}

	respond.JSON(r.Context(), h.log, w, http.StatusAccepted, toResponse(found))
}
