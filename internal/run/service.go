package run

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/reconcile"
	"github.com/MrJamesThe3rd/cruce/internal/report"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=run
type Repository interface {
	CreateRun(ctx context.Context, r *Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
	ListRuns(ctx context.Context, filter ListFilter) ([]*Run, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, s status.Status, completedDate *time.Time) error
	UpdateReviewNote(ctx context.Context, id uuid.UUID, note string) error
	DeleteRun(ctx context.Context, id uuid.UUID) error

	// SaveRows replaces the rows of a run.
	SaveRows(ctx context.Context, id uuid.UUID, rows []reconcile.Row) error
	ListRows(ctx context.Context, id uuid.UUID, onlyDiscrepancies bool) ([]reconcile.Row, error)
}

// RecordLoader reads the records of a report. report.Service implements it.
type RecordLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*report.Report, error)
	Orders(ctx context.Context, id uuid.UUID) ([]*platform.OrderRecord, error)
	Payments(ctx context.Context, id uuid.UUID) ([]*platform.PaymentRecord, error)
	Fulfillment(ctx context.Context, id uuid.UUID) ([]*platform.FulfillmentRecord, error)
	SecondaryOMS(ctx context.Context, id uuid.UUID) ([]*platform.SecondaryOMSRecord, error)
}

type Joiner interface {
	Join(in reconcile.Input) []reconcile.Row
}

type Observer interface {
	ObserveRun(duration time.Duration, ok bool)
}

type Service struct {
	repo     Repository
	loader   RecordLoader
	joiner   Joiner
	log      *logger.Logger
	observer Observer
	now      func() time.Time
}

func NewService(repo Repository, loader RecordLoader, joiner Joiner, log *logger.Logger, observer Observer) *Service {
	return &Service{
		repo:     repo,
		loader:   loader,
		joiner:   joiner,
		log:      log,
		observer: observer,
		now:      time.Now,
	}
}

type CreateParams struct {
	StartDate time.Time
	EndDate   time.Time
	Reports   ReportRefs
}

type ListFilter struct {
	Status *status.Status
}

// Create stores a PENDING run. Every referenced report must exist, belong to
// the expected platform and be COMPLETED.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Run, error) {
	if params.EndDate.Before(params.StartDate) {
		return nil, ErrInvalidDateRange
	}

	if params.Reports.Count() < 2 {
		return nil, ErrNotEnoughReports
	}

	refs := []struct {
		id *uuid.UUID
		p  platform.Platform
	}{
		{params.Reports.Orders, platform.Orders},
		{params.Reports.Payments, platform.Payments},
		{params.Reports.Fulfillment, platform.Fulfillment},
		{params.Reports.SecondaryOMS, platform.SecondaryOMS},
	}

	for _, ref := range refs {
		if ref.id == nil {
			continue
		}

		rep, err := s.loader.Get(ctx, *ref.id)
		if err != nil {
			return nil, fmt.Errorf("loading %s report: %w", ref.p, err)
		}

		if rep.Platform != ref.p {
			return nil, fmt.Errorf("%w: report %s is %s, expected %s", report.ErrPlatformMismatch, rep.ID, rep.Platform, ref.p)
		}

		if rep.Status != status.Completed {
			return nil, fmt.Errorf("%w: %s report %s is %s", ErrReportNotComplete, ref.p, rep.ID, rep.Status)
		}
	}

	r := &Run{
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Status:    status.Pending,
		Reports:   params.Reports,
	}
	if err := s.repo.CreateRun(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	return s.repo.GetRun(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Run, error) {
	return s.repo.ListRuns(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRun(ctx, id)
}

func (s *Service) SetReviewNote(ctx context.Context, id uuid.UUID, note string) error {
	return s.repo.UpdateReviewNote(ctx, id, note)
}

func (s *Service) ListRows(ctx context.Context, id uuid.UUID, onlyDiscrepancies bool) ([]reconcile.Row, error) {
	if _, err := s.repo.GetRun(ctx, id); err != nil {
		return nil, err
	}

	return s.repo.ListRows(ctx, id, onlyDiscrepancies)
}

// Retry moves an ERROR run back to PENDING so it can be queued again.
func (s *Service) Retry(ctx context.Context, id uuid.UUID) (*Run, error) {
	r, err := s.repo.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := status.Check(r.Status, status.Pending); err != nil {
		return nil, fmt.Errorf("retrying run in status %s: %w", r.Status, err)
	}

	if err := s.repo.UpdateStatus(ctx, id, status.Pending, nil); err != nil {
		return nil, fmt.Errorf("marking run pending: %w", err)
	}

	r.Status = status.Pending
	r.CompletedDate = nil

	return r, nil
}

// ExecuteRun executes a run with the report references stored on it.
func (s *Service) ExecuteRun(ctx context.Context, id uuid.UUID) bool {
	r, err := s.repo.GetRun(ctx, id)
	if err != nil {
		ctx = s.log.WithField(ctx, "run_id", id.String())

		if errors.Is(err, ErrNotFound) {
			s.log.Warn(ctx, "run not found", err)
			return false
		}

		s.log.Error(ctx, "loading run", err)

		return false
	}

	return s.Execute(ctx, id, r.Reports)
}

// Execute drives a run to COMPLETED or ERROR and reports success. It never
// returns an error or panics: failures are logged and the run is marked
// ERROR on a best-effort basis.
func (s *Service) Execute(ctx context.Context, id uuid.UUID, refs ReportRefs) (ok bool) {
	started := s.now()
	ctx = s.log.WithField(ctx, "run_id", id.String())

	r, err := s.repo.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Warn(ctx, "run not found", err)
			return false
		}

		return s.fail(ctx, id, started, fmt.Errorf("loading run: %w", err))
	}

	if err := status.Check(r.Status, status.Processing); err != nil {
		s.log.Warn(ctx, fmt.Sprintf("run is %s, not executing", r.Status), err)
		return false
	}

	if err := s.repo.UpdateStatus(ctx, id, status.Processing, nil); err != nil {
		return s.fail(ctx, id, started, fmt.Errorf("marking run processing: %w", err))
	}

	defer func() {
		if p := recover(); p != nil {
			ok = s.fail(ctx, id, started, fmt.Errorf("panic during reconciliation: %v", p))
		}
	}()

	in, err := s.load(ctx, refs)
	if err != nil {
		return s.fail(ctx, id, started, err)
	}

	rows := s.joiner.Join(in)

	if err := s.repo.SaveRows(ctx, id, rows); err != nil {
		return s.fail(ctx, id, started, fmt.Errorf("saving rows: %w", err))
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if err := s.repo.UpdateStatus(ctx, id, status.Completed, &today); err != nil {
		return s.fail(ctx, id, started, fmt.Errorf("marking run completed: %w", err))
	}

	discrepancies := 0

	for i := range rows {
		if rows[i].HasDiscrepancy() {
			discrepancies++
		}
	}

	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"rows":          len(rows),
		"discrepancies": discrepancies,
	}), "reconciliation run completed")

	if s.observer != nil {
		s.observer.ObserveRun(s.now().Sub(started), true)
	}

	return true
}

func (s *Service) fail(ctx context.Context, id uuid.UUID, started time.Time, cause error) bool {
	s.log.Error(ctx, "reconciliation run failed", cause)

	if err := s.repo.UpdateStatus(context.WithoutCancel(ctx), id, status.Error, nil); err != nil {
		s.log.Warn(ctx, "marking run error", err)
	}

	if s.observer != nil {
		s.observer.ObserveRun(s.now().Sub(started), false)
	}

	return false
}

// load reads every referenced report concurrently. A nil reference yields an
// empty collection.
func (s *Service) load(ctx context.Context, refs ReportRefs) (reconcile.Input, error) {
	var in reconcile.Input

	g, gctx := errgroup.WithContext(ctx)

	if refs.Orders != nil {
		g.Go(func() error {
			recs, err := s.loader.Orders(gctx, *refs.Orders)
			if err != nil {
				return fmt.Errorf("loading orders report %s: %w", refs.Orders, err)
			}

			in.Orders = recs

			return nil
		})
	}

	if refs.Payments != nil {
		g.Go(func() error {
			recs, err := s.loader.Payments(gctx, *refs.Payments)
			if err != nil {
				return fmt.Errorf("loading payments report %s: %w", refs.Payments, err)
			}

			in.Payments = recs

			return nil
		})
	}

	if refs.Fulfillment != nil {
		g.Go(func() error {
			recs, err := s.loader.Fulfillment(gctx, *refs.Fulfillment)
			if err != nil {
				return fmt.Errorf("loading fulfillment report %s: %w", refs.Fulfillment, err)
			}

			in.Fulfillment = recs

			return nil
		})
	}

	if refs.SecondaryOMS != nil {
		g.Go(func() error {
			recs, err := s.loader.SecondaryOMS(gctx, *refs.SecondaryOMS)
			if err != nil {
				return fmt.Errorf("loading secondary OMS report %s: %w", refs.SecondaryOMS, err)
			}

			in.SecondaryOMS = recs

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reconcile.Input{}, err
	}

	return in, nil
}
