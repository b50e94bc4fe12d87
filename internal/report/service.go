package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	CreateReport(ctx context.Context, r *Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*Report, error)
	ListReports(ctx context.Context, filter ListFilter) ([]*Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, s status.Status) error
	DeleteReport(ctx context.Context, id uuid.UUID) error

	ReplaceRecords(ctx context.Context, id uuid.UUID, batch *platform.Batch) error
	DeleteRecords(ctx context.Context, id uuid.UUID, p platform.Platform) error

	ListOrderRecords(ctx context.Context, reportID uuid.UUID) ([]*platform.OrderRecord, error)
	ListPaymentRecords(ctx context.Context, reportID uuid.UUID) ([]*platform.PaymentRecord, error)
	ListFulfillmentRecords(ctx context.Context, reportID uuid.UUID) ([]*platform.FulfillmentRecord, error)
	ListSecondaryOMSRecords(ctx context.Context, reportID uuid.UUID) ([]*platform.SecondaryOMSRecord, error)
}

// ImportObserver is notified after every successful import.
type ImportObserver interface {
	ObserveImport(source string, stored, skipped int)
}

type Service struct {
	repo     Repository
	observer ImportObserver
}

func NewService(repo Repository, observer ImportObserver) *Service {
	return &Service{repo: repo, observer: observer}
}

type CreateParams struct {
	Platform  platform.Platform
	StartDate time.Time
	EndDate   time.Time
}

type ListFilter struct {
	Platform *platform.Platform
	Status   *status.Status
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Report, error) {
	if params.EndDate.Before(params.StartDate) {
		return nil, ErrInvalidDateRange
	}

	r := &Report{
		Platform:  params.Platform,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Status:    status.Pending,
	}
	if err := s.repo.CreateReport(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	return s.repo.GetReport(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Report, error) {
	return s.repo.ListReports(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteReport(ctx, id)
}

// Import stores a parsed batch as the records of a PENDING report. The report
// ends COMPLETED on success and ERROR on any failure after processing started.
func (s *Service) Import(ctx context.Context, id uuid.UUID, batch *platform.Batch) (*Report, error) {
	r, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.Platform != batch.Platform {
		return nil, fmt.Errorf("%w: report is %s, batch is %s", ErrPlatformMismatch, r.Platform, batch.Platform)
	}

	if err := status.Check(r.Status, status.Processing); err != nil {
		return nil, fmt.Errorf("importing report in status %s: %w", r.Status, err)
	}

	if err := s.repo.UpdateStatus(ctx, id, status.Processing); err != nil {
		return nil, fmt.Errorf("marking report processing: %w", err)
	}

	if err := s.repo.ReplaceRecords(ctx, id, batch); err != nil {
		return nil, s.fail(ctx, id, fmt.Errorf("storing records: %w", err))
	}

	if err := s.repo.UpdateStatus(ctx, id, status.Completed); err != nil {
		return nil, s.fail(ctx, id, fmt.Errorf("marking report completed: %w", err))
	}

	if s.observer != nil {
		s.observer.ObserveImport(string(batch.Platform), batch.Len(), batch.Skipped)
	}

	r.Status = status.Completed

	return r, nil
}

func (s *Service) fail(ctx context.Context, id uuid.UUID, cause error) error {
	if err := s.repo.UpdateStatus(context.WithoutCancel(ctx), id, status.Error); err != nil {
		return errors.Join(cause, fmt.Errorf("marking report error: %w", err))
	}

	return cause
}

// Retry moves an ERROR report back to PENDING and drops any partial records.
func (s *Service) Retry(ctx context.Context, id uuid.UUID) (*Report, error) {
	r, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := status.Check(r.Status, status.Pending); err != nil {
		return nil, fmt.Errorf("retrying report in status %s: %w", r.Status, err)
	}

	if err := s.repo.DeleteRecords(ctx, id, r.Platform); err != nil {
		return nil, fmt.Errorf("clearing records: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, id, status.Pending); err != nil {
		return nil, fmt.Errorf("marking report pending: %w", err)
	}

	r.Status = status.Pending

	return r, nil
}

func (s *Service) expect(ctx context.Context, id uuid.UUID, p platform.Platform) error {
	r, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return err
	}

	if r.Platform != p {
		return fmt.Errorf("%w: report %s is %s, expected %s", ErrPlatformMismatch, id, r.Platform, p)
	}

	return nil
}

func (s *Service) Orders(ctx context.Context, id uuid.UUID) ([]*platform.OrderRecord, error) {
	if err := s.expect(ctx, id, platform.Orders); err != nil {
		return nil, err
	}

	return s.repo.ListOrderRecords(ctx, id)
}

func (s *Service) Payments(ctx context.Context, id uuid.UUID) ([]*platform.PaymentRecord, error) {
	if err := s.expect(ctx, id, platform.Payments); err != nil {
		return nil, err
	}

	return s.repo.ListPaymentRecords(ctx, id)
}

func (s *Service) Fulfillment(ctx context.Context, id uuid.UUID) ([]*platform.FulfillmentRecord, error) {
	if err := s.expect(ctx, id, platform.Fulfillment); err != nil {
		return nil, err
	}

	return s.repo.ListFulfillmentRecords(ctx, id)
}

func (s *Service) SecondaryOMS(ctx context.Context, id uuid.UUID) ([]*platform.SecondaryOMSRecord, error) {
	if err := s.expect(ctx, id, platform.SecondaryOMS); err != nil {
		return nil, err
	}

	return s.repo.ListSecondaryOMSRecords(ctx, id)
}

// Records loads every record of a report into a batch, whatever its platform.
func (s *Service) Records(ctx context.Context, id uuid.UUID) (*Report, *platform.Batch, error) {
	r, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	batch := &platform.Batch{Platform: r.Platform}

	switch r.Platform {
	case platform.Orders:
		batch.Orders, err = s.repo.ListOrderRecords(ctx, id)
	case platform.Payments:
		batch.Payments, err = s.repo.ListPaymentRecords(ctx, id)
	case platform.Fulfillment:
		batch.Fulfillment, err = s.repo.ListFulfillmentRecords(ctx, id)
	case platform.SecondaryOMS:
		batch.SecondaryOMS, err = s.repo.ListSecondaryOMSRecords(ctx, id)
	default:
		err = fmt.Errorf("unknown platform: %s", r.Platform)
	}

	if err != nil {
		return nil, nil, err
	}

	return r, batch, nil
}
