package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cruce/internal/database"
	"github.com/MrJamesThe3rd/cruce/internal/reconcile"
	"github.com/MrJamesThe3rd/cruce/internal/run"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectRunColumns = `
	id, start_date, end_date, status, completed_date, review_note,
	orders_report_id, payments_report_id, fulfillment_report_id, secondary_oms_report_id,
	created_at, updated_at`

func scanRun(s scanner) (*run.Run, error) {
	var (
		r       run.Run
		statStr string
	)

	err := s.Scan(
		&r.ID, &r.StartDate, &r.EndDate, &statStr, &r.CompletedDate, &r.ReviewNote,
		&r.Reports.Orders, &r.Reports.Payments, &r.Reports.Fulfillment, &r.Reports.SecondaryOMS,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Status = status.Status(statStr)

	return &r, nil
}

func (s *Store) CreateRun(ctx context.Context, r *run.Run) error {
	query := `
		INSERT INTO runs (
			start_date, end_date, status,
			orders_report_id, payments_report_id, fulfillment_report_id, secondary_oms_report_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		r.StartDate, r.EndDate, r.Status,
		r.Reports.Orders, r.Reports.Payments, r.Reports.Fulfillment, r.Reports.SecondaryOMS,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating run: %w", err)
	}

	return nil
}

func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*run.Run, error) {
	query := `SELECT ` + selectRunColumns + ` FROM runs WHERE id = $1`

	r, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, run.ErrNotFound
		}

		return nil, fmt.Errorf("getting run: %w", err)
	}

	return r, nil
}

func (s *Store) ListRuns(ctx context.Context, filter run.ListFilter) ([]*run.Run, error) {
	query := `SELECT ` + selectRunColumns + ` FROM runs`

	var args []any

	if filter.Status != nil {
		query += ` WHERE status = $1`

		args = append(args, *filter.Status)
	}

	query += ` ORDER BY start_date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*run.Run

	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, st status.Status, completedDate *time.Time) error {
	query := `UPDATE runs SET status = $1, completed_date = $2, updated_at = NOW() WHERE id = $3`

	res, err := s.db.ExecContext(ctx, query, st, completedDate, id)
	if err != nil {
		return fmt.Errorf("updating run status: %w", err)
	}

	return expectRow(res)
}

func (s *Store) UpdateReviewNote(ctx context.Context, id uuid.UUID, note string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET review_note = $1, updated_at = NOW() WHERE id = $2`, note, id)
	if err != nil {
		return fmt.Errorf("updating review note: %w", err)
	}

	return expectRow(res)
}

func (s *Store) DeleteRun(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}

	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return run.ErrNotFound
	}

	return nil
}

const rowColumns = `run_id, order_number, occurred_at, delivered_at, payment_channel, fulfillment_party,
	status_order_platform, status_payment, status_payment_secondary, status_fulfillment,
	status_secondary_oms, discrepancy_result`

const rowColumnCount = 12

// SaveRows swaps the rows of a run in one transaction.
func (s *Store) SaveRows(ctx context.Context, id uuid.UUID, rows []reconcile.Row) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM run_rows WHERE run_id = $1`, id); err != nil {
		return fmt.Errorf("clearing run rows: %w", err)
	}

	for _, w := range database.Batches(len(rows), database.InsertBatchSize) {
		chunk := rows[w[0]:w[1]]

		args := make([]any, 0, len(chunk)*rowColumnCount)
		for _, r := range chunk {
			args = append(args,
				id, r.OrderNumber, r.Timestamp, r.DeliveryTimestamp, r.PaymentChannel, r.FulfillmentParty,
				r.StatusOrderPlatform, r.StatusPayment, r.StatusPaymentSecondary, r.StatusFulfillment,
				r.StatusSecondaryOMS, r.DiscrepancyResult,
			)
		}

		query := `INSERT INTO run_rows (` + rowColumns + `) VALUES ` +
			database.Placeholders(len(chunk), rowColumnCount)

		if _, err := dbTx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting run rows: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) ListRows(ctx context.Context, id uuid.UUID, onlyDiscrepancies bool) ([]reconcile.Row, error) {
	query := `
		SELECT order_number, occurred_at, delivered_at, payment_channel, fulfillment_party,
			status_order_platform, status_payment, status_payment_secondary, status_fulfillment,
			status_secondary_oms, discrepancy_result
		FROM run_rows
		WHERE run_id = $1`

	if onlyDiscrepancies {
		query += ` AND discrepancy_result <> ''`
	}

	query += ` ORDER BY order_number`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("listing run rows: %w", err)
	}
	defer rows.Close()

	var out []reconcile.Row

	for rows.Next() {
		var r reconcile.Row

		err := rows.Scan(&r.OrderNumber, &r.Timestamp, &r.DeliveryTimestamp, &r.PaymentChannel, &r.FulfillmentParty,
			&r.StatusOrderPlatform, &r.StatusPayment, &r.StatusPaymentSecondary, &r.StatusFulfillment,
			&r.StatusSecondaryOMS, &r.DiscrepancyResult)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run rows: %w", err)
	}

	return out, nil
}
