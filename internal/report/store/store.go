package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cruce/internal/database"
	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/report"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectReportColumns = `id, platform, start_date, end_date, status, created_at, updated_at`

func scanReport(s scanner) (*report.Report, error) {
	var (
		r                    report.Report
		platformStr, statStr string
	)

	if err := s.Scan(&r.ID, &platformStr, &r.StartDate, &r.EndDate, &statStr, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}

	r.Platform = platform.Platform(platformStr)
	r.Status = status.Status(statStr)

	return &r, nil
}

func (s *Store) CreateReport(ctx context.Context, r *report.Report) error {
	query := `
		INSERT INTO reports (platform, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, r.Platform, r.StartDate, r.EndDate, r.Status).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}

	return nil
}

func (s *Store) GetReport(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	query := `SELECT ` + selectReportColumns + ` FROM reports WHERE id = $1`

	r, err := scanReport(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, report.ErrNotFound
		}

		return nil, fmt.Errorf("getting report: %w", err)
	}

	return r, nil
}

func (s *Store) ListReports(ctx context.Context, filter report.ListFilter) ([]*report.Report, error) {
	query := `SELECT ` + selectReportColumns + ` FROM reports WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.Platform != nil {
		query += fmt.Sprintf(" AND platform = $%d", argIdx)

		args = append(args, *filter.Platform)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY start_date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []*report.Report

	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}

		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}

	return reports, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, st status.Status) error {
	query := `UPDATE reports SET status = $1, updated_at = NOW() WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, st, id)
	if err != nil {
		return fmt.Errorf("updating report status: %w", err)
	}

	return expectRow(res)
}

func (s *Store) DeleteReport(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}

	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return report.ErrNotFound
	}

	return nil
}

var recordTables = map[platform.Platform]string{
	platform.Orders:       "order_records",
	platform.Payments:     "payment_records",
	platform.Fulfillment:  "fulfillment_records",
	platform.SecondaryOMS: "secondary_oms_records",
}

func (s *Store) DeleteRecords(ctx context.Context, id uuid.UUID, p platform.Platform) error {
	table, ok := recordTables[p]
	if !ok {
		return fmt.Errorf("unknown platform: %s", p)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE report_id = $1`, id); err != nil {
		return fmt.Errorf("deleting %s: %w", table, err)
	}

	return nil
}

// ReplaceRecords swaps the records of a report for the batch in one
// transaction, inserting in chunks of database.InsertBatchSize rows.
func (s *Store) ReplaceRecords(ctx context.Context, id uuid.UUID, batch *platform.Batch) error {
	table, ok := recordTables[batch.Platform]
	if !ok {
		return fmt.Errorf("unknown platform: %s", batch.Platform)
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM `+table+` WHERE report_id = $1`, id); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}

	columns, values := recordValues(id, batch)

	for _, w := range database.Batches(len(values), database.InsertBatchSize) {
		chunk := values[w[0]:w[1]]

		args := make([]any, 0, len(chunk)*len(columns))
		for _, v := range chunk {
			args = append(args, v...)
		}

		query := `INSERT INTO ` + table + ` (` + strings.Join(columns, ", ") + `) VALUES ` +
			database.Placeholders(len(chunk), len(columns))

		if _, err := dbTx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting %s: %w", table, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func recordValues(id uuid.UUID, batch *platform.Batch) ([]string, [][]any) {
	switch batch.Platform {
	case platform.Orders:
		values := make([][]any, len(batch.Orders))
		for i, r := range batch.Orders {
			values[i] = []any{id, r.OrderNumber, r.TransactionNumber, r.Timestamp, r.PaymentChannel, r.FulfillmentParty, r.Status, nullDecimal(r.Amount)}
		}

		return []string{"report_id", "order_number", "transaction_number", "occurred_at", "payment_channel", "fulfillment_party", "status", "amount"}, values

	case platform.Payments:
		values := make([][]any, len(batch.Payments))
		for i, r := range batch.Payments {
			values[i] = []any{id, r.TransactionNumber, r.Timestamp, nullDecimal(r.Amount), r.Status, r.Card}
		}

		return []string{"report_id", "transaction_number", "occurred_at", "amount", "status", "card"}, values

	case platform.Fulfillment:
		values := make([][]any, len(batch.Fulfillment))
		for i, r := range batch.Fulfillment {
			values[i] = []any{id, r.OrderNumber, r.Timestamp, r.StoreNumber, r.Status}
		}

		return []string{"report_id", "order_number", "occurred_at", "store_number", "status"}, values

	case platform.SecondaryOMS:
		values := make([][]any, len(batch.SecondaryOMS))
		for i, r := range batch.SecondaryOMS {
			values[i] = []any{id, r.OrderNumber, r.TransactionNumber, r.Timestamp, r.DeliveryTimestamp, r.PaymentChannel, r.FulfillmentParty, r.Status}
		}

		return []string{"report_id", "order_number", "transaction_number", "occurred_at", "delivered_at", "payment_channel", "fulfillment_party", "status"}, values
	}

	return nil, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return &d.Decimal
}

func (s *Store) ListOrderRecords(ctx context.Context, reportID uuid.UUID) ([]*platform.OrderRecord, error) {
	query := `
		SELECT id, report_id, order_number, transaction_number, occurred_at, payment_channel, fulfillment_party, status, amount
		FROM order_records WHERE report_id = $1`

	return listRecords(ctx, s.db, query, reportID, func(sc scanner) (*platform.OrderRecord, error) {
		var (
			r      platform.OrderRecord
			amount decimal.NullDecimal
		)

		err := sc.Scan(&r.ID, &r.ReportID, &r.OrderNumber, &r.TransactionNumber, &r.Timestamp,
			&r.PaymentChannel, &r.FulfillmentParty, &r.Status, &amount)
		r.Amount = decimalPtr(amount)

		return &r, err
	})
}

func (s *Store) ListPaymentRecords(ctx context.Context, reportID uuid.UUID) ([]*platform.PaymentRecord, error) {
	query := `
		SELECT id, report_id, transaction_number, occurred_at, amount, status, card
		FROM payment_records WHERE report_id = $1`

	return listRecords(ctx, s.db, query, reportID, func(sc scanner) (*platform.PaymentRecord, error) {
		var (
			r      platform.PaymentRecord
			amount decimal.NullDecimal
		)

		err := sc.Scan(&r.ID, &r.ReportID, &r.TransactionNumber, &r.Timestamp, &amount, &r.Status, &r.Card)
		r.Amount = decimalPtr(amount)

		return &r, err
	})
}

func (s *Store) ListFulfillmentRecords(ctx context.Context, reportID uuid.UUID) ([]*platform.FulfillmentRecord, error) {
	query := `
		SELECT id, report_id, order_number, occurred_at, store_number, status
		FROM fulfillment_records WHERE report_id = $1`

	return listRecords(ctx, s.db, query, reportID, func(sc scanner) (*platform.FulfillmentRecord, error) {
		var r platform.FulfillmentRecord

		err := sc.Scan(&r.ID, &r.ReportID, &r.OrderNumber, &r.Timestamp, &r.StoreNumber, &r.Status)

		return &r, err
	})
}

func (s *Store) ListSecondaryOMSRecords(ctx context.Context, reportID uuid.UUID) ([]*platform.SecondaryOMSRecord, error) {
	query := `
		SELECT id, report_id, order_number, transaction_number, occurred_at, delivered_at, payment_channel, fulfillment_party, status
		FROM secondary_oms_records WHERE report_id = $1`

	return listRecords(ctx, s.db, query, reportID, func(sc scanner) (*platform.SecondaryOMSRecord, error) {
		var r platform.SecondaryOMSRecord

		err := sc.Scan(&r.ID, &r.ReportID, &r.OrderNumber, &r.TransactionNumber, &r.Timestamp,
			&r.DeliveryTimestamp, &r.PaymentChannel, &r.FulfillmentParty, &r.Status)

		return &r, err
	})
}

func listRecords[T any](ctx context.Context, db *sql.DB, query string, reportID uuid.UUID, scan func(scanner) (*T, error)) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []*T

	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return out, nil
}
