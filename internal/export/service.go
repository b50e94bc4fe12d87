// Package export renders reconciliation runs and platform reports as xlsx
// workbooks.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/reconcile"
	"github.com/MrJamesThe3rd/cruce/internal/report"
	"github.com/MrJamesThe3rd/cruce/internal/run"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	RunSheet    = "Cruce"
	dateLayout  = "2006-01-02"
)

var runHeader = []any{
	"Pedido", "fecha", "fecha_entrega", "medio_pago", "seller",
	"estado_vtex", "estado_payway", "estado_payway_2", "estado_cdp", "estado_janis",
	"resultado_cruce",
}

type RunSource interface {
	Get(ctx context.Context, id uuid.UUID) (*run.Run, error)
	ListRows(ctx context.Context, id uuid.UUID, onlyDiscrepancies bool) ([]reconcile.Row, error)
}

type ReportSource interface {
	Records(ctx context.Context, id uuid.UUID) (*report.Report, *platform.Batch, error)
}

// Document is a generated workbook and the filename it should be served as.
// Callers must Close it.
type Document struct {
	Filename string
	*excelize.File
}

type Service struct {
	runs    RunSource
	reports ReportSource
	loc     *time.Location
}

// NewService returns an exporter that writes timestamps as wall clock time
// in loc.
func NewService(runs RunSource, reports ReportSource, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{runs: runs, reports: reports, loc: loc}
}

// RunFilename names the workbook of a run covering start to end.
func RunFilename(start, end time.Time, onlyDiscrepancies bool) string {
	suffix := ""
	if onlyDiscrepancies {
		suffix = "_observaciones"
	}

	return fmt.Sprintf("cruce_%s_to_%s%s.xlsx", start.Format(dateLayout), end.Format(dateLayout), suffix)
}

func ReportFilename(r *report.Report) string {
	return fmt.Sprintf("reporte_%s_%s_to_%s.xlsx", r.Platform, r.StartDate.Format(dateLayout), r.EndDate.Format(dateLayout))
}

// Workbook renders the rows of a run on a single sheet.
func (s *Service) Workbook(ctx context.Context, runID uuid.UUID, onlyDiscrepancies bool) (*Document, error) {
	r, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.runs.ListRows(ctx, runID, onlyDiscrepancies)
	if err != nil {
		return nil, fmt.Errorf("listing run rows: %w", err)
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = []any{
			row.OrderNumber,
			s.wallClock(row.Timestamp),
			s.wallClock(row.DeliveryTimestamp),
			row.PaymentChannel,
			row.FulfillmentParty,
			row.StatusOrderPlatform,
			row.StatusPayment,
			row.StatusPaymentSecondary,
			row.StatusFulfillment,
			row.StatusSecondaryOMS,
			row.DiscrepancyResult,
		}
	}

	f, err := newWorkbook(RunSheet, runHeader, values)
	if err != nil {
		return nil, err
	}

	return &Document{Filename: RunFilename(r.StartDate, r.EndDate, onlyDiscrepancies), File: f}, nil
}

// ReportWorkbook renders every record of a report on a sheet named after its
// platform.
func (s *Service) ReportWorkbook(ctx context.Context, reportID uuid.UUID) (*Document, error) {
	r, batch, err := s.reports.Records(ctx, reportID)
	if err != nil {
		return nil, err
	}

	var (
		header []any
		values [][]any
	)

	switch batch.Platform {
	case platform.Orders:
		header = []any{"Pedido", "Transaccion", "fecha", "medio_pago", "seller", "estado", "valor"}
		for _, rec := range batch.Orders {
			values = append(values, []any{
				rec.OrderNumber, rec.TransactionNumber, s.wallClock(rec.Timestamp),
				rec.PaymentChannel, rec.FulfillmentParty, rec.Status, amount(rec.Amount),
			})
		}

	case platform.Payments:
		header = []any{"Transaccion", "fecha", "monto", "estado", "tarjeta"}
		for _, rec := range batch.Payments {
			values = append(values, []any{
				rec.TransactionNumber, s.wallClock(rec.Timestamp), amount(rec.Amount), rec.Status, rec.Card,
			})
		}

	case platform.Fulfillment:
		header = []any{"Pedido", "fecha", "numero_tienda", "estado"}
		for _, rec := range batch.Fulfillment {
			values = append(values, []any{
				rec.OrderNumber, s.wallClock(rec.Timestamp), rec.StoreNumber.InexactFloat64(), rec.Status,
			})
		}

	case platform.SecondaryOMS:
		header = []any{"Pedido", "Transaccion", "fecha", "medio_pago", "seller", "estado", "fecha_entrega"}
		for _, rec := range batch.SecondaryOMS {
			values = append(values, []any{
				rec.OrderNumber, rec.TransactionNumber, s.wallClock(rec.Timestamp),
				rec.PaymentChannel, rec.FulfillmentParty, rec.Status, s.wallClock(rec.DeliveryTimestamp),
			})
		}

	default:
		return nil, fmt.Errorf("unknown platform: %s", batch.Platform)
	}

	f, err := newWorkbook(string(batch.Platform), header, values)
	if err != nil {
		return nil, err
	}

	return &Document{Filename: ReportFilename(r), File: f}, nil
}

// wallClock converts t to the export location and drops the zone so the
// spreadsheet shows local time. Nil yields an empty cell.
func (s *Service) wallClock(t *time.Time) any {
	if t == nil {
		return nil
	}

	l := t.In(s.loc)

	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), 0, time.UTC)
}

func amount(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}

	return d.InexactFloat64()
}

func newWorkbook(sheet string, header []any, rows [][]any) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	if err := writeRows(f, sheet, header, rows); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}

	return f.SetColWidth(sheet, "A", lastCol, 20)
}
