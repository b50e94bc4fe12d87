package run

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cruce/internal/status"
)

var (
	ErrNotFound          = errors.New("run not found")
	ErrNotEnoughReports  = errors.New("a run needs at least two reports")
	ErrInvalidDateRange  = errors.New("end date before start date")
	ErrReportNotComplete = errors.New("report is not completed")
)

// ReportRefs points at the report used for each platform. Nil means the
// platform takes no part in the run.
type ReportRefs struct {
	Orders       *uuid.UUID
	Payments     *uuid.UUID
	Fulfillment  *uuid.UUID
	SecondaryOMS *uuid.UUID
}

// Count returns how many platforms are referenced.
func (r ReportRefs) Count() int {
	n := 0

	for _, id := range []*uuid.UUID{r.Orders, r.Payments, r.Fulfillment, r.SecondaryOMS} {
		if id != nil {
			n++
		}
	}

	return n
}

// Run is one reconciliation over a date range. Its report references are
// fixed at creation.
type Run struct {
	ID            uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	Status        status.Status
	CompletedDate *time.Time
	ReviewNote    string
	Reports       ReportRefs
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
