package report

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

var (
	ErrNotFound         = errors.New("report not found")
	ErrPlatformMismatch = errors.New("report platform mismatch")
	ErrInvalidDateRange = errors.New("end date before start date")
)

// Report is one platform export covering a date range. Its records are
// deleted together with it.
type Report struct {
	ID        uuid.UUID
	Platform  platform.Platform
	StartDate time.Time
	EndDate   time.Time
	Status    status.Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
