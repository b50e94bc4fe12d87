package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/report"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

type reportResponse struct {
	ID        uuid.UUID         `json:"id"`
	Platform  platform.Platform `json:"platform"`
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Status    status.Status     `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func toResponse(r *report.Report) reportResponse {
	return reportResponse{
		ID:        r.ID,
		Platform:  r.Platform,
		StartDate: r.StartDate.Format(time.DateOnly),
		EndDate:   r.EndDate.Format(time.DateOnly),
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toResponseList(reports []*report.Report) []reportResponse {
	resp := make([]reportResponse, len(reports))
	for i, r := range reports {
		resp[i] = toResponse(r)
	}

	return resp
}
