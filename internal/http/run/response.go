package run

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cruce/internal/reconcile"
	"github.com/MrJamesThe3rd/cruce/internal/run"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

type runResponse struct {
	ID                   uuid.UUID     `json:"id"`
	StartDate            string        `json:"start_date"`
	EndDate              string        `json:"end_date"`
	Status               status.Status `json:"status"`
	CompletedDate        *string       `json:"completed_date,omitempty"`
	ReviewNote           string        `json:"review_note"`
	OrdersReportID       *uuid.UUID    `json:"orders_report_id,omitempty"`
	PaymentsReportID     *uuid.UUID    `json:"payments_report_id,omitempty"`
	FulfillmentReportID  *uuid.UUID    `json:"fulfillment_report_id,omitempty"`
	SecondaryOMSReportID *uuid.UUID    `json:"secondary_oms_report_id,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

type rowResponse struct {
	OrderNumber            string     `json:"order_number"`
	Timestamp              *time.Time `json:"timestamp"`
	DeliveryTimestamp      *time.Time `json:"delivery_timestamp"`
	PaymentChannel         string     `json:"payment_channel"`
	FulfillmentParty       string     `json:"fulfillment_party"`
	StatusOrderPlatform    string     `json:"status_order_platform"`
	StatusPayment          string     `json:"status_payment"`
	StatusPaymentSecondary string     `json:"status_payment_secondary"`
	StatusFulfillment      string     `json:"status_fulfillment"`
	StatusSecondaryOMS     string     `json:"status_secondary_oms"`
	DiscrepancyResult      string     `json:"discrepancy_result"`
}

func toResponse(r *run.Run) runResponse {
	resp := runResponse{
		ID:                   r.ID,
		StartDate:            r.StartDate.Format(time.DateOnly),
		EndDate:              r.EndDate.Format(time.DateOnly),
		Status:               r.Status,
		ReviewNote:           r.ReviewNote,
		OrdersReportID:       r.Reports.Orders,
		PaymentsReportID:     r.Reports.Payments,
		FulfillmentReportID:  r.Reports.Fulfillment,
		SecondaryOMSReportID: r.Reports.SecondaryOMS,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}

	if r.CompletedDate != nil {
		d := r.CompletedDate.Format(time.DateOnly)
		resp.CompletedDate = &d
	}

	return resp
}

func toResponseList(runs []*run.Run) []runResponse {
	resp := make([]runResponse, len(runs))
	for i, r := range runs {
		resp[i] = toResponse(r)
	}

	return resp
}

func toRowList(rows []reconcile.Row) []rowResponse {
	resp := make([]rowResponse, len(rows))
	for i, row := range rows {
		resp[i] = rowResponse(row)
	}

	return resp
}
