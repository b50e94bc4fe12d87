package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/reconcile"
)

type statsRecorder struct {
	calls []reconcile.JoinStats
}

func (s *statsRecorder) ObserveJoin(stats reconcile.JoinStats) {
	s.calls = append(s.calls, stats)
}

func TestJoin_EmptyInput(t *testing.T) {
	rec := &statsRecorder{}
	engine := reconcile.NewEngine(reconcile.WithObserver(rec))

	rows := engine.Join(reconcile.Input{})

	assert.Empty(t, rows)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, reconcile.JoinStats{}, rec.calls[0])
}

func TestJoin_OrderWithoutOtherPlatforms(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	rows := reconcile.Join(reconcile.Input{
		Orders: []*platform.OrderRecord{{
			OrderNumber:      "1234567890123-01",
			Timestamp:        &ts,
			PaymentChannel:   "Visa",
			FulfillmentParty: foodSeller,
			Status:           "Faturado",
		}},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, reconcile.Row{
		OrderNumber:            "1234567890123-01",
		Timestamp:              &ts,
		PaymentChannel:         "Visa",
		FulfillmentParty:       foodSeller,
		StatusOrderPlatform:    "Faturado",
		StatusPayment:          reconcile.NotAvailable,
		StatusPaymentSecondary: reconcile.NotAvailable,
		StatusFulfillment:      reconcile.NotAvailable,
		StatusSecondaryOMS:     reconcile.NotAvailable,
	}, rows[0])
}

func TestJoin_MatchesAllPlatforms(t *testing.T) {
	delivered := time.Date(2024, 3, 3, 18, 0, 0, 0, time.UTC)
	rec := &statsRecorder{}

	rows := reconcile.NewEngine(reconcile.WithObserver(rec)).Join(reconcile.Input{
		Orders: []*platform.OrderRecord{
			{OrderNumber: "1234567890123-01", Status: "Faturado", FulfillmentParty: foodSeller},
		},
		Payments: []*platform.PaymentRecord{
			{TransactionNumber: "1234567890123-1", Status: "Aprobada"},
			{TransactionNumber: "1234567890123-2", Status: "Pre autorizada"},
			{TransactionNumber: "5555555555555-1", Status: "Aprobada"},
		},
		Fulfillment: []*platform.FulfillmentRecord{
			{OrderNumber: "1234567890123", Status: "Finalizado"},
		},
		SecondaryOMS: []*platform.SecondaryOMSRecord{
			{OrderNumber: "1234567890123-01", Status: "delivered", DeliveryTimestamp: &delivered},
		},
	})

	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Aprobada", row.StatusPayment)
	assert.Equal(t, "Pre autorizada", row.StatusPaymentSecondary)
	assert.Equal(t, "Finalizado", row.StatusFulfillment)
	assert.Equal(t, "delivered", row.StatusSecondaryOMS)
	assert.Equal(t, &delivered, row.DeliveryTimestamp)
	assert.Empty(t, row.DiscrepancyResult)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, reconcile.JoinStats{
		Orders:               1,
		PaymentMatches:       1,
		SecondPaymentMatches: 1,
		FulfillmentMatches:   1,
		SecondaryOMSMatches:  1,
	}, rec.calls[0])
}

func TestJoin_PaymentFallsBackToTransactionNumber(t *testing.T) {
	rec := &statsRecorder{}

	rows := reconcile.NewEngine(reconcile.WithObserver(rec)).Join(reconcile.Input{
		Orders: []*platform.OrderRecord{
			{OrderNumber: "1234567890123-01", TransactionNumber: "ABC-1", Status: "Faturado", FulfillmentParty: reconcile.ElectronicsSeller},
		},
		Payments: []*platform.PaymentRecord{
			{TransactionNumber: "ABC-1", Status: "Vencida"},
			{TransactionNumber: "ABC-2", Status: "Aprobada"},
		},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Vencida", rows[0].StatusPayment)
	assert.Equal(t, "Aprobada", rows[0].StatusPaymentSecondary)
	assert.Equal(t, reconcile.ResultNotCaptured, rows[0].DiscrepancyResult)
	assert.Equal(t, 1, rec.calls[0].TransactionIDFallbacks)
}

func TestJoin_NoPaymentMatch(t *testing.T) {
	rows := reconcile.Join(reconcile.Input{
		Orders: []*platform.OrderRecord{
			{OrderNumber: "9999999999999-01", TransactionNumber: "T-77", Status: "Pendiente", FulfillmentParty: marketplaceSeller},
		},
		Payments: []*platform.PaymentRecord{
			{TransactionNumber: "1111111111111-1", Status: "Aprobada"},
			{TransactionNumber: "T-78", Status: "Aprobada"},
		},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, reconcile.NotAvailable, rows[0].StatusPayment)
	assert.Equal(t, reconcile.NotAvailable, rows[0].StatusPaymentSecondary)
	assert.Equal(t, reconcile.ResultNotifyMarketplace, rows[0].DiscrepancyResult)
}

func TestJoin_MalformedOrderNumberDoesNotAbort(t *testing.T) {
	rec := &statsRecorder{}

	rows := reconcile.NewEngine(reconcile.WithObserver(rec)).Join(reconcile.Input{
		Orders: []*platform.OrderRecord{
			{OrderNumber: "NOSEPARATOR", Status: "Pendiente", FulfillmentParty: marketplaceSeller},
			{OrderNumber: "1234567890123-01", Status: "Faturado", FulfillmentParty: marketplaceSeller},
		},
		Payments: []*platform.PaymentRecord{
			{TransactionNumber: "1234567890123-1", Status: "Aprobada"},
		},
		Fulfillment: []*platform.FulfillmentRecord{
			{OrderNumber: "NOSEPARATOR", Status: "Finalizado"},
		},
	})

	require.Len(t, rows, 2)

	assert.Equal(t, "1234567890123-01", rows[0].OrderNumber)
	assert.Equal(t, "Aprobada", rows[0].StatusPayment)

	assert.Equal(t, "NOSEPARATOR", rows[1].OrderNumber)
	assert.Equal(t, reconcile.NotAvailable, rows[1].StatusPayment)
	assert.Equal(t, "Finalizado", rows[1].StatusFulfillment)
	assert.Equal(t, reconcile.ResultNotifyMarketplace, rows[1].DiscrepancyResult)

	assert.Equal(t, 1, rec.calls[0].NormalizationFailures)
	assert.Equal(t, 1, rec.calls[0].PaymentMatches)
}

func TestJoin_DuplicateOrdersLastWins(t *testing.T) {
	rows := reconcile.Join(reconcile.Input{
		Orders: []*platform.OrderRecord{
			{OrderNumber: "1234567890123-01", Status: "Pendiente", FulfillmentParty: marketplaceSeller},
			{OrderNumber: "1234567890123-01", Status: "Faturado", FulfillmentParty: marketplaceSeller},
		},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Faturado", rows[0].StatusOrderPlatform)
	assert.Empty(t, rows[0].DiscrepancyResult)
}

func TestJoin_SortedByOrderNumber(t *testing.T) {
	rows := reconcile.Join(reconcile.Input{
		Orders: []*platform.OrderRecord{
			{OrderNumber: "300-01"},
			{OrderNumber: "100-01"},
			{OrderNumber: "200-01"},
		},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, "100-01", rows[0].OrderNumber)
	assert.Equal(t, "200-01", rows[1].OrderNumber)
	assert.Equal(t, "300-01", rows[2].OrderNumber)
}

func TestJoin_OrdersOnlyOnOtherPlatformsAreIgnored(t *testing.T) {
	rows := reconcile.Join(reconcile.Input{
		Payments:     []*platform.PaymentRecord{{TransactionNumber: "1-1", Status: "Aprobada"}},
		Fulfillment:  []*platform.FulfillmentRecord{{OrderNumber: "1", Status: "Finalizado"}},
		SecondaryOMS: []*platform.SecondaryOMSRecord{{OrderNumber: "1-01", Status: "delivered"}},
	})

	assert.Empty(t, rows)
}

func TestJoin_CustomClassifierReceivesMatches(t *testing.T) {
	var got []*platform.PaymentRecord

	engine := reconcile.NewEngine(reconcile.WithClassifier(func(
		_ *platform.OrderRecord,
		p *platform.PaymentRecord,
		_ *platform.FulfillmentRecord,
		_ *platform.SecondaryOMSRecord,
	) string {
		got = append(got, p)
		return "custom"
	}))

	rows := engine.Join(reconcile.Input{
		Orders: []*platform.OrderRecord{{OrderNumber: "42-01"}},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "custom", rows[0].DiscrepancyResult)
	require.Len(t, got, 1)
	assert.Nil(t, got[0])
}
