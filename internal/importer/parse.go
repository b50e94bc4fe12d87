package importer

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cruce/internal/platform"
)

var errMissingKey = errors.New("missing key")

// rowParser appends one data row to the batch, or returns an error when the
// row has to be skipped.
type rowParser func(b *platform.Batch, cols colIndex, row []string, loc *time.Location) error

var rowParsers = map[platform.Platform]rowParser{
	platform.Orders:       parseOrder,
	platform.Payments:     parsePayment,
	platform.Fulfillment:  parseFulfillment,
	platform.SecondaryOMS: parseSecondaryOMS,
}

func get(cols colIndex, row []string, f field) string {
	idx, ok := cols[f]
	if !ok {
		return ""
	}

	return cell(row, idx)
}

func parseOrder(b *platform.Batch, cols colIndex, row []string, loc *time.Location) error {
	orderNumber := identifier(get(cols, row, fieldOrderNumber))
	if orderNumber == "" {
		return errMissingKey
	}

	ts, err := parseTime(get(cols, row, fieldTimestamp), loc)
	if err != nil {
		return fmt.Errorf("creation date: %w", err)
	}

	b.Orders = append(b.Orders, &platform.OrderRecord{
		OrderNumber:       orderNumber,
		TransactionNumber: identifier(get(cols, row, fieldTransactionNumber)),
		Timestamp:         &ts,
		PaymentChannel:    get(cols, row, fieldPaymentChannel),
		FulfillmentParty:  get(cols, row, fieldFulfillmentParty),
		Status:            get(cols, row, fieldStatus),
		Amount:            optionalDecimal(get(cols, row, fieldAmount), parseCents),
	})

	return nil
}

func parsePayment(b *platform.Batch, cols colIndex, row []string, loc *time.Location) error {
	txn := identifier(get(cols, row, fieldTransactionNumber))
	if txn == "" {
		return errMissingKey
	}

	ts, err := parseTime(get(cols, row, fieldTimestamp), loc)
	if err != nil {
		return fmt.Errorf("original date: %w", err)
	}

	b.Payments = append(b.Payments, &platform.PaymentRecord{
		TransactionNumber: txn,
		Timestamp:         &ts,
		Amount:            optionalDecimal(get(cols, row, fieldAmount), parseLocalAmount),
		Status:            get(cols, row, fieldStatus),
		Card:              get(cols, row, fieldCard),
	})

	return nil
}

func parseFulfillment(b *platform.Batch, cols colIndex, row []string, loc *time.Location) error {
	orderNumber := identifier(get(cols, row, fieldOrderNumber))
	if orderNumber == "" {
		return errMissingKey
	}

	ts, err := parseTime(get(cols, row, fieldTimestamp), loc)
	if err != nil {
		return fmt.Errorf("order date: %w", err)
	}

	store, err := decimal.NewFromString(identifier(get(cols, row, fieldStoreNumber)))
	if err != nil {
		return fmt.Errorf("store number: %w", err)
	}

	b.Fulfillment = append(b.Fulfillment, &platform.FulfillmentRecord{
		OrderNumber: orderNumber,
		Timestamp:   &ts,
		StoreNumber: store,
		Status:      get(cols, row, fieldStatus),
	})

	return nil
}

func parseSecondaryOMS(b *platform.Batch, cols colIndex, row []string, loc *time.Location) error {
	orderNumber := identifier(get(cols, row, fieldOrderNumber))
	if orderNumber == "" {
		return errMissingKey
	}

	ts, err := optionalTime(get(cols, row, fieldTimestamp), loc)
	if err != nil {
		return fmt.Errorf("creation date: %w", err)
	}

	delivered, err := optionalTime(get(cols, row, fieldDeliveryTimestamp), loc)
	if err != nil {
		return fmt.Errorf("delivery date: %w", err)
	}

	b.SecondaryOMS = append(b.SecondaryOMS, &platform.SecondaryOMSRecord{
		OrderNumber:       orderNumber,
		TransactionNumber: identifier(get(cols, row, fieldTransactionNumber)),
		Timestamp:         ts,
		DeliveryTimestamp: delivered,
		PaymentChannel:    get(cols, row, fieldPaymentChannel),
		FulfillmentParty:  get(cols, row, fieldFulfillmentParty),
		Status:            get(cols, row, fieldStatus),
	})

	return nil
}

// dedupe drops repeated keys. Orders keep the last occurrence and payments
// the first, matching how each platform resolves overlapping downloads.
func dedupe(b *platform.Batch) {
	switch b.Platform {
	case platform.Orders:
		before := len(b.Orders)
		b.Orders = keepLast(b.Orders, func(r *platform.OrderRecord) string { return r.OrderNumber })
		b.Duplicates = before - len(b.Orders)
	case platform.Payments:
		before := len(b.Payments)
		seen := make(map[string]bool, before)
		kept := b.Payments[:0]

		for _, r := range b.Payments {
			if seen[r.TransactionNumber] {
				continue
			}

			seen[r.TransactionNumber] = true
			kept = append(kept, r)
		}

		b.Payments = kept
		b.Duplicates = before - len(kept)
	}
}

// keepLast keeps the first position of every key but the value of its last
// occurrence.
func keepLast[T any](recs []T, key func(T) string) []T {
	pos := make(map[string]int, len(recs))
	out := make([]T, 0, len(recs))

	for _, r := range recs {
		k := key(r)
		if i, ok := pos[k]; ok {
			out[i] = r
			continue
		}

		pos[k] = len(out)
		out = append(out, r)
	}

	return out
}
