package platform

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Platform identifies one of the back-office systems a report is collected from.
type Platform string

const (
	Orders       Platform = "orders"
	Payments     Platform = "payments"
	Fulfillment  Platform = "fulfillment"
	SecondaryOMS Platform = "secondary_oms"
)

// All lists every platform in reconciliation order.
var All = []Platform{Orders, Payments, Fulfillment, SecondaryOMS}

func Parse(s string) (Platform, error) {
	for _, p := range All {
		if string(p) == s {
			return p, nil
		}
	}

	return "", fmt.Errorf("unknown platform: %q", s)
}

// OrderRecord is a single order as reported by the storefront order platform.
type OrderRecord struct {
	ID                uuid.UUID
	ReportID          uuid.UUID
	OrderNumber       string
	TransactionNumber string
	Timestamp         *time.Time
	PaymentChannel    string
	FulfillmentParty  string // seller
	Status            string
	Amount            *decimal.Decimal
}

// PaymentRecord is a single charge as reported by the payment gateway.
type PaymentRecord struct {
	ID                uuid.UUID
	ReportID          uuid.UUID
	TransactionNumber string
	Timestamp         *time.Time
	Amount            *decimal.Decimal
	Status            string
	Card              string
}

// FulfillmentRecord tracks pickup and delivery. OrderNumber is the order
// platform number without its sequence suffix.
type FulfillmentRecord struct {
	ID          uuid.UUID
	ReportID    uuid.UUID
	OrderNumber string
	Timestamp   *time.Time
	StoreNumber decimal.Decimal
	Status      string
}

// SecondaryOMSRecord is an order as seen by the secondary order management system.
type SecondaryOMSRecord struct {
	ID                uuid.UUID
	ReportID          uuid.UUID
	OrderNumber       string
	TransactionNumber string
	Timestamp         *time.Time
	DeliveryTimestamp *time.Time
	PaymentChannel    string
	FulfillmentParty  string // shipping warehouse
	Status            string
}

// Batch holds the records parsed from one report file. Only the slice matching
// Platform is populated.
type Batch struct {
	Platform     Platform
	Orders       []*OrderRecord
	Payments     []*PaymentRecord
	Fulfillment  []*FulfillmentRecord
	SecondaryOMS []*SecondaryOMSRecord

	// Skipped counts rows that could not be parsed. Duplicates counts rows
	// dropped because their key was already seen.
	Skipped    int
	Duplicates int
}

// Len returns the number of records held for the batch platform.
func (b *Batch) Len() int {
	switch b.Platform {
	case Orders:
		return len(b.Orders)
	case Payments:
		return len(b.Payments)
	case Fulfillment:
		return len(b.Fulfillment)
	case SecondaryOMS:
		return len(b.SecondaryOMS)
	}

	return 0
}
