package reconcile

import (
	"fmt"
	"strconv"
	"strings"
)

// IdentifierNormalizer converts an order platform order number into the
// transaction id used by the payment gateway.
type IdentifierNormalizer interface {
	ToPaymentTransactionID(orderNumber string) (string, error)
}

// FormatError is returned when an order number does not follow the
// "{prefix}-{sequence}" layout.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed order number %q: %s", e.Input, e.Reason)
}

// PaymentIDNormalizer re-renders the numeric sequence suffix without leading
// zeros: "0123456789012-01" becomes "0123456789012-1".
type PaymentIDNormalizer struct{}

func (PaymentIDNormalizer) ToPaymentTransactionID(orderNumber string) (string, error) {
	idx := strings.LastIndex(orderNumber, "-")
	if idx < 0 {
		return "", &FormatError{Input: orderNumber, Reason: "missing separator"}
	}

	prefix, suffix := orderNumber[:idx], orderNumber[idx+1:]
	if prefix == "" {
		return "", &FormatError{Input: orderNumber, Reason: "empty prefix"}
	}

	seq, err := strconv.Atoi(suffix)
	if err != nil {
		return "", &FormatError{Input: orderNumber, Reason: "non-numeric suffix"}
	}

	return prefix + "-" + strconv.Itoa(seq), nil
}

// FulfillmentKey strips the sequence suffix (from the last "-") so the order
// number can be looked up in fulfillment data.
func FulfillmentKey(orderNumber string) string {
	idx := strings.LastIndex(orderNumber, "-")
	if idx < 0 {
		return orderNumber
	}

	return orderNumber[:idx]
}

// SecondPaymentKey returns the key of the second charge of a split payment.
// Only keys ending in "-1" have one.
func SecondPaymentKey(key string) (string, bool) {
	if !strings.HasSuffix(key, "-1") {
		return "", false
	}

	return strings.TrimSuffix(key, "-1") + "-2", true
}
