package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cruce/internal/reconcile"
)

func TestPaymentIDNormalizer_ToPaymentTransactionID(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "LeadingZero", input: "X-01", want: "X-1"},
		{name: "TwoDigits", input: "X-10", want: "X-10"},
		{name: "SingleDigit", input: "X-5", want: "X-5"},
		{name: "RealOrderNumber", input: "1234567890123-01", want: "1234567890123-1"},
		{name: "LastDashWins", input: "v123-abc-02", want: "v123-abc-2"},
		{name: "AllZeros", input: "1234-00", want: "1234-0"},
		{name: "NoSeparator", input: "NOSEPARATOR", wantErr: true},
		{name: "NonNumericSuffix", input: "1234-AB", wantErr: true},
		{name: "EmptySuffix", input: "1234-", wantErr: true},
		{name: "EmptyPrefix", input: "-01", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	n := reconcile.PaymentIDNormalizer{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.ToPaymentTransactionID(tt.input)

			if tt.wantErr {
				var fe *reconcile.FormatError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.input, fe.Input)
				assert.Empty(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFulfillmentKey(t *testing.T) {
	assert.Equal(t, "1234567890123", reconcile.FulfillmentKey("1234567890123-01"))
	assert.Equal(t, "v123-abc", reconcile.FulfillmentKey("v123-abc-02"))
	assert.Equal(t, "NOSEPARATOR", reconcile.FulfillmentKey("NOSEPARATOR"))
}

func TestSecondPaymentKey(t *testing.T) {
	got, ok := reconcile.SecondPaymentKey("1234567890123-1")
	assert.True(t, ok)
	assert.Equal(t, "1234567890123-2", got)

	_, ok = reconcile.SecondPaymentKey("1234567890123-11")
	assert.False(t, ok)

	_, ok = reconcile.SecondPaymentKey("1234567890123-3")
	assert.False(t, ok)

	_, ok = reconcile.SecondPaymentKey("1234567890123-10")
	assert.False(t, ok)
}
