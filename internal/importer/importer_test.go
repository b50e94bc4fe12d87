package importer_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/cruce/internal/importer"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/platform"
)

var art = time.FixedZone("ART", -3*60*60)

func newService() *importer.Service {
	return importer.NewService(art, logger.Nop())
}

func spreadsheet(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	return buf
}

func TestService_Import_Orders(t *testing.T) {
	csv := `orderId,sequence,creationDate,paymentNames,seller,statusDescription,totalValue
1234567890123-01,501,2024-03-01T13:45:00.0000000+00:00,MercadoPagoPro,Carrefour Hiper,Faturado,125050
1234567890124-01,502,not a date,Visa,Hogar & Electro,Cancelado,1000
,,,,,,
1234567890125-01,503,2024-03-02T09:00:00Z,Visa,Hogar & Electro,Pendiente,
1234567890123-01,501,2024-03-01T13:45:00Z,MercadoPagoPro,Carrefour Hiper,Cancelado,125050
`

	batch, err := newService().Import(context.Background(), platform.Orders, "vtex.csv", bytes.NewReader([]byte(csv)))
	require.NoError(t, err)

	assert.Equal(t, platform.Orders, batch.Platform)
	assert.Equal(t, 1, batch.Skipped)
	assert.Equal(t, 1, batch.Duplicates)
	require.Len(t, batch.Orders, 2)

	first := batch.Orders[0]
	assert.Equal(t, "1234567890123-01", first.OrderNumber)
	assert.Equal(t, "501", first.TransactionNumber)
	assert.Equal(t, "Cancelado", first.Status, "last duplicate wins")
	assert.Equal(t, "MercadoPagoPro", first.PaymentChannel)
	assert.Equal(t, "Carrefour Hiper", first.FulfillmentParty)
	require.NotNil(t, first.Amount)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(*first.Amount))
	assert.True(t, time.Date(2024, 3, 1, 13, 45, 0, 0, time.UTC).Equal(*first.Timestamp))

	assert.Nil(t, batch.Orders[1].Amount)
}

func TestService_Import_PaymentsLatin1(t *testing.T) {
	csv := "Reporte de transacciones\n\n" +
		"id oper.;Fecha original;Monto;Estado;Tarjeta\n" +
		"1234567890123-1;01/03/2024 10:15:30;1.250,50;Aprobada;Crédito\n" +
		"1234567890124-1;01/03/2024 11:20;99,90;Pre autorizada;Débito\n" +
		"1234567890123-1;02/03/2024 10:15:30;1,00;Anulada;Crédito\n" +
		"1234567890125-1;mañana;10,00;Aprobada;Crédito\n"

	encoded, err := charmap.Windows1252.NewEncoder().String(csv)
	require.NoError(t, err)

	batch, err := newService().Import(context.Background(), platform.Payments, "payway.csv", bytes.NewReader([]byte(encoded)))
	require.NoError(t, err)

	assert.Equal(t, 1, batch.Skipped)
	assert.Equal(t, 1, batch.Duplicates)
	require.Len(t, batch.Payments, 2)

	first := batch.Payments[0]
	assert.Equal(t, "1234567890123-1", first.TransactionNumber)
	assert.Equal(t, "Aprobada", first.Status, "first duplicate wins")
	assert.Equal(t, "Crédito", first.Card)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(*first.Amount))
	assert.True(t, time.Date(2024, 3, 1, 10, 15, 30, 0, art).Equal(*first.Timestamp))

	second := batch.Payments[1]
	assert.Equal(t, "Pre autorizada", second.Status)
	assert.True(t, time.Date(2024, 3, 1, 11, 20, 0, 0, art).Equal(*second.Timestamp))
}

func TestService_Import_FulfillmentSpreadsheet(t *testing.T) {
	buf := spreadsheet(t,
		[]any{"NUMERO PEDIDO", "NUMERO DE PUNTO", "FECHA PEDIDO", "ESTADO"},
		[]any{1234567890123.0, 45, "01/03/2024 10:00:00", "ENTREGADO"},
		[]any{"1234567890124", "no store", "01/03/2024 11:00:00", "CANCELADO"},
		[]any{"1234567890125", 12, "02/03/2024 09:30:00", "Preparando"},
	)

	batch, err := newService().Import(context.Background(), platform.Fulfillment, "cdp.xlsx", buf)
	require.NoError(t, err)

	assert.Equal(t, 1, batch.Skipped)
	require.Len(t, batch.Fulfillment, 2)

	assert.Equal(t, "1234567890123", batch.Fulfillment[0].OrderNumber)
	assert.True(t, decimal.NewFromInt(45).Equal(batch.Fulfillment[0].StoreNumber))
	assert.Equal(t, "ENTREGADO", batch.Fulfillment[0].Status)
	assert.True(t, time.Date(2024, 3, 1, 10, 0, 0, 0, art).Equal(*batch.Fulfillment[0].Timestamp))
}

func TestService_Import_SecondaryOMSSpreadsheet(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	buf := spreadsheet(t,
		[]any{"commerceId", "commerceSequentialId", "commerceDateCreated", "paymentSystemName", "shippingWarehouseName", "status"},
		[]any{"1234567890123-01", 501.0, created, "Visa", "Carrefour Express", "delivered"},
		[]any{"1234567890124-01", 502.0, "", "Visa", "Carrefour Express", "canceled"},
	)

	batch, err := newService().Import(context.Background(), platform.SecondaryOMS, "janis.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, batch.SecondaryOMS, 2)

	first := batch.SecondaryOMS[0]
	assert.Equal(t, "1234567890123-01", first.OrderNumber)
	assert.Equal(t, "501", first.TransactionNumber)
	require.NotNil(t, first.Timestamp)
	assert.Equal(t, 2024, first.Timestamp.Year())
	assert.Equal(t, time.March, first.Timestamp.Month())
	assert.Equal(t, 1, first.Timestamp.Day())
	assert.Equal(t, 10, first.Timestamp.Hour())
	assert.Nil(t, first.DeliveryTimestamp)

	assert.Nil(t, batch.SecondaryOMS[1].Timestamp)
}

func TestService_Import_Errors(t *testing.T) {
	type args struct {
		platform platform.Platform
		filename string
		body     string
	}

	type testCase struct {
		name    string
		args    args
		wantErr error
	}

	tests := []testCase{
		{
			name:    "MissingColumns",
			args:    args{platform: platform.Payments, filename: "payway.csv", body: "id oper.;Monto\n1-1;10,00\n"},
			wantErr: importer.ErrMissingColumns,
		},
		{
			name:    "WrongExportForPlatform",
			args:    args{platform: platform.Fulfillment, filename: "vtex.csv", body: "orderId,sequence,creationDate\n1-01,1,2024-03-01\n"},
			wantErr: importer.ErrMissingColumns,
		},
		{
			name:    "UnknownPlatform",
			args:    args{platform: platform.Platform("ledger"), filename: "x.csv", body: "a;b\n"},
			wantErr: importer.ErrUnknownPlatform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService().Import(context.Background(), tt.args.platform, tt.args.filename, bytes.NewReader([]byte(tt.args.body)))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Import_CorruptSpreadsheet(t *testing.T) {
	_, err := newService().Import(context.Background(), platform.Orders, "vtex.xlsx", bytes.NewReader([]byte("not a zip")))
	assert.Error(t, err)
}
