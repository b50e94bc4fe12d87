package reconcile_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cruce/internal/platform"
	"github.com/MrJamesThe3rd/cruce/internal/reconcile"
)

func order(status, seller, channel string) *platform.OrderRecord {
	return &platform.OrderRecord{
		OrderNumber:       "1234567890123-01",
		TransactionNumber: "TX-1234",
		Status:            status,
		FulfillmentParty:  seller,
		PaymentChannel:    channel,
	}
}

func payment(status string) *platform.PaymentRecord {
	return &platform.PaymentRecord{TransactionNumber: "1234567890123-1", Status: status}
}

func fulfillment(status string) *platform.FulfillmentRecord {
	return &platform.FulfillmentRecord{OrderNumber: "1234567890123", Status: status}
}

func secondary(status string) *platform.SecondaryOMSRecord {
	return &platform.SecondaryOMSRecord{OrderNumber: "1234567890123-01", Status: status}
}

const (
	foodSeller        = "Carrefour Hiper"
	marketplaceSeller = "Samsung Official Store"
	walletChannel     = "MercadoPagoPro - Cuotas"
	cardChannel       = "Visa"
)

func TestClassify(t *testing.T) {
	type args struct {
		order       *platform.OrderRecord
		payment     *platform.PaymentRecord
		fulfillment *platform.FulfillmentRecord
		secondary   *platform.SecondaryOMSRecord
	}

	type testCase struct {
		name string
		args args
		want string
	}

	tests := []testCase{
		{
			name: "NoOrder",
			args: args{payment: payment("Vencida"), fulfillment: fulfillment("Finalizado")},
			want: "",
		},
		{
			name: "VerifyingInvoicePreAuthorized",
			args: args{order: order("Verificando Fatura", foodSeller, cardChannel), payment: payment("Pre autorizada")},
			want: reconcile.ResultCaptureManually,
		},
		{
			name: "VerifyingInvoiceNoPayment",
			args: args{order: order("Verificando Fatura", foodSeller, cardChannel)},
			want: reconcile.ResultRaiseTicket,
		},
		{
			name: "VerifyingInvoiceShortCircuitsOtherPlatforms",
			args: args{
				order:       order("Verificando Fatura", reconcile.ElectronicsSeller, cardChannel),
				payment:     payment("Vencida"),
				fulfillment: fulfillment("Anulado sin factura"),
				secondary:   secondary("delivered"),
			},
			want: reconcile.ResultRaiseTicket,
		},
		{
			name: "FoodDeliveredInvoicedCaptured",
			args: args{
				order:       order("Faturado", foodSeller, cardChannel),
				payment:     payment("Aprobada"),
				fulfillment: fulfillment("Finalizado"),
			},
			want: "",
		},
		{
			name: "FoodDeliveredNotInvoiced",
			args: args{order: order("Pendiente", foodSeller, cardChannel), fulfillment: fulfillment("Finalizado")},
			want: reconcile.ResultDeliveredNotInvoiced,
		},
		{
			name: "FoodDeliveredInvoicedNotCaptured",
			args: args{
				order:       order("Faturado", foodSeller, cardChannel),
				payment:     payment("Pre autorizada"),
				fulfillment: fulfillment("Disponible en sucursal 12"),
			},
			want: reconcile.ResultNotCaptured,
		},
		{
			name: "FoodFulfillmentKeywordIgnoresCase",
			args: args{order: order("Pendiente", foodSeller, cardChannel), fulfillment: fulfillment("RECEPCION PENDIENTE")},
			want: reconcile.ResultDeliveredNotInvoiced,
		},
		{
			name: "FoodSecondaryDelivered",
			args: args{order: order("Pendiente", foodSeller, cardChannel), secondary: secondary("readyForDelivery")},
			want: reconcile.ResultDeliveredNotInvoiced,
		},
		{
			name: "FoodSecondaryStatusIsCaseSensitive",
			args: args{order: order("Pendiente", foodSeller, cardChannel), secondary: secondary("Delivered")},
			want: "",
		},
		{
			name: "FoodCancelledPaymentApproved",
			args: args{order: order("Pagamento Aprovado", foodSeller, cardChannel), fulfillment: fulfillment("Anulado sin factura")},
			want: reconcile.ResultCancelledNotCancelled,
		},
		{
			name: "FoodCancelledPreAuthorized",
			args: args{
				order:     order("Pendiente", "Maxi Express", cardChannel),
				payment:   payment("Pre autorizada"),
				secondary: secondary("canceled"),
			},
			want: reconcile.ResultCancelledPreAuthorized,
		},
		{
			name: "FoodCancelledExpiredPayment",
			args: args{
				order:     order("Pendiente", "Trelew Market", cardChannel),
				payment:   payment("Vencida"),
				secondary: secondary("canceled"),
			},
			want: "",
		},
		{
			name: "WalletDeliveredNotInvoiced",
			args: args{order: order("Pendiente", foodSeller, walletChannel), fulfillment: fulfillment("Finalizado")},
			want: reconcile.ResultDeliveredNotInvoiced,
		},
		{
			name: "WalletDeliveredInvoicedSkipsCaptureCheck",
			args: args{
				order:       order("Faturado", foodSeller, walletChannel),
				payment:     payment("Pre autorizada"),
				fulfillment: fulfillment("Finalizado"),
			},
			want: "",
		},
		{
			name: "WalletCancelledPaymentApproved",
			args: args{order: order("Pagamento Aprovado", foodSeller, walletChannel), secondary: secondary("canceled")},
			want: reconcile.ResultCancelledNotCancelled,
		},
		{
			name: "WalletCancelledPreAuthorizedIsIgnored",
			args: args{
				order:     order("Pendiente", foodSeller, walletChannel),
				payment:   payment("Pre autorizada"),
				secondary: secondary("canceled"),
			},
			want: "",
		},
		{
			name: "WalletOnMarketplaceSellerRoutesToMarketplace",
			args: args{order: order("Pendiente", marketplaceSeller, walletChannel)},
			want: reconcile.ResultNotifyMarketplace,
		},
		{
			name: "ElectronicsExpiredPayment",
			args: args{order: order("Faturado", reconcile.ElectronicsSeller, cardChannel), payment: payment("Vencida")},
			want: reconcile.ResultNotCaptured,
		},
		{
			name: "ElectronicsWalletIsStillElectronics",
			args: args{order: order("Faturado", reconcile.ElectronicsSeller, walletChannel), payment: payment("Pre autorizada")},
			want: reconcile.ResultNotCaptured,
		},
		{
			name: "ElectronicsNotInvoiced",
			args: args{order: order("Pendiente", reconcile.ElectronicsSeller, cardChannel), payment: payment("Aprobada")},
			want: reconcile.ResultNotInvoiced,
		},
		{
			name: "ElectronicsCancelledIsExempt",
			args: args{order: order("Cancelado", reconcile.ElectronicsSeller, cardChannel)},
			want: "",
		},
		{
			name: "ElectronicsPaymentStatusMustMatchExactly",
			args: args{order: order("Faturado", reconcile.ElectronicsSeller, cardChannel), payment: payment("Pre autorizada parcial")},
			want: "",
		},
		{
			name: "MarketplaceNotInvoiced",
			args: args{order: order("Pendiente", marketplaceSeller, cardChannel)},
			want: reconcile.ResultNotifyMarketplace,
		},
		{
			name: "MarketplaceInvoiced",
			args: args{order: order("Faturado", marketplaceSeller, cardChannel), fulfillment: fulfillment("Anulado sin factura")},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile.Classify(tt.args.order, tt.args.payment, tt.args.fulfillment, tt.args.secondary)
			assert.Equal(t, tt.want, got)

			again := reconcile.Classify(tt.args.order, tt.args.payment, tt.args.fulfillment, tt.args.secondary)
			assert.Equal(t, got, again)
		})
	}
}

func TestClassify_InvoicedOrderAloneHasNoDiscrepancy(t *testing.T) {
	sellers := map[string]string{
		"food":        foodSeller,
		"electronics": reconcile.ElectronicsSeller,
		"marketplace": marketplaceSeller,
	}

	for name, seller := range sellers {
		for _, channel := range []string{cardChannel, walletChannel} {
			t.Run(name+"/"+channel, func(t *testing.T) {
				assert.Empty(t, reconcile.Classify(order("Faturado", seller, channel), nil, nil, nil))
			})
		}
	}
}

func TestCategorize_ExactlyOneCategory(t *testing.T) {
	fragments := []string{
		"", " ", "Carrefour", "hiper", "MAXI", "Market", "express", "Trelew", "Hogar & Electro",
		"Samsung", "Official Store", "MercadoPagoPro", "mercadopagopro", "Visa", "Mastercard", "Tienda",
	}

	rng := rand.New(rand.NewPCG(7, 11))

	pick := func() string {
		var b strings.Builder
		for range rng.IntN(3) {
			b.WriteString(fragments[rng.IntN(len(fragments))])
		}

		return b.String()
	}

	for range 5000 {
		channel, seller := pick(), pick()

		electronics := seller == reconcile.ElectronicsSeller
		food := false

		for _, k := range reconcile.FoodSellerKeywords {
			if strings.Contains(strings.ToLower(seller), k) {
				food = true
			}
		}

		wallet := strings.Contains(channel, reconcile.DigitalWalletChannel) && !electronics && food
		marketplace := !electronics && !food

		fired := 0
		for _, b := range []bool{wallet, food && !wallet, electronics && !food, marketplace} {
			if b {
				fired++
			}
		}

		if !assert.Equal(t, 1, fired, "channel=%q seller=%q", channel, seller) {
			return
		}

		got := reconcile.Categorize(channel, seller)

		switch {
		case wallet:
			assert.Equal(t, reconcile.CategoryDigitalWallet, got)
		case food:
			assert.Equal(t, reconcile.CategoryFood, got)
		case electronics:
			assert.Equal(t, reconcile.CategoryElectronics, got)
		default:
			assert.Equal(t, reconcile.CategoryMarketplace, got)
		}
	}
}
