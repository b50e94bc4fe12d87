package reconcile

import (
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/cruce/internal/platform"
)

// Order platform statuses.
const (
	OrderStatusInvoiced         = "Faturado"
	OrderStatusPaymentApproved  = "Pagamento Aprovado"
	OrderStatusCancelled        = "Cancelado"
	OrderStatusVerifyingInvoice = "Verificando Fatura"
)

// Payment gateway statuses.
const (
	PaymentStatusPreAuthorized = "Pre autorizada"
	PaymentStatusExpired       = "Vencida"
)

const (
	FulfillmentStatusCancelled = "Anulado sin factura"
	SecondaryStatusCancelled   = "canceled"

	ElectronicsSeller    = "Hogar & Electro"
	DigitalWalletChannel = "MercadoPagoPro"
)

// Discrepancy labels. The empty string means nothing to act on.
const (
	ResultCaptureManually        = "Cobrar manualmente desde Payway, estado verificando factura en vtex"
	ResultRaiseTicket            = "Levantar ticket a WebCenter, pedido no existe en decidir"
	ResultDeliveredNotInvoiced   = "Verificar, entregado pero no facturado"
	ResultCancelledNotCancelled  = "Verificar, anulado pero no cancelado en vtex"
	ResultNotCaptured            = "Verificar, no cobrado en Payway"
	ResultCancelledPreAuthorized = "Verificar, anulado pero preautorizado en payway"
	ResultNotInvoiced            = "Verificar, no facturado"
	ResultNotifyMarketplace      = "Avisar a marketplace"
)

var (
	// FulfillmentDeliveredKeywords are matched case-insensitively as substrings.
	FulfillmentDeliveredKeywords = []string{
		"finalizado",
		"disponible en drive",
		"disponible en sucursal",
		"disponible en sede",
		"pendiente de despacho",
		"pendiente de de envio a pup",
		"recepcion pendiente",
	}

	// SecondaryDeliveredStatuses are matched case-sensitively as substrings.
	SecondaryDeliveredStatuses = []string{
		"delivered",
		"inDelivery",
		"readyForDelivery",
		"readyForInternalDistribution",
		"en auditoria",
		"procesandoPromociones",
	}

	PaymentNotCapturedStatuses = []string{PaymentStatusPreAuthorized, PaymentStatusExpired}

	// FoodSellerKeywords are matched case-insensitively against the seller.
	FoodSellerKeywords = []string{"carrefour", "hiper", "maxi", "market", "express", "trelew"}
)

// Category is the business line an order is routed to before classification.
type Category string

const (
	CategoryDigitalWallet Category = "digital_wallet"
	CategoryFood          Category = "food"
	CategoryElectronics   Category = "electronics"
	CategoryMarketplace   Category = "marketplace"
)

func isElectronics(seller string) bool {
	return seller == ElectronicsSeller
}

func isFood(seller string) bool {
	return containsAnyFold(seller, FoodSellerKeywords)
}

func isMarketplace(seller string) bool {
	return !isElectronics(seller) && !isFood(seller)
}

// Categorize routes an order to exactly one category. Digital wallet wins over
// food, and marketplace is the fallback.
func Categorize(paymentChannel, seller string) Category {
	switch {
	case strings.Contains(paymentChannel, DigitalWalletChannel) && !isElectronics(seller) && !isMarketplace(seller):
		return CategoryDigitalWallet
	case isFood(seller):
		return CategoryFood
	case isElectronics(seller):
		return CategoryElectronics
	default:
		return CategoryMarketplace
	}
}

// ClassifyFunc computes the discrepancy label for one order. Every argument
// may be nil.
type ClassifyFunc func(
	order *platform.OrderRecord,
	payment *platform.PaymentRecord,
	fulfillment *platform.FulfillmentRecord,
	secondary *platform.SecondaryOMSRecord,
) string

// Classify is the default ClassifyFunc. It returns "" when there is no order
// record to anchor against.
func Classify(
	order *platform.OrderRecord,
	payment *platform.PaymentRecord,
	fulfillment *platform.FulfillmentRecord,
	secondary *platform.SecondaryOMSRecord,
) string {
	if order == nil {
		return ""
	}

	if order.Status == OrderStatusVerifyingInvoice {
		if payment != nil && payment.Status == PaymentStatusPreAuthorized {
			return ResultCaptureManually
		}

		return ResultRaiseTicket
	}

	var (
		delivered   = fulfillmentDelivered(fulfillment) || secondaryDelivered(secondary)
		cancelled   = fulfillmentCancelled(fulfillment) || secondaryCancelled(secondary)
		notCaptured = paymentNotCaptured(payment)
		invoiced    = order.Status == OrderStatusInvoiced
	)

	switch Categorize(order.PaymentChannel, order.FulfillmentParty) {
	case CategoryDigitalWallet:
		if delivered {
			if !invoiced {
				return ResultDeliveredNotInvoiced
			}
		} else if cancelled && order.Status == OrderStatusPaymentApproved {
			return ResultCancelledNotCancelled
		}

	case CategoryFood:
		if delivered {
			if !invoiced {
				return ResultDeliveredNotInvoiced
			}

			if notCaptured {
				return ResultNotCaptured
			}
		} else if cancelled {
			if order.Status == OrderStatusPaymentApproved {
				return ResultCancelledNotCancelled
			}

			if payment != nil && payment.Status == PaymentStatusPreAuthorized {
				return ResultCancelledPreAuthorized
			}
		}

	case CategoryElectronics:
		if notCaptured {
			return ResultNotCaptured
		}

		if !invoiced && order.Status != OrderStatusCancelled {
			return ResultNotInvoiced
		}

	case CategoryMarketplace:
		if !invoiced {
			return ResultNotifyMarketplace
		}
	}

	return ""
}

func fulfillmentDelivered(r *platform.FulfillmentRecord) bool {
	return r != nil && containsAnyFold(r.Status, FulfillmentDeliveredKeywords)
}

func secondaryDelivered(r *platform.SecondaryOMSRecord) bool {
	if r == nil {
		return false
	}

	for _, s := range SecondaryDeliveredStatuses {
		if strings.Contains(r.Status, s) {
			return true
		}
	}

	return false
}

func paymentNotCaptured(r *platform.PaymentRecord) bool {
	return r != nil && slices.Contains(PaymentNotCapturedStatuses, r.Status)
}

func fulfillmentCancelled(r *platform.FulfillmentRecord) bool {
	return r != nil && r.Status == FulfillmentStatusCancelled
}

func secondaryCancelled(r *platform.SecondaryOMSRecord) bool {
	return r != nil && r.Status == SecondaryStatusCancelled
}

func containsAnyFold(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}

	return false
}
