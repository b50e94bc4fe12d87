package reconcile

import (
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/cruce/internal/platform"
)

// NotAvailable marks a platform that has no record for the order.
const NotAvailable = "N/A"

// Row is one reconciled order across the four platforms.
type Row struct {
	OrderNumber            string
	Timestamp              *time.Time
	DeliveryTimestamp      *time.Time
	PaymentChannel         string
	FulfillmentParty       string
	StatusOrderPlatform    string
	StatusPayment          string
	StatusPaymentSecondary string
	StatusFulfillment      string
	StatusSecondaryOMS     string
	DiscrepancyResult      string
}

// HasDiscrepancy reports whether the row needs operator action.
func (r *Row) HasDiscrepancy() bool {
	return r.DiscrepancyResult != ""
}

// Input holds every record of a run, grouped by platform. Any slice may be empty.
type Input struct {
	Orders       []*platform.OrderRecord
	Payments     []*platform.PaymentRecord
	Fulfillment  []*platform.FulfillmentRecord
	SecondaryOMS []*platform.SecondaryOMSRecord
}

// JoinStats counts how many orders matched each platform during one join.
type JoinStats struct {
	Orders                 int
	PaymentMatches         int
	SecondPaymentMatches   int
	FulfillmentMatches     int
	SecondaryOMSMatches    int
	NormalizationFailures  int
	TransactionIDFallbacks int
	Discrepancies          int
}

// JoinObserver receives the counters of a finished join.
type JoinObserver interface {
	ObserveJoin(stats JoinStats)
}

// Engine joins platform records and classifies every order.
type Engine struct {
	normalizer IdentifierNormalizer
	classify   ClassifyFunc
	observer   JoinObserver
}

type Option func(*Engine)

func WithNormalizer(n IdentifierNormalizer) Option {
	return func(e *Engine) { e.normalizer = n }
}

func WithClassifier(fn ClassifyFunc) Option {
	return func(e *Engine) { e.classify = fn }
}

func WithObserver(o JoinObserver) Option {
	return func(e *Engine) { e.observer = o }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		normalizer: PaymentIDNormalizer{},
		classify:   Classify,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

var defaultEngine = NewEngine()

// Join runs the default engine over in.
func Join(in Input) []Row {
	return defaultEngine.Join(in)
}

// Join produces one row per distinct order platform order number, sorted by
// order number. Orders that only exist on other platforms produce no row.
func (e *Engine) Join(in Input) []Row {
	orders := make(map[string]*platform.OrderRecord, len(in.Orders))
	for _, r := range in.Orders {
		orders[r.OrderNumber] = r
	}

	payments := make(map[string]*platform.PaymentRecord, len(in.Payments))
	for _, r := range in.Payments {
		payments[r.TransactionNumber] = r
	}

	fulfillment := make(map[string]*platform.FulfillmentRecord, len(in.Fulfillment))
	for _, r := range in.Fulfillment {
		fulfillment[r.OrderNumber] = r
	}

	secondary := make(map[string]*platform.SecondaryOMSRecord, len(in.SecondaryOMS))
	for _, r := range in.SecondaryOMS {
		secondary[r.OrderNumber] = r
	}

	keys := make([]string, 0, len(orders))
	for k := range orders {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	stats := JoinStats{Orders: len(keys)}
	rows := make([]Row, 0, len(keys))

	for _, orderNumber := range keys {
		order := orders[orderNumber]
		fRec := fulfillment[FulfillmentKey(orderNumber)]
		sRec := secondary[orderNumber]
		pRec, pRec2 := e.matchPayments(order, payments, &stats)

		if fRec != nil {
			stats.FulfillmentMatches++
		}

		if sRec != nil {
			stats.SecondaryOMSMatches++
		}

		row := Row{
			OrderNumber:            orderNumber,
			Timestamp:              order.Timestamp,
			PaymentChannel:         order.PaymentChannel,
			FulfillmentParty:       order.FulfillmentParty,
			StatusOrderPlatform:    order.Status,
			StatusPayment:          NotAvailable,
			StatusPaymentSecondary: NotAvailable,
			StatusFulfillment:      NotAvailable,
			StatusSecondaryOMS:     NotAvailable,
			DiscrepancyResult:      e.classify(order, pRec, fRec, sRec),
		}

		if pRec != nil {
			row.StatusPayment = pRec.Status
		}

		if pRec2 != nil {
			row.StatusPaymentSecondary = pRec2.Status
		}

		if fRec != nil {
			row.StatusFulfillment = fRec.Status
		}

		if sRec != nil {
			row.StatusSecondaryOMS = sRec.Status
			row.DeliveryTimestamp = sRec.DeliveryTimestamp
		}

		if row.HasDiscrepancy() {
			stats.Discrepancies++
		}

		rows = append(rows, row)
	}

	if e.observer != nil {
		e.observer.ObserveJoin(stats)
	}

	return rows
}

// matchPayments looks the order up by its normalized id first and by its own
// transaction number second. The second charge is keyed like the first one
// with a trailing "-2".
func (e *Engine) matchPayments(
	order *platform.OrderRecord,
	payments map[string]*platform.PaymentRecord,
	stats *JoinStats,
) (*platform.PaymentRecord, *platform.PaymentRecord) {
	var (
		matchedKey string
		first      *platform.PaymentRecord
	)

	key, err := e.normalizer.ToPaymentTransactionID(order.OrderNumber)
	if err != nil {
		stats.NormalizationFailures++
	} else if rec, ok := payments[key]; ok {
		matchedKey, first = key, rec
	}

	if first == nil && strings.TrimSpace(order.TransactionNumber) != "" {
		if rec, ok := payments[order.TransactionNumber]; ok {
			matchedKey, first = order.TransactionNumber, rec
			stats.TransactionIDFallbacks++
		}
	}

	if first == nil {
		return nil, nil
	}

	stats.PaymentMatches++

	secondKey, ok := SecondPaymentKey(matchedKey)
	if !ok {
		return first, nil
	}

	second := payments[secondKey]
	if second != nil {
		stats.SecondPaymentMatches++
	}

	return first, second
}
