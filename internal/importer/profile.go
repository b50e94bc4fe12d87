package importer

import (
	"strings"

	"github.com/MrJamesThe3rd/cruce/internal/platform"
)

type field int

const (
	fieldOrderNumber field = iota
	fieldTransactionNumber
	fieldTimestamp
	fieldDeliveryTimestamp
	fieldPaymentChannel
	fieldFulfillmentParty
	fieldStatus
	fieldAmount
	fieldCard
	fieldStoreNumber
)

// column names one field of an export. The first alias is the canonical name
// reported in errors. Aliases compare case-insensitively.
type column struct {
	field    field
	aliases  []string
	optional bool
}

// Profile describes the column layout of one platform export.
type Profile struct {
	Platform platform.Platform
	columns  []column
}

func (p *Profile) required() []string {
	var names []string

	for _, c := range p.columns {
		if !c.optional {
			names = append(names, c.aliases[0])
		}
	}

	return names
}

var profiles = map[platform.Platform]*Profile{
	platform.Orders: {
		Platform: platform.Orders,
		columns: []column{
			{field: fieldOrderNumber, aliases: []string{"orderId"}},
			{field: fieldTransactionNumber, aliases: []string{"sequence"}},
			{field: fieldTimestamp, aliases: []string{"creationDate"}},
			{field: fieldPaymentChannel, aliases: []string{"paymentNames"}},
			{field: fieldFulfillmentParty, aliases: []string{"seller"}},
			{field: fieldStatus, aliases: []string{"statusDescription"}},
			{field: fieldAmount, aliases: []string{"totalValue"}, optional: true},
		},
	},
	platform.Payments: {
		Platform: platform.Payments,
		columns: []column{
			{field: fieldTransactionNumber, aliases: []string{"id oper.", "id oper"}},
			{field: fieldTimestamp, aliases: []string{"Fecha original", "Fecha"}},
			{field: fieldAmount, aliases: []string{"Monto"}},
			{field: fieldStatus, aliases: []string{"Estado"}},
			{field: fieldCard, aliases: []string{"Tarjeta"}, optional: true},
		},
	},
	platform.Fulfillment: {
		Platform: platform.Fulfillment,
		columns: []column{
			{field: fieldOrderNumber, aliases: []string{"NUMERO PEDIDO", "Pedido", "numero_pedido"}},
			{field: fieldTimestamp, aliases: []string{"FECHA PEDIDO", "Fecha", "fecha_hora"}},
			{field: fieldStoreNumber, aliases: []string{"NUMERO DE PUNTO", "Tienda", "numero_tienda"}},
			{field: fieldStatus, aliases: []string{"ESTADO", "Estado"}},
		},
	},
	platform.SecondaryOMS: {
		Platform: platform.SecondaryOMS,
		columns: []column{
			{field: fieldOrderNumber, aliases: []string{"commerceId"}},
			{field: fieldTransactionNumber, aliases: []string{"commerceSequentialId"}},
			{field: fieldTimestamp, aliases: []string{"commerceDateCreated"}},
			{field: fieldPaymentChannel, aliases: []string{"paymentSystemName"}},
			{field: fieldFulfillmentParty, aliases: []string{"shippingWarehouseName"}},
			{field: fieldStatus, aliases: []string{"status"}},
			{field: fieldDeliveryTimestamp, aliases: []string{"dateDelivered"}, optional: true},
		},
	},
}

// colIndex maps each field found in the header to its cell index.
type colIndex map[field]int

// detectHeader returns the first row holding every required column of p and
// the index of that row.
func detectHeader(p *Profile, rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		names := make(map[string]int, len(row))

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if _, dup := names[name]; name != "" && !dup {
				names[name] = i
			}
		}

		if cols, ok := matchColumns(p, names); ok {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func matchColumns(p *Profile, names map[string]int) (colIndex, bool) {
	cols := make(colIndex, len(p.columns))

	for _, c := range p.columns {
		idx, found := -1, false

		for _, alias := range c.aliases {
			if idx, found = names[strings.ToLower(alias)]; found {
				break
			}
		}

		if found {
			cols[c.field] = idx
			continue
		}

		if !c.optional {
			return nil, false
		}
	}

	return cols, true
}
