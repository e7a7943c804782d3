package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Moneda de origen por defecto de los lotes de compra.
const DefaultOriginCurrency = "JPY"

// PurchaseBatch representa una compra en el exterior con sus totales agregados.
// ExchangeRate y ShippingRatePerWeight se calculan una sola vez por lote y quedan fijos para todos sus ítems.
type PurchaseBatch struct {
	ID                    string
	PurchaseDate          time.Time
	Source                string
	Currency              string
	TotalOrigin           decimal.Decimal // total de mercancía en moneda de origen
	TotalCardBill         decimal.Decimal // cargo de la tarjeta en moneda destino
	TotalForeignFee       decimal.Decimal // comisión por transacción extranjera en moneda destino
	TotalShipping         decimal.Decimal // envío total en moneda destino
	ExchangeRate          decimal.Decimal
	ShippingRatePerWeight decimal.Decimal
	Items                 []PurchaseItem
	CreatedAt             time.Time
}

// PurchaseItem ítem de un lote. ItemWeight es un snapshot del peso al momento de la compra.
type PurchaseItem struct {
	ID              string
	BatchID         string
	ProductID       string
	Quantity        int
	UnitPriceOrigin decimal.Decimal
	ItemWeight      decimal.Decimal
	LandedUnitCost  decimal.Decimal
}
