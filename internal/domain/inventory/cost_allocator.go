package inventory

import "github.com/shopspring/decimal"

// BatchTotals totales agregados de un lote de compra.
type BatchTotals struct {
	OriginTotal   decimal.Decimal // mercancía en moneda de origen
	CardBill      decimal.Decimal // cargo de la tarjeta (moneda destino)
	ForeignFee    decimal.Decimal // comisión extranjera (moneda destino)
	ShippingTotal decimal.Decimal // envío total (moneda destino)
}

// PurchaseLine línea de compra en el orden en que llega en el lote.
type PurchaseLine struct {
	ProductID       string
	Quantity        int
	OriginUnitPrice decimal.Decimal
	ItemWeight      decimal.Decimal
}

// RateWarning marca una tasa forzada a 0 por datos incompletos del lote.
type RateWarning string

const (
	WarningExchangeRateDegenerate RateWarning = "exchange_rate_degenerate" // total en origen <= 0
	WarningShippingRateDegenerate RateWarning = "shipping_rate_degenerate" // peso total <= 0
)

// BatchRates tasas derivadas una sola vez por lote; fijas para todos sus ítems.
type BatchRates struct {
	ExchangeRate          decimal.Decimal
	ShippingRatePerWeight decimal.Decimal
	TotalWeight           decimal.Decimal
	Warnings              []RateWarning
}

// Degenerate indica si alguna tasa se forzó a 0. El caller debe reportarlo, no tratarlo como éxito limpio.
func (r BatchRates) Degenerate() bool {
	return len(r.Warnings) > 0
}

// ComputeBatchRates calcula:
//
//	exchangeRate          = (cardBill + foreignFee) / originTotal      (0 si originTotal <= 0)
//	totalWeight           = Σ itemWeight * qty
//	shippingRatePerWeight = shippingTotal / totalWeight                (0 si totalWeight <= 0)
func ComputeBatchRates(totals BatchTotals, lines []PurchaseLine) BatchRates {
	var rates BatchRates

	if totals.OriginTotal.GreaterThan(decimal.Zero) {
		rates.ExchangeRate = totals.CardBill.Add(totals.ForeignFee).Div(totals.OriginTotal)
	} else {
		rates.ExchangeRate = decimal.Zero
		rates.Warnings = append(rates.Warnings, WarningExchangeRateDegenerate)
	}

	rates.TotalWeight = decimal.Zero
	for _, l := range lines {
		rates.TotalWeight = rates.TotalWeight.Add(l.ItemWeight.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if rates.TotalWeight.GreaterThan(decimal.Zero) {
		rates.ShippingRatePerWeight = totals.ShippingTotal.Div(rates.TotalWeight)
	} else {
		rates.ShippingRatePerWeight = decimal.Zero
		rates.Warnings = append(rates.Warnings, WarningShippingRateDegenerate)
	}
	return rates
}

// LandedUnitCost costo unitario puesto en destino: precio * tasa de cambio + peso * tarifa de envío.
func (r BatchRates) LandedUnitCost(line PurchaseLine) decimal.Decimal {
	base := line.OriginUnitPrice.Mul(r.ExchangeRate)
	shipping := line.ItemWeight.Mul(r.ShippingRatePerWeight)
	return base.Add(shipping)
}
