package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseBatchRequest body para POST /api/purchases.
// Los montos Total* distintos de TotalOrigin están en moneda destino.
type CreatePurchaseBatchRequest struct {
	PurchaseDate    *time.Time                  `json:"purchase_date"`
	Source          string                      `json:"source" validate:"max=200"`
	Currency        string                      `json:"currency" validate:"omitempty,len=3"`
	TotalOrigin     decimal.Decimal             `json:"total_origin" validate:"gte=0"`
	TotalCardBill   decimal.Decimal             `json:"total_card_bill" validate:"gte=0"`
	TotalForeignFee decimal.Decimal             `json:"total_foreign_fee" validate:"gte=0"`
	TotalShipping   decimal.Decimal             `json:"total_shipping" validate:"gte=0"`
	Items           []CreatePurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreatePurchaseItemRequest línea del lote; se aplica en el orden recibido.
type CreatePurchaseItemRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	Quantity        int             `json:"quantity" validate:"gt=0"`
	UnitPriceOrigin decimal.Decimal `json:"unit_price_origin" validate:"gte=0"`
	ItemWeight      decimal.Decimal `json:"item_weight" validate:"gte=0"`
}

// LedgerDeltaResponse estado del producto antes y después de aplicar una línea.
type LedgerDeltaResponse struct {
	QuantityBefore int             `json:"quantity_before"`
	QuantityAfter  int             `json:"quantity_after"`
	AvgCostBefore  decimal.Decimal `json:"avg_cost_before"`
	AvgCostAfter   decimal.Decimal `json:"avg_cost_after"`
}

// PurchaseItemResponse ítem de un lote.
type PurchaseItemResponse struct {
	ID              string               `json:"id"`
	ProductID       string               `json:"product_id"`
	Quantity        int                  `json:"quantity"`
	UnitPriceOrigin decimal.Decimal      `json:"unit_price_origin"`
	ItemWeight      decimal.Decimal      `json:"item_weight"`
	LandedUnitCost  decimal.Decimal      `json:"landed_unit_cost"`
	Ledger          *LedgerDeltaResponse `json:"ledger,omitempty"`
}

// PurchaseBatchResponse salida de un lote. Warnings lista las tasas forzadas a 0.
type PurchaseBatchResponse struct {
	ID                    string                 `json:"id"`
	PurchaseDate          time.Time              `json:"purchase_date"`
	Source                string                 `json:"source"`
	Currency              string                 `json:"currency"`
	TotalOrigin           decimal.Decimal        `json:"total_origin"`
	TotalCardBill         decimal.Decimal        `json:"total_card_bill"`
	TotalForeignFee       decimal.Decimal        `json:"total_foreign_fee"`
	TotalShipping         decimal.Decimal        `json:"total_shipping"`
	ExchangeRate          decimal.Decimal        `json:"exchange_rate"`
	ShippingRatePerWeight decimal.Decimal        `json:"shipping_rate_per_weight"`
	Warnings              []string               `json:"warnings,omitempty"`
	Items                 []PurchaseItemResponse `json:"items,omitempty"`
	CreatedAt             time.Time              `json:"created_at"`
}

// PurchaseBatchListResponse lista paginada de lotes.
type PurchaseBatchListResponse struct {
	Items []PurchaseBatchResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
