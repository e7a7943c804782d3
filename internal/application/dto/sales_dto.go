package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesLineInput línea de una orden tal como viene de la plataforma: descripción libre del paquete,
// cantidad de paquetes y precio por paquete.
type SalesLineInput struct {
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// SalesPreviewRequest body para POST /api/sales/preview.
type SalesPreviewRequest struct {
	Lines []SalesLineInput `json:"lines" validate:"required,min=1,dive"`
}

// AllocationResponse producto atómico resultante de descomponer una línea.
type AllocationResponse struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// SalesPreviewLineResponse descomposición de una línea sin tocar el inventario.
type SalesPreviewLineResponse struct {
	Description      string               `json:"description"`
	Quantity         int                  `json:"quantity"`
	UnitPrice        decimal.Decimal      `json:"unit_price"`
	LineRevenue      decimal.Decimal      `json:"line_revenue"`
	AllocatedRevenue decimal.Decimal      `json:"allocated_revenue"`
	Items            []AllocationResponse `json:"items"`
}

// SalesOrderInput body para POST /api/sales; también es la unidad de importación.
type SalesOrderInput struct {
	OrderNo                   string           `json:"order_no" validate:"required,max=100"`
	PlatformSource            string           `json:"platform_source" validate:"max=100"`
	OrderDate                 *time.Time       `json:"order_date"`
	CustomerName              string           `json:"customer_name" validate:"max=200"`
	ShippingFeePaidByCustomer decimal.Decimal  `json:"shipping_fee_paid_by_customer" validate:"gte=0"`
	Lines                     []SalesLineInput `json:"lines" validate:"required,min=1,dive"`
}

// SalesItemResponse ítem atómico persistido.
type SalesItemResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SourceLine    string          `json:"source_line"`
	Quantity      int             `json:"quantity"`
	UnitPriceSold decimal.Decimal `json:"unit_price_sold"`
	CostBasis     decimal.Decimal `json:"cost_basis"`
}

// SalesOrderResponse salida de una orden.
type SalesOrderResponse struct {
	ID                        string              `json:"id"`
	OrderNo                   string              `json:"order_no"`
	PlatformSource            string              `json:"platform_source"`
	OrderDate                 time.Time           `json:"order_date"`
	CustomerName              string              `json:"customer_name"`
	TotalAmountReceived       decimal.Decimal     `json:"total_amount_received"`
	ShippingFeePaidByCustomer decimal.Decimal     `json:"shipping_fee_paid_by_customer"`
	Items                     []SalesItemResponse `json:"items"`
	CreatedAt                 time.Time           `json:"created_at"`
}

// OversoldProductResponse producto que quedó con cantidad negativa.
type OversoldProductResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// RegisterOrderResponse resultado de registrar una orden. Si OrderNo ya existía, Skipped es true y Order es nil.
type RegisterOrderResponse struct {
	Order           *SalesOrderResponse       `json:"order,omitempty"`
	Skipped         bool                      `json:"skipped"`
	CreatedProducts []string                  `json:"created_products,omitempty"`
	Oversold        []OversoldProductResponse `json:"oversold,omitempty"`
}

// ImportSummaryResponse resumen de una importación de planilla.
type ImportSummaryResponse struct {
	Orders          int                       `json:"orders"`
	Created         int                       `json:"created"`
	Skipped         int                       `json:"skipped"`
	SkippedOrderNos []string                  `json:"skipped_order_nos,omitempty"`
	Items           int                       `json:"items"`
	CreatedProducts []string                  `json:"created_products,omitempty"`
	Oversold        []OversoldProductResponse `json:"oversold,omitempty"`
}

// SalesOrderListResponse lista paginada de órdenes.
type SalesOrderListResponse struct {
	Items []SalesOrderResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// DeleteAllResponse resultado de DELETE /api/sales/all.
type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}
