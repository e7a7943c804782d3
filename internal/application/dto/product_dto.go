package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Cantidad y costo iniciales son opcionales
// (alta de stock existente); después solo cambian vía compras y ventas.
type CreateProductRequest struct {
	SKU             string          `json:"sku" validate:"omitempty,max=100"`
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Weight          decimal.Decimal `json:"weight" validate:"gte=0"`
	InitialQuantity int             `json:"initial_quantity" validate:"min=0"`
	InitialAvgCost  decimal.Decimal `json:"initial_avg_cost" validate:"gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin cantidad ni costo).
type UpdateProductRequest struct {
	Name   *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU    *string          `json:"sku" validate:"omitempty,max=100"`
	Weight *decimal.Decimal `json:"weight" validate:"omitempty,gte=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Weight         decimal.Decimal `json:"weight"`
	Quantity       int             `json:"quantity"`
	AvgCost        decimal.Decimal `json:"avg_cost"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	Oversold       bool            `json:"oversold"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
