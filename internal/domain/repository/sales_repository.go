package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reventa-inventario/internal/domain/entity"
)

// ProductSalesSummary agregado de ventas de un producto a partir de los snapshots de SalesItem.
type ProductSalesSummary struct {
	ProductID   string
	UnitsSold   int
	Revenue     decimal.Decimal // Σ cantidad * precio unitario asignado
	CostOfSales decimal.Decimal // Σ cantidad * costo base (snapshot)
}

// SalesRepository define el puerto de persistencia para órdenes de venta.
type SalesRepository interface {
	ExistsOrderNo(ctx context.Context, orderNo string) (bool, error)
	// CreateOrder inserta la orden y sus ítems. Devuelve domain.ErrDuplicate si OrderNo ya existe.
	CreateOrder(ctx context.Context, order *entity.SalesOrder) error
	// ListOrders lista órdenes con sus ítems, más recientes primero.
	ListOrders(ctx context.Context, limit, offset int) ([]*entity.SalesOrder, error)
	// DeleteAll elimina todas las órdenes y sus ítems. No revierte inventario.
	DeleteAll(ctx context.Context) (int64, error)
	SummaryByProduct(ctx context.Context) ([]ProductSalesSummary, error)
}
