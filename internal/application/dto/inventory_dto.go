package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryStatsResponse respuesta de GET /api/inventory/stats.
type InventoryStatsResponse struct {
	TotalActiveProducts int64           `json:"total_active_products"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
}

// InventoryReportLine fila del reporte de valorización y margen por producto.
type InventoryReportLine struct {
	ProductID      string
	SKU            string
	Name           string
	Quantity       int
	AvgCost        decimal.Decimal
	InventoryValue decimal.Decimal // Quantity * AvgCost
	UnitsSold      int
	Revenue        decimal.Decimal
	CostOfSales    decimal.Decimal // desde los snapshots de costo base
	GrossMargin    decimal.Decimal // Revenue - CostOfSales
	MarginPct      decimal.Decimal // GrossMargin / Revenue * 100 (0 sin ventas)
}

// InventoryReport datos del reporte PDF.
type InventoryReport struct {
	GeneratedAt      time.Time
	Lines            []InventoryReportLine
	TotalValue       decimal.Decimal
	TotalRevenue     decimal.Decimal
	TotalCostOfSales decimal.Decimal
	TotalMargin      decimal.Decimal
	OversoldCount    int
}
