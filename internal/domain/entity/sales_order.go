package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plataforma por defecto de las órdenes importadas.
const DefaultPlatformSource = "Myship"

// SalesOrder agrupa las líneas vendidas de un mismo pedido de la plataforma.
// OrderNo es único: una orden ya registrada se omite completa al reimportar.
type SalesOrder struct {
	ID                        string
	OrderNo                   string
	PlatformSource            string
	OrderDate                 time.Time
	CustomerName              string
	TotalAmountReceived       decimal.Decimal
	ShippingFeePaidByCustomer decimal.Decimal
	Items                     []SalesItem
	CreatedAt                 time.Time
}

// SalesItem es un producto atómico resultante de descomponer una línea de la orden.
// CostBasis es el costo promedio del producto al momento de la venta; no se recalcula.
type SalesItem struct {
	ID            string
	OrderID       string
	ProductID     string
	ProductName   string
	SourceLine    string // descripción original del paquete
	Quantity      int
	UnitPriceSold decimal.Decimal
	CostBasis     decimal.Decimal
}

// Revenue devuelve Quantity * UnitPriceSold.
func (i SalesItem) Revenue() decimal.Decimal {
	return decimal.NewFromInt(int64(i.Quantity)).Mul(i.UnitPriceSold)
}

// CostOfSales devuelve Quantity * CostBasis.
func (i SalesItem) CostOfSales() decimal.Decimal {
	return decimal.NewFromInt(int64(i.Quantity)).Mul(i.CostBasis)
}
