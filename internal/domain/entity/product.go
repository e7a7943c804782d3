package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario de reventa.
// Name es la única clave de búsqueda (coincidencia exacta, sensible a mayúsculas).
// Quantity puede ser negativa (sobreventa); AvgCost es el costo promedio ponderado en moneda destino.
type Product struct {
	ID        string
	SKU       string // opcional
	Name      string
	Weight    decimal.Decimal // último peso unitario conocido
	Quantity  int
	AvgCost   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InventoryValue devuelve Quantity * AvgCost.
func (p *Product) InventoryValue() decimal.Decimal {
	return decimal.NewFromInt(int64(p.Quantity)).Mul(p.AvgCost)
}
