package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reventa-inventario/internal/domain"
)

// ProductState estado de inventario de un producto dentro de una unidad de trabajo.
type ProductState struct {
	ProductID string
	Name      string
	Quantity  int
	AvgCost   decimal.Decimal
	Weight    decimal.Decimal
}

// Oversold indica cantidad negativa (se vendió más de lo comprado).
func (s ProductState) Oversold() bool {
	return s.Quantity < 0
}

// Change estado final de un producto tocado por el ledger. Created indica que no existía antes.
type Change struct {
	State   ProductState
	Created bool
}

// PurchaseDelta efecto de una línea de compra sobre su producto.
type PurchaseDelta struct {
	Line           PurchaseLine
	LandedUnitCost decimal.Decimal
	Before         ProductState
	After          ProductState
}

// PurchaseResult resultado de aplicar un lote completo.
type PurchaseResult struct {
	Rates BatchRates
	Lines []PurchaseDelta
}

// SaleDelta efecto de la venta de un producto atómico. CostBasis es el promedio vigente antes de descontar.
type SaleDelta struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	CostBasis decimal.Decimal
	Before    ProductState
	After     ProductState
}

// Ledger copia de trabajo del estado por producto. Las operaciones se aplican en orden sobre
// el estado ya modificado por las anteriores (promedio compuesto dentro del mismo lote).
// No es seguro para uso concurrente: el caller lo usa dentro de una transacción con las filas bloqueadas.
type Ledger struct {
	byID    map[string]*ProductState
	byName  map[string]string
	created map[string]bool
	order   []string // IDs creados, en orden de creación
	touched []string
	seen    map[string]bool
}

// NewLedger construye el ledger con los productos cargados (y bloqueados) por el caller.
func NewLedger(states ...ProductState) *Ledger {
	l := &Ledger{
		byID:    make(map[string]*ProductState, len(states)),
		byName:  make(map[string]string, len(states)),
		created: make(map[string]bool),
		seen:    make(map[string]bool),
	}
	for _, s := range states {
		l.load(s)
	}
	return l
}

func (l *Ledger) load(s ProductState) *ProductState {
	st := s
	l.byID[st.ProductID] = &st
	if st.Name != "" {
		l.byName[st.Name] = st.ProductID
	}
	return &st
}

func (l *Ledger) touch(id string) {
	if !l.seen[id] {
		l.seen[id] = true
		l.touched = append(l.touched, id)
	}
}

// Get devuelve el estado actual de un producto por ID.
func (l *Ledger) Get(productID string) (ProductState, bool) {
	st, ok := l.byID[productID]
	if !ok {
		return ProductState{}, false
	}
	return *st, true
}

// Lookup busca por nombre exacto (sensible a mayúsculas, sin normalizar).
func (l *Ledger) Lookup(name string) (ProductState, bool) {
	id, ok := l.byName[name]
	if !ok {
		return ProductState{}, false
	}
	return l.Get(id)
}

// EnsureProduct busca por nombre y, si no existe, crea el producto con cantidad y costo en cero.
func (l *Ledger) EnsureProduct(name string, newID func() string) ProductState {
	if st, ok := l.Lookup(name); ok {
		return st
	}
	st := l.load(ProductState{
		ProductID: newID(),
		Name:      name,
		AvgCost:   decimal.Zero,
		Weight:    decimal.Zero,
	})
	l.created[st.ProductID] = true
	l.order = append(l.order, st.ProductID)
	return *st
}

// ApplyPurchase aplica un lote completo: tasas del lote, costo puesto por línea y promedio ponderado.
// Si alguna línea referencia un producto que no está en el ledger se rechaza el lote entero
// sin modificar ningún estado.
func (l *Ledger) ApplyPurchase(totals BatchTotals, lines []PurchaseLine) (*PurchaseResult, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	for i, line := range lines {
		if _, ok := l.byID[line.ProductID]; !ok {
			return nil, fmt.Errorf("%w: línea %d, producto %q", domain.ErrUnknownProduct, i+1, line.ProductID)
		}
	}

	rates := ComputeBatchRates(totals, lines)
	result := &PurchaseResult{Rates: rates, Lines: make([]PurchaseDelta, 0, len(lines))}
	for _, line := range lines {
		st := l.byID[line.ProductID]
		before := *st
		landed := rates.LandedUnitCost(line)

		st.AvgCost = CostCalculator(
			decimal.NewFromInt(int64(st.Quantity)), st.AvgCost,
			decimal.NewFromInt(int64(line.Quantity)), landed,
		)
		st.Quantity += line.Quantity
		if !line.ItemWeight.IsZero() {
			st.Weight = line.ItemWeight
		}
		l.touch(st.ProductID)

		result.Lines = append(result.Lines, PurchaseDelta{
			Line:           line,
			LandedUnitCost: landed,
			Before:         before,
			After:          *st,
		})
	}
	return result, nil
}

// ApplySale descuenta quantity del producto (sin piso: puede quedar negativo) y toma el snapshot
// del costo promedio vigente como base de costo de la venta.
func (l *Ledger) ApplySale(productID string, quantity int, unitPrice decimal.Decimal) (SaleDelta, error) {
	st, ok := l.byID[productID]
	if !ok {
		return SaleDelta{}, fmt.Errorf("%w: producto %q", domain.ErrNotFound, productID)
	}
	before := *st
	st.Quantity -= quantity
	l.touch(st.ProductID)
	return SaleDelta{
		ProductID: st.ProductID,
		Name:      st.Name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CostBasis: before.AvgCost,
		Before:    before,
		After:     *st,
	}, nil
}

// Changes devuelve el estado final de los productos modificados, en orden de primera modificación.
// Los productos creados con EnsureProduct se incluyen aunque no hayan cambiado de cantidad,
// después de los modificados y en orden de creación.
func (l *Ledger) Changes() []Change {
	out := make([]Change, 0, len(l.touched)+len(l.order))
	for _, id := range l.touched {
		out = append(out, Change{State: *l.byID[id], Created: l.created[id]})
	}
	for _, id := range l.order {
		if !l.seen[id] {
			out = append(out, Change{State: *l.byID[id], Created: true})
		}
	}
	return out
}
