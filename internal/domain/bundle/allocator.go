package bundle

import "github.com/shopspring/decimal"

// Allocation producto atómico con su cantidad total y precio unitario asignado.
type Allocation struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Revenue devuelve Quantity * UnitPrice.
func (a Allocation) Revenue() decimal.Decimal {
	return decimal.NewFromInt(int64(a.Quantity)).Mul(a.UnitPrice)
}

// Allocate reparte el ingreso de la línea (bundleQty * bundlePrice) en partes iguales por SubItem,
// sin ponderar por la cantidad de cada uno, y lo convierte en precio unitario atómico.
//
// Un SubItem con Quantity 0 queda con cantidad atómica 0 y precio 0: su parte del ingreso
// se pierde y no se redistribuye entre los demás.
func Allocate(items []SubItem, bundleQty int, bundlePrice decimal.Decimal) []Allocation {
	if len(items) == 0 {
		return nil
	}
	q := decimal.NewFromInt(int64(bundleQty))
	total := q.Mul(bundlePrice)
	perItem := total.Div(decimal.NewFromInt(int64(len(items))))

	out := make([]Allocation, 0, len(items))
	for _, it := range items {
		atomicQty := bundleQty * it.Quantity
		unitPrice := decimal.Zero
		if atomicQty > 0 {
			unitPrice = perItem.Div(decimal.NewFromInt(int64(atomicQty)))
		}
		out = append(out, Allocation{Name: it.Name, Quantity: atomicQty, UnitPrice: unitPrice})
	}
	return out
}

// TotalRevenue suma Quantity * UnitPrice de todas las asignaciones.
func TotalRevenue(allocs []Allocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocs {
		sum = sum.Add(a.Revenue())
	}
	return sum
}
