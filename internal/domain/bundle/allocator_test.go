package bundle_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reventa-inventario/internal/domain/bundle"
)

func TestAllocate_ReparteIgualPorSubItem(t *testing.T) {
	allocs := bundle.Allocate(items("A", 1, "B", 2), 3, decimal.NewFromInt(100))
	require.Len(t, allocs, 2)

	// 300 total → 150 por sub-ítem, independiente de la cantidad de cada uno.
	assert.Equal(t, "A", allocs[0].Name)
	assert.Equal(t, 3, allocs[0].Quantity)
	assert.True(t, allocs[0].UnitPrice.Equal(decimal.NewFromInt(50)), allocs[0].UnitPrice.String())

	assert.Equal(t, "B", allocs[1].Name)
	assert.Equal(t, 6, allocs[1].Quantity)
	assert.True(t, allocs[1].UnitPrice.Equal(decimal.NewFromInt(25)), allocs[1].UnitPrice.String())

	assert.True(t, bundle.TotalRevenue(allocs).Equal(decimal.NewFromInt(300)))
}

func TestAllocate_CantidadCeroPierdeSuParte(t *testing.T) {
	allocs := bundle.Allocate(items("A", 0, "B", 1), 2, decimal.NewFromInt(50))
	require.Len(t, allocs, 2)

	assert.Equal(t, 0, allocs[0].Quantity)
	assert.True(t, allocs[0].UnitPrice.IsZero())
	assert.Equal(t, 2, allocs[1].Quantity)
	assert.True(t, allocs[1].UnitPrice.Equal(decimal.NewFromInt(25)))

	// La mitad del ingreso (50 de 100) no se redistribuye.
	assert.True(t, bundle.TotalRevenue(allocs).Equal(decimal.NewFromInt(50)))
}

func TestAllocate_SinItems(t *testing.T) {
	assert.Nil(t, bundle.Allocate(nil, 2, decimal.NewFromInt(10)))
}

func TestAllocate_ConservaIngreso(t *testing.T) {
	d := bundle.NewDefaultDecomposer()
	descriptions := []string{
		"A+B", "A 26盒", "23A 1盒 23C 1盒", "23A epick 兩盒", "A+B+C Suffix",
		"A+B/C 2盒", "X+Y+Z 各3", "Widget 7", "Plain",
	}
	prices := []string{"0", "1", "99.99", "333.33", "1000", "0.07"}
	tolerance := decimal.New(1, -9)

	for _, desc := range descriptions {
		for _, q := range []int{1, 2, 3, 7, 11} {
			for _, p := range prices {
				price := decimal.RequireFromString(p)
				allocs := bundle.Allocate(d.Decompose(desc), q, price)
				want := decimal.NewFromInt(int64(q)).Mul(price)
				diff := bundle.TotalRevenue(allocs).Sub(want).Abs()
				assert.True(t, diff.LessThanOrEqual(tolerance),
					"%q q=%d p=%s: diferencia %s", desc, q, p, diff)
			}
		}
	}
}
