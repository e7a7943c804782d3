package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reventa-inventario/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByName devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// Update modifica solo nombre, SKU y peso. Cantidad y costo se mueven vía compras y ventas.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateLedgerState persiste el estado calculado por el ledger (cantidad, costo promedio, peso).
	UpdateLedgerState(ctx context.Context, id string, quantity int, avgCost, weight decimal.Decimal) error
	// ListByIDsForUpdate bloquea (SELECT FOR UPDATE) los productos en orden de ID.
	ListByIDsForUpdate(ctx context.Context, ids []string) ([]*entity.Product, error)
	// ListByNamesForUpdate bloquea (SELECT FOR UPDATE) los productos existentes en orden de nombre.
	ListByNamesForUpdate(ctx context.Context, names []string) ([]*entity.Product, error)
	// Stats devuelve la cantidad de productos y el valor total del inventario (Σ cantidad * costo).
	Stats(ctx context.Context) (totalProducts int64, totalValue decimal.Decimal, err error)
}
