package repository

import (
	"context"

	"github.com/jhoicas/reventa-inventario/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para lotes de compra y sus ítems.
type PurchaseRepository interface {
	// CreateBatch inserta el lote y todos sus ítems.
	CreateBatch(ctx context.Context, batch *entity.PurchaseBatch) error
	// GetBatch devuelve el lote con sus ítems, o (nil, nil) si no existe.
	GetBatch(ctx context.Context, id string) (*entity.PurchaseBatch, error)
	// ListBatches lista lotes sin ítems, más recientes primero.
	ListBatches(ctx context.Context, limit, offset int) ([]*entity.PurchaseBatch, error)
}
