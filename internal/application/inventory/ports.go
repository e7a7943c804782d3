package inventory

import (
	"context"

	"github.com/jhoicas/reventa-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Un error devuelto por fn hace Rollback de todos los cambios de la unidad (lote, orden o planilla).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
		salesRepo repository.SalesRepository,
	) error) error
}
