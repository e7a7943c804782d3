package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/reventa-inventario/internal/domain/entity"
	"github.com/jhoicas/reventa-inventario/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const batchColumns = `id, purchase_date, source, currency, total_origin, total_card_bill, total_foreign_fee,
	total_shipping, exchange_rate, shipping_rate_per_weight, created_at`

// PurchaseRepo persiste lotes de compra y sus ítems.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el repositorio. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// CreateBatch inserta el lote y sus ítems en el orden recibido (line_no).
func (r *PurchaseRepo) CreateBatch(ctx context.Context, b *entity.PurchaseBatch) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_batches (`+batchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.PurchaseDate, b.Source, b.Currency, b.TotalOrigin, b.TotalCardBill, b.TotalForeignFee,
		b.TotalShipping, b.ExchangeRate, b.ShippingRatePerWeight, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase batch: %w", err)
	}
	for i, it := range b.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_items (id, batch_id, product_id, line_no, quantity, unit_price_origin, item_weight, landed_unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, b.ID, it.ProductID, i, it.Quantity, it.UnitPriceOrigin, it.ItemWeight, it.LandedUnitCost,
		)
		if err != nil {
			return fmt.Errorf("insert purchase item %d: %w", i, err)
		}
	}
	return nil
}

// GetBatch obtiene el lote con sus ítems.
func (r *PurchaseRepo) GetBatch(ctx context.Context, id string) (*entity.PurchaseBatch, error) {
	if !isUUID(id) {
		return nil, nil
	}
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM purchase_batches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase batch: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, batch_id, product_id, quantity, unit_price_origin, item_weight, landed_unit_cost
		FROM purchase_items WHERE batch_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.BatchID, &it.ProductID, &it.Quantity,
			&it.UnitPriceOrigin, &it.ItemWeight, &it.LandedUnitCost); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		b.Items = append(b.Items, it)
	}
	return b, rows.Err()
}

// ListBatches lista lotes sin ítems, más recientes primero.
func (r *PurchaseRepo) ListBatches(ctx context.Context, limit, offset int) ([]*entity.PurchaseBatch, error) {
	limit, offset = normalizePage(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+batchColumns+` FROM purchase_batches
		ORDER BY purchase_date DESC, created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.PurchaseBatch, error) {
	var b entity.PurchaseBatch
	err := row.Scan(&b.ID, &b.PurchaseDate, &b.Source, &b.Currency, &b.TotalOrigin, &b.TotalCardBill,
		&b.TotalForeignFee, &b.TotalShipping, &b.ExchangeRate, &b.ShippingRatePerWeight, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
