package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/reventa-inventario/internal/domain"
	"github.com/jhoicas/reventa-inventario/internal/domain/entity"
	"github.com/jhoicas/reventa-inventario/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

const orderNoConstraint = "sales_orders_order_no_key"

// SalesRepo persiste órdenes de venta y sus ítems atómicos.
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el repositorio. Pasar pool o tx (Querier).
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// ExistsOrderNo indica si ya hay una orden con ese número.
func (r *SalesRepo) ExistsOrderNo(ctx context.Context, orderNo string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales_orders WHERE order_no = $1)`, orderNo).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists order_no: %w", err)
	}
	return exists, nil
}

// CreateOrder inserta la orden y sus ítems.
func (r *SalesRepo) CreateOrder(ctx context.Context, o *entity.SalesOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales_orders (id, order_no, platform_source, order_date, customer_name,
			total_amount_received, shipping_fee_paid_by_customer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.OrderNo, o.PlatformSource, o.OrderDate, o.CustomerName,
		o.TotalAmountReceived, o.ShippingFeePaidByCustomer, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && (constraintName(err) == orderNoConstraint || constraintName(err) == "") {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	for i, it := range o.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sales_items (id, order_id, product_id, line_no, product_name, source_line,
				quantity, unit_price_sold, cost_basis)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, o.ID, it.ProductID, i, it.ProductName, it.SourceLine,
			it.Quantity, it.UnitPriceSold, it.CostBasis,
		)
		if err != nil {
			return fmt.Errorf("insert sales item %d: %w", i, err)
		}
	}
	return nil
}

// ListOrders lista órdenes con sus ítems, más recientes primero.
func (r *SalesRepo) ListOrders(ctx context.Context, limit, offset int) ([]*entity.SalesOrder, error) {
	limit, offset = normalizePage(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT id, order_no, platform_source, order_date, customer_name,
			total_amount_received, shipping_fee_paid_by_customer, created_at
		FROM sales_orders ORDER BY order_date DESC, created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	var orders []*entity.SalesOrder
	byID := make(map[string]*entity.SalesOrder)
	for rows.Next() {
		var o entity.SalesOrder
		if err := rows.Scan(&o.ID, &o.OrderNo, &o.PlatformSource, &o.OrderDate, &o.CustomerName,
			&o.TotalAmountReceived, &o.ShippingFeePaidByCustomer, &o.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		orders = append(orders, &o)
		byID[o.ID] = &o
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	itemRows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, product_name, source_line, quantity, unit_price_sold, cost_basis
		FROM sales_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, line_no`, ids)
	if err != nil {
		return nil, fmt.Errorf("list sales items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it entity.SalesItem
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.SourceLine,
			&it.Quantity, &it.UnitPriceSold, &it.CostBasis); err != nil {
			return nil, fmt.Errorf("scan sales item: %w", err)
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return orders, itemRows.Err()
}

// DeleteAll elimina todas las órdenes (los ítems caen por ON DELETE CASCADE). No toca productos.
func (r *SalesRepo) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales_orders`)
	if err != nil {
		return 0, fmt.Errorf("delete sales orders: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// SummaryByProduct agrega unidades, ingreso y costo de venta por producto desde los snapshots.
func (r *SalesRepo) SummaryByProduct(ctx context.Context) ([]repository.ProductSalesSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id,
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(quantity * unit_price_sold), 0),
			COALESCE(SUM(quantity * cost_basis), 0)
		FROM sales_items GROUP BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.ProductSalesSummary, error) {
		var s repository.ProductSalesSummary
		err := row.Scan(&s.ProductID, &s.UnitsSold, &s.Revenue, &s.CostOfSales)
		return s, err
	})
}
