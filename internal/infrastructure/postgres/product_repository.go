package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reventa-inventario/internal/domain"
	"github.com/jhoicas/reventa-inventario/internal/domain/entity"
	"github.com/jhoicas/reventa-inventario/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, weight, quantity, avg_cost, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Un nombre repetido devuelve domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Weight, product.Quantity,
		product.AvgCost, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByName obtiene un producto por nombre exacto.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// List lista productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	limit, offset = normalizePage(limit, offset)
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// Update actualiza nombre, SKU y peso. Cantidad y costo solo cambian vía UpdateLedgerState.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET name = $2, sku = $3, weight = $4, updated_at = $5 WHERE id = $1`,
		product.ID, product.Name, product.SKU, product.Weight, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateLedgerState persiste cantidad, costo promedio y peso calculados por el ledger.
func (r *ProductRepo) UpdateLedgerState(ctx context.Context, id string, quantity int, avgCost, weight decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET quantity = $2, avg_cost = $3, weight = $4, updated_at = now() WHERE id = $1`,
		id, quantity, avgCost, weight,
	)
	if err != nil {
		return fmt.Errorf("update product ledger state: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update product ledger state %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByIDsForUpdate bloquea las filas en orden de ID. Los IDs inexistentes simplemente no aparecen.
func (r *ProductRepo) ListByIDsForUpdate(ctx context.Context, ids []string) ([]*entity.Product, error) {
	ids = onlyUUIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products by id: %w", err)
	}
	return collectProducts(rows)
}

// ListByNamesForUpdate bloquea las filas existentes en orden de nombre.
func (r *ProductRepo) ListByNamesForUpdate(ctx context.Context, names []string) ([]*entity.Product, error) {
	if len(names) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE name = ANY($1::text[]) ORDER BY name FOR UPDATE`, names)
	if err != nil {
		return nil, fmt.Errorf("lock products by name: %w", err)
	}
	return collectProducts(rows)
}

// Stats devuelve cantidad de productos y Σ quantity * avg_cost.
func (r *ProductRepo) Stats(ctx context.Context) (int64, decimal.Decimal, error) {
	var count int64
	var value decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(quantity * avg_cost), 0) FROM products`,
	).Scan(&count, &value)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("product stats: %w", err)
	}
	return count, value, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Weight, &p.Quantity, &p.AvgCost, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
