package inventory_test

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reventa-inventario/internal/domain"
	"github.com/jhoicas/reventa-inventario/internal/domain/entity"
	"github.com/jhoicas/reventa-inventario/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// memStore implementa ProductRepository, PurchaseRepository, SalesRepository y
// TxRunner en memoria. Run restaura el estado anterior si fn devuelve error.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products    map[string]*entity.Product
	batches     []*entity.PurchaseBatch
	orders      []*entity.SalesOrder
	lockedIDs   [][]string
	lockedNames [][]string
	failCreate  error // si no es nil, CreateOrder falla con este error
}

var (
	_ repository.ProductRepository  = (*memStore)(nil)
	_ repository.PurchaseRepository = (*memStore)(nil)
	_ repository.SalesRepository    = (*memStore)(nil)
)

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{products: map[string]*entity.Product{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

type memSnapshot struct {
	products map[string]entity.Product
	batches  int
	orders   int
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{products: map[string]entity.Product{}, batches: len(s.batches), orders: len(s.orders)}
	for id, p := range s.products {
		snap.products[id] = *p
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.products = map[string]*entity.Product{}
	for id, p := range snap.products {
		cp := p
		s.products[id] = &cp
	}
	s.batches = s.batches[:snap.batches]
	s.orders = s.orders[:snap.orders]
}

func (s *memStore) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	salesRepo repository.SalesRepository,
) error) error {
	snap := s.snapshot()
	if err := fn(s, s, s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) byName(name string) *entity.Product {
	for _, p := range s.products {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ── ProductRepository ───────────────────────────────────────────────────────

func (s *memStore) Create(_ context.Context, p *entity.Product) error {
	if s.byName(p.Name) != nil {
		return domain.ErrDuplicate
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) GetByName(_ context.Context, name string) (*entity.Product, error) {
	p := s.byName(name)
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	all := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *memStore) Update(_ context.Context, p *entity.Product) error {
	cur, ok := s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if other := s.byName(p.Name); other != nil && other.ID != p.ID {
		return domain.ErrDuplicate
	}
	cur.Name, cur.SKU, cur.Weight, cur.UpdatedAt = p.Name, p.SKU, p.Weight, p.UpdatedAt
	return nil
}

func (s *memStore) UpdateLedgerState(_ context.Context, id string, quantity int, avgCost, weight decimal.Decimal) error {
	p, ok := s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity, p.AvgCost, p.Weight = quantity, avgCost, weight
	return nil
}

func (s *memStore) ListByIDsForUpdate(_ context.Context, ids []string) ([]*entity.Product, error) {
	s.lockedIDs = append(s.lockedIDs, append([]string(nil), ids...))
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) ListByNamesForUpdate(_ context.Context, names []string) ([]*entity.Product, error) {
	s.lockedNames = append(s.lockedNames, append([]string(nil), names...))
	var out []*entity.Product
	for _, n := range names {
		if p := s.byName(n); p != nil {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) Stats(_ context.Context) (int64, decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range s.products {
		total = total.Add(p.InventoryValue())
	}
	return int64(len(s.products)), total, nil
}

// ── PurchaseRepository ──────────────────────────────────────────────────────

func (s *memStore) CreateBatch(_ context.Context, b *entity.PurchaseBatch) error {
	cp := *b
	s.batches = append(s.batches, &cp)
	return nil
}

func (s *memStore) GetBatch(_ context.Context, id string) (*entity.PurchaseBatch, error) {
	for _, b := range s.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListBatches(_ context.Context, _, _ int) ([]*entity.PurchaseBatch, error) {
	return s.batches, nil
}

// ── SalesRepository ─────────────────────────────────────────────────────────

func (s *memStore) ExistsOrderNo(_ context.Context, orderNo string) (bool, error) {
	for _, o := range s.orders {
		if o.OrderNo == orderNo {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CreateOrder(_ context.Context, o *entity.SalesOrder) error {
	if s.failCreate != nil {
		return s.failCreate
	}
	for _, it := range o.Items {
		if _, ok := s.products[it.ProductID]; !ok {
			return domain.ErrNotFound
		}
	}
	cp := *o
	s.orders = append(s.orders, &cp)
	return nil
}

func (s *memStore) ListOrders(_ context.Context, _, _ int) ([]*entity.SalesOrder, error) {
	return s.orders, nil
}

func (s *memStore) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(s.orders))
	s.orders = nil
	return n, nil
}

func (s *memStore) SummaryByProduct(_ context.Context) ([]repository.ProductSalesSummary, error) {
	byID := map[string]*repository.ProductSalesSummary{}
	var order []string
	for _, o := range s.orders {
		for _, it := range o.Items {
			sum, ok := byID[it.ProductID]
			if !ok {
				sum = &repository.ProductSalesSummary{ProductID: it.ProductID, Revenue: decimal.Zero, CostOfSales: decimal.Zero}
				byID[it.ProductID] = sum
				order = append(order, it.ProductID)
			}
			sum.UnitsSold += it.Quantity
			sum.Revenue = sum.Revenue.Add(it.Revenue())
			sum.CostOfSales = sum.CostOfSales.Add(it.CostOfSales())
		}
	}
	out := make([]repository.ProductSalesSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}
