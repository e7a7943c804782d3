package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/domain"
	"github.com/jhoicas/reventa-inventario/internal/domain/entity"
	"github.com/jhoicas/reventa-inventario/internal/domain/inventory"
	"github.com/jhoicas/reventa-inventario/internal/domain/repository"
)

// RegisterPurchaseUseCase registra lotes de compra de forma transaccional: bloquea los productos
// (SELECT FOR UPDATE), calcula tasas y costo puesto, actualiza el promedio ponderado y persiste todo o nada.
type RegisterPurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	log          zerolog.Logger
	now          func() time.Time
}

// NewRegisterPurchaseUseCase construye el caso de uso.
func NewRegisterPurchaseUseCase(txRunner TxRunner, purchaseRepo repository.PurchaseRepository, log zerolog.Logger) *RegisterPurchaseUseCase {
	return &RegisterPurchaseUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		log:          log,
		now:          time.Now,
	}
}

// RegisterBatch aplica el lote en el orden recibido. Si alguna línea referencia un producto
// inexistente se rechaza el lote completo (domain.ErrUnknownProduct) y no se persiste nada.
// Las tasas degeneradas no son error: se devuelven en Warnings y se registran en WARN.
func (uc *RegisterPurchaseUseCase) RegisterBatch(ctx context.Context, in dto.CreatePurchaseBatchRequest) (*dto.PurchaseBatchResponse, error) {
	if err := validatePurchase(in); err != nil {
		return nil, err
	}

	now := uc.now()
	batch := &entity.PurchaseBatch{
		ID:              uuid.New().String(),
		PurchaseDate:    now,
		Source:          strings.TrimSpace(in.Source),
		Currency:        strings.ToUpper(strings.TrimSpace(in.Currency)),
		TotalOrigin:     in.TotalOrigin,
		TotalCardBill:   in.TotalCardBill,
		TotalForeignFee: in.TotalForeignFee,
		TotalShipping:   in.TotalShipping,
		CreatedAt:       now,
	}
	if in.PurchaseDate != nil {
		batch.PurchaseDate = *in.PurchaseDate
	}
	if batch.Currency == "" {
		batch.Currency = entity.DefaultOriginCurrency
	}

	totals := inventory.BatchTotals{
		OriginTotal:   in.TotalOrigin,
		CardBill:      in.TotalCardBill,
		ForeignFee:    in.TotalForeignFee,
		ShippingTotal: in.TotalShipping,
	}
	lines := make([]inventory.PurchaseLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, inventory.PurchaseLine{
			ProductID:       canonicalID(it.ProductID),
			Quantity:        it.Quantity,
			OriginUnitPrice: it.UnitPriceOrigin,
			ItemWeight:      it.ItemWeight,
		})
	}

	var result *inventory.PurchaseResult
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.SalesRepository,
	) error {
		products, err := productRepo.ListByIDsForUpdate(ctx, distinctProductIDs(lines))
		if err != nil {
			return err
		}
		ledger := inventory.NewLedger(productStates(products)...)

		res, err := ledger.ApplyPurchase(totals, lines)
		if err != nil {
			return err
		}

		batch.ExchangeRate = res.Rates.ExchangeRate
		batch.ShippingRatePerWeight = res.Rates.ShippingRatePerWeight
		batch.Items = make([]entity.PurchaseItem, 0, len(res.Lines))
		for _, l := range res.Lines {
			batch.Items = append(batch.Items, entity.PurchaseItem{
				ID:              uuid.New().String(),
				BatchID:         batch.ID,
				ProductID:       l.Line.ProductID,
				Quantity:        l.Line.Quantity,
				UnitPriceOrigin: l.Line.OriginUnitPrice,
				ItemWeight:      l.Line.ItemWeight,
				LandedUnitCost:  l.LandedUnitCost,
			})
		}
		if err := purchaseRepo.CreateBatch(ctx, batch); err != nil {
			return err
		}
		if err := persistLedger(ctx, productRepo, ledger, now); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Rates.Degenerate() {
		uc.log.Warn().
			Str("batch_id", batch.ID).
			Strs("warnings", warningStrings(result.Rates.Warnings)).
			Str("total_origin", in.TotalOrigin.String()).
			Str("total_weight", result.Rates.TotalWeight.String()).
			Msg("lote registrado con tasas en cero")
	}
	uc.log.Info().
		Str("batch_id", batch.ID).
		Int("items", len(batch.Items)).
		Str("exchange_rate", batch.ExchangeRate.String()).
		Str("shipping_rate_per_weight", batch.ShippingRatePerWeight.String()).
		Msg("lote de compra registrado")

	resp := toPurchaseBatchResponse(batch)
	resp.Warnings = warningStrings(result.Rates.Warnings)
	for i, l := range result.Lines {
		resp.Items[i].Ledger = &dto.LedgerDeltaResponse{
			QuantityBefore: l.Before.Quantity,
			QuantityAfter:  l.After.Quantity,
			AvgCostBefore:  l.Before.AvgCost,
			AvgCostAfter:   l.After.AvgCost,
		}
	}
	return resp, nil
}

// GetBatch obtiene un lote con sus ítems.
func (uc *RegisterPurchaseUseCase) GetBatch(ctx context.Context, id string) (*dto.PurchaseBatchResponse, error) {
	batch, err := uc.purchaseRepo.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseBatchResponse(batch), nil
}

// ListBatches lista lotes con paginación.
func (uc *RegisterPurchaseUseCase) ListBatches(ctx context.Context, limit, offset int) (*dto.PurchaseBatchListResponse, error) {
	list, err := uc.purchaseRepo.ListBatches(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseBatchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toPurchaseBatchResponse(b))
	}
	return &dto.PurchaseBatchListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func validatePurchase(in dto.CreatePurchaseBatchRequest) error {
	if len(in.Items) == 0 {
		return domain.ErrEmptyBatch
	}
	totals := []struct {
		field string
		value decimal.Decimal
	}{
		{"total_origin", in.TotalOrigin},
		{"total_card_bill", in.TotalCardBill},
		{"total_foreign_fee", in.TotalForeignFee},
		{"total_shipping", in.TotalShipping},
	}
	for _, t := range totals {
		if t.value.IsNegative() {
			return fmt.Errorf("%w: %s negativo", domain.ErrInvalidInput, t.field)
		}
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return fmt.Errorf("%w: ítem %d sin product_id", domain.ErrInvalidInput, i+1)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: ítem %d con cantidad %d", domain.ErrInvalidInput, i+1, it.Quantity)
		}
		if it.UnitPriceOrigin.IsNegative() || it.ItemWeight.IsNegative() {
			return fmt.Errorf("%w: ítem %d con precio o peso negativo", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

func distinctProductIDs(lines []inventory.PurchaseLine) []string {
	seen := make(map[string]bool, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}

func productStates(products []*entity.Product) []inventory.ProductState {
	states := make([]inventory.ProductState, 0, len(products))
	for _, p := range products {
		states = append(states, inventory.ProductState{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			AvgCost:   p.AvgCost,
			Weight:    p.Weight,
		})
	}
	return states
}

// persistLedger escribe el estado final de cada producto tocado. Los productos nuevos se insertan;
// si otro proceso creó el mismo nombre en paralelo se devuelve domain.ErrConflict.
func persistLedger(ctx context.Context, productRepo repository.ProductRepository, ledger *inventory.Ledger, now time.Time) error {
	for _, ch := range ledger.Changes() {
		st := ch.State
		if ch.Created {
			err := productRepo.Create(ctx, &entity.Product{
				ID:        st.ProductID,
				Name:      st.Name,
				Weight:    st.Weight,
				Quantity:  st.Quantity,
				AvgCost:   st.AvgCost,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					return fmt.Errorf("%w: producto %q creado por otra operación", domain.ErrConflict, st.Name)
				}
				return err
			}
			continue
		}
		if err := productRepo.UpdateLedgerState(ctx, st.ProductID, st.Quantity, st.AvgCost, st.Weight); err != nil {
			return err
		}
	}
	return nil
}

func warningStrings(ws []inventory.RateWarning) []string {
	if len(ws) == 0 {
		return nil
	}
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, string(w))
	}
	return out
}

func toPurchaseBatchResponse(b *entity.PurchaseBatch) *dto.PurchaseBatchResponse {
	resp := &dto.PurchaseBatchResponse{
		ID:                    b.ID,
		PurchaseDate:          b.PurchaseDate,
		Source:                b.Source,
		Currency:              b.Currency,
		TotalOrigin:           b.TotalOrigin,
		TotalCardBill:         b.TotalCardBill,
		TotalForeignFee:       b.TotalForeignFee,
		TotalShipping:         b.TotalShipping,
		ExchangeRate:          b.ExchangeRate,
		ShippingRatePerWeight: b.ShippingRatePerWeight,
		CreatedAt:             b.CreatedAt,
	}
	if len(b.Items) > 0 {
		resp.Items = make([]dto.PurchaseItemResponse, 0, len(b.Items))
		for _, it := range b.Items {
			resp.Items = append(resp.Items, dto.PurchaseItemResponse{
				ID:              it.ID,
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				UnitPriceOrigin: it.UnitPriceOrigin,
				ItemWeight:      it.ItemWeight,
				LandedUnitCost:  it.LandedUnitCost,
			})
		}
	}
	return resp
}

// canonicalID lleva un UUID a su forma canónica (minúsculas, sin llaves ni prefijo urn),
// que es como lo devuelve la base. Un ID que no es UUID queda tal cual.
func canonicalID(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}
