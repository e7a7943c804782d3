package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/domain"
	"github.com/jhoicas/reventa-inventario/internal/domain/bundle"
	"github.com/jhoicas/reventa-inventario/internal/domain/entity"
	"github.com/jhoicas/reventa-inventario/internal/domain/inventory"
	"github.com/jhoicas/reventa-inventario/internal/domain/repository"
)

// RegisterSaleUseCase registra órdenes de venta: descompone cada línea en productos atómicos,
// reparte el ingreso, busca o crea los productos por nombre exacto y descuenta inventario
// tomando el costo promedio vigente como costo base.
type RegisterSaleUseCase struct {
	txRunner        TxRunner
	salesRepo       repository.SalesRepository
	decomposer      *bundle.Decomposer
	defaultPlatform string
	log             zerolog.Logger
	now             func() time.Time
}

// NewRegisterSaleUseCase construye el caso de uso. defaultPlatform se usa cuando la orden no trae plataforma.
func NewRegisterSaleUseCase(
	txRunner TxRunner,
	salesRepo repository.SalesRepository,
	decomposer *bundle.Decomposer,
	defaultPlatform string,
	log zerolog.Logger,
) *RegisterSaleUseCase {
	if defaultPlatform == "" {
		defaultPlatform = entity.DefaultPlatformSource
	}
	return &RegisterSaleUseCase{
		txRunner:        txRunner,
		salesRepo:       salesRepo,
		decomposer:      decomposer,
		defaultPlatform: defaultPlatform,
		log:             log,
		now:             time.Now,
	}
}

// plannedLine línea ya descompuesta y con ingreso repartido, lista para aplicar al ledger.
type plannedLine struct {
	source string
	allocs []bundle.Allocation
}

type plannedOrder struct {
	input dto.SalesOrderInput
	lines []plannedLine
}

// Preview descompone y reparte las líneas sin tocar inventario ni base de datos.
func (uc *RegisterSaleUseCase) Preview(lines ...dto.SalesLineInput) []dto.SalesPreviewLineResponse {
	out := make([]dto.SalesPreviewLineResponse, 0, len(lines))
	for _, l := range lines {
		allocs := bundle.Allocate(uc.decomposer.Decompose(l.Description), l.Quantity, l.UnitPrice)
		items := make([]dto.AllocationResponse, 0, len(allocs))
		for _, a := range allocs {
			items = append(items, dto.AllocationResponse{
				Name:      a.Name,
				Quantity:  a.Quantity,
				UnitPrice: a.UnitPrice,
				Revenue:   a.Revenue(),
			})
		}
		out = append(out, dto.SalesPreviewLineResponse{
			Description:      l.Description,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			LineRevenue:      decimal.NewFromInt(int64(l.Quantity)).Mul(l.UnitPrice),
			AllocatedRevenue: bundle.TotalRevenue(allocs),
			Items:            items,
		})
	}
	return out
}

// RegisterOrder registra una orden en su propia transacción. Si OrderNo ya existe la orden
// se omite completa (Skipped) sin tocar inventario.
func (uc *RegisterSaleUseCase) RegisterOrder(ctx context.Context, in dto.SalesOrderInput) (*dto.RegisterOrderResponse, error) {
	summary, orders, err := uc.apply(ctx, []dto.SalesOrderInput{in})
	if err != nil {
		return nil, err
	}
	resp := &dto.RegisterOrderResponse{
		Skipped:         summary.Skipped > 0,
		CreatedProducts: summary.CreatedProducts,
		Oversold:        summary.Oversold,
	}
	if len(orders) == 1 {
		resp.Order = toSalesOrderResponse(orders[0])
	}
	return resp, nil
}

// ImportOrders registra todas las órdenes de una planilla en una sola transacción:
// cualquier error deshace la planilla completa. Las órdenes ya existentes se omiten.
func (uc *RegisterSaleUseCase) ImportOrders(ctx context.Context, orders []dto.SalesOrderInput) (*dto.ImportSummaryResponse, error) {
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: planilla sin órdenes", domain.ErrInvalidInput)
	}
	summary, _, err := uc.apply(ctx, orders)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int("orders", summary.Orders).
		Int("created", summary.Created).
		Int("skipped", summary.Skipped).
		Int("items", summary.Items).
		Int("new_products", len(summary.CreatedProducts)).
		Msg("planilla de ventas importada")
	return summary, nil
}

// ListOrders lista órdenes con sus ítems.
func (uc *RegisterSaleUseCase) ListOrders(ctx context.Context, limit, offset int) (*dto.SalesOrderListResponse, error) {
	list, err := uc.salesRepo.ListOrders(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SalesOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toSalesOrderResponse(o))
	}
	return &dto.SalesOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// DeleteAllOrders elimina todas las órdenes y sus ítems. El inventario descontado no se restaura.
func (uc *RegisterSaleUseCase) DeleteAllOrders(ctx context.Context) (*dto.DeleteAllResponse, error) {
	n, err := uc.salesRepo.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	uc.log.Warn().Int64("deleted", n).Msg("órdenes de venta eliminadas")
	return &dto.DeleteAllResponse{Deleted: n}, nil
}

// apply planifica (fuera de la tx) y aplica las órdenes dentro de una única transacción.
func (uc *RegisterSaleUseCase) apply(ctx context.Context, inputs []dto.SalesOrderInput) (*dto.ImportSummaryResponse, []*entity.SalesOrder, error) {
	planned := make([]plannedOrder, 0, len(inputs))
	for i, in := range inputs {
		p, err := uc.plan(in)
		if err != nil {
			return nil, nil, fmt.Errorf("orden %d: %w", i+1, err)
		}
		planned = append(planned, p)
	}

	now := uc.now()
	summary := &dto.ImportSummaryResponse{Orders: len(planned)}
	var created []*entity.SalesOrder

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.PurchaseRepository,
		salesRepo repository.SalesRepository,
	) error {
		toApply := make([]plannedOrder, 0, len(planned))
		inSheet := make(map[string]bool, len(planned))
		for _, p := range planned {
			orderNo := p.input.OrderNo
			exists := inSheet[orderNo]
			if !exists {
				var err error
				if exists, err = salesRepo.ExistsOrderNo(ctx, orderNo); err != nil {
					return err
				}
			}
			inSheet[orderNo] = true
			if exists {
				summary.Skipped++
				summary.SkippedOrderNos = append(summary.SkippedOrderNos, orderNo)
				uc.log.Info().Str("order_no", orderNo).Msg("orden ya registrada, se omite")
				continue
			}
			toApply = append(toApply, p)
		}
		if len(toApply) == 0 {
			return nil
		}

		products, err := productRepo.ListByNamesForUpdate(ctx, distinctNames(toApply))
		if err != nil {
			return err
		}
		ledger := inventory.NewLedger(productStates(products)...)
		newID := func() string { return uuid.New().String() }

		orders := make([]*entity.SalesOrder, 0, len(toApply))
		for _, p := range toApply {
			order, err := uc.buildOrder(ledger, p, newID, now)
			if err != nil {
				return err
			}
			orders = append(orders, order)
		}

		// Los productos nuevos deben existir antes de insertar los ítems que los referencian.
		if err := persistLedger(ctx, productRepo, ledger, now); err != nil {
			return err
		}
		for _, o := range orders {
			if err := salesRepo.CreateOrder(ctx, o); err != nil {
				return err
			}
			summary.Items += len(o.Items)
		}

		summary.Created = len(orders)
		summary.CreatedProducts, summary.Oversold = describeChanges(ledger.Changes())
		created = orders
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if len(summary.Oversold) > 0 {
		ev := uc.log.Warn().Int("count", len(summary.Oversold))
		names := make([]string, 0, len(summary.Oversold))
		for _, o := range summary.Oversold {
			names = append(names, o.Name)
		}
		ev.Strs("products", names).Msg("productos con inventario negativo")
	}
	return summary, created, nil
}

// plan valida la orden y descompone sus líneas. Una descripción que produce un producto sin nombre
// se rechaza aquí, antes de abrir la transacción.
func (uc *RegisterSaleUseCase) plan(in dto.SalesOrderInput) (plannedOrder, error) {
	in.OrderNo = strings.TrimSpace(in.OrderNo)
	if in.OrderNo == "" {
		return plannedOrder{}, fmt.Errorf("%w: order_no vacío", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return plannedOrder{}, fmt.Errorf("%w: orden %s sin líneas", domain.ErrInvalidInput, in.OrderNo)
	}
	if in.ShippingFeePaidByCustomer.IsNegative() {
		return plannedOrder{}, fmt.Errorf("%w: orden %s con envío negativo", domain.ErrInvalidInput, in.OrderNo)
	}

	p := plannedOrder{input: in, lines: make([]plannedLine, 0, len(in.Lines))}
	for i, l := range in.Lines {
		desc := strings.TrimSpace(l.Description)
		if desc == "" {
			return plannedOrder{}, fmt.Errorf("%w: orden %s línea %d sin descripción", domain.ErrInvalidInput, in.OrderNo, i+1)
		}
		if l.Quantity <= 0 {
			return plannedOrder{}, fmt.Errorf("%w: orden %s línea %d con cantidad %d", domain.ErrInvalidInput, in.OrderNo, i+1, l.Quantity)
		}
		if l.UnitPrice.IsNegative() {
			return plannedOrder{}, fmt.Errorf("%w: orden %s línea %d con precio negativo", domain.ErrInvalidInput, in.OrderNo, i+1)
		}
		allocs := bundle.Allocate(uc.decomposer.Decompose(desc), l.Quantity, l.UnitPrice)
		for _, a := range allocs {
			if strings.TrimSpace(a.Name) == "" {
				return plannedOrder{}, fmt.Errorf("%w: orden %s línea %d (%q) produce un producto sin nombre",
					domain.ErrInvalidInput, in.OrderNo, i+1, desc)
			}
		}
		p.lines = append(p.lines, plannedLine{source: desc, allocs: allocs})
	}
	return p, nil
}

func (uc *RegisterSaleUseCase) buildOrder(ledger *inventory.Ledger, p plannedOrder, newID func() string, now time.Time) (*entity.SalesOrder, error) {
	in := p.input
	order := &entity.SalesOrder{
		ID:                        uuid.New().String(),
		OrderNo:                   in.OrderNo,
		PlatformSource:            strings.TrimSpace(in.PlatformSource),
		OrderDate:                 now,
		CustomerName:              strings.TrimSpace(in.CustomerName),
		TotalAmountReceived:       decimal.Zero,
		ShippingFeePaidByCustomer: in.ShippingFeePaidByCustomer,
		CreatedAt:                 now,
	}
	if order.PlatformSource == "" {
		order.PlatformSource = uc.defaultPlatform
	}
	if in.OrderDate != nil {
		order.OrderDate = *in.OrderDate
	}

	for i, line := range p.lines {
		order.TotalAmountReceived = order.TotalAmountReceived.Add(
			decimal.NewFromInt(int64(in.Lines[i].Quantity)).Mul(in.Lines[i].UnitPrice))
		for _, a := range line.allocs {
			st := ledger.EnsureProduct(a.Name, newID)
			sale, err := ledger.ApplySale(st.ProductID, a.Quantity, a.UnitPrice)
			if err != nil {
				return nil, err
			}
			order.Items = append(order.Items, entity.SalesItem{
				ID:            uuid.New().String(),
				OrderID:       order.ID,
				ProductID:     sale.ProductID,
				ProductName:   sale.Name,
				SourceLine:    line.source,
				Quantity:      sale.Quantity,
				UnitPriceSold: sale.UnitPrice,
				CostBasis:     sale.CostBasis,
			})
		}
	}
	return order, nil
}

// distinctNames nombres atómicos de todas las órdenes, ordenados para bloquear siempre en el mismo orden.
func distinctNames(orders []plannedOrder) []string {
	seen := make(map[string]bool)
	var names []string
	for _, o := range orders {
		for _, l := range o.lines {
			for _, a := range l.allocs {
				if !seen[a.Name] {
					seen[a.Name] = true
					names = append(names, a.Name)
				}
			}
		}
	}
	sort.Strings(names)
	return names
}

func describeChanges(changes []inventory.Change) (created []string, oversold []dto.OversoldProductResponse) {
	for _, ch := range changes {
		if ch.Created {
			created = append(created, ch.State.Name)
		}
		if ch.State.Oversold() {
			oversold = append(oversold, dto.OversoldProductResponse{
				ProductID: ch.State.ProductID,
				Name:      ch.State.Name,
				Quantity:  ch.State.Quantity,
			})
		}
	}
	return created, oversold
}

func toSalesOrderResponse(o *entity.SalesOrder) *dto.SalesOrderResponse {
	items := make([]dto.SalesItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.SalesItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			SourceLine:    it.SourceLine,
			Quantity:      it.Quantity,
			UnitPriceSold: it.UnitPriceSold,
			CostBasis:     it.CostBasis,
		})
	}
	return &dto.SalesOrderResponse{
		ID:                        o.ID,
		OrderNo:                   o.OrderNo,
		PlatformSource:            o.PlatformSource,
		OrderDate:                 o.OrderDate,
		CustomerName:              o.CustomerName,
		TotalAmountReceived:       o.TotalAmountReceived,
		ShippingFeePaidByCustomer: o.ShippingFeePaidByCustomer,
		Items:                     items,
		CreatedAt:                 o.CreatedAt,
	}
}
