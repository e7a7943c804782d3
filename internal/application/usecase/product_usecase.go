package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/domain"
	"github.com/jhoicas/reventa-inventario/internal/domain/entity"
	"github.com/jhoicas/reventa-inventario/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Cantidad y costo promedio se manejan vía compras y ventas.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. El nombre es la clave de búsqueda de las ventas: se recorta y debe ser único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	}
	if in.Weight.IsNegative() || in.InitialAvgCost.IsNegative() || in.InitialQuantity < 0 {
		return nil, fmt.Errorf("%w: peso, cantidad y costo deben ser no negativos", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       strings.TrimSpace(in.SKU),
		Name:      name,
		Weight:    in.Weight,
		Quantity:  in.InitialQuantity,
		AvgCost:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.InitialQuantity > 0 {
		product.AvgCost = in.InitialAvgCost
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre, SKU o peso. No permite modificar cantidad ni costo.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
		}
		if name != product.Name {
			other, err := uc.repo.GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrDuplicate
			}
		}
		product.Name = name
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Weight != nil {
		if in.Weight.IsNegative() {
			return nil, fmt.Errorf("%w: peso negativo", domain.ErrInvalidInput)
		}
		product.Weight = *in.Weight
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Stats devuelve la cantidad de productos y el valor del inventario (Σ cantidad * costo promedio).
func (uc *ProductUseCase) Stats(ctx context.Context) (*dto.InventoryStatsResponse, error) {
	count, value, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.InventoryStatsResponse{TotalActiveProducts: count, TotalInventoryValue: value}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Weight:         p.Weight,
		Quantity:       p.Quantity,
		AvgCost:        p.AvgCost,
		InventoryValue: p.InventoryValue(),
		Oversold:       p.Quantity < 0,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
