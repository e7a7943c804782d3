package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/domain/repository"
)

// pageSize tamaño de página al recorrer todos los productos.
const pageSize = 500

// InventoryReportUseCase arma el reporte de valorización y margen por producto.
// El costo de ventas sale de los snapshots de costo base de cada SalesItem, no del promedio actual.
type InventoryReportUseCase struct {
	productRepo repository.ProductRepository
	salesRepo   repository.SalesRepository
	generator   InventoryReportGenerator
	now         func() time.Time
}

// NewInventoryReportUseCase construye el caso de uso.
func NewInventoryReportUseCase(
	productRepo repository.ProductRepository,
	salesRepo repository.SalesRepository,
	generator InventoryReportGenerator,
) *InventoryReportUseCase {
	return &InventoryReportUseCase{
		productRepo: productRepo,
		salesRepo:   salesRepo,
		generator:   generator,
		now:         time.Now,
	}
}

// Build calcula el reporte sin renderizarlo. Las filas quedan ordenadas por nombre.
func (uc *InventoryReportUseCase) Build(ctx context.Context) (*dto.InventoryReport, error) {
	summaries, err := uc.salesRepo.SummaryByProduct(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: resumen de ventas: %w", err)
	}
	sold := make(map[string]repository.ProductSalesSummary, len(summaries))
	for _, s := range summaries {
		sold[s.ProductID] = s
	}

	rep := &dto.InventoryReport{
		GeneratedAt:      uc.now(),
		TotalValue:       decimal.Zero,
		TotalRevenue:     decimal.Zero,
		TotalCostOfSales: decimal.Zero,
		TotalMargin:      decimal.Zero,
	}
	hundred := decimal.NewFromInt(100)

	for offset := 0; ; offset += pageSize {
		page, err := uc.productRepo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("reporte: listar productos: %w", err)
		}
		for _, p := range page {
			line := dto.InventoryReportLine{
				ProductID:      p.ID,
				SKU:            p.SKU,
				Name:           p.Name,
				Quantity:       p.Quantity,
				AvgCost:        p.AvgCost,
				InventoryValue: p.InventoryValue(),
				Revenue:        decimal.Zero,
				CostOfSales:    decimal.Zero,
				GrossMargin:    decimal.Zero,
				MarginPct:      decimal.Zero,
			}
			if s, ok := sold[p.ID]; ok {
				line.UnitsSold = s.UnitsSold
				line.Revenue = s.Revenue
				line.CostOfSales = s.CostOfSales
				line.GrossMargin = s.Revenue.Sub(s.CostOfSales)
				if s.Revenue.GreaterThan(decimal.Zero) {
					line.MarginPct = line.GrossMargin.Div(s.Revenue).Mul(hundred).Round(2)
				}
			}
			if p.Quantity < 0 {
				rep.OversoldCount++
			}
			rep.TotalValue = rep.TotalValue.Add(line.InventoryValue)
			rep.TotalRevenue = rep.TotalRevenue.Add(line.Revenue)
			rep.TotalCostOfSales = rep.TotalCostOfSales.Add(line.CostOfSales)
			rep.Lines = append(rep.Lines, line)
		}
		if len(page) < pageSize {
			break
		}
	}
	rep.TotalMargin = rep.TotalRevenue.Sub(rep.TotalCostOfSales)

	sort.SliceStable(rep.Lines, func(i, j int) bool { return rep.Lines[i].Name < rep.Lines[j].Name })
	return rep, nil
}

// DownloadPDF genera el PDF del reporte. Retorna (pdfBytes, filename, nil).
func (uc *InventoryReportUseCase) DownloadPDF(ctx context.Context) (pdfBytes []byte, filename string, err error) {
	rep, err := uc.Build(ctx)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInventoryReport(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("inventario_%s.pdf", rep.GeneratedAt.Format("20060102"))
	return pdfBytes, filename, nil
}
