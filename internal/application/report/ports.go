package report

import (
	"context"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
)

// InventoryReportGenerator puerto para renderizar el reporte de inventario. La implementación
// concreta (maroto) vive en infrastructure/pdf.
type InventoryReportGenerator interface {
	GenerateInventoryReport(ctx context.Context, report *dto.InventoryReport) ([]byte, error)
}
