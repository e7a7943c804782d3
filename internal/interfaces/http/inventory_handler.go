package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
)

// InventoryStats fuente de los indicadores del inventario.
type InventoryStats interface {
	Stats(ctx context.Context) (*dto.InventoryStatsResponse, error)
}

// InventoryReporter genera el reporte PDF de valorización y margen.
type InventoryReporter interface {
	DownloadPDF(ctx context.Context) ([]byte, string, error)
}

// InventoryHandler indicadores y reporte del inventario.
type InventoryHandler struct {
	stats  InventoryStats
	report InventoryReporter
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stats InventoryStats, report InventoryReporter) *InventoryHandler {
	return &InventoryHandler{stats: stats, report: report}
}

// Stats godoc
// @Summary      Indicadores del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryStatsResponse
// @Router       /api/inventory/stats [get]
func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	out, err := h.stats.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Reporte PDF de valorización y margen
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) ReportPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.report.DownloadPDF(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
