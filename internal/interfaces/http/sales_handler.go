package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/internal/infrastructure/csvimport"
)

// SalesService registro de ventas con descomposición de paquetes.
type SalesService interface {
	Preview(lines ...dto.SalesLineInput) []dto.SalesPreviewLineResponse
	RegisterOrder(ctx context.Context, in dto.SalesOrderInput) (*dto.RegisterOrderResponse, error)
	ImportOrders(ctx context.Context, orders []dto.SalesOrderInput) (*dto.ImportSummaryResponse, error)
	ListOrders(ctx context.Context, limit, offset int) (*dto.SalesOrderListResponse, error)
	DeleteAllOrders(ctx context.Context) (*dto.DeleteAllResponse, error)
}

// SalesHandler maneja órdenes de venta e importación de planillas.
type SalesHandler struct {
	uc SalesService
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc SalesService) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Preview godoc
// @Summary      Previsualizar descomposición de líneas
// @Description  Descompone cada descripción de paquete y reparte el ingreso sin tocar el inventario.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SalesPreviewRequest  true  "Líneas"
// @Success      200   {array}   dto.SalesPreviewLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/preview [post]
func (h *SalesHandler) Preview(c *fiber.Ctx) error {
	var in dto.SalesPreviewRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	return c.JSON(h.uc.Preview(in.Lines...))
}

// Create godoc
// @Summary      Registrar orden de venta
// @Description  Idempotente por order_no: una orden ya registrada responde skipped=true.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SalesOrderInput  true  "Orden"
// @Success      201   {object}  dto.RegisterOrderResponse
// @Success      200   {object}  dto.RegisterOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	var in dto.SalesOrderInput
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterOrder(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	if out.Skipped {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Import godoc
// @Summary      Importar planilla de órdenes (CSV o xlsx)
// @Description  Toda la planilla se aplica en una transacción; las órdenes ya registradas se omiten.
// @Tags         sales
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file      formData  file    true   "CSV o xlsx exportado por la plataforma"
// @Param        encoding  formData  string  false  "auto, utf-8 o big5 (sólo CSV)"
// @Success      200       {object}  dto.ImportSummaryResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/sales/import [post]
func (h *SalesHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo file requerido"})
	}
	enc, err := csvimport.ParseEncoding(c.FormValue("encoding"))
	if err != nil {
		return respondError(c, err)
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	orders, err := csvimport.NewReader(enc).ReadFile(fh.Filename, f)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ImportOrders(c.UserContext(), orders)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes con sus ítems
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.SalesOrderListResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListOrders(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteAll godoc
// @Summary      Borrar todas las órdenes
// @Description  No revierte cantidades ni costos de los productos.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DeleteAllResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/sales/all [delete]
func (h *SalesHandler) DeleteAll(c *fiber.Ctx) error {
	out, err := h.uc.DeleteAllOrders(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
