package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
)

// PurchaseService registro y consulta de lotes de compra.
type PurchaseService interface {
	RegisterBatch(ctx context.Context, in dto.CreatePurchaseBatchRequest) (*dto.PurchaseBatchResponse, error)
	GetBatch(ctx context.Context, id string) (*dto.PurchaseBatchResponse, error)
	ListBatches(ctx context.Context, limit, offset int) (*dto.PurchaseBatchListResponse, error)
}

// PurchaseHandler maneja los lotes de compra.
type PurchaseHandler struct {
	uc PurchaseService
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar lote de compra
// @Description  Calcula tipo de cambio y tarifa de envío del lote, el costo puesto en destino
// @Description  de cada ítem y actualiza el costo promedio ponderado de los productos.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseBatchRequest  true  "Totales del lote e ítems"
// @Success      201   {object}  dto.PurchaseBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterBatch(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener lote con sus ítems
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.PurchaseBatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetBatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar lotes de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.PurchaseBatchListResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListBatches(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
