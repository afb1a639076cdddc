package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/billing"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
)

// QuotationHandler maneja el ciclo de vida de cotizaciones (protegido).
type QuotationHandler struct {
	uc *billing.QuotationUseCase
}

// NewQuotationHandler construye el handler.
func NewQuotationHandler(uc *billing.QuotationUseCase) *QuotationHandler {
	return &QuotationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cotización en borrador
// @Tags         quotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuotationRequest  true  "client_id, items"
// @Success      201   {object}  dto.QuotationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quotations [post]
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	q, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToQuotationResponse(q))
}

// Update edita una cotización en borrador.
func (h *QuotationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	q, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToQuotationResponse(q))
}

// Send marca la cotización como enviada.
func (h *QuotationHandler) Send(c *fiber.Ctx) error {
	q, err := h.uc.Send(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToQuotationResponse(q))
}

// Approve marca la cotización como aprobada (una vencida pasa a expired).
func (h *QuotationHandler) Approve(c *fiber.Ctx) error {
	q, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToQuotationResponse(q))
}

// Reject marca la cotización como rechazada.
func (h *QuotationHandler) Reject(c *fiber.Ctx) error {
	q, err := h.uc.Reject(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToQuotationResponse(q))
}

// Convert godoc
// @Summary      Convertir cotización aprobada en factura borrador
// @Description  Única por cotización: la segunda conversión responde 409 ALREADY_CONVERTED.
// @Tags         quotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cotización"
// @Param        body  body  dto.ConvertQuotationRequest  false  "due_date"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/convert [post]
func (h *QuotationHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.Convert(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToInvoiceResponse(inv))
}

// GetByID obtiene una cotización con líneas.
func (h *QuotationHandler) GetByID(c *fiber.Ctx) error {
	q, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToQuotationResponse(q))
}

// List lista cotizaciones, opcionalmente por estado (?status=approved).
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	quotations, err := h.uc.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.QuotationResponse, 0, len(quotations))
	for _, q := range quotations {
		out = append(out, dto.ToQuotationResponse(q))
	}
	return c.JSON(out)
}

// Delete borra una cotización en borrador.
func (h *QuotationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
