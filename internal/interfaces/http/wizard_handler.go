package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/optimizar-ia/facturador/internal/application/billing"
	"github.com/optimizar-ia/facturador/internal/application/dto"
	"github.com/optimizar-ia/facturador/internal/domain"
	"github.com/optimizar-ia/facturador/internal/domain/invoice"
)

// WizardHandler expone el asistente de facturación (protegido).
type WizardHandler struct {
	uc *billing.WizardUseCase
}

// NewWizardHandler construye el handler.
func NewWizardHandler(uc *billing.WizardUseCase) *WizardHandler {
	return &WizardHandler{uc: uc}
}

// Start godoc
// @Summary      Iniciar un borrador
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/sessions [post]
func (h *WizardHandler) Start(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Start(c.UserContext(), operator)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Estado del borrador
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/sessions/{id} [get]
func (h *WizardHandler) Get(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.UserContext(), operator, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetBilling actualiza tipo de factura, concepto y fechas.
// PUT /api/sessions/:id/facturacion
func (h *WizardHandler) SetBilling(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	var in dto.BillingRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetBilling(c.UserContext(), operator, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetIssuer actualiza el emisor.
// PUT /api/sessions/:id/emisor
func (h *WizardHandler) SetIssuer(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	var in dto.IssuerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetIssuer(c.UserContext(), operator, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetRecipient actualiza el receptor.
// PUT /api/sessions/:id/receptor
func (h *WizardHandler) SetRecipient(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	var in dto.RecipientRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetRecipient(c.UserContext(), operator, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar ítem vacío
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "ID de sesión"
// @Success      201  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/sessions/{id}/items [post]
func (h *WizardHandler) AddItem(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	out, err := h.uc.AddItem(c.UserContext(), operator, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateItem reemplaza los campos de un ítem.
// PUT /api/sessions/:id/items/:uid
func (h *WizardHandler) UpdateItem(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateItem(c.UserContext(), operator, c.Params("id"), c.Params("uid"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveItem elimina un ítem; el último no se puede quitar.
// DELETE /api/sessions/:id/items/:uid
func (h *WizardHandler) RemoveItem(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	out, err := h.uc.RemoveItem(c.UserContext(), operator, c.Params("id"), c.Params("uid"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Preview godoc
// @Summary      Totales en vivo
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.PreviewResponse
// @Security     BearerAuth
// @Router       /api/sessions/{id}/preview [get]
func (h *WizardHandler) Preview(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Preview(c.UserContext(), operator, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Finalize godoc
// @Summary      Validar y pasar a revisión
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Security     BearerAuth
// @Router       /api/sessions/{id}/finalize [post]
func (h *WizardHandler) Finalize(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Finalize(c.UserContext(), operator, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BackToEdit vuelve a edición.
// POST /api/sessions/:id/edit
func (h *WizardHandler) BackToEdit(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	out, err := h.uc.BackToEdit(c.UserContext(), operator, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm confirma el payload en revisión.
// POST /api/sessions/:id/confirm
func (h *WizardHandler) Confirm(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Confirm(c.UserContext(), operator, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Guardar copia local y enviar al webhook
// @Description  Responde 200 aunque el webhook falle; el resultado viaja en el cuerpo.
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.SubmitResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/sessions/{id}/submit [post]
func (h *WizardHandler) Submit(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Submit(c.UserContext(), operator, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PreviewPDF godoc
// @Summary      Borrador en PDF
// @Tags         sessions
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {file}  binary
// @Security     BearerAuth
// @Router       /api/sessions/{id}/pdf [get]
func (h *WizardHandler) PreviewPDF(c *fiber.Ctx) error {
	operator := GetOperator(c)
	if operator == "" {
		return unauthorized(c)
	}
	pdf, name, err := h.uc.PreviewPDF(c.UserContext(), operator, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name))
	return c.Send(pdf)
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var verrs invoice.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Code:    "VALIDATION",
			Message: "corregí los errores antes de continuar",
			Errors:  verrs,
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la sesión pertenece a otro operador"})
	case errors.Is(err, domain.ErrInvalidStep):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STEP", Message: err.Error()})
	case errors.Is(err, domain.ErrLastItem):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LAST_ITEM", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
