package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/optimizar-ia/facturador/internal/application/auth"
	"github.com/optimizar-ia/facturador/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	WizardUC  *billing.WizardUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Catálogos (público)
	api.Get("/catalogs", Catalogs)

	// Asistente de facturación (requiere Bearer Token)
	sessions := api.Group("/sessions", AuthMiddleware(deps.JWTSecret))
	h := NewWizardHandler(deps.WizardUC)
	sessions.Post("/", h.Start)
	sessions.Get("/:id", h.Get)
	sessions.Put("/:id/facturacion", h.SetBilling)
	sessions.Put("/:id/emisor", h.SetIssuer)
	sessions.Put("/:id/receptor", h.SetRecipient)
	sessions.Post("/:id/items", h.AddItem)
	sessions.Put("/:id/items/:uid", h.UpdateItem)
	sessions.Delete("/:id/items/:uid", h.RemoveItem)
	sessions.Get("/:id/preview", h.Preview)
	sessions.Post("/:id/finalize", h.Finalize)
	sessions.Post("/:id/edit", h.BackToEdit)
	sessions.Post("/:id/confirm", h.Confirm)
	sessions.Post("/:id/submit", h.Submit)
	sessions.Get("/:id/pdf", h.PreviewPDF)
}
