package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Act962/erp-limas-sub000/internal/application/catalog"
	"github.com/Act962/erp-limas-sub000/internal/application/checkout"
	"github.com/Act962/erp-limas-sub000/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger     *inventory.LedgerUseCase
	Checkout   *checkout.CheckoutUseCase
	SettingsUC *catalog.SettingsUseCase
	JWTSecret  string
	Logger     zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(requestLogger(deps.Logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Libro de stock (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Post("/entries", inventoryHandler.RecordEntry)
	invGroup.Post("/outputs", inventoryHandler.RecordOutput)
	invGroup.Post("/movements", inventoryHandler.RecordMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Get("/products/:id/replay", inventoryHandler.ReplayStock)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Checkout y ventas (protegido)
	checkoutHandler := NewCheckoutHandler(deps.Checkout)
	checkoutGroup := protected.Group("/checkout")
	checkoutGroup.Post("/preview", checkoutHandler.PreviewTotals)
	checkoutGroup.Post("/commit", checkoutHandler.CommitSale)

	sales := protected.Group("/sales")
	sales.Get("/", checkoutHandler.ListSales)
	sales.Get("/:id", checkoutHandler.GetSale)
	sales.Post("/:id/complete", checkoutHandler.CompleteSale)
	sales.Post("/:id/cancel", checkoutHandler.CancelSale)

	// Configuración de la organización (protegido)
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings := protected.Group("/settings")
	settings.Get("/", settingsHandler.GetSettings)
	settings.Put("/", settingsHandler.UpdateSettings)
}

// requestLogger registra cada request con método, ruta, status y duración.
func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}
