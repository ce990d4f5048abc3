package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Act962/erp-limas-sub000/internal/application/catalog"
	"github.com/Act962/erp-limas-sub000/internal/application/checkout"
	"github.com/Act962/erp-limas-sub000/internal/application/inventory"
	"github.com/Act962/erp-limas-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/Act962/erp-limas-sub000/internal/interfaces/http"
	"github.com/Act962/erp-limas-sub000/pkg/config"
	"github.com/Act962/erp-limas-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(cfg.App.Env, cfg.App.LogLevel)
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, productRepo, movementRepo)
	checkoutUC := checkout.NewCheckoutUseCase(txRunner, ledgerUC, productRepo, saleRepo, settingsRepo)
	settingsUC := catalog.NewSettingsUseCase(settingsRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:     ledgerUC,
		Checkout:   checkoutUC,
		SettingsUC: settingsUC,
		JWTSecret:  cfg.JWT.Secret,
		Logger:     log.Zerolog(),
	})

	// Apagado ordenado: señal -> ShutdownWithTimeout -> cerrar pool (defer).
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("apagando servidor")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
	if err := app.Listen(cfg.HTTP.Addr()); err != nil {
		log.Fatal().Err(err).Msg("servidor HTTP")
	}
}
