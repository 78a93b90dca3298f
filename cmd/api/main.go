package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/afero"

	"github.com/optimizar-ia/facturador/internal/application/auth"
	"github.com/optimizar-ia/facturador/internal/application/billing"
	"github.com/optimizar-ia/facturador/internal/domain/invoice"
	"github.com/optimizar-ia/facturador/internal/infrastructure/memory"
	"github.com/optimizar-ia/facturador/internal/infrastructure/metrics"
	infrapdf "github.com/optimizar-ia/facturador/internal/infrastructure/pdf"
	"github.com/optimizar-ia/facturador/internal/infrastructure/postgres"
	"github.com/optimizar-ia/facturador/internal/infrastructure/storage"
	"github.com/optimizar-ia/facturador/internal/infrastructure/webhook"
	httpRouter "github.com/optimizar-ia/facturador/internal/interfaces/http"
	"github.com/optimizar-ia/facturador/pkg/config"
	"github.com/optimizar-ia/facturador/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	vatRate, err := cfg.Billing.VATRate()
	if err != nil {
		log.Fatal().Err(err).Msg("alícuota de IVA")
	}
	calc := invoice.NewCalculator(vatRate)

	// Sesiones: PostgreSQL si hay base configurada, memoria en caso contrario.
	ctx := context.Background()
	var store billing.SessionStore
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repo := postgres.NewSessionRepository(pool, calc)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("esquema de sesiones")
		}
		store = repo
		log.Info().Msg("sesiones en PostgreSQL")
	} else {
		store = memory.NewSessionStore()
		log.Warn().Msg("sin base de datos configurada: sesiones en memoria")
	}

	hook := webhook.NewClient(cfg.Webhook.URL, cfg.Webhook.Timeout())
	archive := storage.NewJSONArchive(afero.NewOsFs(), cfg.Storage.Dir, cfg.Storage.Prefix)
	prom := metrics.NewPrometheus()

	wizardUC := billing.NewWizardUseCase(billing.WizardDeps{
		Store:    store,
		Calc:     calc,
		Builder:  billing.NewPayloadBuilder(calc, cfg.Billing.Currency, cfg.Billing.Source),
		Archive:  archive,
		Webhook:  hook,
		PDF:      infrapdf.NewMarotoPreviewGenerator(),
		Metrics:  prom,
		Log:      log,
		Currency: cfg.Billing.Currency,
	})
	authUC := auth.NewAuthUseCase(
		auth.Operator{User: cfg.Operator.User, PasswordHash: cfg.Operator.PasswordHash},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	)
	if cfg.Operator.PasswordHash == "" {
		log.Warn().Msg("OPERATOR_PASSWORD_HASH vacío: el login queda deshabilitado")
	}

	// El webhook puede tardar hasta su timeout; el WriteTimeout lo acompaña.
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Webhook.Timeout() + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Facturador API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(prom.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		WizardUC:  wizardUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Str("webhook", hook.URL()).Msg("servidor escuchando")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
