package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/reventa-inventario/internal/application/inventory"
	"github.com/jhoicas/reventa-inventario/internal/application/report"
	"github.com/jhoicas/reventa-inventario/internal/application/usecase"
	"github.com/jhoicas/reventa-inventario/internal/domain/bundle"
	infrapdf "github.com/jhoicas/reventa-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/reventa-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/reventa-inventario/internal/infrastructure/vocabulary"
	httpRouter "github.com/jhoicas/reventa-inventario/internal/interfaces/http"
	"github.com/jhoicas/reventa-inventario/pkg/config"
	"github.com/jhoicas/reventa-inventario/pkg/logger"
)

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
		Bool("auth", cfg.JWT.Enabled()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Named("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	vocab, err := vocabulary.Load(cfg.Bundle.VocabularyPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Bundle.VocabularyPath).Msg("vocabulario de paquetes")
	}
	decomposer, err := bundle.NewDecomposer(vocab)
	if err != nil {
		log.Fatal().Err(err).Msg("compilar descomponedor")
	}

	productRepo := postgres.NewProductRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	salesRepo := postgres.NewSalesRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	productUC := usecase.NewProductUseCase(productRepo)
	purchaseUC := inventory.NewRegisterPurchaseUseCase(txRunner, purchaseRepo, log.Named("purchases"))
	salesUC := inventory.NewRegisterSaleUseCase(txRunner, salesRepo, decomposer, cfg.Sales.DefaultPlatform, log.Named("sales"))
	reportUC := report.NewInventoryReportUseCase(productRepo, salesRepo, infrapdf.NewMarotoPDFGenerator())

	swaggerFile := "./docs/swagger.json"
	if _, err := os.Stat(swaggerFile); err != nil {
		swaggerFile = ""
	}

	app := httpRouter.NewApp(httpRouter.AppOptions{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		SwaggerFile: swaggerFile,
		Log:         log.Named("http"),
	}, httpRouter.RouterDeps{
		Products:  productUC,
		Purchases: purchaseUC,
		Sales:     salesUC,
		Stats:     productUC,
		Reports:   reportUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

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
