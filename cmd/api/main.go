package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	"github.com/Sanket93s/gst-billing-system/docs"
	"github.com/Sanket93s/gst-billing-system/internal/application/analytics"
	"github.com/Sanket93s/gst-billing-system/internal/application/billing"
	"github.com/Sanket93s/gst-billing-system/internal/application/usecase"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
	"github.com/Sanket93s/gst-billing-system/internal/infrastructure/memory"
	"github.com/Sanket93s/gst-billing-system/internal/infrastructure/migration"
	infrapdf "github.com/Sanket93s/gst-billing-system/internal/infrastructure/pdf"
	"github.com/Sanket93s/gst-billing-system/internal/infrastructure/postgres"
	httpRouter "github.com/Sanket93s/gst-billing-system/internal/interfaces/http"
	"github.com/Sanket93s/gst-billing-system/migrations"
	"github.com/Sanket93s/gst-billing-system/pkg/config"
	"github.com/Sanket93s/gst-billing-system/pkg/logger"
)

type storage struct {
	tx        billing.BillingTxRunner
	customers repository.CustomerRepository
	products  repository.ProductRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("starting application")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open storage")
	}
	defer store.close()

	invoiceUC := billing.NewInvoiceUseCase(store.tx)
	customerUC := billing.NewCustomerUseCase(store.customers)
	productUC := usecase.NewProductUseCase(store.products)
	reportUC := analytics.NewSalesReportUseCase(store.tx)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(store.tx, pdfGenerator, billing.DocumentOptions{
		Title:    cfg.Document.Title,
		Currency: cfg.Document.Currency,
		Seller: billing.Seller{
			Name:    cfg.Document.SellerName,
			GSTIN:   cfg.Document.SellerGSTIN,
			Address: cfg.Document.SellerAddress,
			Phone:   cfg.Document.SellerPhone,
		},
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log))

	app.Get("/api/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerEnabled {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err != nil {
			log.Warn().Err(err).Str("file", cfg.HTTP.SwaggerFile).Msg("swagger UI disabled")
		} else {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "GST Billing API",
			}))
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName: cfg.App.Name,
		InvoiceUC:   invoiceUC,
		PDFUC:       pdfUC,
		CustomerUC:  customerUC,
		ProductUC:   productUC,
		ReportUC:    reportUC,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.DB.Driver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		s := memory.NewStore()
		return &storage{
			tx:        s,
			customers: s.Customers(),
			products:  s.Products(),
			close:     func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		m, err := migration.New(migrations.FS, cfg.DB.ConnectionString(), log)
		if err != nil {
			return nil, err
		}
		if err := m.Up(); err != nil {
			_ = m.Close()
			return nil, err
		}
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("close migrator")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		tx:        postgres.NewTxRunner(pool),
		customers: postgres.NewCustomerRepository(pool),
		products:  postgres.NewProductRepository(pool),
		close:     pool.Close,
	}, nil
}
