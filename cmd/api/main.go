package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	appanalytics "github.com/jhoicas/kaspi-panel-api/internal/application/analytics"
	"github.com/jhoicas/kaspi-panel-api/internal/application/auth"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/application/usecase"
	infrafeed "github.com/jhoicas/kaspi-panel-api/internal/infrastructure/feed"
	"github.com/jhoicas/kaspi-panel-api/internal/infrastructure/kaspiapi"
	infrapdf "github.com/jhoicas/kaspi-panel-api/internal/infrastructure/pdf"
	"github.com/jhoicas/kaspi-panel-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kaspi-panel-api/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/kaspi-panel-api/internal/interfaces/http"
	"github.com/jhoicas/kaspi-panel-api/pkg/config"
	"github.com/jhoicas/kaspi-panel-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	level := "info"
	if cfg.App.Env == "development" {
		level = "debug"
	}
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("kaspi_backend", cfg.Kaspi.Enabled()).
		Bool("demo", cfg.App.DemoEnabled).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	storeRepo := postgres.NewStoreRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	cityRepo := postgres.NewCityRepository(pool)
	preorderRepo := postgres.NewPreorderRepository(pool)
	partnerRepo := postgres.NewPartnerRepository(pool)
	referralRepo := postgres.NewReferralRepository(pool)
	confirmationRepo := postgres.NewEmailConfirmationRepository(pool)
	whatsappRepo := postgres.NewWhatsAppRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Backend REST del price-bot. Sin KASPI_BASE_URL el puerto queda nil (modo simulado):
	// nunca asignar un *kaspiapi.Client nil a la interfaz.
	var backend ports.KaspiBackend
	if cfg.Kaspi.Enabled() {
		backend = kaspiapi.NewClient(cfg.Kaspi.BaseURL, cfg.Kaspi.APIPrefix, cfg.Kaspi.APIKey, cfg.Kaspi.Timeout, log.Component("kaspiapi"))
	}

	// El hub crea los canales bajo demanda; el notificador de WhatsApp se resuelve
	// al crear el canal porque depende del caso de uso de tiendas.
	var whatsappUC *usecase.WhatsAppUseCase
	var feed ports.DemperFeed
	var hub *realtime.Hub
	if cfg.Kaspi.WSBaseURL != "" {
		dialer := realtime.NewGorillaDialer(10 * time.Second)
		wsLog := log.Component("demper")
		hub = realtime.NewHub(func(storeID string) *realtime.Channel {
			header := http.Header{}
			if cfg.Kaspi.APIKey != "" {
				header.Set("Authorization", "Bearer "+cfg.Kaspi.APIKey)
			}
			return realtime.NewChannel(realtime.Options{
				StoreID:        storeID,
				URL:            realtime.StoreURL(cfg.Kaspi.WSBaseURL, storeID),
				Header:         header,
				PingInterval:   cfg.Demper.PingInterval,
				ReconnectDelay: cfg.Demper.ReconnectDelay,
				MaxReconnects:  cfg.Demper.MaxReconnects,
				UpdatesCap:     cfg.Demper.UpdatesCap,
				ErrorsCap:      cfg.Demper.ErrorsCap,
				Dialer:         dialer,
				Notifier:       realtime.MultiNotifier{realtime.NewLogNotifier(wsLog), whatsappUC},
				Logger:         wsLog,
			})
		}, wsLog)
		feed = hub
	}

	storeUC := usecase.NewStoreUseCase(usecase.StoreDeps{
		Stores:      storeRepo,
		Products:    productRepo,
		Profiles:    profileRepo,
		Backend:     backend,
		CatalogTx:   txRunner,
		Feed:        feed,
		DemoEnabled: cfg.App.DemoEnabled,
		Log:         log.Component("stores"),
	})
	whatsappUC = usecase.NewWhatsAppUseCase(whatsappRepo, storeUC, usecase.WhatsAppConfig{
		DeliveryDelay: cfg.WhatsApp.DeliveryDelay,
		NotifyDemper:  cfg.WhatsApp.NotifyDemper,
	}, log.Component("whatsapp"))

	// Los canales se reabren después de crear whatsappUC: el notificador lo captura.
	if hub != nil {
		selections, err := profileRepo.ListSelectedStores(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("no se pudieron restaurar las tiendas seleccionadas")
		} else {
			hub.Restore(selections)
		}
	}

	productUC := usecase.NewProductUseCase(productRepo, cityRepo, storeUC, backend, infrafeed.NewCatalogBuilder())
	salesUC := usecase.NewSalesUseCase(storeUC, backend, infrapdf.NewMarotoPDFGenerator(), usecase.SalesConfig{
		BulkThreshold: cfg.Sales.BulkThreshold,
		PageSize:      cfg.Sales.PageSize,
	}, log.Component("sales"))
	preorderUC := usecase.NewPreorderUseCase(preorderRepo, productRepo, storeUC)
	partnerUC := usecase.NewPartnerUseCase(partnerRepo, referralRepo, txRunner, cfg.Referral.AttributionDays, log.Component("partners"))
	dashboardUC := appanalytics.NewDashboardUseCase(storeUC, productUC, salesUC, feed, log.Component("dashboard"))
	authUC := auth.NewAuthUseCase(profileRepo, confirmationRepo, partnerUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.App.Env == "development", log.Component("auth"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // reporte PDF y ventas bulk
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, If-None-Match",
		ExposeHeaders: "ETag",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Swagger.Enabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Kaspi Panel API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		StoreUC:     storeUC,
		ProductUC:   productUC,
		SalesUC:     salesUC,
		PreorderUC:  preorderUC,
		PartnerUC:   partnerUC,
		WhatsAppUC:  whatsappUC,
		NicheUC:     usecase.NewNicheUseCase(),
		DashboardUC: dashboardUC,
		Feed:        feed,
		JWTSecret:   cfg.JWT.Secret,
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
	if hub != nil {
		hub.Close()
	}
	whatsappUC.Wait()

	log.Info().Msg("aplicación detenida")
}
