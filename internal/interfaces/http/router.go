package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/kaspi-panel-api/internal/application/analytics"
	"github.com/jhoicas/kaspi-panel-api/internal/application/auth"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/application/usecase"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	StoreUC     *usecase.StoreUseCase
	ProductUC   *usecase.ProductUseCase
	SalesUC     *usecase.SalesUseCase
	PreorderUC  *usecase.PreorderUseCase
	PartnerUC   *usecase.PartnerUseCase
	WhatsAppUC  *usecase.WhatsAppUseCase
	NicheUC     *usecase.NicheUseCase
	DashboardUC *appanalytics.DashboardUseCase
	Feed        ports.DemperFeed
	JWTSecret   string
}

// Router registra las rutas de la API.
//
// Las rutas de lectura usan OptionalAuth: sin token se sirven las tiendas demo.
// Las de escritura exigen Bearer Token; /admin y /partner además exigen role.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	required := AuthMiddleware(deps.JWTSecret)
	optional := OptionalAuth(deps.JWTSecret)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/confirm", authHandler.ConfirmEmail)
	api.Get("/auth/me", required, authHandler.Me)

	// Sesión y tiendas
	storeHandler := NewStoreHandler(deps.StoreUC, deps.Feed)
	api.Get("/session", optional, storeHandler.Session)
	api.Put("/session/store", required, storeHandler.Select)

	api.Get("/stores", optional, storeHandler.List)
	api.Post("/stores", required, storeHandler.Connect)
	api.Post("/stores/refresh", required, storeHandler.Refresh)
	api.Post("/stores/sync", required, storeHandler.SyncAll)
	api.Get("/stores/:id", optional, storeHandler.Get)
	api.Delete("/stores/:id", required, storeHandler.Delete)
	api.Post("/stores/:id/sync", required, storeHandler.Sync)
	api.Get("/stores/:id/demper", optional, storeHandler.Demper)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/stores/:id/dashboard", optional, dashboardHandler.GetSummary)

	// Productos
	productHandler := NewProductHandler(deps.ProductUC)
	api.Get("/stores/:id/products", optional, productHandler.List)
	api.Post("/stores/:id/products/bulk", required, productHandler.BulkUpdate)
	api.Get("/stores/:id/feed.xml", optional, productHandler.PriceFeed)
	api.Get("/products/:id", optional, productHandler.GetByID)
	api.Patch("/products/:id/bot", required, productHandler.UpdateBot)

	// Ventas
	salesHandler := NewSalesHandler(deps.SalesUC)
	api.Get("/stores/:id/sales", optional, salesHandler.Fetch)
	api.Post("/stores/:id/sales/more", optional, salesHandler.LoadMore)
	api.Get("/stores/:id/sales/report.pdf", optional, salesHandler.ReportPDF)

	// Preórdenes
	preorderHandler := NewPreorderHandler(deps.PreorderUC)
	api.Get("/stores/:id/preorders", optional, preorderHandler.List)
	api.Post("/stores/:id/preorders", required, preorderHandler.Create)
	api.Patch("/preorders/:id/status", required, preorderHandler.UpdateStatus)

	// Nichos (simulado, público)
	nicheHandler := NewNicheHandler(deps.NicheUC)
	api.Get("/niches/search", nicheHandler.Search)

	// Referidos (público)
	partnerHandler := NewPartnerHandler(deps.PartnerUC)
	api.Post("/referrals/click", partnerHandler.TrackClick)

	// WhatsApp (protegido)
	waHandler := NewWhatsAppHandler(deps.WhatsAppUC)
	wa := api.Group("/whatsapp", required)
	wa.Post("/sessions", waHandler.CreateSession)
	wa.Get("/sessions/:id", waHandler.GetSession)
	wa.Post("/sessions/:id/connect", waHandler.Connect)
	wa.Post("/sessions/:id/disconnect", waHandler.Disconnect)
	wa.Get("/sessions/:id/contacts", waHandler.ListContacts)
	wa.Post("/sessions/:id/contacts", waHandler.UpsertContact)
	wa.Get("/sessions/:id/messages", waHandler.Messages)
	wa.Post("/sessions/:id/messages", waHandler.Send)
	wa.Post("/sessions/:id/messages/incoming", waHandler.Receive)

	// Socio (role partner)
	partner := api.Group("/partner", required, RequireRole(entity.RolePartner))
	partner.Get("/me", partnerHandler.Me)
	partner.Get("/stats", partnerHandler.Stats)
	partner.Get("/promo-codes", partnerHandler.ListPromoCodes)
	partner.Post("/promo-codes", partnerHandler.CreatePromoCode)
	partner.Delete("/promo-codes/:codeId", partnerHandler.DeactivatePromoCode)

	// Admin (role admin)
	admin := api.Group("/admin", required, RequireRole(entity.RoleAdmin))
	admin.Post("/partners", partnerHandler.CreatePartner)
	admin.Get("/partners", partnerHandler.ListPartners)
	admin.Get("/partners/:id/stats", partnerHandler.PartnerStats)
	admin.Post("/users/:id/confirm", authHandler.AdminConfirm)
}
