package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/kaspi-panel-api/internal/application/analytics"
	"github.com/jhoicas/kaspi-panel-api/internal/application/auth"
	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/usecase"
	"github.com/jhoicas/kaspi-panel-api/internal/infrastructure/feed"
	"github.com/jhoicas/kaspi-panel-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/kaspi-panel-api/internal/interfaces/http"
)

// buildDemoApp arma el router completo sin base de datos: solo las rutas
// que sirven tiendas demo o rechazan antes de llegar al repositorio.
func buildDemoApp(t *testing.T) *fiber.App {
	t.Helper()
	log := zerolog.Nop()

	storeUC := usecase.NewStoreUseCase(usecase.StoreDeps{DemoEnabled: true, Log: log})
	productUC := usecase.NewProductUseCase(nil, nil, storeUC, nil, feed.NewCatalogBuilder())
	salesUC := usecase.NewSalesUseCase(storeUC, nil, pdf.NewMarotoPDFGenerator(), usecase.SalesConfig{}, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(nil, nil, nil, auth.JWTConfig{Secret: testJWTSecret}, false, log),
		StoreUC:     storeUC,
		ProductUC:   productUC,
		SalesUC:     salesUC,
		PreorderUC:  usecase.NewPreorderUseCase(nil, nil, storeUC),
		PartnerUC:   usecase.NewPartnerUseCase(nil, nil, nil, 30, log),
		WhatsAppUC:  usecase.NewWhatsAppUseCase(nil, storeUC, usecase.WhatsAppConfig{}, log),
		NicheUC:     usecase.NewNicheUseCase(),
		DashboardUC: appanalytics.NewDashboardUseCase(storeUC, productUC, salesUC, nil, log),
		JWTSecret:   testJWTSecret,
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, path string, body interface{}, header map[string]string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ── Modo demo ─────────────────────────────────────────────────────────────────

func TestRouter_TiendasDemoSinToken(t *testing.T) {
	app := buildDemoApp(t)

	resp := send(t, app, http.MethodGet, "/api/stores", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.StoreListResponse
	decode(t, resp, &out)
	assert.True(t, out.Demo)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "demo-store-1", out.Items[0].ID)
}

func TestRouter_SesionDemo(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/session", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.SessionResponse
	decode(t, resp, &out)
	assert.True(t, out.Demo)
	assert.Equal(t, "demo-store-1", out.SelectedStoreID)
}

func TestRouter_ProductosDemoConBusqueda(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/stores/demo-store-1/products?search=tefal", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.ProductListResponse
	decode(t, resp, &out)
	assert.Equal(t, 2, out.Page.Total)
}

func TestRouter_ProductoDemoConCompetidores(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/products/demo-store-1-p01", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.ProductDetailResponse
	decode(t, resp, &out)
	assert.Equal(t, "demo-store-1-p01", out.ID)
	assert.Len(t, out.Competitors, 3)
}

func TestRouter_ProductoDemoInexistente(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/products/demo-store-1-p99", nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_TiendaAjenaSinTokenEs401(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/stores/store-x/products", nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_VentasDemo(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/stores/demo-store-2/sales?days=7&max_orders=50", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.SalesReport
	decode(t, resp, &out)
	assert.Equal(t, dto.SalesModeDemo, out.Mode)
	assert.Equal(t, 7, out.Days)
	assert.LessOrEqual(t, len(out.Orders), 50)
}

func TestRouter_ReportePDFDemo(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/stores/demo-store-1/sales/report.pdf?days=7", nil, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRouter_DashboardDemo(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/stores/demo-store-1/dashboard", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.StoreDashboardDTO
	decode(t, resp, &out)
	assert.Equal(t, "demo-store-1", out.Store.ID)
	assert.Equal(t, 12, out.ProductsTotal)
	assert.Empty(t, out.SalesError)
}

func TestRouter_DemperSinCanal(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/stores/demo-store-1/demper", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	decode(t, resp, &out)
	assert.Equal(t, "demo-store-1", out["store_id"])
	assert.Equal(t, false, out["connected"])
}

func TestRouter_PreordenesDemoVacias(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/stores/demo-store-1/preorders", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.PreorderListResponse
	decode(t, resp, &out)
	assert.Empty(t, out.Items)
}

func TestRouter_PreordenEstadoInvalido(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/stores/demo-store-1/preorders?status=shipped", nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ── Feed XML ──────────────────────────────────────────────────────────────────

func TestRouter_FeedXMLConETag(t *testing.T) {
	app := buildDemoApp(t)

	resp := send(t, app, http.MethodGet, "/api/stores/demo-store-1/feed.xml", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)
	assert.Contains(t, resp.Header.Get("Content-Type"), "xml")
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "<kaspi_catalog"))

	resp = send(t, app, http.MethodGet, "/api/stores/demo-store-1/feed.xml", nil, map[string]string{"If-None-Match": etag})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
}

// ── Nichos y referidos ────────────────────────────────────────────────────────

func TestRouter_NichosDeterministas(t *testing.T) {
	app := buildDemoApp(t)

	const path = "/api/niches/search?q=%D1%87%D0%B0%D0%B9%D0%BD%D0%B8%D0%BA" // чайник
	var a, b dto.NicheSearchResponse
	decode(t, send(t, app, http.MethodGet, path, nil, nil), &a)
	decode(t, send(t, app, http.MethodGet, path, nil, nil), &b)
	require.NotEmpty(t, a.Results)
	assert.Equal(t, a, b)
	assert.True(t, a.Mocked)
}

func TestRouter_NichoConsultaCorta(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/niches/search?q=a", nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_ClickSinCodigo(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodPost, "/api/referrals/click", dto.ReferralClickRequest{LandingPage: "/"}, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ── Rutas protegidas ──────────────────────────────────────────────────────────

func TestRouter_RutasProtegidasSinToken(t *testing.T) {
	app := buildDemoApp(t)
	cases := []struct{ method, path string }{
		{http.MethodPost, "/api/stores"},
		{http.MethodPost, "/api/stores/demo-store-1/sync"},
		{http.MethodPut, "/api/session/store"},
		{http.MethodPatch, "/api/products/demo-store-1-p01/bot"},
		{http.MethodPost, "/api/whatsapp/sessions"},
		{http.MethodGet, "/api/partner/me"},
		{http.MethodPost, "/api/admin/partners"},
		{http.MethodGet, "/api/auth/me"},
	}
	for _, tc := range cases {
		resp := send(t, app, tc.method, tc.path, nil, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, tc.method+" "+tc.path)
	}
}

func TestRouter_AdminExigeRole(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodGet, "/api/admin/partners", nil, map[string]string{"Authorization": tokenForRole(t, "user")})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_BorrarTiendaDemoNoPermitido(t *testing.T) {
	resp := send(t, buildDemoApp(t), http.MethodDelete, "/api/stores/demo-store-1", nil, map[string]string{"Authorization": tokenForRole(t, "user")})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "DEMO_MODE")
}
