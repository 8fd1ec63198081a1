// Package kaspiapi cliente REST tipado del backend del price-bot de Kaspi.
package kaspiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

var _ ports.KaspiBackend = (*Client)(nil)

// maxBody límite de lectura de respuestas; el bulk de ventas puede traer miles de pedidos.
const maxBody = 32 << 20

// Client implementa KaspiBackend sobre net/http.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient construye el cliente. baseURL sin barra final; prefix tipo "/api/v1".
func NewClient(baseURL, prefix, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/" + strings.Trim(prefix, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// APIError respuesta no 2xx del backend con el mensaje extraído del cuerpo.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kaspi api %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// PublicMessage mensaje del backend apto para el cliente, sin método ni ruta internos.
func (e *APIError) PublicMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// Unwrap permite errors.Is con los errores de dominio.
func (e *APIError) Unwrap() []error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return []error{domain.ErrUpstream, domain.ErrNotFound}
	case http.StatusUnauthorized, http.StatusForbidden:
		return []error{domain.ErrUpstream, domain.ErrUnauthorized}
	default:
		return []error{domain.ErrUpstream}
	}
}

// ── Formatos del backend ──────────────────────────────────────────────────────

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type storeEnvelope struct {
	Store *ports.RemoteStore `json:"store"`
	ports.RemoteStore
}

type storesEnvelope struct {
	Stores []ports.RemoteStore `json:"stores"`
}

type remoteProduct struct {
	ID          string      `json:"id"`
	KaspiID     string      `json:"kaspi_id"`
	SKU         string      `json:"sku"`
	Name        string      `json:"name"`
	Brand       string      `json:"brand"`
	Category    string      `json:"category"`
	ImageURL    string      `json:"image_url"`
	Price       json.Number `json:"price"`
	BotActive   bool        `json:"bot_active"`
	MinProfit   json.Number `json:"min_profit"`
	MaxProfit   json.Number `json:"max_profit"`
	PickupPoint string      `json:"pickup_point"`
	Available   *bool       `json:"available"`
}

type syncResponse struct {
	ProductsCount int             `json:"products_count"`
	Products      []remoteProduct `json:"products"`
}

type productsResponse struct {
	Products   []remoteProduct `json:"products"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Total      int             `json:"total"`
}

type bulkUpdateRequest struct {
	StoreID    string   `json:"store_id"`
	ProductIDs []string `json:"product_ids"`
	BotActive  *bool    `json:"bot_active,omitempty"`
	MinProfit  *string  `json:"min_profit,omitempty"`
	MaxProfit  *string  `json:"max_profit,omitempty"`
}

type toggleBotRequest struct {
	BotActive bool `json:"bot_active"`
}

type bulkSalesResponse struct {
	Orders []entity.Order `json:"orders"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// ConnectStore autentica la cuenta Kaspi del vendedor y devuelve la tienda creada.
func (c *Client) ConnectStore(ctx context.Context, kaspiEmail, kaspiPassword string) (*ports.RemoteStore, error) {
	var env storeEnvelope
	if err := c.do(ctx, http.MethodPost, "/kaspi/auth", nil, authRequest{Email: kaspiEmail, Password: kaspiPassword}, &env); err != nil {
		return nil, err
	}
	st := env.RemoteStore
	if env.Store != nil {
		st = *env.Store
	}
	if st.ID == "" {
		return nil, fmt.Errorf("kaspi api: respuesta de auth sin tienda: %w", domain.ErrUpstream)
	}
	return &st, nil
}

// ListStores tiendas del usuario según el backend.
func (c *Client) ListStores(ctx context.Context) ([]ports.RemoteStore, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/kaspi/stores", nil, nil, &raw); err != nil {
		return nil, err
	}
	// Acepta tanto un arreglo como {"stores": [...]}.
	var list []ports.RemoteStore
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var env storesEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("kaspi api: deserializar tiendas: %w", err)
	}
	return env.Stores, nil
}

// SyncStore fuerza la sincronización del catálogo.
func (c *Client) SyncStore(ctx context.Context, storeID string) (*ports.SyncResult, error) {
	var resp syncResponse
	if err := c.do(ctx, http.MethodPost, "/kaspi/stores/"+url.PathEscape(storeID)+"/sync", nil, struct{}{}, &resp); err != nil {
		return nil, err
	}
	out := &ports.SyncResult{ProductsCount: resp.ProductsCount}
	for _, rp := range resp.Products {
		out.Products = append(out.Products, rp.toEntity(storeID))
	}
	if out.ProductsCount == 0 {
		out.ProductsCount = len(out.Products)
	}
	return out, nil
}

// ListProducts página del catálogo remoto.
func (c *Client) ListProducts(ctx context.Context, storeID string, page, limit int, search string) (*ports.RemoteProductPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if search != "" {
		q.Set("search", search)
	}
	var resp productsResponse
	if err := c.do(ctx, http.MethodGet, "/kaspi/stores/"+url.PathEscape(storeID)+"/products", q, nil, &resp); err != nil {
		return nil, err
	}
	out := &ports.RemoteProductPage{Page: resp.Page, TotalPages: resp.TotalPages, Total: resp.Total}
	for _, rp := range resp.Products {
		out.Products = append(out.Products, rp.toEntity(storeID))
	}
	return out, nil
}

// BulkUpdateProducts aplica bot/ganancias a varios productos.
func (c *Client) BulkUpdateProducts(ctx context.Context, in ports.ProductBulkUpdate) error {
	body := bulkUpdateRequest{
		StoreID:    in.StoreID,
		ProductIDs: in.Patch.IDs,
		BotActive:  in.Patch.BotActive,
	}
	if in.Patch.MinProfit != nil {
		s := in.Patch.MinProfit.String()
		body.MinProfit = &s
	}
	if in.Patch.MaxProfit != nil {
		s := in.Patch.MaxProfit.String()
		body.MaxProfit = &s
	}
	return c.do(ctx, http.MethodPost, "/kaspi/products/bulk-update", nil, body, nil)
}

// ToggleBot activa o desactiva el price-bot de un producto.
func (c *Client) ToggleBot(ctx context.Context, productID string, active bool) error {
	return c.do(ctx, http.MethodPatch, "/kaspi/products/"+url.PathEscape(productID)+"/bot", nil, toggleBotRequest{BotActive: active}, nil)
}

// SalesPage endpoint paginado de ventas.
func (c *Client) SalesPage(ctx context.Context, storeID string, page, limit, days int) (*entity.SalesPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("days", strconv.Itoa(days))
	var resp entity.SalesPage
	if err := c.do(ctx, http.MethodGet, "/kaspi/stores/"+url.PathEscape(storeID)+"/sales", q, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Page == 0 {
		resp.Page = page
	}
	if !resp.HasMore && resp.TotalPages > resp.Page {
		resp.HasMore = true
	}
	return &resp, nil
}

// SalesBulk endpoint de carga masiva (un solo request).
func (c *Client) SalesBulk(ctx context.Context, storeID string, maxOrders, days int) ([]entity.Order, error) {
	q := url.Values{}
	q.Set("max_orders", strconv.Itoa(maxOrders))
	q.Set("days", strconv.Itoa(days))
	var resp bulkSalesResponse
	if err := c.do(ctx, http.MethodGet, "/kaspi/stores/"+url.PathEscape(storeID)+"/sales/bulk", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

// do ejecuta la petición. in nil = sin cuerpo; out nil = se descarta la respuesta.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("kaspi api: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("kaspi api: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("kaspi api %s %s: timeout o cancelación: %w", method, path, ctx.Err())
		}
		return fmt.Errorf("kaspi api %s %s: %w: %w", method, path, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("kaspi api: leer respuesta: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("kaspi api")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: extractMessage(resp.StatusCode, raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("kaspi api: deserializar respuesta de %s: %w", path, err)
	}
	return nil
}

// token prioriza el bearer del usuario sobre la clave de servicio.
func (c *Client) token(ctx context.Context) string {
	if t := ports.BackendToken(ctx); t != "" {
		return t
	}
	return c.apiKey
}

// extractMessage busca un mensaje legible en detail, message o error del cuerpo.
func extractMessage(status int, raw []byte) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, key := range []string{"detail", "message", "error"} {
			if v, ok := body[key]; ok {
				if msg := messageFrom(v); msg != "" {
					return msg
				}
			}
		}
	}
	text := strings.TrimSpace(string(raw))
	if text == "" || strings.HasPrefix(text, "<") {
		return http.StatusText(status)
	}
	if len(text) > 300 {
		text = text[:300]
	}
	return text
}

// messageFrom admite string, {"message": ...} o [{"msg": ...}] (errores de validación).
func messageFrom(v json.RawMessage) string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if json.Unmarshal(v, &obj) == nil {
		if obj.Message != "" {
			return obj.Message
		}
		return obj.Msg
	}
	var list []struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if json.Unmarshal(v, &list) == nil {
		parts := make([]string, 0, len(list))
		for _, it := range list {
			if it.Msg != "" {
				parts = append(parts, it.Msg)
			} else if it.Message != "" {
				parts = append(parts, it.Message)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// IsAPIError devuelve el APIError contenido en err, si lo hay.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
