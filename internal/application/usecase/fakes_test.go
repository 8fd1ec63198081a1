package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

// ── Tiendas ──────────────────────────────────────────────────────────────────

type memStores struct {
	mu     sync.Mutex
	byID   map[string]*entity.Store
	calls  int
	synced map[string]int
}

func newMemStores(stores ...*entity.Store) *memStores {
	m := &memStores{byID: map[string]*entity.Store{}, synced: map[string]int{}}
	for _, s := range stores {
		m.byID[s.ID] = s
	}
	return m
}

func (m *memStores) Create(_ context.Context, s *entity.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.byID[s.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memStores) GetByID(_ context.Context, id string) (*entity.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	s, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memStores) GetByMerchantID(_ context.Context, userID, merchantID string) (*entity.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, s := range m.byID {
		if s.UserID == userID && s.MerchantID == merchantID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStores) ListByUser(_ context.Context, userID string) ([]*entity.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	var out []*entity.Store
	for _, s := range m.byID {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStores) Update(_ context.Context, s *entity.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.byID[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memStores) MarkSynced(_ context.Context, id string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	s, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	s.ProductsCount = count
	s.LastSyncAt = &now
	m.synced[id] = count
	return nil
}

func (m *memStores) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memStores) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// ── Productos ────────────────────────────────────────────────────────────────

type memProducts struct {
	mu      sync.Mutex
	byID    map[string]*entity.Product
	comps   map[string][]*entity.Competitor
	patches []entity.ProductBulkPatch
}

func newMemProducts(products ...*entity.Product) *memProducts {
	m := &memProducts{byID: map[string]*entity.Product{}, comps: map[string][]*entity.Competitor{}}
	for _, p := range products {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memProducts) Upsert(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.StoreID == p.StoreID && e.KaspiID == p.KaspiID {
			p.ID = e.ID
		}
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) List(ctx context.Context, f entity.ProductFilter) ([]*entity.Product, int, error) {
	all, _ := m.ListAllByStore(ctx, f.StoreID)
	var out []*entity.Product
	for _, p := range all {
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.BotActive != nil && p.BotActive != *f.BotActive {
			continue
		}
		out = append(out, p)
	}
	total := len(out)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return out[f.Offset:end], total, nil
}

func (m *memProducts) ListAllByStore(_ context.Context, storeID string) ([]*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Product
	for _, p := range m.byID {
		if p.StoreID == storeID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) BulkPatch(_ context.Context, storeID string, patch entity.ProductBulkPatch) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patches = append(m.patches, patch)
	var n int64
	for _, id := range patch.IDs {
		p, ok := m.byID[id]
		if !ok || p.StoreID != storeID {
			continue
		}
		if patch.BotActive != nil {
			p.BotActive = *patch.BotActive
		}
		if patch.MinProfit != nil {
			p.MinProfit = *patch.MinProfit
		}
		if patch.MaxProfit != nil {
			p.MaxProfit = *patch.MaxProfit
		}
		n++
	}
	return n, nil
}

func (m *memProducts) CountByStore(_ context.Context, storeID string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total, bot int
	for _, p := range m.byID {
		if p.StoreID == storeID {
			total++
			if p.BotActive {
				bot++
			}
		}
	}
	return total, bot, nil
}

func (m *memProducts) ListCompetitors(_ context.Context, productID string) ([]*entity.Competitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.comps[productID], nil
}

type memCities struct{ list []*entity.City }

func (m memCities) ListActive(context.Context) ([]*entity.City, error) { return m.list, nil }

// ── Perfiles ─────────────────────────────────────────────────────────────────

type memProfiles struct {
	mu   sync.Mutex
	byID map[string]*entity.Profile
}

func newMemProfiles(ps ...*entity.Profile) *memProfiles {
	m := &memProfiles{byID: map[string]*entity.Profile{}}
	for _, p := range ps {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memProfiles) Create(_ context.Context, p *entity.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.Email == p.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProfiles) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) GetByEmail(_ context.Context, email string) (*entity.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memProfiles) SetSelectedStore(_ context.Context, userID, storeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	p.SelectedStoreID = storeID
	return nil
}

func (m *memProfiles) ListSelectedStores(context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for id, p := range m.byID {
		if p.SelectedStoreID != "" {
			out[id] = p.SelectedStoreID
		}
	}
	return out, nil
}

func (m *memProfiles) ConfirmEmail(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	now := time.Now()
	p.EmailConfirmedAt = &now
	return nil
}

func (m *memProfiles) SetRole(_ context.Context, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	p.Role = role
	return nil
}

// ── Backend Kaspi ────────────────────────────────────────────────────────────

type fakeBackend struct {
	mu sync.Mutex

	remote     *ports.RemoteStore
	stores     []ports.RemoteStore
	sync       *ports.SyncResult
	catalog    []entity.Product
	orders     []entity.Order // pedidos paginados por offset (page-1)*limit
	bulk       []entity.Order
	err        error
	pageCalls  []int // limit de cada llamada a SalesPage
	bulkCalls  int
	bulkUpdate []ports.ProductBulkUpdate
	toggles    map[string]bool
}

func (f *fakeBackend) ConnectStore(context.Context, string, string) (*ports.RemoteStore, error) {
	return f.remote, f.err
}

func (f *fakeBackend) ListStores(context.Context) ([]ports.RemoteStore, error) {
	return f.stores, f.err
}

func (f *fakeBackend) SyncStore(context.Context, string) (*ports.SyncResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sync, nil
}

func (f *fakeBackend) ListProducts(_ context.Context, _ string, page, limit int, _ string) (*ports.RemoteProductPage, error) {
	start := (page - 1) * limit
	if start >= len(f.catalog) {
		return &ports.RemoteProductPage{Page: page}, nil
	}
	end := start + limit
	if end > len(f.catalog) {
		end = len(f.catalog)
	}
	totalPages := (len(f.catalog) + limit - 1) / limit
	return &ports.RemoteProductPage{Products: f.catalog[start:end], Page: page, TotalPages: totalPages, Total: len(f.catalog)}, nil
}

func (f *fakeBackend) BulkUpdateProducts(_ context.Context, in ports.ProductBulkUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkUpdate = append(f.bulkUpdate, in)
	return f.err
}

func (f *fakeBackend) ToggleBot(_ context.Context, productID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toggles == nil {
		f.toggles = map[string]bool{}
	}
	f.toggles[productID] = active
	return f.err
}

func (f *fakeBackend) SalesPage(_ context.Context, _ string, page, limit, _ int) (*entity.SalesPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls = append(f.pageCalls, limit)
	if f.err != nil {
		return nil, f.err
	}
	start := (page - 1) * limit
	if start >= len(f.orders) {
		return &entity.SalesPage{Page: page}, nil
	}
	end := start + limit
	if end > len(f.orders) {
		end = len(f.orders)
	}
	return &entity.SalesPage{Orders: f.orders[start:end], Page: page, HasMore: end < len(f.orders)}, nil
}

func (f *fakeBackend) SalesBulk(context.Context, string, int, int) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls++
	return f.bulk, f.err
}

// ── Feed realtime, transacciones y reportes ──────────────────────────────────

type fakeFeed struct {
	mu       sync.Mutex
	selected map[string]string
	calls    []string
	snaps    map[string]entity.DemperSnapshot
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{selected: map[string]string{}, snaps: map[string]entity.DemperSnapshot{}}
}

func (f *fakeFeed) Select(userID, storeID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userID+"->"+storeID)
	if storeID == "" {
		delete(f.selected, userID)
		return
	}
	f.selected[userID] = storeID
}

func (f *fakeFeed) Selected(userID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected[userID]
}

func (f *fakeFeed) Snapshot(storeID string) (entity.DemperSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snaps[storeID]
	return s, ok
}

type fakeCatalogTx struct {
	stores   repository.StoreRepository
	products repository.ProductRepository
	runs     int
}

func (f *fakeCatalogTx) RunCatalog(_ context.Context, fn func(repository.StoreRepository, repository.ProductRepository) error) error {
	f.runs++
	return fn(f.stores, f.products)
}

type fakePartnerTx struct {
	profiles repository.ProfileRepository
	partners repository.PartnerRepository
}

func (f *fakePartnerTx) RunPartner(_ context.Context, fn func(repository.ProfileRepository, repository.PartnerRepository) error) error {
	return fn(f.profiles, f.partners)
}

type fakeReport struct {
	storeName string
	report    *dto.SalesReport
}

func (f *fakeReport) GenerateSalesReport(_ context.Context, storeName string, r *dto.SalesReport) ([]byte, error) {
	f.storeName, f.report = storeName, r
	return []byte("%PDF-1.4"), nil
}

type fakeFeedBuilder struct{ in dto.PriceFeedInput }

func (f *fakeFeedBuilder) Build(in dto.PriceFeedInput) ([]byte, string, error) {
	f.in = in
	return []byte("<kaspi_catalog/>"), `"etag"`, nil
}

// ── Preórdenes ───────────────────────────────────────────────────────────────

type memPreorders struct {
	mu   sync.Mutex
	byID map[string]*entity.Preorder
}

func newMemPreorders() *memPreorders { return &memPreorders{byID: map[string]*entity.Preorder{}} }

func (m *memPreorders) Create(_ context.Context, p *entity.Preorder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPreorders) GetByID(_ context.Context, id string) (*entity.Preorder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPreorders) ListByStore(_ context.Context, storeID, status string, limit, offset int) ([]*entity.Preorder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Preorder
	for _, p := range m.byID {
		if p.StoreID == storeID && (status == "" || p.Status == status) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (m *memPreorders) UpdateStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

// ── Socios y referidos ───────────────────────────────────────────────────────

type memPartners struct {
	mu       sync.Mutex
	partners map[string]*entity.Partner
	promos   map[string]*entity.PromoCode // por código
}

func newMemPartners() *memPartners {
	return &memPartners{partners: map[string]*entity.Partner{}, promos: map[string]*entity.PromoCode{}}
}

func (m *memPartners) Create(_ context.Context, p *entity.Partner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.partners[p.ID] = &cp
	return nil
}

func (m *memPartners) GetByID(_ context.Context, id string) (*entity.Partner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.partners[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPartners) GetByUserID(_ context.Context, userID string) (*entity.Partner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.partners {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPartners) List(_ context.Context, limit, offset int) ([]*entity.Partner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Partner
	for _, p := range m.partners {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPartners) CreatePromoCode(_ context.Context, c *entity.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promos[c.Code]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	m.promos[c.Code] = &cp
	return nil
}

func (m *memPartners) GetPromoCode(_ context.Context, code string) (*entity.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.promos[strings.ToUpper(code)]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memPartners) ListPromoCodes(_ context.Context, partnerID string) ([]*entity.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.PromoCode
	for _, c := range m.promos {
		if c.PartnerID == partnerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPartners) SetPromoCodeActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.promos {
		if c.ID == id {
			c.IsActive = active
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memPartners) IncrementPromoUsage(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.promos[code]; ok {
		c.UsageCount++
	}
	return nil
}

type memReferrals struct {
	mu          sync.Mutex
	clicks      []*entity.ReferralClick
	conversions []*entity.ReferralConversion
}

func (m *memReferrals) CreateClick(_ context.Context, c *entity.ReferralClick) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = append(m.clicks, c)
	return nil
}

func (m *memReferrals) LatestClickByIPHash(_ context.Context, ipHash string, since time.Time) (*entity.ReferralClick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *entity.ReferralClick
	for _, c := range m.clicks {
		if c.IPHash == ipHash && !c.CreatedAt.Before(since) && (latest == nil || c.CreatedAt.After(latest.CreatedAt)) {
			latest = c
		}
	}
	return latest, nil
}

func (m *memReferrals) CreateConversion(_ context.Context, c *entity.ReferralConversion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.conversions {
		if e.UserID == c.UserID {
			return domain.ErrDuplicate
		}
	}
	m.conversions = append(m.conversions, c)
	return nil
}

func (m *memReferrals) Stats(_ context.Context, partnerID string, since time.Time) (*entity.PartnerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &entity.PartnerStats{PartnerID: partnerID}
	for _, c := range m.clicks {
		if c.PartnerID == partnerID && !c.CreatedAt.Before(since) {
			st.Clicks++
		}
	}
	for _, c := range m.conversions {
		if c.PartnerID == partnerID && !c.CreatedAt.Before(since) {
			st.Conversions++
		}
	}
	return st, nil
}

// ── WhatsApp ─────────────────────────────────────────────────────────────────

type memWhatsApp struct {
	mu       sync.Mutex
	sessions map[string]*entity.WhatsAppSession
	contacts map[string]*entity.WhatsAppContact // session|phone
	messages []*entity.WhatsAppMessage
}

func newMemWhatsApp() *memWhatsApp {
	return &memWhatsApp{sessions: map[string]*entity.WhatsAppSession{}, contacts: map[string]*entity.WhatsAppContact{}}
}

func (m *memWhatsApp) CreateSession(_ context.Context, s *entity.WhatsAppSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memWhatsApp) GetSession(_ context.Context, id string) (*entity.WhatsAppSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memWhatsApp) GetSessionByStore(_ context.Context, storeID string) (*entity.WhatsAppSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.StoreID == storeID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memWhatsApp) UpdateSession(_ context.Context, s *entity.WhatsAppSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memWhatsApp) UpsertContact(_ context.Context, c *entity.WhatsAppContact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := c.SessionID + "|" + c.Phone
	if e, ok := m.contacts[key]; ok {
		if c.Name != "" {
			e.Name = c.Name
		}
		c.ID, c.Name = e.ID, e.Name
		return nil
	}
	cp := *c
	m.contacts[key] = &cp
	return nil
}

func (m *memWhatsApp) ListContacts(_ context.Context, sessionID string) ([]*entity.WhatsAppContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.WhatsAppContact
	for _, c := range m.contacts {
		if c.SessionID == sessionID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phone < out[j].Phone })
	return out, nil
}

func (m *memWhatsApp) CreateMessage(_ context.Context, msg *entity.WhatsAppMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *msg
	m.messages = append(m.messages, &cp)
	return nil
}

func (m *memWhatsApp) UpdateMessageStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id {
			msg.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memWhatsApp) ListMessages(_ context.Context, sessionID, phone string, limit int) ([]*entity.WhatsAppMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.WhatsAppMessage
	for _, msg := range m.messages {
		if msg.SessionID == sessionID && msg.Phone == phone {
			cp := *msg
			out = append(out, &cp)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *memWhatsApp) statusOf(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id {
			return msg.Status
		}
	}
	return ""
}

// ── Acceso a tiendas ─────────────────────────────────────────────────────────

// ownedStore tienda real del usuario u1 usada por varios tests.
func ownedStore() *entity.Store {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &entity.Store{
		ID: "store-1", UserID: "u1", Name: "Mi Tienda", MerchantID: "M100",
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
}
