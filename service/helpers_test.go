package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/portal/adapters/store"
	"github.com/layer-3/portal/core"
	"github.com/layer-3/portal/ports"
	"github.com/stretchr/testify/require"
)

const testAddress = "ckb1qyqxyz0example"

func init() {
	gin.SetMode(gin.TestMode)
}

// backend is a fake REST API recording every call it receives
type backend struct {
	engine *gin.Engine
	server *httptest.Server

	mu    sync.Mutex
	calls []call
}

type call struct {
	Method        string
	Path          string
	Query         map[string]string
	Authorization string
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	b := &backend{engine: gin.New()}
	b.engine.Use(func(c *gin.Context) {
		query := map[string]string{}
		for k := range c.Request.URL.Query() {
			query[k] = c.Query(k)
		}

		b.mu.Lock()
		b.calls = append(b.calls, call{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Query:         query,
			Authorization: c.GetHeader("Authorization"),
		})
		b.mu.Unlock()

		c.Next()
	})

	b.server = httptest.NewServer(b.engine)
	t.Cleanup(b.server.Close)

	return b
}

// callsTo returns the calls made to path
func (b *backend) callsTo(path string) []call {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []call
	for _, c := range b.calls {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func envelope(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"code": 0, "msg": "ok", "data": data})
}

// recorder captures UI signals and telemetry
type recorder struct {
	mu            sync.Mutex
	showLogin     int
	notifications []core.Notification
	events        []core.TelemetryEvent
}

func (r *recorder) ShowLogin(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.showLogin++
}

func (r *recorder) Notify(ctx context.Context, n core.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder) LogEvent(ctx context.Context, event core.TelemetryEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// switchWallet is a wallet provider whose address can change mid-test
type switchWallet struct {
	mu      sync.Mutex
	address string
}

func (w *switchWallet) Address(ctx context.Context) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.address, w.address != ""
}

func (w *switchWallet) connect(address string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.address = address
}

type harness struct {
	backend  *backend
	wallet   *switchWallet
	recorder *recorder
	access   ports.Store
	refresh  ports.Store
	gateway  *Gateway
}

func newHarness(t *testing.T, address string) *harness {
	t.Helper()

	h := &harness{
		backend:  newBackend(t),
		recorder: &recorder{},
		wallet:   &switchWallet{address: address},
		access:   store.NewMemoryStore(),
		refresh:  store.NewMemoryStore(),
	}

	h.gateway = NewGateway(h.backend.server.URL, &http.Client{Timeout: 5 * time.Second}, AppContext{
		Wallet:    h.wallet,
		Access:    h.access,
		Refresh:   h.refresh,
		Signals:   h.recorder,
		Telemetry: h.recorder,
	}, nil)

	return h
}

func (h *harness) storeTokens(t *testing.T, address, access, refresh string) {
	t.Helper()

	ctx := context.Background()
	if access != "" {
		require.NoError(t, h.access.Set(ctx, core.AccessKey(address), access, 0))
	}
	if refresh != "" {
		require.NoError(t, h.refresh.Set(ctx, core.RefreshKey(address), refresh, 0))
	}
}

func (h *harness) storedTokens(t *testing.T, address string) (string, string) {
	t.Helper()

	ctx := context.Background()
	access, _ := h.access.Get(ctx, core.AccessKey(address))
	refresh, _ := h.refresh.Get(ctx, core.RefreshKey(address))
	return access, refresh
}

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   testAddress,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	return token
}
