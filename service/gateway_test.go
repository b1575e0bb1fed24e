package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/portal/core"
	"github.com/stretchr/testify/require"
)

func TestRequest_UnwrapsEnvelope(t *testing.T) {
	h := newHarness(t, testAddress)
	h.backend.engine.GET("/swap/config", func(c *gin.Context) {
		envelope(c, http.StatusOK, gin.H{"foo": 1})
	})

	resp := h.gateway.Request(context.Background(), Request{Method: http.MethodGet, Path: "/swap/config"})
	require.NotNil(t, resp)
	require.Equal(t, http.StatusOK, resp.Status)
	require.JSONEq(t, `{"foo":1}`, string(resp.Data))

	calls := h.backend.callsTo("/swap/config")
	require.Len(t, calls, 1)
	require.Empty(t, calls[0].Authorization)
}

func TestRequest_EncodesQueryAndBody(t *testing.T) {
	h := newHarness(t, testAddress)

	var (
		mu          sync.Mutex
		body        map[string]any
		contentType string
		requestID   string
	)
	h.backend.engine.POST("/swap/submitPendingSwap", func(c *gin.Context) {
		mu.Lock()
		_ = c.ShouldBindJSON(&body)
		contentType = c.ContentType()
		requestID = c.GetHeader("X-Request-ID")
		mu.Unlock()
		envelope(c, http.StatusCreated, nil)
	})
	h.backend.engine.GET("/cell/txList", func(c *gin.Context) {
		envelope(c, http.StatusOK, []any{})
	})

	resp := h.gateway.Request(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/swap/submitPendingSwap",
		Body:   map[string]any{"txhash": "0xabc", "nonce": 3},
	})
	require.NotNil(t, resp)
	require.Equal(t, http.StatusCreated, resp.Status)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "0xabc", body["txhash"])
	require.Equal(t, "application/json", contentType)
	require.NotEmpty(t, requestID)

	resp = h.gateway.Request(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/cell/txList",
		Query:  map[string]string{"lockHash": "0x01", "direction": "in out"},
	})
	require.NotNil(t, resp)

	calls := h.backend.callsTo("/cell/txList")
	require.Len(t, calls, 1)
	require.Equal(t, map[string]string{"lockHash": "0x01", "direction": "in out"}, calls[0].Query)
}

func TestRequest_AuthWithoutWalletIsSilent(t *testing.T) {
	h := newHarness(t, "")
	h.backend.engine.GET("/user/contacts", func(c *gin.Context) {
		envelope(c, http.StatusOK, []any{})
	})

	resp := h.gateway.Request(context.Background(), Request{Method: http.MethodGet, Path: "/user/contacts", Auth: true})
	require.Nil(t, resp)
	require.Empty(t, h.backend.callsTo("/user/contacts"))
	require.Empty(t, h.recorder.events)
	require.Empty(t, h.recorder.notifications)
	require.Zero(t, h.recorder.showLogin)
}

func TestRequest_AttachesValidToken(t *testing.T) {
	h := newHarness(t, testAddress)
	token := mintToken(t, time.Now().Add(time.Hour))
	h.storeTokens(t, testAddress, token, "refresh-1")
	h.backend.engine.GET("/user/contacts", func(c *gin.Context) {
		envelope(c, http.StatusOK, []any{})
	})

	resp := h.gateway.Request(context.Background(), Request{Method: http.MethodGet, Path: "/user/contacts", Auth: true})
	require.NotNil(t, resp)

	calls := h.backend.callsTo("/user/contacts")
	require.Len(t, calls, 1)
	require.Equal(t, "Bearer "+token, calls[0].Authorization)
	require.Empty(t, h.backend.callsTo(RefreshTokenPath))
}

func TestRequest_RefreshesExpiredTokenOnce(t *testing.T) {
	h := newHarness(t, testAddress)
	expired := mintToken(t, time.Now().Add(-10*time.Second))
	fresh := mintToken(t, time.Now().Add(time.Hour))
	h.storeTokens(t, testAddress, expired, "refresh-1")

	h.backend.engine.GET(RefreshTokenPath, func(c *gin.Context) {
		envelope(c, http.StatusOK, core.Credential{AccessToken: fresh, RefreshToken: "refresh-2"})
	})
	h.backend.engine.GET("/cell/txList", func(c *gin.Context) {
		envelope(c, http.StatusOK, []any{})
	})

	resp := h.gateway.Request(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/cell/txList",
		Query:  map[string]string{"lockHash": "0x01"},
		Auth:   true,
	})
	require.NotNil(t, resp)

	refreshCalls := h.backend.callsTo(RefreshTokenPath)
	require.Len(t, refreshCalls, 1)
	require.Equal(t, "refresh-1", refreshCalls[0].Query["refreshToken"])
	require.Equal(t, "Bearer "+expired, refreshCalls[0].Authorization)

	calls := h.backend.callsTo("/cell/txList")
	require.Len(t, calls, 1)
	require.Equal(t, "Bearer "+fresh, calls[0].Authorization)

	access, refresh := h.storedTokens(t, testAddress)
	require.Equal(t, fresh, access)
	require.Equal(t, "refresh-2", refresh)
}

func TestRequest_FailedRefreshProceedsAnonymously(t *testing.T) {
	h := newHarness(t, testAddress)
	expired := mintToken(t, time.Now().Add(-10*time.Second))
	h.storeTokens(t, testAddress, expired, "refresh-1")

	h.backend.engine.GET(RefreshTokenPath, func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "msg": "down"})
	})
	h.backend.engine.GET("/user/contacts", func(c *gin.Context) {
		envelope(c, http.StatusOK, []any{})
	})

	resp := h.gateway.Request(context.Background(), Request{Method: http.MethodGet, Path: "/user/contacts", Auth: true})
	require.NotNil(t, resp)

	calls := h.backend.callsTo("/user/contacts")
	require.Len(t, calls, 1)
	require.Empty(t, calls[0].Authorization)

	access, refresh := h.storedTokens(t, testAddress)
	require.Equal(t, expired, access)
	require.Equal(t, "refresh-1", refresh)

	require.Len(t, h.recorder.events, 1)
	require.Equal(t, "[API GET] - refreshToken", h.recorder.events[0].Action)
	require.NotContains(t, h.recorder.events[0].Label, "refresh-1")
}

func TestRequest_RejectedRefreshShowsLoginOnce(t *testing.T) {
	h := newHarness(t, testAddress)
	h.storeTokens(t, testAddress, mintToken(t, time.Now().Add(-time.Minute)), "refresh-1")

	h.backend.engine.GET(RefreshTokenPath, func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "refresh token revoked"})
	})
	h.backend.engine.GET("/user/contacts", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "unauthorized"})
	})

	resp := h.gateway.Request(context.Background(), Request{Method: http.MethodGet, Path: "/user/contacts", Auth: true})
	require.Nil(t, resp)
	require.Equal(t, 1, h.recorder.showLogin)
	require.Empty(t, h.recorder.notifications)
	require.Len(t, h.recorder.events, 2)
	require.Equal(t, "[API GET] - refreshToken", h.recorder.events[0].Action)
	require.Equal(t, "[API GET] - contacts", h.recorder.events[1].Action)
}

func TestRequest_RejectedRefreshAloneShowsNoLogin(t *testing.T) {
	h := newHarness(t, testAddress)
	h.storeTokens(t, testAddress, mintToken(t, time.Now().Add(-time.Minute)), "refresh-1")

	h.backend.engine.GET(RefreshTokenPath, func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "refresh token revoked"})
	})
	h.backend.engine.GET("/user/contacts", func(c *gin.Context) {
		envelope(c, http.StatusOK, []any{})
	})

	resp := h.gateway.Request(context.Background(), Request{Method: http.MethodGet, Path: "/user/contacts", Auth: true})
	require.NotNil(t, resp)
	require.Zero(t, h.recorder.showLogin)
}

func TestResolveToken(t *testing.T) {
	ctx := context.Background()

	t.Run("no access token", func(t *testing.T) {
		h := newHarness(t, testAddress)

		token, ok := h.gateway.ResolveToken(ctx, testAddress, false)
		require.False(t, ok)
		require.Empty(t, token)
		require.Empty(t, h.backend.callsTo(RefreshTokenPath))
	})

	t.Run("valid token returned unchanged", func(t *testing.T) {
		h := newHarness(t, testAddress)
		valid := mintToken(t, time.Now().Add(time.Minute))
		h.storeTokens(t, testAddress, valid, "refresh-1")

		token, ok := h.gateway.ResolveToken(ctx, testAddress, false)
		require.True(t, ok)
		require.Equal(t, valid, token)
		require.Empty(t, h.backend.callsTo(RefreshTokenPath))
	})

	t.Run("bypass never refreshes", func(t *testing.T) {
		h := newHarness(t, testAddress)
		expired := mintToken(t, time.Now().Add(-time.Hour))
		h.storeTokens(t, testAddress, expired, "refresh-1")

		token, ok := h.gateway.ResolveToken(ctx, testAddress, true)
		require.True(t, ok)
		require.Equal(t, expired, token)
		require.Empty(t, h.backend.callsTo(RefreshTokenPath))
	})

	t.Run("expired without refresh token", func(t *testing.T) {
		h := newHarness(t, testAddress)
		h.storeTokens(t, testAddress, mintToken(t, time.Now().Add(-time.Hour)), "")

		_, ok := h.gateway.ResolveToken(ctx, testAddress, false)
		require.False(t, ok)
		require.Empty(t, h.backend.callsTo(RefreshTokenPath))
	})

	t.Run("undecodable token is refreshed", func(t *testing.T) {
		h := newHarness(t, testAddress)
		fresh := mintToken(t, time.Now().Add(time.Hour))
		h.storeTokens(t, testAddress, "garbage", "refresh-1")
		h.backend.engine.GET(RefreshTokenPath, func(c *gin.Context) {
			envelope(c, http.StatusOK, core.Credential{AccessToken: fresh, RefreshToken: "refresh-2"})
		})

		token, ok := h.gateway.ResolveToken(ctx, testAddress, false)
		require.True(t, ok)
		require.Equal(t, fresh, token)
		require.Len(t, h.backend.callsTo(RefreshTokenPath), 1)
	})

	t.Run("refresh without data leaves stores untouched", func(t *testing.T) {
		h := newHarness(t, testAddress)
		expired := mintToken(t, time.Now().Add(-time.Hour))
		h.storeTokens(t, testAddress, expired, "refresh-1")
		h.backend.engine.GET(RefreshTokenPath, func(c *gin.Context) {
			envelope(c, http.StatusOK, nil)
		})

		_, ok := h.gateway.ResolveToken(ctx, testAddress, false)
		require.False(t, ok)

		access, refresh := h.storedTokens(t, testAddress)
		require.Equal(t, expired, access)
		require.Equal(t, "refresh-1", refresh)
	})
}

func TestRequest_UnauthorizedShowsLogin(t *testing.T) {
	h := newHarness(t, testAddress)
	h.storeTokens(t, testAddress, mintToken(t, time.Now().Add(time.Hour)), "refresh-1")
	h.backend.engine.GET("/user/contacts", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "unauthorized"})
	})

	resp := h.gateway.Request(context.Background(), Request{Method: http.MethodGet, Path: "/user/contacts", Auth: true})
	require.Nil(t, resp)
	require.Equal(t, 1, h.recorder.showLogin)
	require.Empty(t, h.recorder.notifications)

	require.Len(t, h.recorder.events, 1)
	event := h.recorder.events[0]
	require.Equal(t, core.TelemetryExceptions, event.Category)
	require.Equal(t, "[API GET] - contacts", event.Action)
	require.Contains(t, event.Label, "401")
	require.Positive(t, event.Value)
}

func TestRequest_FailureNotifies(t *testing.T) {
	h := newHarness(t, testAddress)
	h.backend.engine.POST("/swap/submitPendingSwap", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "bad"})
	})
	h.backend.engine.DELETE("/user/contacts/:id", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	resp := h.gateway.Request(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/swap/submitPendingSwap",
		Body:   map[string]string{"txhash": "0xabc"},
	})
	require.Nil(t, resp)
	require.Zero(t, h.recorder.showLogin)
	require.Len(t, h.recorder.notifications, 1)

	n := h.recorder.notifications[0]
	require.True(t, strings.HasPrefix(n.Message, "[API] - "))
	require.Contains(t, n.Message, `Params: {"txhash":"0xabc"}`)
	require.Equal(t, "top", n.Position)
	require.Equal(t, core.NotificationNegative, n.Color)
	require.Equal(t, 2*time.Second, n.Timeout)
	require.Equal(t, "[API POST] - submitPendingSwap", h.recorder.events[0].Action)

	h.storeTokens(t, testAddress, mintToken(t, time.Now().Add(time.Hour)), "")
	resp = h.gateway.Request(context.Background(), Request{Method: http.MethodDelete, Path: "/user/contacts/7", Auth: true})
	require.Nil(t, resp)
	require.Len(t, h.recorder.notifications, 2)
	require.Equal(t, "[API DEL] - 7", h.recorder.events[1].Action)
}

func TestRequest_TransportFailureNotifies(t *testing.T) {
	h := newHarness(t, testAddress)
	h.backend.server.Close()

	resp := h.gateway.Request(context.Background(), Request{Method: http.MethodGet, Path: "/swap/tokenRate"})
	require.Nil(t, resp)
	require.Len(t, h.recorder.notifications, 1)
	require.Len(t, h.recorder.events, 1)
	require.Equal(t, "[API GET] - tokenRate", h.recorder.events[0].Action)
}

func TestRequest_InvalidEnvelope(t *testing.T) {
	h := newHarness(t, testAddress)
	h.backend.engine.GET("/swap/config", func(c *gin.Context) {
		c.String(http.StatusOK, "<html>maintenance</html>")
	})

	resp := h.gateway.Request(context.Background(), Request{Method: http.MethodGet, Path: "/swap/config"})
	require.Nil(t, resp)
	require.Len(t, h.recorder.notifications, 1)
}

func TestRequest_EmptyBody(t *testing.T) {
	h := newHarness(t, testAddress)
	h.backend.engine.POST("/user/txremarks", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	h.storeTokens(t, testAddress, mintToken(t, time.Now().Add(time.Hour)), "")

	resp := h.gateway.Request(context.Background(), Request{Method: http.MethodPost, Path: "/user/txremarks", Auth: true})
	require.NotNil(t, resp)
	require.Equal(t, http.StatusCreated, resp.Status)
	require.Empty(t, resp.Data)
}

func TestRequest_NullBody(t *testing.T) {
	h := newHarness(t, testAddress)
	h.backend.engine.GET("/swap/config", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte("null"))
	})

	resp := h.gateway.Request(context.Background(), Request{Method: http.MethodGet, Path: "/swap/config"})
	require.NotNil(t, resp)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Empty(t, resp.Data)
	require.Empty(t, h.recorder.notifications)
	require.Empty(t, h.recorder.events)

	_, ok := Unwrap[core.SwapConfig](resp)
	require.False(t, ok)
}

func TestUnwrap(t *testing.T) {
	_, ok := Unwrap[map[string]int](nil)
	require.False(t, ok)

	_, ok = Unwrap[map[string]int](&Response{Status: http.StatusOK, Data: json.RawMessage("null")})
	require.False(t, ok)

	_, ok = Unwrap[map[string]int](&Response{Status: http.StatusOK, Data: json.RawMessage(`"text"`)})
	require.False(t, ok)

	v, ok := Unwrap[map[string]int](&Response{Status: http.StatusOK, Data: json.RawMessage(`{"foo":1}`)})
	require.True(t, ok)
	require.Equal(t, map[string]int{"foo": 1}, v)
}

func TestSaveAndClearCredential(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testAddress)

	require.NoError(t, h.gateway.SaveCredential(ctx, testAddress, core.Credential{AccessToken: "a", RefreshToken: "r"}))
	access, refresh := h.storedTokens(t, testAddress)
	require.Equal(t, "a", access)
	require.Equal(t, "r", refresh)

	require.NoError(t, h.gateway.ClearCredential(ctx, testAddress))
	access, refresh = h.storedTokens(t, testAddress)
	require.Empty(t, access)
	require.Empty(t, refresh)
}
