package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/portal/adapters/tokenizer"
	"github.com/layer-3/portal/core"
	"github.com/layer-3/portal/ports"
	"go.uber.org/zap"
)

// RefreshTokenPath is the endpoint exchanging a refresh token for a new pair
const RefreshTokenPath = "/auth/refreshToken"

// AppContext holds the collaborators the gateway talks to instead of
// process-wide state.
type AppContext struct {
	Wallet    ports.WalletProvider
	Access    ports.Store // session-scoped, holds access tokens
	Refresh   ports.Store // durable, holds refresh tokens
	Signals   ports.Signals
	Telemetry ports.Telemetry
}

// Request describes one backend call
type Request struct {
	Method string
	Path   string
	// Query is sent as the query string of GET and DELETE calls
	Query map[string]string
	// Body is JSON encoded for POST calls
	Body any
	// Auth attaches the wallet's access token
	Auth bool
	// BypassExpiry uses the stored access token even when it has expired
	BypassExpiry bool

	// refresh marks the token exchange made on behalf of another call
	refresh bool
}

// Response is a successful call with the envelope already removed
type Response struct {
	Status int
	Data   json.RawMessage
}

// Gateway performs backend calls on behalf of the connected wallet.
// It never returns errors: every failure is reported through the
// AppContext collaborators and results in a nil Response.
type Gateway struct {
	baseURL string
	client  *http.Client
	app     AppContext
	logger  *zap.Logger
	now     func() time.Time
}

// NewGateway creates a new gateway. A nil client uses http.DefaultClient.
func NewGateway(baseURL string, client *http.Client, app AppContext, logger *zap.Logger) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		app:     app,
		logger:  logger,
		now:     time.Now,
	}
}

// Request issues req and returns the unwrapped response, or nil when the
// call produced no result.
func (g *Gateway) Request(ctx context.Context, req Request) *Response {
	var token string
	if req.Auth {
		address, ok := g.app.Wallet.Address(ctx)
		if !ok {
			return nil
		}
		token, _ = g.ResolveToken(ctx, address, req.BypassExpiry)
	}

	httpReq, err := g.newHTTPRequest(ctx, req, token)
	if err != nil {
		g.fail(ctx, req, err, 0)
		return nil
	}

	g.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("url", httpReq.URL.String()),
		zap.Bool("authorized", token != ""),
	)

	res, err := g.client.Do(httpReq)
	if err != nil {
		g.fail(ctx, req, err, 0)
		return nil
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		g.fail(ctx, req, fmt.Errorf("failed to read response: %w", err), res.StatusCode)
		return nil
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		g.fail(ctx, req, statusError(res.StatusCode), res.StatusCode)
		return nil
	}

	resp := &Response{Status: res.StatusCode}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return resp
	}

	env, err := core.DecodeEnvelope[json.RawMessage](body)
	if err != nil {
		g.fail(ctx, req, err, res.StatusCode)
		return nil
	}
	resp.Data = env.Data

	return resp
}

// ResolveToken returns a usable access token for address. An expired token
// is exchanged once through the refresh endpoint; any failure along the way
// returns false and the caller proceeds without authorization.
func (g *Gateway) ResolveToken(ctx context.Context, address string, bypassExpiry bool) (string, bool) {
	access, err := g.app.Access.Get(ctx, core.AccessKey(address))
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			g.logger.Warn("failed to read access token", zap.String("address", address), zap.Error(err))
		}
		return "", false
	}

	if bypassExpiry {
		return access, true
	}

	exp, err := tokenizer.ExpiresAt(access)
	if err == nil && !core.Expired(exp, g.now()) {
		return access, true
	}

	refresh, err := g.app.Refresh.Get(ctx, core.RefreshKey(address))
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			g.logger.Warn("failed to read refresh token", zap.String("address", address), zap.Error(err))
		}
		return "", false
	}

	resp := g.Request(ctx, Request{
		Method:       http.MethodGet,
		Path:         RefreshTokenPath,
		Query:        map[string]string{"refreshToken": refresh},
		Auth:         true,
		BypassExpiry: true,
		refresh:      true,
	})

	cred, ok := Unwrap[core.Credential](resp)
	if !ok || cred.AccessToken == "" {
		g.logger.Info("token refresh failed, continuing without authorization", zap.String("address", address))
		return "", false
	}

	if err := g.SaveCredential(ctx, address, cred); err != nil {
		g.logger.Warn("failed to persist refreshed tokens", zap.String("address", address), zap.Error(err))
	}

	return cred.AccessToken, true
}

// SaveCredential persists the token pair of address
func (g *Gateway) SaveCredential(ctx context.Context, address string, cred core.Credential) error {
	if err := g.app.Access.Set(ctx, core.AccessKey(address), cred.AccessToken, 0); err != nil {
		return err
	}
	if cred.RefreshToken == "" {
		return nil
	}
	return g.app.Refresh.Set(ctx, core.RefreshKey(address), cred.RefreshToken, 0)
}

// ClearCredential forgets the token pair of address
func (g *Gateway) ClearCredential(ctx context.Context, address string) error {
	if err := g.app.Access.Delete(ctx, core.AccessKey(address)); err != nil {
		return err
	}
	return g.app.Refresh.Delete(ctx, core.RefreshKey(address))
}

// Unwrap decodes the data of resp into T. It returns false when resp is nil,
// carries no data, or the data does not decode.
func Unwrap[T any](resp *Response) (T, bool) {
	var v T
	if resp == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return v, false
	}
	if err := json.Unmarshal(resp.Data, &v); err != nil {
		return v, false
	}
	return v, true
}

func (g *Gateway) newHTTPRequest(ctx context.Context, req Request, token string) (*http.Request, error) {
	u, err := url.Parse(g.baseURL + req.Path)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Method == http.MethodPost || req.Method == http.MethodPut {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	} else if len(req.Query) > 0 {
		q := u.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return httpReq, nil
}

// fail reports a failed call: telemetry always, then either the login
// prompt (401) or a transient notification. A rejected token exchange
// leaves the prompt to the call it was made for.
func (g *Gateway) fail(ctx context.Context, req Request, err error, status int) {
	params := g.params(req)

	g.logger.Warn("api request failed",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", status),
		zap.Error(err),
	)

	g.app.Telemetry.LogEvent(ctx, core.TelemetryEvent{
		Category: core.TelemetryExceptions,
		Action:   fmt.Sprintf("[API %s] - %s", methodLabel(req.Method), path.Base(req.Path)),
		Label:    fmt.Sprintf("Error: %s | Params: %s", err.Error(), params),
		Value:    g.now().UnixMilli(),
	})

	if status == http.StatusUnauthorized {
		if !req.refresh {
			g.app.Signals.ShowLogin(ctx)
		}
		return
	}

	message := "[API] - " + err.Error()
	if req.Method == http.MethodPost {
		message += " Params: " + params
	}
	g.app.Signals.Notify(ctx, core.NewErrorNotification(message))
}

func (g *Gateway) params(req Request) string {
	var v any = redact(req.Query)
	if req.Method == http.MethodPost {
		v = req.Body
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// redact hides credentials that would otherwise end up in telemetry
func redact(query map[string]string) map[string]string {
	if _, ok := query["refreshToken"]; !ok {
		return query
	}
	out := make(map[string]string, len(query))
	for k, v := range query {
		out[k] = v
	}
	out["refreshToken"] = "[redacted]"
	return out
}

func methodLabel(method string) string {
	if method == http.MethodDelete {
		return "DEL"
	}
	return method
}

func statusError(status int) error {
	return fmt.Errorf("request failed with status code %d", status)
}
