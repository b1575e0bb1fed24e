package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/portal/core"
	"github.com/layer-3/portal/ports"
	"go.uber.org/zap"
)

const sessionContextKey = "sessionID"

type walletKey struct{}

// WithWallet returns a copy of ctx carrying the connected wallet address
func WithWallet(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, walletKey{}, address)
}

// ContextWallet resolves the connected wallet from the request context
type ContextWallet struct{}

var _ ports.WalletProvider = ContextWallet{}

// Address returns the wallet set by WalletMiddleware
func (ContextWallet) Address(ctx context.Context) (string, bool) {
	address, _ := ctx.Value(walletKey{}).(string)
	return address, address != ""
}

// WalletMiddleware resolves the bearer session issued at login into the
// wallet it belongs to. Requests without a session stay anonymous; an
// unknown session is rejected.
func WalletMiddleware(sessions *Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(auth, "Bearer ") || len(auth) < 8 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}
		id := auth[7:]

		address, err := sessions.Resolve(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, core.ErrNotFound) {
				logger.Warn("failed to resolve session", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		c.Set(sessionContextKey, id)
		c.Request = c.Request.WithContext(WithWallet(c.Request.Context(), address))
		c.Next()
	}
}

// RequireWallet rejects requests without a session
func RequireWallet() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := (ContextWallet{}).Address(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Wallet not connected"})
			return
		}
		c.Next()
	}
}

// RequestLogger logs every request once it has been served
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("request served",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
