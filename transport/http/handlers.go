package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/portal/core"
	"github.com/layer-3/portal/service"
)

// Handlers contains the HTTP handlers proxying the wallet backend
type Handlers struct {
	api      *service.API
	shop     *service.Shop
	sessions *Sessions
}

// NewHandlers creates new handlers
func NewHandlers(api *service.API, shop *service.Shop, sessions *Sessions) *Handlers {
	return &Handlers{
		api:      api,
		shop:     shop,
		sessions: sessions,
	}
}

func noResult(c *gin.Context) {
	c.JSON(http.StatusBadGateway, gin.H{"error": "no result"})
}

func invalidRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrAuthorizationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
	case errors.Is(err, core.ErrWalletNotConnected):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not connected"})
	default:
		noResult(c)
	}
}

func queryInt(c *gin.Context, key string, def int64) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Health reports the service is up
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Login exchanges a signed timestamp for a credential kept by the server
// and returns the session the UI authenticates with from then on
func (h *Handlers) Login(c *gin.Context) {
	var req core.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Address == "" || req.Signature == "" {
		invalidRequest(c)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.api.Login(ctx, req.Address, req.Timestamp, req.Signature); err != nil {
		respondError(c, err)
		return
	}

	session, err := h.sessions.Create(ctx, req.Address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":    req.Address,
		"session":    session,
		"token_type": "Bearer",
	})
}

// Logout ends the session and forgets the credential of its wallet
func (h *Handlers) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	address, ok := ContextWallet{}.Address(ctx)
	if !ok {
		respondError(c, core.ErrWalletNotConnected)
		return
	}

	if err := h.sessions.Revoke(ctx, c.GetString(sessionContextKey)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	if err := h.api.Logout(ctx, address); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// PortalAddress resolves the portal address of ?address
func (h *Handlers) PortalAddress(c *gin.Context) {
	address, ok := h.api.LoadPortalAddress(c.Request.Context(), c.Query("address"))
	if !ok {
		noResult(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address})
}

// AddNote attaches a remark to a transaction
func (h *Handlers) AddNote(c *gin.Context) {
	var req struct {
		TxHash string `json:"txHash" binding:"required"`
		Remark string `json:"remark"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	if err := h.api.AddNote(c.Request.Context(), req.TxHash, req.Remark); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Contacts lists the contacts of the connected wallet
func (h *Handlers) Contacts(c *gin.Context) {
	c.JSON(http.StatusOK, h.api.LoadContacts(c.Request.Context()))
}

// AddContact stores a contact
func (h *Handlers) AddContact(c *gin.Context) {
	var contact core.Contact
	if err := c.ShouldBindJSON(&contact); err != nil || contact.Address == "" {
		invalidRequest(c)
		return
	}

	if err := h.api.AddContact(c.Request.Context(), contact); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// DeleteContact removes a contact
func (h *Handlers) DeleteContact(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		invalidRequest(c)
		return
	}

	if err := h.api.DeleteContact(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// TxRecords pages through the transaction history of ?lockHash
func (h *Handlers) TxRecords(c *gin.Context) {
	size, ok := queryInt(c, "size", 0)
	if !ok {
		invalidRequest(c)
		return
	}

	c.JSON(http.StatusOK, h.api.LoadTxRecords(c.Request.Context(), service.TxQuery{
		LockHash:  c.Query("lockHash"),
		LastHash:  c.Query("lastHash"),
		Size:      int(size),
		Direction: core.TxDirection(c.Query("direction")),
	}))
}

// Dao returns the DAO statistics of ?lockHash
func (h *Handlers) Dao(c *gin.Context) {
	dao, err := h.api.LoadDao(c.Request.Context(), c.Query("lockHash"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dao)
}

// SwapConfig returns the swap configuration
func (h *Handlers) SwapConfig(c *gin.Context) {
	cfg, ok := h.api.LoadSwapConfig(c.Request.Context())
	if !ok {
		noResult(c)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// SwapRates returns the token rates
func (h *Handlers) SwapRates(c *gin.Context) {
	rates, ok := h.api.LoadSwapRates(c.Request.Context())
	if !ok {
		noResult(c)
		return
	}
	c.JSON(http.StatusOK, rates)
}

// SwapTxs pages through the swaps of ?address
func (h *Handlers) SwapTxs(c *gin.Context) {
	size, ok := queryInt(c, "size", service.DefaultTxPageSize)
	if !ok {
		invalidRequest(c)
		return
	}
	lastID, ok := queryInt(c, "lastId", 0)
	if !ok {
		invalidRequest(c)
		return
	}

	c.JSON(http.StatusOK, h.api.LoadSwapTxs(c.Request.Context(), c.Query("address"), int(size), lastID))
}

// SubmitPendingSwap reports a swap transaction that was just sent
func (h *Handlers) SubmitPendingSwap(c *gin.Context) {
	var swap core.PendingSwap
	if err := c.ShouldBindJSON(&swap); err != nil || swap.TxHash == "" {
		invalidRequest(c)
		return
	}

	resp, ok := h.api.SubmitPendingSwap(c.Request.Context(), swap)
	if !ok {
		noResult(c)
		return
	}
	c.Status(resp.Status)
}

// ShopConfig returns the store configuration
func (h *Handlers) ShopConfig(c *gin.Context) {
	cfg, ok := h.shop.LoadConfig(c.Request.Context())
	if !ok {
		noResult(c)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Banners lists the promotional banners
func (h *Handlers) Banners(c *gin.Context) {
	c.JSON(http.StatusOK, h.shop.LoadBanners(c.Request.Context()))
}

// Categories lists the product categories
func (h *Handlers) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.shop.LoadCategories(c.Request.Context()))
}

// SelectedSkus lists the featured products
func (h *Handlers) SelectedSkus(c *gin.Context) {
	skus, ok := h.shop.LoadSelectedSkus(c.Request.Context())
	if !ok {
		noResult(c)
		return
	}
	c.JSON(http.StatusOK, skus)
}

// Sku returns one product
func (h *Handlers) Sku(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		invalidRequest(c)
		return
	}

	sku, ok := h.shop.LoadSku(c.Request.Context(), id)
	if !ok {
		noResult(c)
		return
	}
	c.JSON(http.StatusOK, sku)
}

// Skus lists the products of ?cid
func (h *Handlers) Skus(c *gin.Context) {
	cid, ok := queryInt(c, "cid", 0)
	if !ok {
		invalidRequest(c)
		return
	}
	c.JSON(http.StatusOK, h.shop.LoadSkus(c.Request.Context(), cid))
}

// PlaceOrder creates an order
func (h *Handlers) PlaceOrder(c *gin.Context) {
	var order core.OrderRequest
	if err := c.ShouldBindJSON(&order); err != nil || order.ProductID == 0 {
		invalidRequest(c)
		return
	}

	orderNo, ok := h.shop.PlaceOrder(c.Request.Context(), order)
	if !ok {
		noResult(c)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orderNo": orderNo})
}

// PrePayOrder quotes the amount due for an order
func (h *Handlers) PrePayOrder(c *gin.Context) {
	var req struct {
		OrderNo string `json:"orderNo" binding:"required"`
		Token   string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	quote, ok := h.shop.PrePayOrder(c.Request.Context(), req.OrderNo, req.Token)
	if !ok {
		noResult(c)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

// PayOrder submits the signed payment of an order
func (h *Handlers) PayOrder(c *gin.Context) {
	var req struct {
		OrderNo  string `json:"orderNo" binding:"required"`
		Token    string `json:"token"`
		SignedTx any    `json:"signedTx" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	if !h.shop.PayOrder(c.Request.Context(), req.OrderNo, req.SignedTx, req.Token) {
		noResult(c)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orderNo": req.OrderNo})
}

// Cards pages through the bought cards
func (h *Handlers) Cards(c *gin.Context) {
	status, ok := queryInt(c, "status", int64(core.CardUnused))
	if !ok {
		invalidRequest(c)
		return
	}
	size, ok := queryInt(c, "size", service.DefaultTxPageSize)
	if !ok {
		invalidRequest(c)
		return
	}
	lastOrderID, ok := queryInt(c, "lastOrderId", 0)
	if !ok {
		invalidRequest(c)
		return
	}

	c.JSON(http.StatusOK, h.shop.LoadCards(c.Request.Context(), core.CardStatus(status), int(size), lastOrderID))
}

// Order returns the order ?orderNo
func (h *Handlers) Order(c *gin.Context) {
	order, ok := h.shop.LoadOrder(c.Request.Context(), c.Query("orderNo"))
	if !ok {
		noResult(c)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Orders pages through the orders of the connected wallet
func (h *Handlers) Orders(c *gin.Context) {
	size, ok := queryInt(c, "size", service.DefaultTxPageSize)
	if !ok {
		invalidRequest(c)
		return
	}
	lastOrderID, ok := queryInt(c, "lastOrderId", 0)
	if !ok {
		invalidRequest(c)
		return
	}

	orders, ok := h.shop.LoadOrders(c.Request.Context(), int(size), lastOrderID)
	if !ok {
		noResult(c)
		return
	}
	c.JSON(http.StatusOK, orders)
}
