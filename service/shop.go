package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/layer-3/portal/core"
)

// Shop exposes the store endpoints and remembers the store configuration
// and, per wallet, the order currently being checked out.
type Shop struct {
	gateway *Gateway

	mu     sync.RWMutex
	config *core.ShopConfig
	orders map[string]string // wallet address -> order number
}

// NewShop creates a new Shop
func NewShop(gateway *Gateway) *Shop {
	return &Shop{
		gateway: gateway,
		orders:  make(map[string]string),
	}
}

// LoadConfig fetches the store configuration and keeps it for Config
func (s *Shop) LoadConfig(ctx context.Context) (core.ShopConfig, bool) {
	resp := s.gateway.Request(ctx, Request{Method: http.MethodGet, Path: "/store/config"})
	if resp == nil || resp.Status != http.StatusOK {
		return core.ShopConfig{}, false
	}

	settings, ok := Unwrap[core.ShopSettings](resp)
	if !ok || len(settings.ReceivePaymentList) == 0 {
		return core.ShopConfig{}, false
	}

	cfg := core.ShopConfig{
		Address: settings.ReceivePaymentList[0].Address,
		Name:    settings.Service.Name,
		Img:     settings.Service.Img,
	}

	s.mu.Lock()
	s.config = &cfg
	s.mu.Unlock()

	return cfg, true
}

// Config returns the last loaded store configuration
func (s *Shop) Config() (core.ShopConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return core.ShopConfig{}, false
	}
	return *s.config, true
}

// LoadBanners lists the promotional banners
func (s *Shop) LoadBanners(ctx context.Context) []core.Banner {
	banners, ok := Unwrap[[]core.Banner](s.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/store/banners",
	}))
	if !ok {
		return []core.Banner{}
	}
	return banners
}

// LoadCategories lists the product categories ordered by id
func (s *Shop) LoadCategories(ctx context.Context) []core.Category {
	categories, ok := Unwrap[[]core.Category](s.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/store/categories",
	}))
	if !ok {
		return []core.Category{}
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})
	return categories
}

// LoadSelectedSkus lists the featured products
func (s *Shop) LoadSelectedSkus(ctx context.Context) ([]core.SKU, bool) {
	resp := s.gateway.Request(ctx, Request{Method: http.MethodGet, Path: "/store/selectedProducts"})
	if resp == nil || resp.Status != http.StatusOK {
		return nil, false
	}
	return Unwrap[[]core.SKU](resp)
}

// LoadSku returns one product
func (s *Shop) LoadSku(ctx context.Context, skuID int64) (core.SKU, bool) {
	resp := s.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/store/productInfo/" + strconv.FormatInt(skuID, 10),
	})
	if resp == nil || resp.Status != http.StatusOK {
		return core.SKU{}, false
	}
	return Unwrap[core.SKU](resp)
}

// LoadSkus lists the products of a category, each stamped with the category id.
// A zero category yields an empty list without calling the backend.
func (s *Shop) LoadSkus(ctx context.Context, cid int64) []core.SKU {
	if cid == 0 {
		return []core.SKU{}
	}

	skus, ok := Unwrap[[]core.SKU](s.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/store/productList/",
		Query:  map[string]string{"cid": strconv.FormatInt(cid, 10)},
	}))
	if !ok {
		return []core.SKU{}
	}

	for i := range skus {
		skus[i].Cid = cid
	}
	return skus
}

// PlaceOrder creates an order and makes it the current order
func (s *Shop) PlaceOrder(ctx context.Context, order core.OrderRequest) (string, bool) {
	resp := s.gateway.Request(ctx, Request{
		Method: http.MethodPost,
		Path:   "/store/placeOrder",
		Body:   order,
		Auth:   true,
	})
	if resp == nil || resp.Status != http.StatusCreated {
		return "", false
	}

	data, ok := Unwrap[struct {
		OrderNo string `json:"orderNo"`
	}](resp)
	if !ok || data.OrderNo == "" {
		return "", false
	}

	s.SetCurrentOrder(ctx, data.OrderNo)
	return data.OrderNo, true
}

// PrePayOrder quotes the token amount due for an order. An empty token means CKB.
func (s *Shop) PrePayOrder(ctx context.Context, orderNo, token string) (core.PrePayment, bool) {
	if token == "" {
		token = core.DefaultPaymentToken
	}

	resp := s.gateway.Request(ctx, Request{
		Method: http.MethodPost,
		Path:   "/store/prePayOrder",
		Body:   map[string]string{"orderNo": orderNo, "token": token},
		Auth:   true,
	})
	if resp == nil || resp.Status != http.StatusCreated {
		return core.PrePayment{}, false
	}
	return Unwrap[core.PrePayment](resp)
}

// PayOrder submits the signed payment transaction of an order. An empty token means CKB.
func (s *Shop) PayOrder(ctx context.Context, orderNo string, signedTx any, token string) bool {
	if token == "" {
		token = core.DefaultPaymentToken
	}

	resp := s.gateway.Request(ctx, Request{
		Method: http.MethodPost,
		Path:   "/store/payOrder",
		Body: map[string]any{
			"orderNo":  orderNo,
			"token":    token,
			"signedTx": signedTx,
		},
		Auth: true,
	})
	return resp != nil && resp.Status == http.StatusCreated
}

// PayCurrentOrder pays the current order in CKB and returns its number
func (s *Shop) PayCurrentOrder(ctx context.Context, signedTx any) (string, error) {
	orderNo, ok := s.CurrentOrder(ctx)
	if !ok {
		return "", core.ErrNoCurrentOrder
	}

	if !s.PayOrder(ctx, orderNo, signedTx, core.DefaultPaymentToken) {
		return "", fmt.Errorf("pay order %s: %w", orderNo, core.ErrNoResult)
	}
	return orderNo, nil
}

// CurrentOrder returns the order the connected wallet is checking out
func (s *Shop) CurrentOrder(ctx context.Context) (string, bool) {
	address, ok := s.gateway.app.Wallet.Address(ctx)
	if !ok {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	orderNo, ok := s.orders[address]
	return orderNo, ok
}

// SetCurrentOrder replaces the order the connected wallet is checking out;
// empty clears it
func (s *Shop) SetCurrentOrder(ctx context.Context, orderNo string) {
	address, ok := s.gateway.app.Wallet.Address(ctx)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if orderNo == "" {
		delete(s.orders, address)
		return
	}
	s.orders[address] = orderNo
}

// LoadCards pages through the cards bought by the connected wallet
func (s *Shop) LoadCards(ctx context.Context, status core.CardStatus, size int, lastOrderID int64) []core.Card {
	resp := s.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/store/cardList",
		Query: map[string]string{
			"status":      strconv.Itoa(int(status)),
			"size":        strconv.Itoa(size),
			"lastOrderId": strconv.FormatInt(lastOrderID, 10),
		},
		Auth: true,
	})
	if resp == nil || resp.Status != http.StatusOK {
		return []core.Card{}
	}

	cards, ok := Unwrap[[]core.Card](resp)
	if !ok {
		return []core.Card{}
	}
	return cards
}

// LoadOrder returns one order of the connected wallet
func (s *Shop) LoadOrder(ctx context.Context, orderNo string) (core.Order, bool) {
	resp := s.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/store/queryOrder",
		Query:  map[string]string{"orderNo": orderNo},
		Auth:   true,
	})
	if resp == nil || resp.Status != http.StatusOK {
		return core.Order{}, false
	}
	return Unwrap[core.Order](resp)
}

// LoadOrders pages through the orders of the connected wallet
func (s *Shop) LoadOrders(ctx context.Context, size int, lastOrderID int64) ([]core.Order, bool) {
	resp := s.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/store/orderList",
		Query: map[string]string{
			"size":        strconv.Itoa(size),
			"lastOrderId": strconv.FormatInt(lastOrderID, 10),
		},
		Auth: true,
	})
	if resp == nil || resp.Status != http.StatusOK {
		return nil, false
	}
	return Unwrap[[]core.Order](resp)
}
