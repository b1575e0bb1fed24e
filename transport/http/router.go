package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/portal/service"
	"go.uber.org/zap"
)

// SetupRouter sets up the Gin router
func SetupRouter(api *service.API, shop *service.Shop, sessions *Sessions, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), WalletMiddleware(sessions, logger))

	handlers := NewHandlers(api, shop, sessions)

	router.GET("/healthz", handlers.Health)

	auth := router.Group("/auth")
	{
		auth.POST("/login", handlers.Login)
		auth.POST("/logout", RequireWallet(), handlers.Logout)
	}

	// Public API routes
	public := router.Group("/api")
	{
		public.GET("/wallet/address", handlers.PortalAddress)
		public.GET("/dao/stats", handlers.Dao)

		public.GET("/swap/config", handlers.SwapConfig)
		public.GET("/swap/tokenRate", handlers.SwapRates)
		public.GET("/swap/transactions", handlers.SwapTxs)
		public.POST("/swap/submitPendingSwap", handlers.SubmitPendingSwap)

		public.GET("/store/config", handlers.ShopConfig)
		public.GET("/store/banners", handlers.Banners)
		public.GET("/store/categories", handlers.Categories)
		public.GET("/store/selectedProducts", handlers.SelectedSkus)
		public.GET("/store/productInfo/:id", handlers.Sku)
		public.GET("/store/productList", handlers.Skus)
	}

	// Wallet API routes
	wallet := router.Group("/api")
	wallet.Use(RequireWallet())
	{
		wallet.POST("/user/txremarks", handlers.AddNote)
		wallet.GET("/user/contacts", handlers.Contacts)
		wallet.POST("/user/contacts", handlers.AddContact)
		wallet.DELETE("/user/contacts/:id", handlers.DeleteContact)

		wallet.GET("/cell/txList", handlers.TxRecords)

		wallet.POST("/store/placeOrder", handlers.PlaceOrder)
		wallet.POST("/store/prePayOrder", handlers.PrePayOrder)
		wallet.POST("/store/payOrder", handlers.PayOrder)
		wallet.GET("/store/cardList", handlers.Cards)
		wallet.GET("/store/queryOrder", handlers.Order)
		wallet.GET("/store/orderList", handlers.Orders)
	}

	return router
}
