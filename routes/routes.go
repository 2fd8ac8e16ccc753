package routes

import (
	"net/http"

	"farmfork/auth"
	"farmfork/cart"
	"farmfork/contact"
	"farmfork/impact"
	"farmfork/live"
	"farmfork/market"
	"farmfork/middleware"
	"farmfork/models"
	"farmfork/negotiations"
	"farmfork/orders"
	"farmfork/products"
	"farmfork/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
	router.ServeFiles("/static/impactpic/*filepath", http.Dir("static/impactpic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.GET("/api/auth/profile", middleware.Authenticate(auth.Profile))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", products.GetProducts)
	router.GET("/api/products/mine", middleware.RequireRole(products.GetMyProducts, models.RoleFarmer))
	router.POST("/api/products", middleware.RequireRole(products.CreateProduct, models.RoleFarmer))
	router.PUT("/api/products/:id", middleware.RequireRole(products.UpdateProduct, models.RoleFarmer))
	router.DELETE("/api/products/:id", middleware.RequireRole(products.DeleteProduct, models.RoleFarmer))
}

func AddNegotiationRoutes(router *httprouter.Router) {
	router.POST("/api/negotiations/:id/start", middleware.RequireRole(negotiations.StartNegotiation, models.RoleCustomer))
	router.POST("/api/negotiations/:id/message", middleware.Authenticate(negotiations.PostMessage))
	router.POST("/api/negotiations/:id/accept", middleware.Authenticate(negotiations.AcceptNegotiation))
	router.GET("/api/negotiations/product/:id", middleware.Authenticate(negotiations.ListForProduct))
}

func AddOrderRoutes(router *httprouter.Router) {
	router.POST("/api/orders", middleware.RequireRole(orders.CreateOrder, models.RoleCustomer))
	// /api/orders/mine and /api/orders/farmer share the :id route; the
	// handler dispatches on the parameter.
	router.GET("/api/orders/:id", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/orders/:id/receipt", middleware.Authenticate(orders.DownloadReceipt))
	router.PUT("/api/orders/:id/status", middleware.Authenticate(orders.UpdateStatus))
}

func AddCartRoutes(router *httprouter.Router) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/cart", middleware.Authenticate(cart.AddToCart))
	router.PUT("/api/cart/:id", middleware.Authenticate(cart.UpdateQuantity))
	router.DELETE("/api/cart/:id", middleware.Authenticate(cart.RemoveItem))
	router.DELETE("/api/cart", middleware.Authenticate(cart.ClearCart))
}

func AddMarketRoutes(router *httprouter.Router) {
	router.GET("/api/market/prices", market.ListPrices)
	router.GET("/api/market/latest", market.GetLatestPrice)
	router.GET("/api/market/india/prices", ratelim.RateLimit(market.GetIndianPrices))
	router.POST("/api/market/prices", middleware.RequireRole(market.UploadPrice, models.RoleFarmer, models.RoleAdmin))
}

func AddImpactRoutes(router *httprouter.Router) {
	router.GET("/api/impact", impact.GetStories)
	router.POST("/api/impact", ratelim.RateLimit(middleware.Authenticate(impact.CreateStory)))
}

func AddContactRoutes(router *httprouter.Router) {
	router.POST("/api/contact", ratelim.RateLimit(contact.SubmitMessage))
	router.GET("/api/contact", middleware.RequireRole(contact.ListMessages, models.RoleAdmin))
	router.PUT("/api/contact/:id/status", middleware.RequireRole(contact.UpdateMessageStatus, models.RoleAdmin))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/api/live/:room", live.WebSocketHandler(hub))
}
