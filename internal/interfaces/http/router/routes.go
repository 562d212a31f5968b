package router

import (
	"github.com/gin-gonic/gin"
	_ "github.com/storefront/backend/docs"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers are the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth       *handler.AuthHandler
	Storefront *handler.StorefrontHandler
	Shopping   *handler.ShoppingHandler
	Dashboard  *handler.DashboardHandler
	Invoices   *handler.InvoiceHandler
	Images     *handler.ImageHandler
}

// Guards are the per-area access checks. Nil guards are skipped.
type Guards struct {
	// SignIn throttles credential attempts
	SignIn gin.HandlerFunc
	// Customer admits signed-in customers (wishlist, checkout)
	Customer gin.HandlerFunc
	// Dashboard admits employees of any position
	Dashboard gin.HandlerFunc
	// Destructive admits managers (hard delete, restore)
	Destructive gin.HandlerFunc
}

// StorefrontGroups builds the route table of the storefront API
func StorefrontGroups(h Handlers, g Guards) []*DomainGroup {
	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/signin", chain(g.SignIn, h.Auth.SignIn)...)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.Me)

	catalogRoutes := NewDomainGroup("storefront", "")
	catalogRoutes.GET("/products", h.Storefront.ListProducts)
	catalogRoutes.GET("/products/:id", h.Storefront.GetProduct)
	catalogRoutes.GET("/brands", h.Storefront.ListBrands)
	catalogRoutes.GET("/categories", h.Storefront.ListCategories)
	catalogRoutes.GET("/search", h.Storefront.Search)
	catalogRoutes.GET("/search/categories", h.Storefront.SearchCategories)

	cartRoutes := NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", h.Shopping.GetCart)
	cartRoutes.DELETE("", h.Shopping.ClearCart)
	cartRoutes.POST("/items", h.Shopping.AddCartItem)
	cartRoutes.PUT("/items/:productId", h.Shopping.UpdateCartItem)
	cartRoutes.DELETE("/items/:productId", h.Shopping.RemoveCartItem)

	wishlistRoutes := NewDomainGroup("wishlist", "/wishlist").Use(guards(g.Customer)...)
	wishlistRoutes.GET("", h.Shopping.GetWishlist)
	wishlistRoutes.POST("/items", h.Shopping.AddWishlistItem)
	wishlistRoutes.GET("/items/:productId", h.Shopping.WishlistPresence)
	wishlistRoutes.DELETE("/items/:productId", h.Shopping.RemoveWishlistItem)

	checkoutRoutes := NewDomainGroup("checkout", "/checkout").Use(guards(g.Customer)...)
	checkoutRoutes.POST("", h.Shopping.Checkout)

	dashboardRoutes := NewDomainGroup("dashboard", "/dashboard").Use(guards(g.Dashboard)...)
	dashboardRoutes.GET("/overview", h.Dashboard.Overview)
	dashboardRoutes.GET("/orders/:id/invoice", h.Invoices.Invoice)
	dashboardRoutes.POST("/products/images", h.Images.InitiateUpload)
	dashboardRoutes.DELETE("/products/images", h.Images.Discard)
	dashboardRoutes.GET("/:kind", h.Dashboard.List)
	dashboardRoutes.POST("/:kind", h.Dashboard.Create)
	dashboardRoutes.GET("/:kind/trash", h.Dashboard.Trash)
	dashboardRoutes.GET("/:kind/:id", h.Dashboard.Get)
	dashboardRoutes.PUT("/:kind/:id", h.Dashboard.Update)
	dashboardRoutes.PUT("/:kind/:id/status", h.Dashboard.SetStatus)
	dashboardRoutes.DELETE("/:kind/:id", h.Dashboard.Delete)
	dashboardRoutes.DELETE("/:kind/:id/hard", chain(g.Destructive, h.Dashboard.Purge)...)
	dashboardRoutes.PUT("/:kind/:id/restore", chain(g.Destructive, h.Dashboard.Restore)...)

	return []*DomainGroup{authRoutes, catalogRoutes, cartRoutes, wishlistRoutes, checkoutRoutes, dashboardRoutes}
}

// RegisterDocs serves the Swagger UI and doc.json under /swagger. Nil
// middleware entries are skipped.
func RegisterDocs(engine *gin.Engine, middleware ...gin.HandlerFunc) {
	var handlers []gin.HandlerFunc
	for _, m := range middleware {
		handlers = append(handlers, guards(m)...)
	}
	handlers = append(handlers, ginSwagger.WrapHandler(swaggerFiles.Handler))
	engine.GET("/swagger/*any", handlers...)
}

func guards(g gin.HandlerFunc) []gin.HandlerFunc {
	if g == nil {
		return nil
	}
	return []gin.HandlerFunc{g}
}

func chain(guard, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(guards(guard), h)
}
