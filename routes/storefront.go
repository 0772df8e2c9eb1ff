package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/DJPaties/electrosaida-api/controllers/cart"
	orderControllers "github.com/DJPaties/electrosaida-api/controllers/order"
	productControllers "github.com/DJPaties/electrosaida-api/controllers/product"
	"github.com/DJPaties/electrosaida-api/middleware"
)

// SetupStorefrontRoutes registers the public shop endpoints: catalog
// browsing plus the session-scoped cart and checkout.
func SetupStorefrontRoutes(r *gin.Engine, db *gorm.DB, sessions *cartControllers.Sessions) {
	// ──────────────── Browse Products & Categories ────────────────
	r.GET("/products", productControllers.GetProducts(db))
	r.GET("/products/:id", productControllers.GetProductByID(db))
	r.GET("/categories", productControllers.GetAllCategoriesWithProducts(db))

	shop := r.Group("/")
	shop.Use(middleware.CartSession)
	{
		// ──────────────── Shopping Cart ────────────────
		cartGroup := shop.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(sessions))
			cartGroup.POST("/items", cartControllers.AddCartItem(db, sessions))
			cartGroup.PATCH("/items/:product_id", cartControllers.UpdateCartItemQuantity(sessions))
			cartGroup.DELETE("/items/:product_id", cartControllers.DeleteCartItem(sessions))
			cartGroup.DELETE("", cartControllers.ClearCart(sessions))
		}

		// ──────────────── Checkout ────────────────
		checkoutGroup := shop.Group("/checkout")
		{
			checkoutGroup.GET("", orderControllers.GetCheckoutStateHandler(sessions))
			checkoutGroup.POST("/payment-method", orderControllers.SelectPaymentMethodHandler(sessions))
			checkoutGroup.POST("", orderControllers.PlaceOrderHandler(sessions))
		}

		// ──────────────── Order History ────────────────
		shop.GET("/orders", orderControllers.GetSessionOrdersHandler(db))
	}
}
