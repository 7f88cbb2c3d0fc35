package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/pharmacy-storefront/controllers"
	"github.com/yashrajoria/pharmacy-storefront/middleware"
	"github.com/yashrajoria/pharmacy-storefront/views"
)

func RegisterRoutes(r *gin.Engine, ctrl *controllers.StorefrontController, loginLimiter *middleware.RateLimiter) {
	r.GET("/health", ctrl.Health)
	r.StaticFS("/static", http.FS(views.Static()))

	// Catalog
	r.GET("/", ctrl.Home)
	r.GET("/products", ctrl.Products)
	r.GET("/all-products", ctrl.AllProducts)
	r.GET("/add-product", ctrl.AddProductPage)
	r.POST("/add-product", ctrl.AddProduct)

	// Session
	r.GET("/login", ctrl.LoginPage)
	r.POST("/login", middleware.Throttle(loginLimiter), ctrl.Login)
	r.POST("/register", middleware.Throttle(loginLimiter), ctrl.Register)
	r.POST("/logout", ctrl.Logout)

	// Cart
	cart := r.Group("/cart")
	{
		cart.GET("", ctrl.Cart)
		cart.POST("/items", ctrl.AddToCart)
		cart.POST("/items/:productId", ctrl.RemoveFromCart)
		cart.DELETE("/items/:productId", ctrl.RemoveFromCart)
		cart.POST("/clear", ctrl.ClearCart)
	}

	// Checkout and invoices
	r.GET("/checkout", ctrl.CheckoutPage)
	r.POST("/checkout", ctrl.Checkout)
	r.GET("/invoice/:orderId", ctrl.Invoice)
	r.GET("/invoice/:orderId/pdf", ctrl.InvoicePDF)
}
