package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yashrajoria/pharmacy-storefront/auth"
	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/models"
	"github.com/yashrajoria/pharmacy-storefront/services"
)

const (
	homeFeatured     = 4
	productsFeatured = 8
)

func (s *StorefrontController) catalogService(c *gin.Context) *services.CatalogService {
	return services.NewCatalogService(s.requester(c), s.deps.API.Session(auth.Anonymous{}), s.deps.ProductCache, s.flights, s.log(c))
}

func (s *StorefrontController) Home(c *gin.Context) {
	data := gin.H{}
	products, err := s.catalogService(c).ListProducts(c.Request.Context())
	if err != nil {
		if navigate(c, err) {
			return
		}
		data["Error"] = apperrors.UserMessage(err)
	}
	data["Products"] = firstN(products, homeFeatured)
	c.HTML(http.StatusOK, "home.html", page(c, "", data))
}

// Products shows a short selection; AllProducts the whole catalog.
func (s *StorefrontController) Products(c *gin.Context) {
	s.renderProducts(c, "Products", productsFeatured)
}

func (s *StorefrontController) AllProducts(c *gin.Context) {
	s.renderProducts(c, "All Products", 0)
}

func (s *StorefrontController) renderProducts(c *gin.Context, title string, limit int) {
	products, err := s.catalogService(c).ListProducts(c.Request.Context())
	if err != nil {
		if navigate(c, err) {
			return
		}
		_ = c.Error(err)
		c.HTML(statusOf(err), "products.html", page(c, title, gin.H{
			"Error": apperrors.UserMessage(err),
		}))
		return
	}
	shown := products
	if limit > 0 {
		shown = firstN(products, limit)
	}
	c.HTML(http.StatusOK, "products.html", page(c, title, gin.H{
		"Products":    shown,
		"ShowAllLink": len(shown) < len(products),
	}))
}

func (s *StorefrontController) AddProductPage(c *gin.Context) {
	c.HTML(http.StatusOK, "add_product.html", page(c, "Add product", gin.H{
		"Form": models.CreateProductRequest{},
	}))
}

func (s *StorefrontController) AddProduct(c *gin.Context) {
	var req models.CreateProductRequest
	bindErr := c.ShouldBind(&req)
	rawPrice := strings.TrimSpace(c.PostForm("price"))
	price, priceErr := decimal.NewFromString(rawPrice)
	if bindErr != nil || priceErr != nil {
		c.HTML(http.StatusBadRequest, "add_product.html", page(c, "Add product", gin.H{
			"Error": "Please check the price and stock values.",
			"Form":  req,
			"Price": rawPrice,
		}))
		return
	}
	req.Price = price

	if _, err := s.catalogService(c).AddProduct(c.Request.Context(), req); err != nil {
		if navigate(c, err) {
			return
		}
		_ = c.Error(err)
		c.HTML(statusOf(err), "add_product.html", page(c, "Add product", gin.H{
			"Error": apperrors.UserMessage(err),
			"Form":  req,
			"Price": rawPrice,
		}))
		return
	}
	c.Redirect(http.StatusSeeOther, "/all-products")
}

func firstN(products []models.Product, n int) []models.Product {
	if len(products) > n {
		return products[:n]
	}
	return products
}
