package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/middleware"
	"github.com/yashrajoria/pharmacy-storefront/models"
	"github.com/yashrajoria/pharmacy-storefront/services"
)

func (s *StorefrontController) authService(c *gin.Context) *services.AuthService {
	return services.NewAuthService(s.requester(c), middleware.SessionStore(c), s.log(c))
}

func (s *StorefrontController) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", page(c, "Login", gin.H{
		"Next": safeNext(c.Query("next")),
	}))
}

func (s *StorefrontController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", page(c, "Login", gin.H{
			"Error": apperrors.ErrBadRequest.Message,
			"Next":  safeNext(c.PostForm("next")),
		}))
		return
	}

	if _, err := s.authService(c).Login(c.Request.Context(), req); err != nil {
		_ = c.Error(err)
		c.HTML(statusOf(err), "login.html", page(c, "Login", gin.H{
			"Error": apperrors.UserMessage(err),
			"Email": req.Email,
			"Next":  safeNext(c.PostForm("next")),
		}))
		return
	}

	c.Redirect(http.StatusSeeOther, safeNext(c.PostForm("next")))
}

func (s *StorefrontController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", page(c, "Login", gin.H{
			"RegisterError": apperrors.ErrBadRequest.Message,
		}))
		return
	}

	if err := s.authService(c).Register(c.Request.Context(), req); err != nil {
		_ = c.Error(err)
		c.HTML(statusOf(err), "login.html", page(c, "Login", gin.H{
			"RegisterError": apperrors.UserMessage(err),
		}))
		return
	}

	c.HTML(http.StatusOK, "login.html", page(c, "Login", gin.H{
		"Notice": "Registration successful. Please log in.",
		"Email":  req.Email,
	}))
}

func (s *StorefrontController) Logout(c *gin.Context) {
	s.authService(c).Logout()
	c.Redirect(http.StatusSeeOther, "/")
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, middleware.LoginPath) {
		return "/"
	}
	return next
}
