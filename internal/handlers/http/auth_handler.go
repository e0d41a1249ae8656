package http

import (
	"net/http"

	"midway/internal/core/services"
	apperrors "midway/pkg/errors"

	"github.com/gin-gonic/gin"
)

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	RecordLogin(success bool)
}

type AuthHandler struct {
	authService  *services.AuthService
	cookieSecure bool
	recorder     LoginRecorder
}

func NewAuthHandler(authService *services.AuthService, cookieSecure bool, recorder LoginRecorder) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
		recorder:     recorder,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("invalid request format"))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Login sets the auth-token cookie and also returns the token for clients
// that prefer the Authorization header.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("email and password are required"))
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if h.recorder != nil {
		h.recorder.RecordLogin(err == nil)
	}
	if err != nil {
		c.Error(err)
		return
	}

	ttl := h.authService.TokenTTL()
	h.setAuthCookie(c, token, int(ttl.Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"token":     token,
		"expiresIn": int(ttl.Seconds()),
	})
}

// Logout always clears the cookie. A presented credential is revoked.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := services.CredentialFromRequest(c.Request)
	h.setAuthCookie(c, "", -1)

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the stored account of the caller; 404 once it has been deleted.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.AuthCookieName, value, maxAge, "/", "", h.cookieSecure, true)
}
