package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Rsgr172026/KanbanMate/internal/service"
	"github.com/Rsgr172026/KanbanMate/internal/util"
	"github.com/Rsgr172026/KanbanMate/pkg/metrics"
)

type AuthHandler struct {
	auth          *service.AuthService
	jwtSecret     string
	secureCookies bool
	logger        *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, jwtSecret string, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		jwtSecret:     jwtSecret,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// setSessionCookie mints a session token and attaches it as the
// HttpOnly, SameSite=Strict cookie every successful auth path shares.
func (h *AuthHandler) setSessionCookie(c *gin.Context, userID string) error {
	token, err := util.GenerateJWT(userID, h.jwtSecret)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(util.SessionCookie, token, int(util.SessionTTL.Seconds()), "/", "", h.secureCookies, true)
	return nil
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, service.ErrUserExists) {
		metrics.IncrementAuthAttempt("register", "exists")
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
		return
	}
	if err != nil {
		h.logger.Error("Register failed", zap.Error(err))
		metrics.IncrementAuthAttempt("register", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.setSessionCookie(c, u.ID); err != nil {
		h.logger.Error("Failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.IncrementAuthAttempt("register", "success")
	c.JSON(http.StatusCreated, gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		metrics.IncrementAuthAttempt("login", "invalid")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if err != nil {
		h.logger.Error("Login failed", zap.Error(err))
		metrics.IncrementAuthAttempt("login", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.setSessionCookie(c, u.ID); err != nil {
		h.logger.Error("Failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.IncrementAuthAttempt("login", "success")
	c.JSON(http.StatusOK, gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	})
}

// Logout handles POST /auth/logout. Sessions are stateless, so logout
// only replaces the cookie with an already-expired one.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(util.SessionCookie, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GoogleLogin handles POST /auth/google. The provider's assertion is
// trusted as delivered; only the asserted name and email are consumed.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required"`
		Photo string `json:"photo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.LoginFederated(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		h.logger.Error("Federated login failed", zap.Error(err))
		metrics.IncrementAuthAttempt("google", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.setSessionCookie(c, u.ID); err != nil {
		h.logger.Error("Failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.IncrementAuthAttempt("google", "success")
	c.JSON(http.StatusOK, gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	})
}
