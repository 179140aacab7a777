package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/studyhall/membership-backend/internal/models"
	"github.com/studyhall/membership-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a staff account and issues an access token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Username and password are required")
		return
	}

	result, err := h.authService.Login(req, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, result)
}
