package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"envelopes/internal/auth"
	apperrors "envelopes/internal/errors"
	"envelopes/internal/services"
)

// AuthHandler handles login requests.
type AuthHandler struct {
	users  services.UserServicer
	tokens *auth.Manager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users services.UserServicer, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// LoginRequest is the POST /auth body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a JWT. The response names the header the
// token must be sent back in.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	user, err := h.users.AttemptLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"type":  auth.HeaderName,
		"token": token,
	})
}
