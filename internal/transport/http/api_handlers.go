package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pulsechat/pulse-server/internal/auth"
	"github.com/pulsechat/pulse-server/internal/core"
)

// APIHandlers provides HTTP handlers for REST API endpoints.
type APIHandlers struct {
	hub         *core.Hub
	authService *auth.Service
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, authService *auth.Service, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		hub:         hub,
		authService: authService,
		log:         logger,
	}
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username"`
}

// LoginResponse represents the login response body.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Login issues an identity token for a username. No accounts exist; any
// non-empty name is accepted.
// POST /api/login
func (h *APIHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Covers missing body and non-string usernames alike.
		h.log.Debug().Err(err).Msg("invalid login request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Username is required"})
		return
	}

	token, username, err := h.authService.IssueToken(req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameRequired) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Username is required"})
			return
		}
		h.log.Error().Err(err).Str("username", req.Username).Msg("failed to issue token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("username", username).Msg("token issued")
	c.JSON(http.StatusOK, LoginResponse{Token: token, Username: username})
}

// Messages returns the current history buffer.
// GET /api/messages
func (h *APIHandlers) Messages(c *gin.Context) {
	c.JSON(http.StatusOK, messagesToWire(h.hub.HistorySnapshot()))
}

// Users returns every live session.
// GET /api/users
func (h *APIHandlers) Users(c *gin.Context) {
	c.JSON(http.StatusOK, sessionsToWire(h.hub.SessionsSnapshot()))
}
