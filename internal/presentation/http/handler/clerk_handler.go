package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/marketday/fleamarket-api/internal/application/service"
	"github.com/marketday/fleamarket-api/internal/presentation/http/dto/request"
	"github.com/marketday/fleamarket-api/internal/presentation/http/dto/response"
)

// ClerkHandler handles clerk session HTTP requests
type ClerkHandler struct {
	clerkService *service.ClerkService
}

// NewClerkHandler creates a new clerk handler
func NewClerkHandler(clerkService *service.ClerkService) *ClerkHandler {
	return &ClerkHandler{clerkService: clerkService}
}

// ValidateCounter handles counter validation before login
func (h *ClerkHandler) ValidateCounter(c *gin.Context) {
	var req request.ValidateCounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	counter, err := h.clerkService.ValidateCounter(c.Request.Context(), req.Counter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Counter validated successfully", counter)
}

// Login handles clerk login with an access code
func (h *ClerkHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.clerkService.Login(c.Request.Context(), req.AccessCode, req.Counter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", result)
}

// Logout ends a clerk session. Sessions are stateless tokens, so the server
// side only acknowledges; the client discards the token.
func (h *ClerkHandler) Logout(c *gin.Context) {
	response.OK(c, "Logged out successfully", nil)
}

// Create handles overseer clerk provisioning
func (h *ClerkHandler) Create(c *gin.Context) {
	var req request.CreateClerkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.clerkService.CreateClerk(c.Request.Context(), req.Name, req.Overseer)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Clerk created successfully", result)
}
