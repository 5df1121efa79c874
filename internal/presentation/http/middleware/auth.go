package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/application/service"
	"github.com/marketday/fleamarket-api/internal/presentation/http/dto/response"
	"github.com/marketday/fleamarket-api/pkg/utils"
)

// AuthMiddleware creates a JWT session authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		tokenString := parts[1]

		// Validate the token
		claims, err := jwtManager.ValidateSessionToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// Set session info in context
		c.Set("clerk_id", claims.ClerkID)
		c.Set("counter_id", claims.CounterID)
		c.Set("overseer", claims.Overseer)

		c.Next()
	}
}

// RequireOverseer creates a middleware that restricts a route to overseers
func RequireOverseer() gin.HandlerFunc {
	return func(c *gin.Context) {
		overseer, exists := c.Get("overseer")
		if !exists || overseer != true {
			response.Forbidden(c, "Overseer access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetActor extracts the acting clerk and counter from the session context
func GetActor(c *gin.Context) service.Actor {
	actor := service.Actor{}
	if id, ok := c.Get("clerk_id"); ok {
		if clerkID, ok := id.(uuid.UUID); ok {
			actor.ClerkID = clerkID
		}
	}
	if id, ok := c.Get("counter_id"); ok {
		if counterID, ok := id.(uuid.UUID); ok {
			actor.CounterID = counterID
		}
	}
	return actor
}

// GetCounterID extracts the session's counter id, uuid.Nil outside a session
func GetCounterID(c *gin.Context) uuid.UUID {
	if id, ok := c.Get("counter_id"); ok {
		if counterID, ok := id.(uuid.UUID); ok {
			return counterID
		}
	}
	return uuid.Nil
}
