package api

import (
	"errors"
	"log"
	"net/http"

	"alcyxob/gym-tracker/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Constants for context keys
const (
	ContextRequestIDKey = "requestID"
	RequestIDHeader     = "X-Request-ID"
)

// IdentityMiddleware attaches the remote identity to the request context.
// Requests without an Authorization header stay local-only. A header that is
// present but cannot be verified is rejected, so a bad token never silently
// downgrades to local-only.
func IdentityMiddleware(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		if token == "" {
			c.Next()
			return
		}

		identity, err := verifier.Verify(token)
		switch {
		case errors.Is(err, auth.ErrAuthDisabled):
			// No secret configured: nothing can be verified, run local-only.
			log.Printf("WARN: bearer token ignored, auth is not configured")
			c.Next()
			return
		case errors.Is(err, auth.ErrTokenExpired):
			abortWithError(c, http.StatusUnauthorized, "Token has expired")
			return
		case err != nil:
			abortWithError(c, http.StatusUnauthorized, "Invalid token: "+err.Error())
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// RequestIDMiddleware tags every request with an id, reusing the caller's when sent.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
