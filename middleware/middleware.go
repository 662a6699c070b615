package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/internal/model/response/wrapper"
	"github.com/ZainyAct/browser-memory/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const (
	userIDKey       = "user_id"
	extensionKeyKey = "extension_key"

	TokenCookie  = "token"
	APIKeyHeader = "X-API-Key"
)

// APIKeyValidator resolves an extension API key to its owner.
type APIKeyValidator interface {
	ValidateAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionKey, error)
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: message, Success: false})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if token, err := c.Cookie(TokenCookie); err == nil {
		return token
	}
	return ""
}

// authenticate validates the bearer token or cookie and stores the user id.
func authenticate(c *gin.Context, secret []byte) bool {
	tokenString := bearerToken(c)
	if tokenString == "" {
		unauthorized(c, "Missing authentication token")
		return false
	}

	claims, err := utils.ValidateToken(secret, tokenString)
	if err != nil {
		unauthorized(c, "Invalid authentication token")
		return false
	}

	userID, _ := claims[userIDKey].(string)
	if _, err := uuid.FromString(userID); err != nil {
		unauthorized(c, "Invalid authentication token")
		return false
	}

	c.Set(userIDKey, userID)
	return true
}

func AuthenticationMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, secret) {
			return
		}
		c.Next()
	}
}

// IngestAuthMiddleware accepts an extension API key in X-API-Key and falls back to
// the user's JWT.
func IngestAuthMiddleware(secret []byte, keys APIKeyValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(APIKeyHeader)
		if apiKey == "" {
			if !authenticate(c, secret) {
				return
			}
			c.Next()
			return
		}

		key, err := keys.ValidateAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			unauthorized(c, "Invalid or inactive API key")
			return
		}

		c.Set(extensionKeyKey, key.ID.String())
		c.Set(userIDKey, key.UserID.String())
		c.Next()
	}
}

// ExtensionKeyID returns the id of the API key that authenticated the request.
// ok is false for requests authenticated with a JWT.
func ExtensionKeyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.GetString(extensionKeyKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// UserID returns the authenticated user set by one of the auth middlewares.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(userIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
