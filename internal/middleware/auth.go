package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schedly/catalog-api/pkg/auth"
	"github.com/schedly/catalog-api/pkg/security"
)

const (
	HeaderAPIKey   = "X-API-Key"
	ContextSubject = "auth_subject"
)

// AuthMiddleware accepts either an admin bearer token or a
// service-to-service API key checked against bcrypt hashes from config.
type AuthMiddleware struct {
	verifier  auth.TokenVerifier
	hasher    security.KeyHasher
	keyHashes []string
}

func NewAuthMiddleware(verifier auth.TokenVerifier, hasher security.KeyHasher, keyHashes []string) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:  verifier,
		hasher:    hasher,
		keyHashes: keyHashes,
	}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(HeaderAPIKey); key != "" {
			if m.matchAPIKey(key) {
				c.Set(ContextSubject, "api-key")
				c.Next()
				return
			}
			m.reject(c, "invalid API key")
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			m.reject(c, "missing credentials")
			return
		}

		claims, err := m.verifier.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			m.reject(c, "invalid token")
			return
		}

		c.Set(ContextSubject, claims.Subject)
		c.Next()
	}
}

func (m *AuthMiddleware) matchAPIKey(key string) bool {
	for _, hash := range m.keyHashes {
		if m.hasher.Compare(hash, key) == nil {
			return true
		}
	}
	return false
}

func (m *AuthMiddleware) reject(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": http.StatusUnauthorized, "message": message},
	})
}
