package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-nippo-backend/config"
	"go-nippo-backend/internal/delivery/http/response"
	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/auth"
	"go-nippo-backend/pkg/logger"
	"go-nippo-backend/pkg/revoke"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies the bearer token and builds the typed session that
// every downstream handler trusts. Claims are validated exactly once, here.
func AuthMiddleware(jwksProvider *auth.Provider, cfg *config.Config, revoker domain.TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		// 1. Try to get token from Header
		if authHeader != "" {
			// Anything other than a Bearer credential is treated as absent
			// rather than parsed as a token.
			if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				tokenString = after
			}
		} else {
			// 2. Try to get token from Cookie
			cookie, err := c.Cookie("auth_token")
			if err == nil && cookie != "" {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
				// HS256 - shared secret (also covers demo-mode tokens)
				if cfg.AuthJWTSecret == "" {
					return nil, fmt.Errorf("HS256 token received but AUTH_JWT_SECRET is not configured")
				}
				return []byte(cfg.AuthJWTSecret), nil
			}

			if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
				// RS256 - provider JWKS
				return jwksProvider.KeyFunc(token)
			}

			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		})

		if err != nil || !token.Valid {
			logger.Log.Debug("token validation failed", "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		if sub == "" {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		expiresAt := time.Now().Add(time.Hour)
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			expiresAt = exp.Time
		}

		digest := revoke.Digest(tokenString)
		revoked, err := revoker.IsRevoked(c.Request.Context(), digest)
		if err != nil {
			logger.Log.Error("revocation check failed", "error", err)
			response.Error(c, http.StatusInternalServerError, "Could not verify session", nil)
			c.Abort()
			return
		}
		if revoked {
			response.Error(c, http.StatusUnauthorized, "Session has been signed out", nil)
			c.Abort()
			return
		}

		c.Set(domain.SessionKey, &domain.Session{
			UserID:      sub,
			Email:       email,
			TokenDigest: digest,
			ExpiresAt:   expiresAt,
		})
		c.Set(domain.AccessTokenKey, tokenString)

		c.Next()
	}
}
