package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/scizor/server/internal/shared/response"
)

const adminRole = "admin"

// AdminClaims represents the JWT claims for the admin surface.
type AdminClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// AdminAuth returns a middleware that guards admin routes with an HS256
// bearer token. An empty secret disables the admin surface entirely.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Abort()
			response.Fail(c, http.StatusNotFound, "not_found", "not found")
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.Abort()
			response.Unauthorized(c, "missing bearer token")
			return
		}

		claims, err := validateAdminToken(token, secret)
		if err != nil {
			c.Abort()
			response.Unauthorized(c, "invalid token")
			return
		}
		if claims.Role != adminRole {
			c.Abort()
			response.Fail(c, http.StatusForbidden, "forbidden", "admin role required")
			return
		}

		c.Next()
	}
}

func validateAdminToken(tokenString, secret string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// GenerateAdminToken mints an admin bearer token. Used by operator tooling
// and tests.
func GenerateAdminToken(secret string, expiry time.Duration) (string, error) {
	claims := &AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "scizor",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: adminRole,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}
