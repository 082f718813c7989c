package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"shoe-catalog-service/internal/models"
)

// DevUserID is the session user injected in development mode
const DevUserID = "00000000-0000-0000-0000-000000000001"

// SessionClaims are the claims carried by an admin session token
type SessionClaims struct {
	Shop  string `json:"shop,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// DevelopmentAuthMiddleware is a simple auth middleware for development
func DevelopmentAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = DevUserID
		}
		c.Set("user_id", userID)
		c.Set("shop", c.GetHeader("X-Shop-Domain"))
		c.Next()
	}
}

// JWTAuthMiddleware verifies an HS256 bearer token signed with secret and
// exposes its subject as user_id and its shop claim as shop.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		tokenStr, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		claims, err := ParseSessionToken(tokenStr, key)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired session token")
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("shop", claims.Shop)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

// ParseSessionToken validates tokenStr and returns its claims
func ParseSessionToken(tokenStr string, key []byte) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse token failed: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("Authorization header required")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("Invalid authorization format")
	}
	return parts[1], nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Error:   message,
		Code:    "UNAUTHORIZED",
		Status:  http.StatusUnauthorized,
	})
}
