package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ownerIDKey = "ownerID"

// JWTClaims are the claims read from a bearer token. The subject is the
// budget owner; tokens are issued elsewhere and only verified here.
type JWTClaims struct {
	jwt.RegisteredClaims
}

func parseToken(tokenString string, key []byte) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "UNAUTHORIZED", "message": message},
	})
}

// AuthMiddleware verifies the bearer token and stores its subject as the
// owner ID. The access_token query parameter is accepted for clients that
// cannot set headers, such as EventSource.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		tokenString := c.Query("access_token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(c, "Invalid authorization header format")
				return
			}
			tokenString = parts[1]
		}
		if tokenString == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		claims, err := parseToken(tokenString, key)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ownerIDKey, claims.Subject)
		c.Next()
	}
}

// OwnerID returns the authenticated owner set by AuthMiddleware.
func OwnerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ownerIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
