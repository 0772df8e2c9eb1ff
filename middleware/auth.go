package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ValidateToken guards user endpoints and puts user_id on the context.
func ValidateToken(c *gin.Context) {
	claims, ok := parseBearer(c)
	if !ok {
		return
	}

	c.Set("user_id", claims["user_id"])
	c.Next()
}

// ValidateAdminToken guards the admin dashboard endpoints.
func ValidateAdminToken(c *gin.Context) {
	claims, ok := parseBearer(c)
	if !ok {
		return
	}

	if role, _ := claims["role"].(string); role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		c.Abort()
		return
	}

	c.Set("admin_username", claims["username"])
	c.Next()
}

// parseBearer validates the Authorization header and returns the token
// claims. On failure it writes the response and aborts.
func parseBearer(c *gin.Context) (jwt.MapClaims, bool) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		c.Abort()
		return nil, false
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return nil, false
	}

	return claims, true
}
