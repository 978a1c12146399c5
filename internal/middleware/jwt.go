package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	secret   = []byte("supersecret")
	tokenTTL = 72 * time.Hour
)

// ErrNoUser is returned by CurrentUserID outside an authenticated request.
var ErrNoUser = errors.New("no authenticated user")

// Configure sets the signing secret and token lifetime.
func Configure(jwtSecret string, ttl time.Duration) {
	if jwtSecret != "" {
		secret = []byte(jwtSecret)
	}
	if ttl > 0 {
		tokenTTL = ttl
	}
}

func GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ValidateToken(tokenStr string) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}

const queryTokenKey = "query_token"

// StripQueryToken moves the token query parameter into the context and
// removes it from the request URL, so later middleware such as the access
// logger never sees it. RequireAuthFromQuery reads it back.
func StripQueryToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Request.URL.Query()
		if q.Has("token") {
			c.Set(queryTokenKey, q.Get("token"))
			q.Del("token")
			c.Request.URL.RawQuery = q.Encode()
		}
		c.Next()
	}
}

// RequireAuth ensures a valid JWT is present as a bearer header.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		authenticate(c, tokenString)
	}
}

// RequireAuthFromQuery is RequireAuth for websocket upgrades, where browsers
// cannot set headers: the token query parameter is accepted as well.
func RequireAuthFromQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetString(queryTokenKey)
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			var ok bool
			if tokenString, ok = bearerToken(c); !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
				return
			}
		}
		authenticate(c, tokenString)
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	return tokenString, tokenString != ""
}

func authenticate(c *gin.Context, tokenString string) {
	token, err := ValidateToken(tokenString)
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	// Store claims in context for downstream handlers
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}
	c.Set("user_id", uint(id))

	c.Next()
}

// CurrentUserID returns the user id stored by RequireAuth.
func CurrentUserID(c *gin.Context) (uint, error) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, ErrNoUser
	}
	id, ok := v.(uint)
	if !ok {
		return 0, ErrNoUser
	}
	return id, nil
}
