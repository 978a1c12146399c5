package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/me", RequireAuth(), func(c *gin.Context) {
		id, err := CurrentUserID(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	ws := r.Group("/ws", StripQueryToken(), RequireAuthFromQuery())
	ws.GET("/me", func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "raw_query": c.Request.URL.RawQuery})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestRequireAuth(t *testing.T) {
	Configure("test-secret", 0)
	r := newRouter()

	token, err := GenerateToken(7)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		code   int
	}{
		{"bearer header", "/me", "Bearer " + token, http.StatusOK},
		{"query token rejected", "/me?token=" + token, "", http.StatusUnauthorized},
		{"missing", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "/me", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
			}
		})
	}
}

func TestRequireAuthFromQuery(t *testing.T) {
	Configure("test-secret", 0)
	r := newRouter()

	token, err := GenerateToken(9)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		code   int
		query  string
	}{
		{"query token", "/ws/me?token=" + token + "&trip=3", "", http.StatusOK, "trip=3"},
		{"bearer header", "/ws/me", "Bearer " + token, http.StatusOK, ""},
		{"missing", "/ws/me", "", http.StatusUnauthorized, ""},
		{"empty query token", "/ws/me?token=", "", http.StatusUnauthorized, ""},
		{"garbage query token", "/ws/me?token=abc", "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				var body struct {
					UserID   uint   `json:"user_id"`
					RawQuery string `json:"raw_query"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, uint(9), body.UserID)
				assert.Equal(t, tt.query, body.RawQuery)
			}
		})
	}
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req = httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(RequestIDHeader, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
