package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model       string  `json:"model"`
			MaxTokens   int     `json:"max_tokens"`
			Temperature float32 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		assert.Equal(t, 150, body.MaxTokens)
		assert.InDelta(t, 0.3, body.Temperature, 0.001)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "hello", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  - Jeans\n"}}]}`))
	}))
	defer srv.Close()

	c := NewClient("sk-test", srv.URL+"/v1", "test-model")
	text, err := c.Generate(context.Background(), "hello", Options{MaxTokens: 150, Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "- Jeans", text)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, ErrUnavailable},
		{"no choices", http.StatusOK, `{"id":"1","choices":[]}`, ErrEmpty},
		{"blank text", http.StatusOK, `{"id":"1","choices":[{"message":{"role":"assistant","content":"   "}}]}`, ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient("sk", srv.URL+"/v1", "m").Generate(context.Background(), "p", Options{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
