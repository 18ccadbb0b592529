package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"serenicash/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_Configured(t *testing.T) {
	assert.False(t, NewGeminiClient(&config.AIConfig{}).Configured())
	assert.True(t, NewGeminiClient(&config.AIConfig{APIKey: "k"}).Configured())
}

func TestGeminiClient_Generate_NotConfigured(t *testing.T) {
	_, err := NewGeminiClient(&config.AIConfig{}).Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrAINotConfigured)
}

func TestGeminiClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello "},{"text":"world"}]}}]}`))
	}))
	defer srv.Close()

	g := NewGeminiClient(&config.AIConfig{APIKey: "test-key", BaseURL: srv.URL})
	out, err := g.Generate(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestGeminiClient_Generate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"key invalid"}}`))
	}))
	defer srv.Close()

	g := NewGeminiClient(&config.AIConfig{APIKey: "bad-key", BaseURL: srv.URL})
	_, err := g.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestGeminiClient_Generate_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g := NewGeminiClient(&config.AIConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := g.Generate(context.Background(), "hi")
	assert.Error(t, err)
}
