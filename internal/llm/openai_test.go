package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke_ReturnsFirstChoice(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", srv.URL)
	out, err := client.Invoke(context.Background(), "test-model", "the prompt")
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "the prompt", gotReq.Messages[0].Content)
}

func TestInvoke_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", srv.URL)
	_, err := client.Invoke(context.Background(), "test-model", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestInvoke_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", srv.URL)
	_, err := client.Invoke(context.Background(), "test-model", "prompt")
	assert.Error(t, err)
}

func TestInvoke_MissingAPIKey(t *testing.T) {
	client := NewOpenAIClient("", "http://localhost:0")
	_, err := client.Invoke(context.Background(), "test-model", "prompt")
	assert.Error(t, err)
}
