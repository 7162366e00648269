package dealerai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealerCommentRoundTrip(t *testing.T) {
	var captured completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Nineteen. Not bad, sugar."}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "test-key", Model: "test-model"}, testLogger())

	comment, err := client.DealerComment(context.Background(), "react to this")
	require.NoError(t, err)
	assert.Equal(t, "Nineteen. Not bad, sugar.", comment)
	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "react to this", captured.Messages[0].Content)
}

func TestDealerCommentFailsFastWithoutKey(t *testing.T) {
	client := NewClient(Config{Model: "test-model"}, testLogger())

	_, err := client.DealerComment(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not configured")
}

func TestDealerCommentNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "test-key"}, testLogger())

	_, err := client.DealerComment(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion request failed")
}

func TestGenerateAvatarReturnsImageURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "image-model", req.Model)
		assert.Equal(t, []string{"image", "text"}, req.Modalities)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"","images":[{"image_url":{"url":"data:image/png;base64,abc"}}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "test-key", ImageModel: "image-model"}, testLogger())

	url, err := client.GenerateAvatar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,abc", url)
}
