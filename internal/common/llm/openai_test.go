package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func TestOpenAIClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		assert.Equal(t, 0.0, req.Temperature)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "You are a reviewer.", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "Essay here", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionBody("Score: 42\nReason: stable income\n")))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL+"/v1/")
	text, err := client.Complete(context.Background(), Request{
		Model:  "gpt-4o",
		System: "You are a reviewer.",
		User:   "Essay here",
	})

	require.NoError(t, err)
	assert.Equal(t, "Score: 42\nReason: stable income\n", text, "reply text is returned untrimmed")
	assert.Equal(t, ProviderOpenAI, client.Provider())
}

func TestOpenAIClient_Complete_EmptyContentIsAReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionBody("")))
	}))
	defer server.Close()

	text, err := NewOpenAIClient("k", server.URL).Complete(context.Background(), Request{Model: "m", User: "u"})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestOpenAIClient_Complete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusServiceUnavailable, `{"error":{"message":"overloaded"}}`, ErrRequestFailed},
		{"quota error", http.StatusTooManyRequests, `{"error":{"message":"quota"}}`, ErrRequestFailed},
		{"malformed body", http.StatusOK, `not json`, ErrRequestFailed},
		{"error object on 200", http.StatusOK, `{"error":{"message":"bad key"}}`, ErrRequestFailed},
		{"no choices", http.StatusOK, `{"choices":[]}`, ErrEmptyCompletion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewOpenAIClient("k", server.URL)
			_, err := client.Complete(context.Background(), Request{Model: "m", User: "u"})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, 1, calls, "exactly one attempt, no retry")
		})
	}
}

func TestOpenAIClient_Complete_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewOpenAIClient("k", server.URL)
	_, err := client.Complete(ctx, Request{Model: "m", User: "u"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestOpenAIClient_Complete_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewOpenAIClient("k", url)
	_, err := client.Complete(context.Background(), Request{Model: "m", User: "u"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))
}
