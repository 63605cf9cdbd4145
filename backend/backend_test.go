package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perplexity-proxy/metrics"
	"perplexity-proxy/perplexity"
)

func TestChatCompletion_SendsPayloadAndCredential(t *testing.T) {
	var got perplexity.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}))
	defer srv.Close()

	client := NewBackendClient(srv.URL+"/", "secret-key", 0)
	body, err := client.ChatCompletion(context.Background(), perplexity.NewChatRequest("hello", false))

	require.NoError(t, err)
	assert.Equal(t, `{"id":"x"}`, string(body))
	assert.Equal(t, perplexity.NewChatRequest("hello", false), got)
}

func TestChatCompletion_ReturnsBodyVerbatim(t *testing.T) {
	raw := `{"id": "cmpl-1",  "choices": [ {"message": {"content": "hi"}} ], "usage": {"prompt_tokens": 3, "completion_tokens": 5}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(raw))
	}))
	defer srv.Close()

	before := testutil.ToFloat64(metrics.UpstreamTokensTotal.WithLabelValues("output"))

	body, err := NewBackendClient(srv.URL, "k", 0).ChatCompletion(context.Background(), perplexity.NewChatRequest("p", false))

	require.NoError(t, err)
	assert.Equal(t, raw, string(body))
	assert.Equal(t, before+5, testutil.ToFloat64(metrics.UpstreamTokensTotal.WithLabelValues("output")))
}

func TestChatCompletion_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream overloaded"))
	}))
	defer srv.Close()

	before := testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeHTTPError))

	_, err := NewBackendClient(srv.URL, "k", 0).ChatCompletion(context.Background(), perplexity.NewChatRequest("p", false))

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
	assert.Equal(t, "upstream overloaded", upstreamErr.Body)
	assert.Contains(t, err.Error(), "status: 503")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeHTTPError)))
}

func TestChatCompletion_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := NewBackendClient(srv.URL, "k", 0).ChatCompletion(context.Background(), perplexity.NewChatRequest("p", false))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestChatCompletion_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	before := testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeTransport))

	_, err := NewBackendClient(url, "k", 0).ChatCompletion(context.Background(), perplexity.NewChatRequest("p", false))

	require.Error(t, err)
	var upstreamErr *UpstreamError
	assert.False(t, errors.As(err, &upstreamErr))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeTransport)))
}

func TestChatCompletion_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBackendClient(srv.URL, "k", 0).ChatCompletion(ctx, perplexity.NewChatRequest("p", false))
	assert.ErrorIs(t, err, context.Canceled)
}
