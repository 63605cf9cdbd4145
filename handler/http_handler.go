package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"perplexity-proxy/metrics"
	"perplexity-proxy/perplexity"
)

const requestIDHeader = "X-Request-ID"

// Completer performs one chat completion call and returns the raw JSON body.
type Completer interface {
	ChatCompletion(ctx context.Context, payload perplexity.ChatRequest) ([]byte, error)
}

// ProxyHandler forwards a prompt to the completions API using a server-held
// credential.
type ProxyHandler struct {
	apiKey   string
	upstream Completer
}

// NewProxyHandler creates a ProxyHandler. apiKey is only checked for
// presence; upstream is expected to carry the same credential.
func NewProxyHandler(apiKey string, upstream Completer) *ProxyHandler {
	return &ProxyHandler{
		apiKey:   apiKey,
		upstream: upstream,
	}
}

// ServeHTTP implements the http.Handler interface for ProxyHandler.
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, requestID)
	entry := requestLogger(r, requestID)

	if h.apiKey == "" {
		metrics.MissingCredentialTotal.Inc()
		logAndReturnError(w, entry, MsgAPIKeyNotConfigured, http.StatusInternalServerError)
		return
	}

	// A missing or unparsable body is forwarded as an empty prompt. Fields
	// decoded before a type mismatch are kept.
	var payload RequestPayload
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				entry.WithError(err).Warn("Request body has a mistyped field, forwarding the rest")
			} else {
				entry.WithError(err).Warn("Request body is not a JSON prompt, forwarding empty prompt")
				payload = RequestPayload{}
			}
		}
	}
	structured := bool(payload.IsStructured)

	data, err := h.upstream.ChatCompletion(r.Context(), perplexity.NewChatRequest(payload.Prompt, structured))
	if err != nil {
		logAndReturnError(w, entry, MsgUpstreamFailed, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		entry.WithError(err).Warn("Failed to write response")
		return
	}
	logRequest(entry, structured)
}
