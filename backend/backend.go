package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"perplexity-proxy/logging"
	"perplexity-proxy/metrics"
	"perplexity-proxy/perplexity"
)

var log = logging.GetLogger()

// ErrMalformedResponse is returned when the upstream answers 2xx with a body
// that is not valid JSON.
var ErrMalformedResponse = errors.New("malformed upstream response")

// UpstreamError is a non-2xx answer from the completions API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Perplexity API error! status: %d, body: %s", e.StatusCode, e.Body)
}

// Client talks to the Perplexity chat completions API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewBackendClient creates a Client for apiRoot. A zero timeout leaves the
// upstream call bounded only by the caller's context.
func NewBackendClient(apiRoot, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(apiRoot, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ChatCompletion posts payload to /chat/completions and returns the raw JSON
// body of a successful answer.
func (c *Client) ChatCompletion(ctx context.Context, payload perplexity.ChatRequest) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	start := time.Now()
	resp, err := c.post(ctx, perplexity.ChatCompletionsPath, bytes.NewReader(body))
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeTransport).Inc()
		return nil, fmt.Errorf("calling upstream: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeTransport).Inc()
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeHTTPError).Inc()
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if !gjson.ValidBytes(data) {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeMalformed).Inc()
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedResponse, len(data))
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	recordUsage(data)
	return data, nil
}

// post sends body to path with the JSON content type and bearer credential.
func (c *Client) post(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.httpClient.Do(req)
}

// recordUsage logs the completion id and feeds token counts into metrics.
// The body itself is left untouched.
func recordUsage(data []byte) {
	fields := gjson.GetManyBytes(data, "id", "model", "usage.prompt_tokens", "usage.completion_tokens")

	if n := fields[2].Int(); n > 0 {
		metrics.UpstreamTokensTotal.WithLabelValues("input").Add(float64(n))
	}
	if n := fields[3].Int(); n > 0 {
		metrics.UpstreamTokensTotal.WithLabelValues("output").Add(float64(n))
	}

	log.WithFields(logrus.Fields{
		"completion_id": fields[0].String(),
		"model":         fields[1].String(),
		"input_tokens":  fields[2].Int(),
		"output_tokens": fields[3].Int(),
	}).Debug("Upstream completion received")
}
