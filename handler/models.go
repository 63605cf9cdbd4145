package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// RequestPayload represents the expected JSON structure in the request body.
type RequestPayload struct {
	Prompt       string `json:"prompt"`
	IsStructured Truthy `json:"isStructured"`
}

// Truthy decodes any JSON value into a bool the way a browser client would
// test it: false, null, 0, "" are false, everything else is true.
type Truthy bool

func (t *Truthy) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*t = false
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = s != ""
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		// Out-of-range numbers come back as ±Inf or 0 alongside ErrRange,
		// which still carry the right truthiness.
		f, _ := strconv.ParseFloat(string(data), 64)
		*t = f != 0
	default:
		// true, objects and arrays
		*t = true
	}
	return nil
}

// errorResponse is the body of every failed response.
type errorResponse struct {
	Error string `json:"error"`
}

// Caller-visible error messages. Upstream detail never goes beyond the log.
const (
	MsgAPIKeyNotConfigured = "API Key not configured on server."
	MsgUpstreamFailed      = "Failed to call Perplexity API."
)
