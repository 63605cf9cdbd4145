package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

func requestLogger(req *http.Request, requestID string) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"request_id": requestID,
		"remote":     req.RemoteAddr,
		"method":     req.Method,
		"path":       req.URL.Path,
	})
}

func logRequest(entry *logrus.Entry, structured bool) {
	entry.WithField("structured", structured).Info("Request completed")
}

// logAndReturnError writes httpResponseStr as a JSON error body. consoleErr
// is optional and is logged in place of the response text when given.
func logAndReturnError(w http.ResponseWriter, entry *logrus.Entry, httpResponseStr string, code int, consoleErr ...error) {
	if len(consoleErr) > 0 {
		entry.WithError(consoleErr[0]).Error("Backend proxy error")
	} else {
		entry.Error(httpResponseStr)
	}
	writeJSON(w, code, errorResponse{Error: httpResponseStr})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to write response")
	}
}
