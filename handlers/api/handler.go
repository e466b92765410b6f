package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/nijaru/vod-highlights/errors"
	"github.com/nijaru/vod-highlights/middleware"
	"github.com/nijaru/vod-highlights/validation"
	"github.com/sirupsen/logrus"
)

const maxBodySize = 1024 * 1024

// Response represents a standardized API response
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	writeResponse(w, code, Response{
		Success:   code >= 200 && code < 300,
		Data:      payload,
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// respondErrorWithData reports err and still returns data, so clients see
// the state that goes with the failure.
func respondErrorWithData(w http.ResponseWriter, r *http.Request, err error, data interface{}) {
	code := http.StatusInternalServerError
	msg := "Internal server error"

	if appErr, ok := errors.As(err); ok {
		code = appErr.Code
		msg = appErr.Message
	}

	entry := logrus.WithFields(logrus.Fields{
		"error":      err,
		"status":     code,
		"request_id": middleware.GetRequestID(r.Context()),
		"path":       r.URL.Path,
		"method":     r.Method,
	})
	if code >= 500 {
		entry.Error("Request error")
	} else {
		entry.Warn("Request error")
	}

	writeResponse(w, code, Response{
		Success:   false,
		Data:      data,
		Error:     msg,
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	respondErrorWithData(w, r, err, nil)
}

func writeResponse(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
	}
}

// readJSON validates a JSON POST body and decodes it into v.
func readJSON(r *http.Request, v interface{}) error {
	if err := validation.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: maxBodySize,
		AllowedMethods:   []string{http.MethodPost},
		RequireJSON:      true,
	}); err != nil {
		return err
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return errors.InvalidInput("readJSON", err, "Invalid JSON format")
	}
	return nil
}
