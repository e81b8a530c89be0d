package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"go.uber.org/zap"
)

type envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondData writes {status: success, data: {key: v}}.
func respondData(w http.ResponseWriter, status int, key string, v any) {
	writeJSON(w, status, envelope{Status: "success", Data: map[string]any{key: v}})
}

func respondList[T any](w http.ResponseWriter, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	writeJSON(w, http.StatusOK, envelope{Status: "success", Results: &n, Data: map[string]any{key: items}})
}

// errorStatus classifies err. Client errors carry their message, server
// errors a generic one.
func errorStatus(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrInputFormat), errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "request body too large"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrUpload):
		return http.StatusBadGateway, "image upload failed"
	}
	return http.StatusInternalServerError, "something went wrong"
}

func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	status, msg := errorStatus(err)
	kind := "fail"
	if status >= 500 {
		kind = "error"
		log.Error("Request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, envelope{Status: kind, Message: msg})
}
