package controller

import (
	"net/http"

	"github.com/canopy-network/pos-gateway/pkg/pos"
	"github.com/go-jose/go-jose/v4/json"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch pos.KindOf(err) {
	case pos.KindInvalidFormat, pos.KindInvalidPagination:
		return http.StatusBadRequest
	case pos.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with the status of its kind. Server-side failures are logged.
func (c *Controller) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		if r.Context().Err() != nil {
			c.App.Logger.Debug("request cancelled", zap.String("path", r.URL.Path), zap.Error(err))
		} else {
			c.App.Logger.Error("request failed",
				zap.String("path", r.URL.Path),
				zap.String("kind", pos.KindOf(err).String()),
				zap.Error(err),
			)
		}
	}
	writeError(w, status, err.Error())
}
