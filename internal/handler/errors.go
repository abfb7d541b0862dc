package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/thaiaddress/internal/domain"
)

// ErrorCodeToHTTPStatus maps a domain error code to an HTTP status.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ErrorResponse writes err as JSON when the client accepts it (or the path
// is under /api/), and as plain text otherwise. Internal errors are logged
// and shown with a generic message.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)
	message := domain.ErrorMessage(err)

	if status >= http.StatusInternalServerError {
		slog.Default().Error("request failed",
			"path", r.URL.Path,
			"op", domain.ErrorOp(err),
			"error", err,
		)
	}

	if wantsJSON(r) {
		var body errorBody
		body.Error.Code = code
		body.Error.Message = message
		WriteJSON(w, status, body)
		return
	}

	http.Error(w, message, status)
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode JSON response", "error", err)
	}
}

func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
