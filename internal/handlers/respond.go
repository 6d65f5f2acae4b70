package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"meewadmin/internal/catalog"
	"meewadmin/internal/functions"
	"meewadmin/internal/hierarchy"
	"meewadmin/internal/notify"
	"meewadmin/internal/ordering"
	"meewadmin/internal/persist"
	"meewadmin/internal/store"
)

// maxJSONBody caps request bodies outside of uploads.
const maxJSONBody = 1 << 20

var (
	errBadRequest    = errors.New("bad request")
	errNotFound      = errors.New("not found")
	errConflict      = errors.New("conflict")
	errInvalidWindow = errors.New("end_date must not be before start_date")
	errNoStorage     = errors.New("object storage is not configured")
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errConflict, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, errNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError maps err onto a status code and a JSON body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		hierErr  *hierarchy.ValidationError
		fieldErr validator.ValidationErrors
		partial  *persist.PartialReorderFailure
		persErr  *persist.PersistenceError
		invErr   *functions.InvokeError
	)

	switch {
	case errors.As(err, &hierErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":       hierErr.Reason.Error(),
			"category_id": hierErr.CategoryID,
			"parent_id":   hierErr.ParentID,
		})
	case errors.As(err, &fieldErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": fieldErrors(fieldErr),
		})
	case errors.As(err, &partial):
		slog.Error("reorder partially applied", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     "reorder partially applied, retry to converge",
			"partial":   true,
			"applied":   partial.Applied,
			"total":     partial.Total,
			"failed_id": partial.Cause.ID,
		})
	case errors.As(err, &persErr):
		slog.Error("persistence failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   "storage write failed",
			"applied": 0,
		})
	case errors.Is(err, errNotFound),
		errors.Is(err, sql.ErrNoRows),
		errors.Is(err, ordering.ErrRecordNotFound),
		errors.Is(err, store.ErrUnknownCollection):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, errBadRequest),
		errors.Is(err, ordering.ErrIndexOutOfRange),
		errors.Is(err, store.ErrScopeRequired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, errConflict),
		errors.Is(err, notify.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, errInvalidWindow),
		errors.Is(err, notify.ErrScheduleInPast),
		errors.Is(err, catalog.ErrNoOptions),
		errors.Is(err, catalog.ErrDuplicateOption):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, errNoStorage),
		errors.Is(err, notify.ErrDeliveryDisabled):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case errors.As(err, &invErr):
		slog.Error("function call failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "push delivery failed"})
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
}

// decodeJSON reads a JSON body into dst, rejecting unknown keys and
// trailing data, then validates it.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	if dec.More() {
		return badRequest("unexpected data after JSON body")
	}
	return validate.Struct(dst)
}

// urlID parses a UUID path parameter.
func urlID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, badRequest("invalid %s", name)
	}
	return id, nil
}
