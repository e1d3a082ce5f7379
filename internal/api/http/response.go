package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/utils"

	"github.com/gorilla/mux"
	"github.com/lib/pq"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int32 `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var pqErr *pq.Error
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrInsufficientAvailability):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &pqErr) && pqErr.Code.Class() == "23":
		// integrity constraint violation
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "error", err)
	} else {
		logger.DebugContext(r.Context(), "Request refused by service", "status", status, "error", err)
	}
	writeErrorStatus(w, r, status, err.Error())
}

func writeErrorStatus(w http.ResponseWriter, _ *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}

// queryInt64 returns nil when the parameter is absent.
func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, badRequest("invalid %s %q", name, raw)
	}
	return &v, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return v, nil
}

// queryPage reads a 1-based page and a page_size of at most maxPageSize.
func queryPage(r *http.Request) (page, pageSize int32, err error) {
	p, err := queryInt(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	if p < 1 || p > math.MaxInt32 {
		return 0, 0, badRequest("page must be between 1 and %d", math.MaxInt32)
	}
	ps, err := queryInt(r, "page_size", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if ps < 1 || ps > maxPageSize {
		return 0, 0, badRequest("page_size must be between 1 and %d", maxPageSize)
	}
	return int32(p), int32(ps), nil
}

// parseTime accepts the same layouts as request bodies.
func parseTime(raw string) (time.Time, error) {
	return utils.ParseDate(raw)
}

// queryTime returns nil when the parameter is absent.
func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return nil, badRequest("invalid %s %q", name, raw)
	}
	return &t, nil
}

func requireQueryTime(r *http.Request, name string) (time.Time, error) {
	t, err := queryTime(r, name)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, badRequest("%s is required", name)
	}
	return *t, nil
}

// queryList collects repeated and comma-separated values.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
