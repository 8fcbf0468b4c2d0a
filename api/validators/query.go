package validators

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
)

// ParseQueryDate reads an optional YYYY-MM-DD query parameter.
func ParseQueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a date (YYYY-MM-DD)").
			WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// ParseQueryEnum reads an optional query parameter restricted to a value set.
func ParseQueryEnum(r *http.Request, key string, allowed ...string) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return "", nil
	}
	for _, candidate := range allowed {
		if strings.EqualFold(raw, candidate) {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").
		WithDetails(map[string]any{"field": key, "allowed": allowed})
}
