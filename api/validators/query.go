package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

func ParseQueryBool(r *http.Request, key string, defaultVal bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseQueryList splits a comma separated parameter, dropping blanks. Repeated keys are merged.
func ParseQueryList(r *http.Request, key string, maxItems int) ([]string, error) {
	values := []string{}
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				values = append(values, trimmed)
			}
		}
	}
	if maxItems > 0 && len(values) > maxItems {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many values").WithDetails(map[string]any{"field": key, "max": maxItems})
	}
	return values, nil
}
