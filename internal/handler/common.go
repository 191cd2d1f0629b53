package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the caller's user id from echo.Context. JWTAuth
// stores the JWT subject there as a string.
func getUserID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("invalid user_id in context")
}

// dedupIDs removes empty strings and duplicates while preserving the
// order of first occurrence.
func dedupIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
