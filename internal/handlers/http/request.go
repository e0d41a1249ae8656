package http

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"midway/internal/core/domain"
	"midway/internal/infrastructure/middleware"
	apperrors "midway/pkg/errors"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

// serverOwned lists JSON fields a client may send but never sets. Keys are
// matched without regard to case, as encoding/json matches them.
var serverOwned = []string{"id", "createdAt", "updatedAt"}

func isServerOwned(key string) bool {
	for _, owned := range serverOwned {
		if strings.EqualFold(key, owned) {
			return true
		}
	}
	return false
}

// decodeBody reads a JSON object from the request and decodes it onto target
// after dropping server-owned fields. Fields absent from the body keep
// target's current values.
func decodeBody(c *gin.Context, target any) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return apperrors.NewValidationError("unreadable request body")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return apperrors.NewValidationError("request body must be a JSON object")
	}
	for key := range fields {
		if isServerOwned(key) {
			delete(fields, key)
		}
	}

	cleaned, err := json.Marshal(fields)
	if err != nil {
		return apperrors.NewValidationError("request body must be a JSON object")
	}
	if err := json.Unmarshal(cleaned, target); err != nil {
		return apperrors.NewValidationError("request body has a field of the wrong type")
	}
	return nil
}

// principal returns the caller admitted by the route guard.
func principal(c *gin.Context) *domain.Principal {
	return middleware.PrincipalFrom(c)
}

// intQuery parses an optional integer query parameter.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.NewValidationError(name+" must be an integer").WithContext(name, v)
	}
	return n, nil
}
