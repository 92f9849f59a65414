package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
)

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

// queryInt64 parses an optional integer query parameter, returning zero
// when absent.
func queryInt64(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return value, nil
}

// queryInt parses an optional integer query parameter, returning zero
// when absent.
func queryInt(c *gin.Context, name string) (int, error) {
	value, err := queryInt64(c, name)
	return int(value), err
}
