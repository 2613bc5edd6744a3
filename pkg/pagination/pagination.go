package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
)

const (
	// DefaultLimit is the default page size
	DefaultLimit = 20
	// MaxLimit is the maximum page size
	MaxLimit = 100
	// DefaultOffset is the default offset
	DefaultOffset = 0
)

// Params holds parsed pagination parameters
type Params struct {
	Limit  int
	Offset int
}

// ParseParams parses limit/offset query parameters with defaults and bounds
func ParseParams(c *gin.Context) Params {
	params := Params{Limit: DefaultLimit, Offset: DefaultOffset}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			params.Limit = limit
		}
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	return params
}

// BuildMeta builds pagination metadata for a response
func BuildMeta(limit, offset int, total int64) *common.Meta {
	return &common.Meta{Limit: limit, Offset: offset, Total: total}
}
