package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Meta carries pagination metadata alongside list responses.
type Meta struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// SuccessResponse sends a 200 response with the standard envelope
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// CreatedResponse sends a 201 response with the standard envelope
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

// SuccessResponseWithMeta sends a 200 response with pagination metadata
func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"meta":    meta,
	})
}

// ErrorResponse sends an error response with the standard envelope
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"message": message,
		},
	})
}

// AppErrorResponse sends an error response from an AppError
func AppErrorResponse(c *gin.Context, err *AppError) {
	c.JSON(err.StatusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    err.Code,
			"message": err.Message,
		},
	})
}
