package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gbgcf/crp-questionnaire/internal/models"
)

const textContentType = "text/plain; charset=utf-8"

// SendTextResponse sends a plain text body, the format used for form payloads
func SendTextResponse(c *gin.Context, statusCode int, body string) {
	c.Data(statusCode, textContentType, []byte(body))
}

// SendOKText sends a 200 OK plain text response
func SendOKText(c *gin.Context, body string) {
	SendTextResponse(c, http.StatusOK, body)
}

// SendEmptyResponse sends a status with no body
func SendEmptyResponse(c *gin.Context, statusCode int) {
	c.Status(statusCode)
}

// SendErrorResponse sends an error JSON response
func SendErrorResponse(c *gin.Context, statusCode int, errCode, message, details string) {
	c.JSON(statusCode, models.NewErrorResponse(errCode, message, details))
}

// SendCodedError sends an error JSON response with the status derived from errCode
func SendCodedError(c *gin.Context, errCode, message, details string) {
	SendErrorResponse(c, models.HTTPStatusForErrorCode(errCode), errCode, message, details)
}

// SendValidationError sends a validation error response
func SendValidationError(c *gin.Context, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeValidationError, "Validation failed", details)
}
