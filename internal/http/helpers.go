package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/neuroplay/neuroplay/internal/auth"
	"github.com/neuroplay/neuroplay/internal/entities"
)

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondForbidden sends a 403 Forbidden response.
func respondForbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, ErrorResponse{Error: message})
}

// respondConflict sends a 409 Conflict response.
func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 response. The actual
// error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response for async operations.
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with a 400 and returns false on failure.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// maxRangeMillis is the upper bound used when "to" is omitted
// (9999-12-31T23:59:59Z).
const maxRangeMillis = 253402300799000

// parseDateRange reads optional "from" and "to" query parameters given as
// Unix epoch milliseconds. Missing bounds default to the open range.
func parseDateRange(c *gin.Context) (from, to int64, ok bool) {
	from, to = 0, int64(maxRangeMillis)
	if v := c.Query("from"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondBadRequest(c, "invalid from timestamp")
			return 0, 0, false
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondBadRequest(c, "invalid to timestamp")
			return 0, 0, false
		}
		to = parsed
	}
	return from, to, true
}

// canAccessChild decides whether the authenticated user may read a child's
// progress data. Admins and specialists may read any child; a child account
// may only read itself.
func canAccessChild(c *gin.Context, childID uint) bool {
	switch auth.GetUserRole(c) {
	case entities.UserRoleAdmin, entities.UserRoleSpecialist:
		return true
	case entities.UserRoleChild:
		return auth.GetUserID(c) == childID
	default:
		return false
	}
}
