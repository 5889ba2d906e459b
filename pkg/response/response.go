package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/inventory-admin-api/pkg/errors"
)

const (
	// ErrorCodeHeader carries the machine readable error code next to the detail body.
	ErrorCodeHeader = "X-Error-Code"
	// TotalCountHeader carries the unpaginated row count of list responses.
	TotalCountHeader = "X-Total-Count"
)

// ErrorBody is the error contract returned to clients.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Message is the acknowledgement body for operations without a resource payload.
type Message struct {
	Message string `json:"message"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// List sends a collection response exposing the total row count as a header.
func List(c *gin.Context, data interface{}, total int) {
	c.Header(TotalCountHeader, strconv.Itoa(total))
	JSON(c, http.StatusOK, data)
}

// OK responds with a plain acknowledgement message.
func OK(c *gin.Context, message string) {
	JSON(c, http.StatusOK, Message{Message: message})
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.Header(ErrorCodeHeader, appErr.Code)
	if appErr.Status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.JSON(appErr.Status, ErrorBody{Detail: appErr.Message})
}

// Abort writes the error response and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
