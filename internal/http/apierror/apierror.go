// Package apierror maps domain failures onto HTTP responses.
package apierror

import (
	"net/http"

	"auctionhouse/internal/auction"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error" example:"bid amount is below the minimum"`
} // @name ErrorResponse

func Status(err error) int {
	switch auction.KindOf(err) {
	case auction.KindNotFound:
		return http.StatusNotFound
	case auction.KindForbidden:
		return http.StatusForbidden
	case auction.KindRule:
		return http.StatusConflict
	case auction.KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond aborts the request with the status for err. Internal failures are
// logged and their text is not sent to the client.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("http_internal_error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

// BadRequest is for malformed input rejected before it reaches a service.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
