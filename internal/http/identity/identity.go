// Package identity resolves the calling user of a request.
package identity

import (
	"net/http"

	"auctionhouse/internal/http/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	Header = "X-User-ID"
	ctxKey = "identity.user_id"
)

// Middleware requires a well-formed user id header and stores it on the context.
// Whether the user exists is decided by the services.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(Header)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.ErrorResponse{Error: "missing " + Header + " header"})
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.ErrorResponse{Error: "malformed " + Header + " header"})
			return
		}
		c.Set(ctxKey, id)
		c.Next()
	}
}

// UserID returns the id stored by Middleware, or uuid.Nil.
func UserID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ctxKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
