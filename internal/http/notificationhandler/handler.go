package notificationhandler

import (
	"net/http"

	"auctionhouse/internal/http/apierror"
	"auctionhouse/internal/http/identity"
	"auctionhouse/internal/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListQuery struct {
	UnreadOnly bool `form:"unread_only"`
	Limit      int  `form:"limit,default=20" binding:"gte=0,lte=100"`
	Offset     int  `form:"offset,default=0" binding:"gte=0"`
}

type CountResponse struct {
	Count int64 `json:"count"`
} // @name CountResponse

type Handler struct {
	svc notification.INotificationService
}

func New(svc notification.INotificationService) *Handler { return &Handler{svc: svc} }

// Register mounts the inbox routes; r must run identity.Middleware.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/notifications", h.list)
	r.GET("/notifications/unread-count", h.unreadCount)
	r.POST("/notifications/read-all", h.readAll)
	r.POST("/notifications/:id/read", h.read)
	r.DELETE("/notifications/:id", h.delete)
	r.DELETE("/notifications", h.deleteAll)
}

// @Summary		List my notifications
// @Tags			Notifications
// @Param			X-User-ID	header		string	true	"Caller id"
// @Param			unread_only	query		bool	false	"Only unread"
// @Param			limit		query		int		false	"Max results (0-100)"	default(20)
// @Param			offset		query		int		false	"Offset for pagination"	default(0)
// @Success		200			{array}		notification.NotificationDTO
// @Router			/notifications [get]
func (h *Handler) list(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierror.BadRequest(c, err)
		return
	}
	out, err := h.svc.List(c.Request.Context(), identity.UserID(c), notification.ListQuery{
		UnreadOnly: q.UnreadOnly,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Count unread notifications
// @Tags			Notifications
// @Param			X-User-ID	header		string	true	"Caller id"
// @Success		200			{object}	CountResponse
// @Router			/notifications/unread-count [get]
func (h *Handler) unreadCount(c *gin.Context) {
	n, err := h.svc.UnreadCount(c.Request.Context(), identity.UserID(c))
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: int64(n)})
}

// @Summary		Mark a notification read
// @Tags			Notifications
// @Param			X-User-ID	header	string	true	"Caller id"
// @Param			id			path	string	true	"Notification ID"
// @Success		204
// @Failure		404	{object}	apierror.ErrorResponse
// @Router			/notifications/{id}/read [post]
func (h *Handler) read(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierror.BadRequest(c, err)
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), identity.UserID(c), id); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Mark all my notifications read
// @Tags			Notifications
// @Param			X-User-ID	header		string	true	"Caller id"
// @Success		200			{object}	CountResponse
// @Router			/notifications/read-all [post]
func (h *Handler) readAll(c *gin.Context) {
	n, err := h.svc.MarkAllRead(c.Request.Context(), identity.UserID(c))
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: n})
}

// @Summary		Delete a notification
// @Tags			Notifications
// @Param			X-User-ID	header	string	true	"Caller id"
// @Param			id			path	string	true	"Notification ID"
// @Success		204
// @Failure		404	{object}	apierror.ErrorResponse
// @Router			/notifications/{id} [delete]
func (h *Handler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierror.BadRequest(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), identity.UserID(c), id); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Delete all my notifications
// @Tags			Notifications
// @Param			X-User-ID	header		string	true	"Caller id"
// @Success		200			{object}	CountResponse
// @Router			/notifications [delete]
func (h *Handler) deleteAll(c *gin.Context) {
	n, err := h.svc.DeleteAll(c.Request.Context(), identity.UserID(c))
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: n})
}
