package auctionhandler

import (
	"net/http"

	"auctionhouse/internal/auction"
	"auctionhouse/internal/http/apierror"
	"auctionhouse/internal/http/identity"
	"auctionhouse/internal/services/auctionsvc"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc auctionsvc.IAuctionService
}

func New(svc auctionsvc.IAuctionService) *Handler { return &Handler{svc: svc} }

// Register mounts the read routes on public and everything that acts as a
// user on authed, which must run identity.Middleware.
func (h *Handler) Register(public, authed gin.IRoutes) {
	public.GET("/auctions", h.list)
	public.GET("/auctions/:id", h.info)
	public.GET("/auctions/:id/bids", h.bids)

	authed.POST("/auctions", h.create)
	authed.PATCH("/auctions/:id", h.update)
	authed.POST("/auctions/:id/end", h.end)
	authed.POST("/auctions/:id/cancel", h.cancel)
	authed.DELETE("/auctions/:id", h.remove)
	authed.POST("/auctions/:id/bids", h.bid)
	authed.GET("/users/me/bids", h.myBids)
}

func auctionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierror.BadRequest(c, err)
		return uuid.Nil, false
	}
	return id, true
}

// @Summary		Create an auction
// @Description	Opens a new auction owned by the caller.
// @Tags			Auctions
// @Param			X-User-ID	header		string				true	"Caller id"
// @Param			body		body		CreateAuctionBody	true	"Auction payload"
// @Success		201			{object}	auctionsvc.AuctionDTO
// @Failure		400			{object}	apierror.ErrorResponse
// @Failure		403			{object}	apierror.ErrorResponse
// @Router			/auctions [post]
func (h *Handler) create(c *gin.Context) {
	var body CreateAuctionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apierror.BadRequest(c, err)
		return
	}
	dto, err := h.svc.CreateAuction(c.Request.Context(), auctionsvc.CreateAuctionCommand{
		SellerID:        identity.UserID(c),
		Title:           body.Title,
		Description:     body.Description,
		StartingPrice:   body.StartingPrice,
		MinBidIncrement: body.MinBidIncrement,
		EndTime:         body.EndTime,
		CategoryID:      body.CategoryID,
		Currency:        auction.Currency(body.Currency),
		MediaURLs:       body.MediaURLs,
	})
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// @Summary		Get auction details
// @Description	Returns an auction with seller, category, bid count and media.
// @Tags			Auctions
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{object}	auctionsvc.AuctionDTO
// @Failure		404	{object}	apierror.ErrorResponse
// @Router			/auctions/{id} [get]
func (h *Handler) info(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}
	dto, err := h.svc.GetAuction(c.Request.Context(), id)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// @Summary		List auctions
// @Description	Retrieves a paginated list of auctions, optionally filtered by status and seller.
// @Tags			Auctions
// @Param			status		query		string	false	"Status filter"			Enums(Active,Sold,Cancelled)
// @Param			seller_id	query		string	false	"Seller filter"
// @Param			limit		query		int		false	"Max results (0-100)"	minimum(0)	maximum(100)	default(10)
// @Param			offset		query		int		false	"Offset for pagination"	minimum(0)	default(0)
// @Success		200			{array}		auctionsvc.AuctionDTO
// @Failure		400			{object}	apierror.ErrorResponse
// @Router			/auctions [get]
func (h *Handler) list(c *gin.Context) {
	var q ListAuctionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierror.BadRequest(c, err)
		return
	}
	query := auctionsvc.ListAuctionsQuery{
		Status: auction.Status(q.Status),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.SellerID != "" {
		query.SellerID = uuid.MustParse(q.SellerID)
	}
	out, err := h.svc.ListAuctions(c.Request.Context(), query)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Update an auction
// @Description	Seller edits an active auction or changes its status.
// @Tags			Auctions
// @Param			X-User-ID	header		string				true	"Caller id"
// @Param			id			path		string				true	"Auction ID"
// @Param			body		body		UpdateAuctionBody	true	"Fields to change"
// @Success		200			{object}	auctionsvc.AuctionDTO
// @Failure		400			{object}	apierror.ErrorResponse
// @Failure		403			{object}	apierror.ErrorResponse
// @Failure		409			{object}	apierror.ErrorResponse
// @Router			/auctions/{id} [patch]
func (h *Handler) update(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}
	var body UpdateAuctionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apierror.BadRequest(c, err)
		return
	}
	cmd := auctionsvc.UpdateAuctionCommand{
		AuctionID:       id,
		CallerID:        identity.UserID(c),
		Title:           body.Title,
		Description:     body.Description,
		MinBidIncrement: body.MinBidIncrement,
		EndTime:         body.EndTime,
		CategoryID:      body.CategoryID,
	}
	if body.Status != nil {
		s := auction.Status(*body.Status)
		cmd.Status = &s
	}
	if body.MediaURLs != nil {
		cmd.ReplaceMedia = true
		cmd.MediaURLs = *body.MediaURLs
	}
	dto, err := h.svc.UpdateAuction(c.Request.Context(), cmd)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// @Summary		End an auction
// @Description	Seller or admin sells the auction to the highest bid. Allowed from five minutes before the end time.
// @Tags			Auctions
// @Param			X-User-ID	header		string	true	"Caller id"
// @Param			id			path		string	true	"Auction ID"
// @Success		200			{object}	auctionsvc.AuctionDTO
// @Failure		403			{object}	apierror.ErrorResponse
// @Failure		409			{object}	apierror.ErrorResponse
// @Router			/auctions/{id}/end [post]
func (h *Handler) end(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}
	dto, err := h.svc.EndAuction(c.Request.Context(), auctionsvc.EndAuctionCommand{
		AuctionID: id,
		CallerID:  identity.UserID(c),
	})
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// @Summary		Cancel an auction
// @Description	Seller cancels an active auction; every bid is cancelled with it.
// @Tags			Auctions
// @Param			X-User-ID	header		string	true	"Caller id"
// @Param			id			path		string	true	"Auction ID"
// @Success		200			{object}	auctionsvc.AuctionDTO
// @Failure		403			{object}	apierror.ErrorResponse
// @Failure		409			{object}	apierror.ErrorResponse
// @Router			/auctions/{id}/cancel [post]
func (h *Handler) cancel(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}
	dto, err := h.svc.CancelAuction(c.Request.Context(), auctionsvc.CancelAuctionCommand{
		AuctionID: id,
		CallerID:  identity.UserID(c),
	})
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// @Summary		Delete an auction
// @Description	Seller removes an auction that has no bids. Sold auctions cannot be deleted.
// @Tags			Auctions
// @Param			X-User-ID	header		string	true	"Caller id"
// @Param			id			path		string	true	"Auction ID"
// @Success		204
// @Failure		403			{object}	apierror.ErrorResponse
// @Failure		404			{object}	apierror.ErrorResponse
// @Failure		409			{object}	apierror.ErrorResponse
// @Router			/auctions/{id} [delete]
func (h *Handler) remove(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}
	err := h.svc.DeleteAuction(c.Request.Context(), auctionsvc.DeleteAuctionCommand{
		AuctionID: id,
		CallerID:  identity.UserID(c),
	})
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Place a bid
// @Description	Caller bids on an active auction. The first bid must reach the starting price, later ones the current price plus the increment.
// @Tags			Bids
// @Param			X-User-ID	header		string			true	"Caller id"
// @Param			id			path		string			true	"Auction ID"
// @Param			body		body		PlaceBidBody	true	"Bid payload"
// @Success		201			{object}	auctionsvc.BidDTO
// @Failure		400			{object}	apierror.ErrorResponse
// @Failure		404			{object}	apierror.ErrorResponse
// @Failure		409			{object}	apierror.ErrorResponse
// @Router			/auctions/{id}/bids [post]
func (h *Handler) bid(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}
	var body PlaceBidBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apierror.BadRequest(c, err)
		return
	}
	dto, err := h.svc.PlaceBid(c.Request.Context(), auctionsvc.PlaceBidCommand{
		AuctionID: id,
		BidderID:  identity.UserID(c),
		Amount:    body.Amount,
	})
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// @Summary		List auction bids
// @Tags			Bids
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{array}		auctionsvc.BidDTO
// @Failure		404	{object}	apierror.ErrorResponse
// @Router			/auctions/{id}/bids [get]
func (h *Handler) bids(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}
	out, err := h.svc.ListAuctionBids(c.Request.Context(), id)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		List my bids
// @Tags			Bids
// @Param			X-User-ID	header		string	true	"Caller id"
// @Param			limit		query		int		false	"Max results (0-100)"	default(20)
// @Param			offset		query		int		false	"Offset for pagination"	default(0)
// @Success		200			{array}		auctionsvc.BidDTO
// @Router			/users/me/bids [get]
func (h *Handler) myBids(c *gin.Context) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierror.BadRequest(c, err)
		return
	}
	out, err := h.svc.ListUserBids(c.Request.Context(), identity.UserID(c), q.Limit, q.Offset)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
