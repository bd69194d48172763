package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shipdesk/backend/internal/application/amendment"
	"github.com/shipdesk/backend/internal/domain/shipping"
	"github.com/shipdesk/backend/internal/interfaces/http/dto"
	"github.com/shipdesk/backend/internal/interfaces/http/middleware"
)

// RouteAmender is the application service behind the BL draft endpoints
type RouteAmender interface {
	AmendRoute(ctx context.Context, req amendment.AmendRouteRequest) (*amendment.AmendmentResult, error)
	ListVersions(ctx context.Context, bookingID, draftNo string) ([]shipping.BLDraftVersion, error)
}

// BLDraftHandler handles BL draft amendment endpoints
type BLDraftHandler struct {
	BaseHandler
	service RouteAmender
}

// NewBLDraftHandler creates a new BLDraftHandler
func NewBLDraftHandler(service RouteAmender) *BLDraftHandler {
	return &BLDraftHandler{service: service}
}

// RegisterRoutes mounts the draft routes under /bookings
func (h *BLDraftHandler) RegisterRoutes(rg *gin.RouterGroup) {
	drafts := rg.Group("/bookings/:bookingId/bl-drafts")
	drafts.PATCH("/:draftNo", h.AmendRoute)
	drafts.GET("/:draftNo/versions", h.ListVersions)
}

// AmendRoute godoc
//
//	@Summary		Amend the route of a BL draft
//	@Description	Changes port of loading and/or discharge and reprices the booking invoice in one transaction
//	@Tags			bl-drafts
//	@Accept			json
//	@Produce		json
//	@Param			bookingId	path		string				true	"Booking ID"	format(uuid)
//	@Param			draftNo		path		string				true	"Draft document number"	format(uuid)
//	@Param			X-User-ID	header		string				false	"Acting user"	format(uuid)
//	@Param			request		body		dto.AmendRouteBody	true	"Port changes"
//	@Success		200			{object}	dto.Response{data=dto.BLDraftResponse}
//	@Failure		403			{object}	dto.Response	"Amendment cutoff passed"
//	@Failure		404			{object}	dto.Response	"Draft not found for booking"
//	@Failure		422			{object}	dto.Response	"Invalid fields"
//	@Failure		500			{object}	dto.Response	"Reference data or transaction failure"
//	@Router			/bookings/{bookingId}/bl-drafts/{draftNo} [patch]
func (h *BLDraftHandler) AmendRoute(c *gin.Context) {
	patch := map[string]any{}
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge, "Request body too large")
			return
		}
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "Request body must be a JSON object")
		return
	}

	result, err := h.service.AmendRoute(c.Request.Context(), amendment.AmendRouteRequest{
		BookingID: c.Param("bookingId"),
		DraftNo:   c.Param("draftNo"),
		Patch:     patch,
		ActorID:   c.GetHeader(middleware.HeaderUserID),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.ToBLDraftResponse(result.Draft))
}

// ListVersions godoc
//
//	@Summary	List archived versions of a BL draft
//	@Tags		bl-drafts
//	@Produce	json
//	@Param		bookingId	path		string	true	"Booking ID"	format(uuid)
//	@Param		draftNo		path		string	true	"Draft document number"	format(uuid)
//	@Success	200			{object}	dto.Response{data=[]dto.BLDraftVersionResponse}
//	@Failure	404			{object}	dto.Response
//	@Failure	422			{object}	dto.Response
//	@Router		/bookings/{bookingId}/bl-drafts/{draftNo}/versions [get]
func (h *BLDraftHandler) ListVersions(c *gin.Context) {
	versions, err := h.service.ListVersions(c.Request.Context(), c.Param("bookingId"), c.Param("draftNo"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.ToBLDraftVersionResponses(versions))
}
