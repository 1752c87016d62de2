package api

import (
	"errors"
	"net/http"

	reqdto "travelnest/internal/handler/dto/request"
	resdto "travelnest/internal/handler/dto/response"
	"travelnest/internal/handler/httperr"
	"travelnest/internal/handler/middleware"
	"travelnest/internal/usecase/commands"
	"travelnest/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	cmds commands.ReviewCommands
	q    queries.ReviewQueries
}

func NewReviewHandler(cmds commands.ReviewCommands, q queries.ReviewQueries) *ReviewHandler {
	return &ReviewHandler{cmds: cmds, q: q}
}

// @Summary Create review
// @Description Review a property after a confirmed, completed stay
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param request body reqdto.CreateReviewRequest true "Create review request"
// @Success 201 {object} resdto.ReviewResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /properties/{id}/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	propertyID, err := parseIDParam(c, "id")
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property id", nil)
		return
	}
	guestID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}

	var req reqdto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.CreateReview(c.Request.Context(), req.ToCommand(propertyID), guestID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDuplicateReview):
			httperr.AbortWithError(c, http.StatusConflict, err, "Property already reviewed", nil)
		case errors.Is(err, commands.ErrReviewNotEligible):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking not eligible for review", nil)
		case errors.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to create review", nil)
		}
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), result.ReviewID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load review", nil)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromReviewView(view))
}

// @Summary List property reviews
// @Description List reviews for a property, newest first
// @Tags reviews
// @Produce json
// @Param id path string true "Property ID"
// @Param limit query int false "Page size"
// @Param after query string false "Pagination cursor"
// @Success 200 {object} resdto.ReviewListResponse
// @Failure 400 {object} httperr.Response
// @Router /properties/{id}/reviews [get]
func (h *ReviewHandler) ListByProperty(c *gin.Context) {
	propertyID, err := parseIDParam(c, "id")
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property id", nil)
		return
	}

	cursor, limit := parseListParams(c)
	items, next, err := h.q.ListByProperty(c.Request.Context(), propertyID, cursor, limit)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidCursor) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list reviews", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReviewList(items, next))
}

// @Summary Get property rating stats
// @Description Get the aggregated rating summary for a property
// @Tags reviews
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} resdto.PropertyRatingStatsResponse
// @Failure 404 {object} httperr.Response
// @Router /properties/{id}/rating [get]
func (h *ReviewHandler) GetRatingStats(c *gin.Context) {
	propertyID, err := parseIDParam(c, "id")
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property id", nil)
		return
	}

	stats, err := h.q.GetPropertyRatingStats(c.Request.Context(), propertyID)
	if err != nil {
		if errors.Is(err, queries.ErrPropertyNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Property not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load rating stats", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPropertyRatingStats(stats))
}
