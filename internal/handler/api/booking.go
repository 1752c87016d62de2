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
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create booking
// @Description Request a stay for a property. Admission is atomic; overlapping
// @Description confirmed or pending stays are rejected.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Create booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	guestID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay dates", nil)
		return
	}

	result, err := h.cmds.CreateBooking(c.Request.Context(), cmd, guestID)
	if err != nil {
		h.abortBookingError(c, err)
		return
	}

	h.respondWithBooking(c, http.StatusCreated, result.BookingID, guestID, string(role))
}

// @Summary Get booking
// @Description Get a booking visible to its guest, the property host, or an admin
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking id", nil)
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	role, _ := middleware.GetUserRole(c)

	view, err := h.q.GetByID(c.Request.Context(), actorID, string(role), id)
	if err != nil {
		h.abortBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List own bookings
// @Description List the authenticated guest's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param after query string false "Pagination cursor"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 401 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	role, _ := middleware.GetUserRole(c)

	cursor, limit := parseListParams(c)
	items, next, err := h.q.ListByGuest(c.Request.Context(), actorID, actorID, string(role), cursor, limit)
	if err != nil {
		h.abortBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingList(items, next))
}

// @Summary List property bookings
// @Description List bookings for a property, visible to its host and admins
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param limit query int false "Page size"
// @Param after query string false "Pagination cursor"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /properties/{id}/bookings [get]
func (h *BookingHandler) ListByProperty(c *gin.Context) {
	propertyID, err := parseIDParam(c, "id")
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property id", nil)
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	role, _ := middleware.GetUserRole(c)

	cursor, limit := parseListParams(c)
	items, next, err := h.q.ListByProperty(c.Request.Context(), propertyID, actorID, string(role), cursor, limit)
	if err != nil {
		h.abortBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingList(items, next))
}

// @Summary Update booking dates
// @Description Reschedule a pending booking; the stay is repriced at the
// @Description property's current nightly rate
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingDatesRequest true "New stay dates"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/dates [patch]
func (h *BookingHandler) UpdateDates(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking id", nil)
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req reqdto.UpdateBookingDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay dates", nil)
		return
	}

	if err := h.cmds.UpdateBookingDates(c.Request.Context(), id, cmd, actorID); err != nil {
		h.abortBookingError(c, err)
		return
	}

	h.respondWithBooking(c, http.StatusOK, id, actorID, string(role))
}

// @Summary Cancel booking
// @Description Cancel a pending or confirmed booking and release its dates
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking id", nil)
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	role, _ := middleware.GetUserRole(c)

	if err := h.cmds.CancelBooking(c.Request.Context(), id, actorID, string(role)); err != nil {
		h.abortBookingError(c, err)
		return
	}

	h.respondWithBooking(c, http.StatusOK, id, actorID, string(role))
}

// respondWithBooking reloads the booking through the query side so responses
// always reflect committed state.
func (h *BookingHandler) respondWithBooking(c *gin.Context, status int, bookingID, actorID uuid.UUID, actorRole string) {
	view, err := h.q.GetByID(c.Request.Context(), actorID, actorRole, bookingID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load booking", nil)
		return
	}
	c.JSON(status, resdto.FromBookingView(view))
}

func (h *BookingHandler) abortBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrPropertyNotFound), errors.Is(err, queries.ErrPropertyNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Property not found", nil)
	case errors.Is(err, commands.ErrBookingNotFound), errors.Is(err, queries.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, commands.ErrInvalidBookingDates):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay dates", nil)
	case errors.Is(err, queries.ErrInvalidCursor):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
	case errors.Is(err, commands.ErrBookingAccessDenied), errors.Is(err, queries.ErrBookingAccess):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
	case errors.Is(err, commands.ErrBookingConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Dates are no longer available", nil)
	case errors.Is(err, commands.ErrSelfBookingForbidden):
		httperr.AbortWithError(c, http.StatusConflict, err, "Hosts cannot book their own property", nil)
	case errors.Is(err, commands.ErrBookingNotPending):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is not pending", nil)
	case errors.Is(err, commands.ErrInvalidStatusTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is already canceled", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
