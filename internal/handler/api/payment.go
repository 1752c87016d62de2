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

type PaymentHandler struct {
	cmds commands.PaymentCommands
	q    queries.PaymentQueries
}

func NewPaymentHandler(cmds commands.PaymentCommands, q queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, q: q}
}

// @Summary Initiate payment
// @Description Start checkout for a pending booking. Re-initiating while a
// @Description checkout is already pending replays the existing session.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.InitiatePaymentResponse
// @Success 201 {object} resdto.InitiatePaymentResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /bookings/{id}/payment [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking id", nil)
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}

	result, err := h.cmds.InitiatePayment(c.Request.Context(), bookingID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, commands.ErrPaymentAccessDenied):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
		case errors.Is(err, commands.ErrBookingNotPayable):
			httperr.AbortWithError(c, http.StatusConflict, err, "Booking is not payable", nil)
		case errors.Is(err, commands.ErrPaymentAlreadyCompleted):
			httperr.AbortWithError(c, http.StatusConflict, err, "Payment already completed", nil)
		case errors.Is(err, commands.ErrPaymentGatewayFailed):
			httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment gateway unavailable", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to initiate payment", nil)
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromInitiatePaymentResult(result))
}

// @Summary Get booking payment
// @Description Get the latest payment attempt for a booking
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id}/payment [get]
func (h *PaymentHandler) GetByBooking(c *gin.Context) {
	bookingID, err := parseIDParam(c, "id")
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

	view, err := h.q.GetByBookingID(c.Request.Context(), actorID, string(role), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, queries.ErrPaymentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found", nil)
		case errors.Is(err, queries.ErrPaymentAccess):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load payment", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// @Summary Payment gateway callback
// @Description Reconcile a payment from the gateway's server-to-server
// @Description callback. Replayed success callbacks are acknowledged as no-ops.
// @Tags payments
// @Produce json
// @Param trx_ref query string true "Transaction reference"
// @Param status query string true "Gateway charge status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/callback [get]
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req reqdto.PaymentCallbackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if c.Request.Method != http.MethodPost || c.ShouldBindJSON(&req) != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid callback parameters", nil)
			return
		}
	}

	if err := h.cmds.ReconcileCallback(c.Request.Context(), req.TxRef, req.Succeeded()); err != nil {
		switch {
		case errors.Is(err, commands.ErrPaymentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Unknown transaction reference", nil)
		case errors.Is(err, commands.ErrPaymentNotReconcilable):
			httperr.AbortWithError(c, http.StatusConflict, err, "Payment cannot be reconciled", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to reconcile payment", nil)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
