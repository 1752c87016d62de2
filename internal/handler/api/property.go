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

type PropertyHandler struct {
	cmds commands.PropertyCommands
	q    queries.PropertyQueries
}

func NewPropertyHandler(cmds commands.PropertyCommands, q queries.PropertyQueries) *PropertyHandler {
	return &PropertyHandler{cmds: cmds, q: q}
}

// @Summary Create property
// @Description Create a new property listing owned by the authenticated host
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PropertyRequest true "Property request"
// @Success 201 {object} resdto.PropertyResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	hostID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}

	var req reqdto.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.CreateProperty(c.Request.Context(), req.ToCommand(), hostID)
	if err != nil {
		if errors.Is(err, commands.ErrPropertyValidation) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property data", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to create property", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), result.PropertyID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load property", nil)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromPropertyView(view))
}

// @Summary Get property
// @Description Get a property listing with its rating summary
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} resdto.PropertyResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property id", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrPropertyNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Property not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load property", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPropertyView(view))
}

// @Summary List properties
// @Description List property listings, optionally filtered by location
// @Tags properties
// @Produce json
// @Param location query string false "Location filter (substring match)"
// @Param limit query int false "Page size"
// @Param after query string false "Pagination cursor"
// @Success 200 {object} resdto.PropertyListResponse
// @Failure 400 {object} httperr.Response
// @Router /properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	cursor, limit := parseListParams(c)

	var filters queries.PropertyFilters
	if location := c.Query("location"); location != "" {
		filters.Location = &location
	}

	items, next, err := h.q.List(c.Request.Context(), filters, cursor, limit)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidCursor) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list properties", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPropertyList(items, next))
}

// @Summary List own properties
// @Description List the authenticated host's property listings
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param after query string false "Pagination cursor"
// @Success 200 {object} resdto.PropertyListResponse
// @Failure 401 {object} httperr.Response
// @Router /host/properties [get]
func (h *PropertyHandler) ListMine(c *gin.Context) {
	hostID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}

	cursor, limit := parseListParams(c)
	items, next, err := h.q.ListByHost(c.Request.Context(), hostID, cursor, limit)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidCursor) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list properties", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPropertyList(items, next))
}

// @Summary Update property
// @Description Replace a property's mutable fields
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param request body reqdto.PropertyRequest true "Property request"
// @Success 200 {object} resdto.PropertyResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
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

	var req reqdto.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.cmds.UpdateProperty(c.Request.Context(), id, req.ToCommand(), actorID, string(role)); err != nil {
		switch {
		case errors.Is(err, commands.ErrPropertyNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Property not found", nil)
		case errors.Is(err, commands.ErrPropertyNotOwned):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Not the property owner", nil)
		case errors.Is(err, commands.ErrPropertyValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property data", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to update property", nil)
		}
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load property", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPropertyView(view))
}

// @Summary Delete property
// @Description Delete a property listing that has no bookings
// @Tags properties
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
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

	if err := h.cmds.DeleteProperty(c.Request.Context(), id, actorID, string(role)); err != nil {
		switch {
		case errors.Is(err, commands.ErrPropertyNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Property not found", nil)
		case errors.Is(err, commands.ErrPropertyNotOwned):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Not the property owner", nil)
		case errors.Is(err, commands.ErrPropertyInUse):
			httperr.AbortWithError(c, http.StatusConflict, err, "Property has bookings", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to delete property", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
