package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	calendarService service.CalendarService
}

func NewCalendarHandler(calendarService service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

func (h *CalendarHandler) RegisterRoutes(router *gin.RouterGroup) {
	calendar := router.Group("/api/calendar")
	{
		anyRole := middleware.RequireRole(model.RoleManager, model.RoleEditor, model.RoleClient)
		calendar.GET("", anyRole, h.ListItems)
		calendar.GET("/:id", anyRole, h.GetItem)
		calendar.POST("", middleware.RequireRole(model.RoleManager), h.CreateItem)
		calendar.PUT("/:id", middleware.RequireRole(model.RoleManager), h.UpdateItem)
		calendar.DELETE("/:id", middleware.RequireRole(model.RoleManager), h.DeleteItem)
	}
}

// CreateItem handles POST /api/calendar
// @Summary      Create a calendar item
// @Tags         calendar
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCalendarItemDTO  true  "New Item Payload"
// @Success      201      {object}  response.Response{data=service.CalendarItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/calendar [post]
func (h *CalendarHandler) CreateItem(c *gin.Context) {
	var req service.CreateCalendarItemDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.calendarService.CreateItem(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListItems handles GET /api/calendar
// @Summary      List calendar items
// @Tags         calendar
// @Produce      json
// @Security     BearerAuth
// @Param        client_id  query     string  false  "Filter by client"
// @Param        from       query     string  false  "Range start (RFC3339)"
// @Param        to         query     string  false  "Range end (RFC3339)"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Success      200        {object}  response.Response{data=object}
// @Router       /api/calendar [get]
func (h *CalendarHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.CalendarListFilter{
		ClientID: c.Query("client_id"),
		From:     c.Query("from"),
		To:       c.Query("to"),
		Page:     params.Page,
		Limit:    params.Limit,
	}

	// Client-role actors only ever see their own calendar
	if actor, ok := middleware.ActorFromContext(c); ok && actor.Role == model.RoleClient {
		if actor.ClientID == nil {
			c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Actor has no client scope"))
			return
		}
		filter.ClientID = actor.ClientID.String()
	}

	items, total, err := h.calendarService.ListItems(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetItem handles GET /api/calendar/:id
// @Summary      Get calendar item by ID
// @Tags         calendar
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Calendar Item ID"
// @Success      200  {object}  response.Response{data=service.CalendarItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/calendar/{id} [get]
func (h *CalendarHandler) GetItem(c *gin.Context) {
	item, err := h.calendarService.GetItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateItem handles PUT /api/calendar/:id
// @Summary      Update a calendar item
// @Tags         calendar
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Calendar Item ID"
// @Param        payload  body      service.UpdateCalendarItemDTO  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.CalendarItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/calendar/{id} [put]
func (h *CalendarHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateCalendarItemDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.calendarService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem handles DELETE /api/calendar/:id
// @Summary      Delete a calendar item
// @Description  Unlinks any request referencing the item; request statuses are untouched
// @Tags         calendar
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Calendar Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/calendar/{id} [delete]
func (h *CalendarHandler) DeleteItem(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid actor identity"))
		return
	}

	if err := h.calendarService.DeleteItem(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Calendar item deleted"}))
}
