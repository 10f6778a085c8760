package handler

import (
	"errors"
	"net/http"
	"strings"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/internal/storage"
	"backend/internal/workflow"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
	uploads        storage.Store
}

func NewRequestHandler(requestService service.RequestService, uploads storage.Store) *RequestHandler {
	return &RequestHandler{requestService: requestService, uploads: uploads}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	{
		anyRole := middleware.RequireRole(model.RoleManager, model.RoleEditor, model.RoleClient)
		requests.GET("", anyRole, h.ListRequests)
		requests.GET("/:id", anyRole, h.GetRequest)
		requests.POST("", middleware.RequireRole(model.RoleClient), h.CreateRequest)
		requests.PUT("/:id/assign", middleware.RequireRole(model.RoleManager), h.AssignRequest)
		requests.PUT("/:id/submit", middleware.RequireRole(model.RoleEditor), h.SubmitRequest)
		requests.PUT("/:id/review", middleware.RequireRole(model.RoleManager), h.ManagerReview)
		requests.PUT("/:id/client-review", middleware.RequireRole(model.RoleClient), h.ClientReview)
	}
}

// statusFromWorkflowError maps the workflow error taxonomy onto HTTP status codes
func statusFromWorkflowError(err error) int {
	var notFound *workflow.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var forbidden *workflow.ForbiddenError
	if errors.As(err, &forbidden) {
		return http.StatusForbidden
	}
	var invalidState *workflow.InvalidStateError
	if errors.As(err, &invalidState) {
		return http.StatusConflict
	}
	var validation *workflow.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondWorkflowError(c *gin.Context, err error) {
	status := statusFromWorkflowError(err)
	c.JSON(status, response.Error(status, err.Error()))
}

// CreateRequest handles POST /api/requests
// @Summary      Create a content request
// @Description  A client submits a new content request; it lands in pending_manager_review
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRequestDTO  true  "New Request Payload"
// @Success      201      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid actor identity"))
		return
	}

	var req service.CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// AssignRequest handles PUT /api/requests/:id/assign
// @Summary      Assign a request to an editor
// @Description  A manager assigns a pending request to a user with the editor role
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Request ID"
// @Param        payload  body      service.AssignRequestDTO  true  "Assignment Payload"
// @Success      200      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/assign [put]
func (h *RequestHandler) AssignRequest(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid actor identity"))
		return
	}

	var req service.AssignRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.Assign(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// SubmitRequest handles PUT /api/requests/:id/submit. Accepts multipart
// (message/work_url fields plus an optional file) or a plain JSON body; an
// uploaded file becomes the completed work reference.
// @Summary      Submit completed work
// @Description  The assigned editor submits work for review; resubmission clears prior feedback
// @Tags         requests
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true   "Request ID"
// @Param        message   formData  string  true   "Editor message"
// @Param        work_url  formData  string  false  "Completed work link"
// @Param        file      formData  file    false  "Completed work file"
// @Success      200       {object}  response.Response{data=service.RequestResponse}
// @Failure      400       {object}  response.Response
// @Failure      403       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /api/requests/{id}/submit [put]
func (h *RequestHandler) SubmitRequest(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid actor identity"))
		return
	}

	var req service.SubmitRequestDTO
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid form payload: "+err.Error()))
			return
		}

		if file, err := c.FormFile("file"); err == nil && file != nil {
			src, openErr := file.Open()
			if openErr != nil {
				c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Could not read uploaded file"))
				return
			}
			defer src.Close()

			url, saveErr := h.uploads.Save(c.Request.Context(), file.Filename, src)
			if saveErr != nil {
				c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to store uploaded file"))
				return
			}
			req.WorkURL = url
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}
	}

	result, err := h.requestService.Submit(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ManagerReview handles PUT /api/requests/:id/review
// @Summary      Manager review
// @Description  Approve routes the request to the client; reject requires feedback and returns it to the editor
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string             true  "Request ID"
// @Param        payload  body      service.ReviewDTO  true  "Review Decision"
// @Success      200      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/review [put]
func (h *RequestHandler) ManagerReview(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid actor identity"))
		return
	}

	var req service.ReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.ManagerReview(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ClientReview handles PUT /api/requests/:id/client-review
// @Summary      Client review
// @Description  Final approval by the requesting client; approval is terminal, rejection returns the request to the editor
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string             true  "Request ID"
// @Param        payload  body      service.ReviewDTO  true  "Review Decision"
// @Success      200      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/client-review [put]
func (h *RequestHandler) ClientReview(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid actor identity"))
		return
	}

	var req service.ReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.ClientReview(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetRequest handles GET /api/requests/:id with role-scoped visibility
// @Summary      Get request by ID
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid actor identity"))
		return
	}

	result, err := h.requestService.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListRequests handles GET /api/requests. Clients see their workspace, editors
// their assignments, managers everything.
// @Summary      List requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid actor identity"))
		return
	}

	params := pagination.Parse(c)
	filter := service.RequestListFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	requests, total, err := h.requestService.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"requests": requests,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}
