package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"
	"backend/pkg/whatsapp"

	"github.com/google/uuid"
)

// --- DTOs ---

type MediaDTO struct {
	FileURL   string `json:"file_url" binding:"required"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

type CreateRequestDTO struct {
	Message        string     `json:"message" binding:"required"`
	ContentType    string     `json:"content_type" binding:"required,oneof=post reel story"`
	Requirements   string     `json:"requirements"`
	CalendarItemID string     `json:"calendar_item_id"`
	Media          []MediaDTO `json:"media"`
}

type AssignRequestDTO struct {
	EditorID string `json:"editor_id" binding:"required"`
}

// SubmitRequestDTO is filled from multipart form fields (plus an optional file)
// or a plain JSON body.
type SubmitRequestDTO struct {
	Message string `json:"message" form:"message"`
	WorkURL string `json:"work_url" form:"work_url"`
}

type ReviewDTO struct {
	Approve  *bool  `json:"approve" binding:"required"`
	Feedback string `json:"feedback"`
}

type RequestListFilter struct {
	Status string
	Page   int
	Limit  int
}

type MediaResponse struct {
	ID        string `json:"id"`
	FileURL   string `json:"file_url"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

type RequestResponse struct {
	ID                 string          `json:"id"`
	ClientID           string          `json:"client_id"`
	ClientName         string          `json:"client_name,omitempty"`
	FromUserID         string          `json:"from_user_id"`
	FromUserName       string          `json:"from_user_name,omitempty"`
	AssignedEditorID   *string         `json:"assigned_editor_id"`
	AssignedEditorName string          `json:"assigned_editor_name,omitempty"`
	CalendarItemID     *string         `json:"calendar_item_id"`
	Message            string          `json:"message"`
	ContentType        string          `json:"content_type"`
	Requirements       string          `json:"requirements"`
	Status             string          `json:"status"`
	EditorMessage      string          `json:"editor_message"`
	ManagerFeedback    string          `json:"manager_feedback"`
	ClientFeedback     string          `json:"client_feedback"`
	CompletedWorkURL   string          `json:"completed_work_url"`
	ToUserID           *string         `json:"to_user_id"`
	ToUserName         string          `json:"to_user_name,omitempty"`
	WhatsAppLink       string          `json:"whatsapp_link,omitempty"`
	Media              []MediaResponse `json:"media"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

// Notifier pushes realtime events to a connected user; delivery is best effort
type Notifier interface {
	SendToUser(userID uuid.UUID, payload []byte)
}

// --- Interface ---

// RequestService exposes the five workflow transitions plus the role-scoped
// read operations. Each transition runs the engine and its audit entry in one
// database transaction.
type RequestService interface {
	Create(ctx context.Context, actor workflow.Actor, req CreateRequestDTO) (RequestResponse, error)
	Assign(ctx context.Context, actor workflow.Actor, id string, req AssignRequestDTO) (RequestResponse, error)
	Submit(ctx context.Context, actor workflow.Actor, id string, req SubmitRequestDTO) (RequestResponse, error)
	ManagerReview(ctx context.Context, actor workflow.Actor, id string, req ReviewDTO) (RequestResponse, error)
	ClientReview(ctx context.Context, actor workflow.Actor, id string, req ReviewDTO) (RequestResponse, error)
	GetByID(ctx context.Context, actor workflow.Actor, id string) (RequestResponse, error)
	List(ctx context.Context, actor workflow.Actor, filter RequestListFilter) ([]RequestResponse, int64, error)
}

type requestService struct {
	engine   *workflow.Engine
	requests repository.RequestRepository
	audits   repository.AuditRepository
	tx       repository.TransactionManager
	notifier Notifier // optional
}

func NewRequestService(
	engine *workflow.Engine,
	requests repository.RequestRepository,
	audits repository.AuditRepository,
	tx repository.TransactionManager,
	notifier Notifier,
) RequestService {
	return &requestService{
		engine:   engine,
		requests: requests,
		audits:   audits,
		tx:       tx,
		notifier: notifier,
	}
}

// --- Transitions ---

func (s *requestService) Create(ctx context.Context, actor workflow.Actor, req CreateRequestDTO) (RequestResponse, error) {
	in := workflow.CreateInput{
		Message:      req.Message,
		ContentType:  model.ContentType(req.ContentType),
		Requirements: req.Requirements,
	}
	if req.CalendarItemID != "" {
		itemID, err := uuid.Parse(req.CalendarItemID)
		if err != nil {
			return RequestResponse{}, &workflow.ValidationError{Field: "calendar_item_id", Reason: "must be a uuid"}
		}
		in.CalendarItemID = &itemID
	}
	for _, m := range req.Media {
		in.Media = append(in.Media, model.RequestMedia{
			FileURL:   m.FileURL,
			FileName:  m.FileName,
			MimeType:  m.MimeType,
			SizeBytes: m.SizeBytes,
		})
	}

	var created *model.ContentRequest
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var trErr error
		created, trErr = s.engine.Create(txCtx, actor, in)
		if trErr != nil {
			return trErr
		}
		return s.writeAudit(txCtx, actor, model.ActionCreateRequest, created, map[string]interface{}{
			"content_type": req.ContentType,
		})
	})
	if err != nil {
		return RequestResponse{}, err
	}

	return s.finish(ctx, created.ID)
}

func (s *requestService) Assign(ctx context.Context, actor workflow.Actor, id string, req AssignRequestDTO) (RequestResponse, error) {
	requestID, err := parseRequestID(id)
	if err != nil {
		return RequestResponse{}, err
	}
	editorID, err := uuid.Parse(req.EditorID)
	if err != nil {
		return RequestResponse{}, &workflow.ValidationError{Field: "editor_id", Reason: "must be a uuid"}
	}

	var updated *model.ContentRequest
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var trErr error
		updated, trErr = s.engine.Assign(txCtx, actor, requestID, editorID)
		if trErr != nil {
			return trErr
		}
		return s.writeAudit(txCtx, actor, model.ActionAssignEditor, updated, map[string]interface{}{
			"editor_id": req.EditorID,
		})
	})
	if err != nil {
		return RequestResponse{}, err
	}

	return s.finish(ctx, updated.ID)
}

func (s *requestService) Submit(ctx context.Context, actor workflow.Actor, id string, req SubmitRequestDTO) (RequestResponse, error) {
	requestID, err := parseRequestID(id)
	if err != nil {
		return RequestResponse{}, err
	}

	var updated *model.ContentRequest
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var trErr error
		updated, trErr = s.engine.Submit(txCtx, actor, requestID, workflow.SubmitInput{
			Message: req.Message,
			WorkURL: req.WorkURL,
		})
		if trErr != nil {
			return trErr
		}
		return s.writeAudit(txCtx, actor, model.ActionSubmitWork, updated, map[string]interface{}{
			"work_url": req.WorkURL,
		})
	})
	if err != nil {
		return RequestResponse{}, err
	}

	return s.finish(ctx, updated.ID)
}

func (s *requestService) ManagerReview(ctx context.Context, actor workflow.Actor, id string, req ReviewDTO) (RequestResponse, error) {
	requestID, err := parseRequestID(id)
	if err != nil {
		return RequestResponse{}, err
	}

	approve := req.Approve != nil && *req.Approve
	action := model.ActionManagerApprove
	if !approve {
		action = model.ActionManagerReject
	}

	var updated *model.ContentRequest
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var trErr error
		updated, trErr = s.engine.ManagerReview(txCtx, actor, requestID, workflow.ReviewInput{
			Approve:  approve,
			Feedback: req.Feedback,
		})
		if trErr != nil {
			return trErr
		}
		return s.writeAudit(txCtx, actor, action, updated, map[string]interface{}{
			"feedback": req.Feedback,
		})
	})
	if err != nil {
		return RequestResponse{}, err
	}

	return s.finish(ctx, updated.ID)
}

func (s *requestService) ClientReview(ctx context.Context, actor workflow.Actor, id string, req ReviewDTO) (RequestResponse, error) {
	requestID, err := parseRequestID(id)
	if err != nil {
		return RequestResponse{}, err
	}

	approve := req.Approve != nil && *req.Approve
	action := model.ActionClientApprove
	if !approve {
		action = model.ActionClientReject
	}

	var updated *model.ContentRequest
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var trErr error
		updated, trErr = s.engine.ClientReview(txCtx, actor, requestID, workflow.ReviewInput{
			Approve:  approve,
			Feedback: req.Feedback,
		})
		if trErr != nil {
			return trErr
		}
		return s.writeAudit(txCtx, actor, action, updated, map[string]interface{}{
			"feedback": req.Feedback,
		})
	})
	if err != nil {
		return RequestResponse{}, err
	}

	return s.finish(ctx, updated.ID)
}

// --- Reads ---

func (s *requestService) GetByID(ctx context.Context, actor workflow.Actor, id string) (RequestResponse, error) {
	requestID, err := parseRequestID(id)
	if err != nil {
		return RequestResponse{}, err
	}

	req, err := s.requests.FindByIDWithRelations(ctx, requestID)
	if err != nil {
		return RequestResponse{}, &workflow.PersistenceError{Op: "load request", Err: err}
	}
	if req == nil {
		return RequestResponse{}, &workflow.NotFoundError{Entity: "request", ID: id}
	}

	switch actor.Role {
	case model.RoleClient:
		if actor.ClientID == nil || *actor.ClientID != req.ClientID {
			return RequestResponse{}, &workflow.ForbiddenError{Reason: "request belongs to a different client"}
		}
	case model.RoleEditor:
		if req.AssignedEditorID == nil || *req.AssignedEditorID != actor.ID {
			return RequestResponse{}, &workflow.ForbiddenError{Reason: "request is not assigned to you"}
		}
	}

	return s.toResponse(req), nil
}

func (s *requestService) List(ctx context.Context, actor workflow.Actor, filter RequestListFilter) ([]RequestResponse, int64, error) {
	repoFilter := repository.RequestFilter{
		Status: model.RequestStatus(filter.Status),
		Page:   filter.Page,
		Limit:  filter.Limit,
	}

	// Visibility is role-scoped: clients see their workspace, editors their
	// assignments, managers everything.
	switch actor.Role {
	case model.RoleClient:
		if actor.ClientID == nil {
			return nil, 0, &workflow.ForbiddenError{Reason: "actor has no client scope"}
		}
		repoFilter.ClientID = actor.ClientID
	case model.RoleEditor:
		editorID := actor.ID
		repoFilter.AssignedEditorID = &editorID
	}

	requests, total, err := s.requests.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, &workflow.PersistenceError{Op: "list requests", Err: err}
	}

	responses := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, s.toResponse(&requests[i]))
	}
	return responses, total, nil
}

// --- Helpers ---

func parseRequestID(id string) (uuid.UUID, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, &workflow.ValidationError{Field: "request_id", Reason: "must be a uuid"}
	}
	return requestID, nil
}

func (s *requestService) writeAudit(ctx context.Context, actor workflow.Actor, action string, req *model.ContentRequest, extra map[string]interface{}) error {
	payload := map[string]interface{}{
		"status": req.Status,
	}
	for k, v := range extra {
		payload[k] = v
	}
	details, _ := json.Marshal(payload)

	actorID := actor.ID
	entry := model.AuditLog{
		UserID:   &actorID,
		Action:   action,
		EntityID: req.ID.String(),
		Details:  string(details),
	}
	if err := s.audits.Create(ctx, &entry); err != nil {
		return &workflow.PersistenceError{Op: "write audit log", Err: err}
	}
	return nil
}

// finish reloads the request with relations, notifies the next actor, and maps
// the response. Runs after the transaction commits so notifications never fire
// for rolled-back transitions.
func (s *requestService) finish(ctx context.Context, id uuid.UUID) (RequestResponse, error) {
	req, err := s.requests.FindByIDWithRelations(ctx, id)
	if err != nil || req == nil {
		return RequestResponse{}, &workflow.PersistenceError{Op: "reload request", Err: err}
	}

	if s.notifier != nil && req.ToUserID != nil {
		event, _ := json.Marshal(map[string]interface{}{
			"type":       "request_update",
			"request_id": req.ID.String(),
			"status":     req.Status,
			"to_user_id": req.ToUserID.String(),
		})
		s.notifier.SendToUser(*req.ToUserID, event)
	}

	return s.toResponse(req), nil
}

func (s *requestService) toResponse(req *model.ContentRequest) RequestResponse {
	resp := RequestResponse{
		ID:               req.ID.String(),
		ClientID:         req.ClientID.String(),
		FromUserID:       req.FromUserID.String(),
		Message:          req.Message,
		ContentType:      string(req.ContentType),
		Requirements:     req.Requirements,
		Status:           string(req.Status),
		EditorMessage:    req.EditorMessage,
		ManagerFeedback:  req.ManagerFeedback,
		ClientFeedback:   req.ClientFeedback,
		CompletedWorkURL: req.CompletedWorkURL,
		CreatedAt:        req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        req.UpdatedAt.Format(time.RFC3339),
	}

	if req.Client != nil {
		resp.ClientName = req.Client.Name
	}
	if req.FromUser != nil {
		resp.FromUserName = req.FromUser.Username
	}
	if req.AssignedEditorID != nil {
		v := req.AssignedEditorID.String()
		resp.AssignedEditorID = &v
	}
	if req.AssignedEditor != nil {
		resp.AssignedEditorName = req.AssignedEditor.Username
	}
	if req.CalendarItemID != nil {
		v := req.CalendarItemID.String()
		resp.CalendarItemID = &v
	}
	if req.ToUserID != nil {
		v := req.ToUserID.String()
		resp.ToUserID = &v
	}
	if req.ToUser != nil {
		resp.ToUserName = req.ToUser.Username
		if req.ToUser.Phone != "" {
			text := fmt.Sprintf("Hi %s, content request %s is waiting on you (status: %s)",
				req.ToUser.Username, req.ID, req.Status)
			if link, err := whatsapp.DeepLink(req.ToUser.Phone, text); err == nil {
				resp.WhatsAppLink = link
			}
		}
	}

	resp.Media = make([]MediaResponse, 0, len(req.Media))
	for _, m := range req.Media {
		resp.Media = append(resp.Media, MediaResponse{
			ID:        m.ID.String(),
			FileURL:   m.FileURL,
			FileName:  m.FileName,
			MimeType:  m.MimeType,
			SizeBytes: m.SizeBytes,
		})
	}

	return resp
}
