package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
)

type AuditEntryResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id,omitempty"`
	Username   string `json:"username,omitempty"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name,omitempty"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	ListEntries(ctx context.Context, action, entityID string, page, limit int) ([]AuditEntryResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) ListEntries(ctx context.Context, action, entityID string, page, limit int) ([]AuditEntryResponse, int64, error) {
	entries, total, err := s.repo.List(ctx, repository.AuditFilter{
		Action:   action,
		EntityID: entityID,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, toAuditResponse(e))
	}
	return responses, total, nil
}

func toAuditResponse(e model.AuditLog) AuditEntryResponse {
	resp := AuditEntryResponse{
		ID:         e.ID.String(),
		Action:     e.Action,
		EntityID:   e.EntityID,
		EntityName: e.EntityName,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
	if e.UserID != nil {
		resp.UserID = e.UserID.String()
	}
	if e.User != nil {
		resp.Username = e.User.Username
	}
	return resp
}
