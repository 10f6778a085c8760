package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateCalendarItemDTO struct {
	ClientID     string `json:"client_id" binding:"required"`
	Title        string `json:"title" binding:"required"`
	ContentType  string `json:"content_type" binding:"omitempty,oneof=post reel story"`
	ScheduledFor string `json:"scheduled_for" binding:"required"` // RFC3339
}

type UpdateCalendarItemDTO struct {
	Title        string `json:"title"`
	ContentType  string `json:"content_type" binding:"omitempty,oneof=post reel story"`
	ScheduledFor string `json:"scheduled_for"`
	IsDone       *bool  `json:"is_done"`
}

type CalendarItemResponse struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	ClientName   string `json:"client_name,omitempty"`
	Title        string `json:"title"`
	ContentType  string `json:"content_type"`
	ScheduledFor string `json:"scheduled_for"`
	IsDone       bool   `json:"is_done"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type CalendarListFilter struct {
	ClientID string
	From     string // RFC3339, optional
	To       string
	Page     int
	Limit    int
}

// --- Interface ---

// CalendarService manages the per-client content calendar. Deleting an item is
// an administrative operation: it clears the link on any request pointing at the
// item but never touches request status.
type CalendarService interface {
	CreateItem(ctx context.Context, req CreateCalendarItemDTO) (CalendarItemResponse, error)
	GetItemByID(ctx context.Context, id string) (CalendarItemResponse, error)
	ListItems(ctx context.Context, filter CalendarListFilter) ([]CalendarItemResponse, int64, error)
	UpdateItem(ctx context.Context, id string, req UpdateCalendarItemDTO) (CalendarItemResponse, error)
	DeleteItem(ctx context.Context, actorID uuid.UUID, id string) error
}

type calendarService struct {
	repo     repository.CalendarRepository
	requests repository.RequestRepository
	audits   repository.AuditRepository
	tx       repository.TransactionManager
}

func NewCalendarService(
	repo repository.CalendarRepository,
	requests repository.RequestRepository,
	audits repository.AuditRepository,
	tx repository.TransactionManager,
) CalendarService {
	return &calendarService{repo: repo, requests: requests, audits: audits, tx: tx}
}

// --- Implementation ---

func (s *calendarService) CreateItem(ctx context.Context, req CreateCalendarItemDTO) (CalendarItemResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return CalendarItemResponse{}, errors.New("invalid client_id")
	}

	scheduledFor, err := time.Parse(time.RFC3339, req.ScheduledFor)
	if err != nil {
		return CalendarItemResponse{}, errors.New("scheduled_for must be RFC3339")
	}

	item := model.CalendarItem{
		ClientID:     clientID,
		Title:        req.Title,
		ContentType:  model.ContentType(req.ContentType),
		ScheduledFor: scheduledFor,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return CalendarItemResponse{}, err
	}

	return toCalendarResponse(item), nil
}

func (s *calendarService) GetItemByID(ctx context.Context, id string) (CalendarItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return CalendarItemResponse{}, errors.New("invalid calendar item id")
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return CalendarItemResponse{}, errors.New("calendar item not found")
	}
	return toCalendarResponse(*item), nil
}

func (s *calendarService) ListItems(ctx context.Context, filter CalendarListFilter) ([]CalendarItemResponse, int64, error) {
	repoFilter := repository.CalendarFilter{Page: filter.Page, Limit: filter.Limit}

	if filter.ClientID != "" {
		clientID, err := uuid.Parse(filter.ClientID)
		if err != nil {
			return nil, 0, errors.New("invalid client_id")
		}
		repoFilter.ClientID = &clientID
	}
	if filter.From != "" {
		from, err := time.Parse(time.RFC3339, filter.From)
		if err != nil {
			return nil, 0, errors.New("from must be RFC3339")
		}
		repoFilter.From = &from
	}
	if filter.To != "" {
		to, err := time.Parse(time.RFC3339, filter.To)
		if err != nil {
			return nil, 0, errors.New("to must be RFC3339")
		}
		repoFilter.To = &to
	}

	items, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CalendarItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toCalendarResponse(item))
	}
	return responses, total, nil
}

func (s *calendarService) UpdateItem(ctx context.Context, id string, req UpdateCalendarItemDTO) (CalendarItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return CalendarItemResponse{}, errors.New("invalid calendar item id")
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return CalendarItemResponse{}, errors.New("calendar item not found")
	}

	if req.Title != "" {
		item.Title = req.Title
	}
	if req.ContentType != "" {
		item.ContentType = model.ContentType(req.ContentType)
	}
	if req.ScheduledFor != "" {
		scheduledFor, parseErr := time.Parse(time.RFC3339, req.ScheduledFor)
		if parseErr != nil {
			return CalendarItemResponse{}, errors.New("scheduled_for must be RFC3339")
		}
		item.ScheduledFor = scheduledFor
	}
	if req.IsDone != nil {
		item.IsDone = *req.IsDone
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return CalendarItemResponse{}, err
	}

	return toCalendarResponse(*item), nil
}

func (s *calendarService) DeleteItem(ctx context.Context, actorID uuid.UUID, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return errors.New("invalid calendar item id")
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return errors.New("calendar item not found")
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.requests.ClearCalendarLink(txCtx, itemID); err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, itemID); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]interface{}{"title": item.Title})
		entry := model.AuditLog{
			UserID:     &actorID,
			Action:     model.ActionDeleteCalendarItem,
			EntityID:   itemID.String(),
			EntityName: item.Title,
			Details:    string(details),
		}
		return s.audits.Create(txCtx, &entry)
	})
}

func toCalendarResponse(item model.CalendarItem) CalendarItemResponse {
	resp := CalendarItemResponse{
		ID:           item.ID.String(),
		ClientID:     item.ClientID.String(),
		Title:        item.Title,
		ContentType:  string(item.ContentType),
		ScheduledFor: item.ScheduledFor.Format(time.RFC3339),
		IsDone:       item.IsDone,
		CreatedAt:    item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.Format(time.RFC3339),
	}
	if item.Client != nil {
		resp.ClientName = item.Client.Name
	}
	return resp
}
