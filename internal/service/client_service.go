package service

import (
	"context"
	"errors"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateClientDTO struct {
	Name           string `json:"name" binding:"required"`
	ContactPerson  string `json:"contact_person"`
	Email          string `json:"email" binding:"omitempty,email"`
	WhatsAppNumber string `json:"whatsapp_number"`
	MonthlyFee     string `json:"monthly_fee"` // decimal string, e.g. "1500.00"
}

type UpdateClientDTO struct {
	Name           string `json:"name"`
	ContactPerson  string `json:"contact_person"`
	Email          string `json:"email" binding:"omitempty,email"`
	WhatsAppNumber string `json:"whatsapp_number"`
	MonthlyFee     string `json:"monthly_fee"`
	IsActive       *bool  `json:"is_active"`
}

type ClientResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ContactPerson  string `json:"contact_person"`
	Email          string `json:"email"`
	WhatsAppNumber string `json:"whatsapp_number"`
	MonthlyFee     string `json:"monthly_fee"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// --- Interface ---

type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientDTO) (ClientResponse, error)
	GetClientByID(ctx context.Context, id string) (ClientResponse, error)
	ListClients(ctx context.Context, activeOnly bool, page, limit int) ([]ClientResponse, int64, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientDTO) (ClientResponse, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

// --- Implementation ---

func (s *clientService) CreateClient(ctx context.Context, req CreateClientDTO) (ClientResponse, error) {
	fee := decimal.Zero
	if req.MonthlyFee != "" {
		parsed, err := decimal.NewFromString(req.MonthlyFee)
		if err != nil {
			return ClientResponse{}, errors.New("invalid monthly_fee")
		}
		fee = parsed
	}

	client := model.Client{
		Name:           req.Name,
		ContactPerson:  req.ContactPerson,
		Email:          req.Email,
		WhatsAppNumber: req.WhatsAppNumber,
		MonthlyFee:     fee,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, &client); err != nil {
		return ClientResponse{}, err
	}

	return toClientResponse(client), nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, errors.New("invalid client id")
	}

	client, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		return ClientResponse{}, errors.New("client not found")
	}
	return toClientResponse(*client), nil
}

func (s *clientService) ListClients(ctx context.Context, activeOnly bool, page, limit int) ([]ClientResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	clients, total, err := s.repo.List(ctx, activeOnly, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		responses = append(responses, toClientResponse(c))
	}
	return responses, total, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientDTO) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, errors.New("invalid client id")
	}

	client, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		return ClientResponse{}, errors.New("client not found")
	}

	if req.Name != "" {
		client.Name = req.Name
	}
	if req.ContactPerson != "" {
		client.ContactPerson = req.ContactPerson
	}
	if req.Email != "" {
		client.Email = req.Email
	}
	if req.WhatsAppNumber != "" {
		client.WhatsAppNumber = req.WhatsAppNumber
	}
	if req.MonthlyFee != "" {
		fee, parseErr := decimal.NewFromString(req.MonthlyFee)
		if parseErr != nil {
			return ClientResponse{}, errors.New("invalid monthly_fee")
		}
		client.MonthlyFee = fee
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return ClientResponse{}, err
	}

	return toClientResponse(*client), nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return errors.New("invalid client id")
	}
	if _, err := s.repo.FindByID(ctx, clientID); err != nil {
		return errors.New("client not found")
	}
	return s.repo.Delete(ctx, clientID)
}

func toClientResponse(c model.Client) ClientResponse {
	return ClientResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		ContactPerson:  c.ContactPerson,
		Email:          c.Email,
		WhatsAppNumber: c.WhatsAppNumber,
		MonthlyFee:     c.MonthlyFee.StringFixed(2),
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
	}
}
