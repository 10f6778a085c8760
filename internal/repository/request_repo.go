package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestFilter narrows request listings. Zero values mean "no filter".
type RequestFilter struct {
	Status           model.RequestStatus
	ClientID         *uuid.UUID
	AssignedEditorID *uuid.UUID
	ToUserID         *uuid.UUID
	Page             int
	Limit            int
}

// RequestRepository is the data access layer for content requests. It also
// satisfies the workflow engine's Store port: FindByID returns (nil, nil) for
// missing rows, and UpdateWhereStatus is the status-conditional write.
type RequestRepository interface {
	Create(ctx context.Context, req *model.ContentRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ContentRequest, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.ContentRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]model.ContentRequest, int64, error)
	UpdateWhereStatus(ctx context.Context, id uuid.UUID, expected model.RequestStatus, fn func(*model.ContentRequest)) (*model.ContentRequest, bool, error)
	ClearCalendarLink(ctx context.Context, calendarItemID uuid.UUID) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.ContentRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ContentRequest, error) {
	var req model.ContentRequest
	err := GetDB(ctx, r.db).Preload("Media").First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.ContentRequest, error) {
	var req model.ContentRequest
	err := GetDB(ctx, r.db).
		Preload("Client").
		Preload("FromUser").
		Preload("AssignedEditor").
		Preload("ToUser").
		Preload("CalendarItem").
		Preload("Media").
		First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]model.ContentRequest, int64, error) {
	db := GetDB(ctx, r.db)

	apply := func(q *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.ClientID != nil {
			q = q.Where("client_id = ?", *filter.ClientID)
		}
		if filter.AssignedEditorID != nil {
			q = q.Where("assigned_editor_id = ?", *filter.AssignedEditorID)
		}
		if filter.ToUserID != nil {
			q = q.Where("to_user_id = ?", *filter.ToUserID)
		}
		return q
	}

	var total int64
	if err := apply(db.Model(&model.ContentRequest{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var requests []model.ContentRequest
	err := apply(db.
		Preload("Client").
		Preload("FromUser").
		Preload("AssignedEditor").
		Preload("ToUser").
		Preload("Media")).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// UpdateWhereStatus locks the row scoped by id AND expected status, applies fn,
// and saves. A missing row means either the id is gone or the status moved; the
// caller distinguishes by re-reading.
func (r *requestRepository) UpdateWhereStatus(ctx context.Context, id uuid.UUID, expected model.RequestStatus, fn func(*model.ContentRequest)) (*model.ContentRequest, bool, error) {
	var updated *model.ContentRequest
	matched := false

	err := GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var req model.ContentRequest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", id, expected).
			First(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		fn(&req)
		if err := tx.Save(&req).Error; err != nil {
			return err
		}

		matched = true
		updated = &req
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return updated, matched, nil
}

func (r *requestRepository) ClearCalendarLink(ctx context.Context, calendarItemID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.ContentRequest{}).
		Where("calendar_item_id = ?", calendarItemID).
		Update("calendar_item_id", nil).Error
}
