package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalendarFilter narrows calendar item listings
type CalendarFilter struct {
	ClientID *uuid.UUID
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

// CalendarRepository defines the interface for data access of content calendar items
type CalendarRepository interface {
	Create(ctx context.Context, item *model.CalendarItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CalendarItem, error)
	List(ctx context.Context, filter CalendarFilter) ([]model.CalendarItem, int64, error)
	Update(ctx context.Context, item *model.CalendarItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type calendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) Create(ctx context.Context, item *model.CalendarItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *calendarRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CalendarItem, error) {
	var item model.CalendarItem
	if err := GetDB(ctx, r.db).Preload("Client").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *calendarRepository) List(ctx context.Context, filter CalendarFilter) ([]model.CalendarItem, int64, error) {
	db := GetDB(ctx, r.db)

	apply := func(q *gorm.DB) *gorm.DB {
		if filter.ClientID != nil {
			q = q.Where("client_id = ?", *filter.ClientID)
		}
		if filter.From != nil {
			q = q.Where("scheduled_for >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("scheduled_for <= ?", *filter.To)
		}
		return q
	}

	var total int64
	if err := apply(db.Model(&model.CalendarItem{})).Count(&total).Error; err != nil {
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

	var items []model.CalendarItem
	err := apply(db.Preload("Client")).
		Order("scheduled_for ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *calendarRepository) Update(ctx context.Context, item *model.CalendarItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *calendarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.CalendarItem{}).Error
}
