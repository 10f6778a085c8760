package service

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatisticsService interface {
	GetStatistics(ctx context.Context, startDate, endDate time.Time) (model.StatisticsResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetStatistics aggregates the manager dashboard numbers for the given range
func (s *statisticsService) GetStatistics(ctx context.Context, startDate, endDate time.Time) (model.StatisticsResponse, error) {
	var response model.StatisticsResponse
	response.TimeRangeStartDate = startDate
	response.TimeRangeEndDate = endDate

	db := s.db.WithContext(ctx)

	if err := db.Model(&model.ContentRequest{}).
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Count(&response.TotalRequests).Error; err != nil {
		return response, err
	}

	var byStatus []model.StatusCount
	if err := db.Model(&model.ContentRequest{}).
		Select("status, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Group("status").
		Order("count DESC").
		Scan(&byStatus).Error; err != nil {
		return response, err
	}
	response.ByStatus = byStatus

	var byType []model.TypeCount
	if err := db.Model(&model.ContentRequest{}).
		Select("content_type, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Group("content_type").
		Order("count DESC").
		Scan(&byType).Error; err != nil {
		return response, err
	}
	response.ByContentType = byType

	// Completed means the terminal state: client approved
	if err := db.Model(&model.ContentRequest{}).
		Where("status = ? AND updated_at >= ? AND updated_at <= ?", model.StatusClientApproved, startDate, endDate).
		Count(&response.CompletedInRange).Error; err != nil {
		return response, err
	}

	if err := db.Model(&model.Client{}).
		Where("is_active = ?", true).
		Count(&response.ActiveClients).Error; err != nil {
		return response, err
	}

	var mrr struct {
		Value decimal.Decimal
	}
	if err := db.Model(&model.Client{}).
		Select("COALESCE(SUM(monthly_fee), 0) as value").
		Where("is_active = ?", true).
		Scan(&mrr).Error; err != nil {
		return response, err
	}
	response.MonthlyRecurringRevenue = mrr.Value

	return response, nil
}
