package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusCount is a per-status request tally
type StatusCount struct {
	Status RequestStatus `json:"status"`
	Count  int64         `json:"count"`
}

// TypeCount is a per-content-type request tally
type TypeCount struct {
	ContentType ContentType `json:"content_type"`
	Count       int64       `json:"count"`
}

// StatisticsResponse aggregates the manager dashboard numbers for a time range
type StatisticsResponse struct {
	TimeRangeStartDate      time.Time       `json:"time_range_start_date"`
	TimeRangeEndDate        time.Time       `json:"time_range_end_date"`
	TotalRequests           int64           `json:"total_requests"`
	ByStatus                []StatusCount   `json:"by_status"`
	ByContentType           []TypeCount     `json:"by_content_type"`
	CompletedInRange        int64           `json:"completed_in_range"`
	ActiveClients           int64           `json:"active_clients"`
	MonthlyRecurringRevenue decimal.Decimal `json:"monthly_recurring_revenue"`
}
