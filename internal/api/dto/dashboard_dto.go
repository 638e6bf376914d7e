package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/query"
	"github.com/spec-kit/helpdesk-dashboard/internal/trends"
)

// StatsResponse carries the summary cards.
type StatsResponse struct {
	Total      int `json:"total"`
	Resolved   int `json:"resolved"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
}

// NewStatsResponse converts counts.
func NewStatsResponse(c query.Counts) StatsResponse {
	return StatsResponse{Total: c.Total, Resolved: c.Resolved, Pending: c.Pending, InProgress: c.InProgress}
}

// MonthCountResponse is one bar of the monthly chart.
type MonthCountResponse struct {
	Month   string `json:"month"`
	Name    string `json:"name"`
	Tickets int    `json:"tickets"`
}

// NewMonthlyResponse converts a monthly series.
func NewMonthlyResponse(series []query.MonthCount) []MonthCountResponse {
	out := make([]MonthCountResponse, 0, len(series))
	for _, m := range series {
		out = append(out, MonthCountResponse{Month: m.Label, Name: m.Name, Tickets: m.Count})
	}
	return out
}

// StatusSliceResponse is one slice of the status chart.
type StatusSliceResponse struct {
	Status domain.TicketStatus `json:"status"`
	Count  int                 `json:"count"`
}

// NewStatusDistributionResponse converts status counts.
func NewStatusDistributionResponse(counts []query.StatusCount) []StatusSliceResponse {
	out := make([]StatusSliceResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, StatusSliceResponse{Status: c.Status, Count: c.Count})
	}
	return out
}

// TrendReportResponse carries an accepted trend report. Field names follow
// the report's own JSON shape.
type TrendReportResponse struct {
	TrendReport string    `json:"trendReport"`
	ActionItems string    `json:"actionItems,omitempty"`
	Token       uint64    `json:"token"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewTrendReportResponse converts an analysis result.
func NewTrendReportResponse(r trends.Result) TrendReportResponse {
	return TrendReportResponse{
		TrendReport: r.Report.TrendReport,
		ActionItems: r.Report.ActionItems,
		Token:       r.Token,
		GeneratedAt: r.GeneratedAt,
	}
}
