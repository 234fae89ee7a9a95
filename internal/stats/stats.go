// Package stats derives the dashboard aggregates: counts by status,
// resolution rate, average wait and processing times, the month-over-month
// resolved trend, and feedback figures. Everything is computed fresh from
// the store on each request; nothing is cached.
package stats

import (
	"fmt"
	"time"

	"servicom/backend/internal/models"
	"servicom/backend/internal/storage"
)

// Service computes snapshots over the complaint store.
type Service struct {
	Storage storage.Storage
	// Now is swappable in tests; defaults to time.Now.
	Now func() time.Time
}

// NewService creates a new statistics service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s, Now: time.Now}
}

// AverageDays is a mean age in whole days. Valid is false when the
// underlying set was empty, which renders as "N/A".
type AverageDays struct {
	Days  float64 `json:"days"`
	Valid bool    `json:"valid"`
}

// String renders the dashboard form of the average.
func (a AverageDays) String() string {
	if !a.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", a.Days)
}

// Trend is the month-over-month resolved-complaint delta. Raw keeps the true
// signed percentage for callers that need magnitude and direction; Clamped
// is the [0,100] presentation value for progress-bar consumers.
type Trend struct {
	Current  int64   `json:"current"`
	Previous int64   `json:"previous"`
	Raw      float64 `json:"raw_percent"`
	Clamped  float64 `json:"clamped_percent"`
	// Valid is false when both months are empty ("N/A").
	Valid bool `json:"valid"`
}

// String renders the dashboard form of the trend.
func (t Trend) String() string {
	if !t.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%+.0f%%", t.Raw)
}

// Snapshot is the full dashboard payload for one scope.
type Snapshot struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Rejected   int64 `json:"rejected"`

	ResolutionRate float64 `json:"resolution_rate"`

	AvgWaitDays       AverageDays `json:"avg_wait_days"`
	AvgProcessingDays AverageDays `json:"avg_processing_days"`

	MonthlyResolved Trend `json:"monthly_resolved"`

	Feedback models.FeedbackTotals `json:"feedback"`
}

// ResolutionRate is resolved/total as a percentage, defined as 0 for an
// empty scope so an idle department never divides by zero.
func ResolutionRate(resolved, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(resolved) / float64(total) * 100
}

// ComputeTrend derives the month-over-month delta from the two counts.
// previous=0 with current>0 is reported as +100%; both zero is N/A.
func ComputeTrend(current, previous int64) Trend {
	t := Trend{Current: current, Previous: previous}
	switch {
	case previous == 0 && current == 0:
		return t
	case previous == 0:
		t.Raw = 100
	default:
		t.Raw = float64(current-previous) / float64(previous) * 100
	}
	t.Valid = true
	t.Clamped = clampPercent(t.Raw)
	return t
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Compute assembles the snapshot for a scope. The zero scope yields the
// global figures shown on the public landing view.
func (s *Service) Compute(scope storage.Scope) (*Snapshot, error) {
	snap := &Snapshot{}

	var err error
	if snap.Total, err = s.Storage.CountComplaints(scope, ""); err != nil {
		return nil, err
	}
	if snap.Pending, err = s.Storage.CountComplaints(scope, models.StatusPending); err != nil {
		return nil, err
	}
	if snap.InProgress, err = s.Storage.CountComplaints(scope, models.StatusInProgress); err != nil {
		return nil, err
	}
	if snap.Resolved, err = s.Storage.CountComplaints(scope, models.StatusResolved); err != nil {
		return nil, err
	}
	if snap.Rejected, err = s.Storage.CountComplaints(scope, models.StatusRejected); err != nil {
		return nil, err
	}
	snap.ResolutionRate = ResolutionRate(snap.Resolved, snap.Total)

	days, valid, err := s.Storage.AverageAgeDays(scope, models.StatusPending)
	if err != nil {
		return nil, err
	}
	snap.AvgWaitDays = AverageDays{Days: days, Valid: valid}

	days, valid, err = s.Storage.AverageAgeDays(scope, models.StatusInProgress)
	if err != nil {
		return nil, err
	}
	snap.AvgProcessingDays = AverageDays{Days: days, Valid: valid}

	now := s.Now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	current, err := s.Storage.CountResolvedInMonth(scope, thisMonth.Year(), thisMonth.Month())
	if err != nil {
		return nil, err
	}
	previous, err := s.Storage.CountResolvedInMonth(scope, lastMonth.Year(), lastMonth.Month())
	if err != nil {
		return nil, err
	}
	snap.MonthlyResolved = ComputeTrend(current, previous)

	if snap.Feedback, err = s.Storage.FeedbackTotals(scope); err != nil {
		return nil, err
	}

	return snap, nil
}

// ResponderFeedback aggregates feedback over resolved complaints the staff
// member personally responded to.
func (s *Service) ResponderFeedback(responderID string) (models.FeedbackTotals, error) {
	return s.Storage.FeedbackTotalsForResponder(responderID)
}
