package storage

import (
	"database/sql"
	"log"
	"time"

	"servicom/backend/internal/config"
	"servicom/backend/internal/models"
)

// The dashboard figures are computed as single aggregation expressions in
// PostgreSQL instead of iterating result sets in-process. Soft-deleted rows
// are excluded in the raw queries by hand since they bypass the gorm callback
// chain.

// CountComplaints counts complaints in scope; an empty status counts all.
func (s *Service) CountComplaints(scope Scope, status models.Status) (int64, error) {
	q := scope.scoped(s.DB.Model(&models.Complaint{}))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		log.Printf("ERROR: Failed to count complaints: %v", err)
		return 0, err
	}
	return count, nil
}

// AverageAgeDays returns the mean age in whole days of the scoped complaints
// currently in the given status. The second return value is false when the
// set is empty.
func (s *Service) AverageAgeDays(scope Scope, status models.Status) (float64, bool, error) {
	q := scope.scoped(s.DB.Model(&models.Complaint{})).Where("status = ?", status)
	var avg sql.NullFloat64
	err := q.Select("AVG(FLOOR(EXTRACT(EPOCH FROM (NOW() - created_at)) / 86400))").
		Scan(&avg).Error
	if err != nil {
		log.Printf("ERROR: Failed to compute average age for status %s: %v", status, err)
		return 0, false, err
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}

// CountResolvedInMonth counts scoped complaints resolved in the given
// calendar month, keyed by the last-updated timestamp.
func (s *Service) CountResolvedInMonth(scope Scope, year int, month time.Month) (int64, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	q := scope.scoped(s.DB.Model(&models.Complaint{})).
		Where("status = ?", models.StatusResolved).
		Where("updated_at >= ? AND updated_at < ?", start, end)
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

const feedbackTotalsSQL = `
SELECT
    COUNT(f.id)                                     AS total,
    COALESCE(AVG(f.rating), 0)                      AS average,
    COUNT(f.id) FILTER (WHERE f.rating >= ?)        AS positive,
    COUNT(f.id) FILTER (WHERE f.rating <= ?)        AS negative
FROM feedbacks f
JOIN complaints c ON c.id = f.complaint_id
WHERE f.deleted_at IS NULL AND c.deleted_at IS NULL`

// FeedbackTotals aggregates feedback over the scoped complaints.
func (s *Service) FeedbackTotals(scope Scope) (models.FeedbackTotals, error) {
	query := feedbackTotalsSQL
	args := []interface{}{config.PositiveRatingMin, config.NegativeRatingMax}
	if scope.ProfileID != nil {
		query += " AND c.profile_id = ?"
		args = append(args, *scope.ProfileID)
	}
	if scope.DepartmentID != nil {
		query += " AND c.department_id = ?"
		args = append(args, *scope.DepartmentID)
	}

	var totals models.FeedbackTotals
	if err := s.DB.Raw(query, args...).Scan(&totals).Error; err != nil {
		log.Printf("ERROR: Failed to aggregate feedback: %v", err)
		return models.FeedbackTotals{}, err
	}
	return totals, nil
}

// FeedbackTotalsForResponder aggregates feedback over resolved complaints the
// staff member personally responded to.
func (s *Service) FeedbackTotalsForResponder(responderID string) (models.FeedbackTotals, error) {
	query := feedbackTotalsSQL + `
 AND c.status = ?
 AND c.id IN (
     SELECT complaint_id FROM complaint_responses
     WHERE responder_id = ? AND deleted_at IS NULL
 )`
	args := []interface{}{
		config.PositiveRatingMin, config.NegativeRatingMax,
		models.StatusResolved, responderID,
	}

	var totals models.FeedbackTotals
	if err := s.DB.Raw(query, args...).Scan(&totals).Error; err != nil {
		log.Printf("ERROR: Failed to aggregate responder feedback for %s: %v", responderID, err)
		return models.FeedbackTotals{}, err
	}
	return totals, nil
}
