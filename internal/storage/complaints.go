package storage

import (
	"errors"
	"log"

	"servicom/backend/internal/models"
	"servicom/backend/internal/servierrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateComplaint stores a new complaint. The BeforeCreate hook assigns the
// reference and pending status.
func (s *Service) CreateComplaint(complaint *models.Complaint) error {
	if err := s.DB.Create(complaint).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint: %v", err)
		return err
	}
	return nil
}

// GetComplaintByReference loads a complaint with its owner, department,
// ordered response log, and feedback.
func (s *Service) GetComplaintByReference(reference string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.
		Preload("Profile.User").
		Preload("Department").
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc").Preload("Responder")
		}).
		Preload("Feedback").
		First(&complaint, "reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, servierrors.Newf(servierrors.KindNotFound, "complaint %s not found", reference)
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// ListComplaints returns the complaints visible in the scope, newest first.
// An empty status means all statuses; limit 0 means no limit.
func (s *Service) ListComplaints(scope Scope, status models.Status, limit int) ([]models.Complaint, error) {
	q := scope.scoped(s.DB.Model(&models.Complaint{})).
		Preload("Department").
		Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var complaints []models.Complaint
	if err := q.Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

// TransitionComplaint runs apply against the complaint under a row lock, so
// two concurrent transitions cannot both read the same starting status. The
// loser observes the winner's state and fails inside apply. On success the
// complaint is saved (bumping updated_at) and the optional response is
// appended in the same transaction.
func (s *Service) TransitionComplaint(reference string, apply TransitionFunc) (*models.Complaint, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var complaint models.Complaint
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&complaint, "reference = ?", reference).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return servierrors.Newf(servierrors.KindNotFound, "complaint %s not found", reference)
		}
		if err != nil {
			return err
		}

		response, err := apply(&complaint)
		if err != nil {
			return err
		}

		if err := tx.Save(&complaint).Error; err != nil {
			return err
		}
		if response != nil {
			response.ComplaintID = complaint.ID
			if err := tx.Create(response).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Reload with associations so callers can build the notification payload.
	return s.GetComplaintByReference(reference)
}

// CreateResponse appends one entry to a complaint's response log.
func (s *Service) CreateResponse(response *models.ComplaintResponse) error {
	if err := s.DB.Create(response).Error; err != nil {
		log.Printf("ERROR: Failed to save response for complaint %d: %v", response.ComplaintID, err)
		return err
	}
	return nil
}

// GetFeedbackByComplaintID returns nil without error when no feedback exists
// yet; absence is an expected state, not a failure.
func (s *Service) GetFeedbackByComplaintID(complaintID uint) (*models.Feedback, error) {
	var feedback models.Feedback
	err := s.DB.First(&feedback, "complaint_id = ?", complaintID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

// CreateFeedback stores feedback. The unique index on complaint_id is the
// authoritative one-feedback-per-complaint guard; a duplicate insert comes
// back as an AlreadyExists error regardless of what the caller checked.
func (s *Service) CreateFeedback(feedback *models.Feedback) error {
	if err := s.DB.Create(feedback).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return servierrors.Wrap(servierrors.KindAlreadyExists, "feedback already submitted for this complaint", err)
		}
		log.Printf("ERROR: Failed to save feedback for complaint %d: %v", feedback.ComplaintID, err)
		return err
	}
	return nil
}

// ListFeedback returns feedback entries for complaints within the scope,
// newest first. Limit 0 means no limit.
func (s *Service) ListFeedback(scope Scope, limit int) ([]models.Feedback, error) {
	q := s.DB.Model(&models.Feedback{}).
		Joins("JOIN complaints ON complaints.id = feedbacks.complaint_id AND complaints.deleted_at IS NULL").
		Order("feedbacks.created_at desc")
	if scope.ProfileID != nil {
		q = q.Where("complaints.profile_id = ?", *scope.ProfileID)
	}
	if scope.DepartmentID != nil {
		q = q.Where("complaints.department_id = ?", *scope.DepartmentID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var entries []models.Feedback
	if err := q.Find(&entries).Error; err != nil {
		log.Printf("ERROR: Failed to list feedback: %v", err)
		return nil, err
	}
	return entries, nil
}
