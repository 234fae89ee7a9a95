// Package complaint provides the core logic for the complaint lifecycle:
// intake, the status state machine, the response log, and the feedback gate.
package complaint

import (
	"strings"

	"servicom/backend/internal/config"
	"servicom/backend/internal/identity"
	"servicom/backend/internal/models"
	"servicom/backend/internal/servierrors"
	"servicom/backend/internal/storage"
)

// Notifier receives notification events; emission is fire-and-forget and a
// failing collaborator never blocks or rolls back the operation that
// triggered it.
type Notifier interface {
	Emit(event models.NotificationEvent)
}

// Service handles the business logic for complaints.
type Service struct {
	Storage  storage.Storage
	Notifier Notifier
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, n Notifier) *Service {
	return &Service{Storage: s, Notifier: n}
}

// CreateInput is the intake payload for a new complaint.
type CreateInput struct {
	Category     models.Category
	Description  string
	DepartmentID *uint
	FilePath     string
}

// Create files a new complaint owned by the principal's profile, in the
// pending state, and emits the submitted event.
func (s *Service) Create(p identity.Principal, in CreateInput) (*models.Complaint, error) {
	if p.Anonymous() {
		return nil, servierrors.New(servierrors.KindAuthorization, "authentication required to submit a complaint")
	}
	if !in.Category.Known() {
		return nil, servierrors.Newf(servierrors.KindValidation, "unknown complaint category %q", in.Category)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, servierrors.New(servierrors.KindValidation, "description is required")
	}
	if in.DepartmentID != nil {
		if _, err := s.Storage.GetDepartmentByID(*in.DepartmentID); err != nil {
			return nil, err
		}
	}

	profileID := p.ProfileID
	complaint := &models.Complaint{
		ProfileID:    &profileID,
		Category:     in.Category,
		Description:  in.Description,
		DepartmentID: in.DepartmentID,
		FilePath:     in.FilePath,
	}
	if err := s.Storage.CreateComplaint(complaint); err != nil {
		return nil, err
	}

	s.emit(models.NotificationEvent{
		Kind:           models.EventSubmitted,
		RecipientEmail: p.Email,
		Reference:      complaint.Reference,
		Status:         complaint.Status,
		DepartmentID:   deref(complaint.DepartmentID),
	})
	return complaint, nil
}

// Transition moves a complaint through the state machine. Staff only, and
// only within the staff member's own department. Entering resolved requires
// a non-empty narrative. Optional responseText appends a log entry in the
// same transaction. The row lock in the storage layer serializes concurrent
// attempts; the loser fails against the advanced state.
func (s *Service) Transition(p identity.Principal, reference string, next models.Status, narrative, responseText string) (*models.Complaint, error) {
	if !p.IsStaff() {
		return nil, servierrors.New(servierrors.KindAuthorization, "only staff may change complaint status")
	}
	dept, err := p.Department()
	if err != nil {
		return nil, err
	}
	if !next.Known() {
		return nil, servierrors.Newf(servierrors.KindValidation, "unrecognized status %q", next)
	}

	narrative = strings.TrimSpace(narrative)
	responseText = strings.TrimSpace(responseText)

	updated, err := s.Storage.TransitionComplaint(reference, func(c *models.Complaint) (*models.ComplaintResponse, error) {
		if c.DepartmentID == nil || *c.DepartmentID != dept {
			return nil, servierrors.New(servierrors.KindAuthorization, "complaint belongs to another department")
		}
		if c.Status.Terminal() {
			return nil, servierrors.Newf(servierrors.KindInvalidTransition, "complaint is already %s", c.Status)
		}
		if !c.Status.CanTransitionTo(next) {
			return nil, servierrors.Newf(servierrors.KindInvalidTransition, "cannot move from %s to %s", c.Status, next)
		}
		if next == models.StatusResolved && narrative == "" {
			return nil, servierrors.New(servierrors.KindValidation, "resolution details are required to resolve a complaint")
		}

		c.Status = next
		if next == models.StatusResolved {
			c.ResolvedDetails = narrative
		}

		if responseText == "" {
			return nil, nil
		}
		responderID := p.UserID
		return &models.ComplaintResponse{
			ResponderID: &responderID,
			Comment:     responseText,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(models.NotificationEvent{
		Kind:           models.EventStatusChanged,
		RecipientEmail: updated.OwnerEmail(),
		Reference:      updated.Reference,
		Status:         updated.Status,
		Narrative:      updated.ResolvedDetails,
		ResponderName:  p.Name,
		DepartmentID:   deref(updated.DepartmentID),
	})
	return updated, nil
}

// AddResponse appends a staff comment to the complaint's log without
// touching its status.
func (s *Service) AddResponse(p identity.Principal, reference, text string) (*models.ComplaintResponse, error) {
	if !p.IsStaff() {
		return nil, servierrors.New(servierrors.KindAuthorization, "only staff may respond to complaints")
	}
	dept, err := p.Department()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, servierrors.New(servierrors.KindValidation, "response text is required")
	}

	complaint, err := s.Storage.GetComplaintByReference(reference)
	if err != nil {
		return nil, err
	}
	if complaint.DepartmentID == nil || *complaint.DepartmentID != dept {
		return nil, servierrors.New(servierrors.KindAuthorization, "complaint belongs to another department")
	}

	responderID := p.UserID
	response := &models.ComplaintResponse{
		ComplaintID: complaint.ID,
		ResponderID: &responderID,
		Comment:     strings.TrimSpace(text),
	}
	if err := s.Storage.CreateResponse(response); err != nil {
		return nil, err
	}

	s.emit(models.NotificationEvent{
		Kind:           models.EventResponseAdded,
		RecipientEmail: complaint.OwnerEmail(),
		Reference:      complaint.Reference,
		Status:         complaint.Status,
		ResponderName:  p.Name,
		DepartmentID:   deref(complaint.DepartmentID),
	})
	return response, nil
}

// SubmitFeedback records the citizen's one-time rating of a complaint.
// Preconditions, in order: ownership, no prior feedback, rating bounds.
// Deliberately no status gate: feedback is accepted in any state, matching
// the long-observed behavior; restricting it to resolved complaints is a
// pending product question.
func (s *Service) SubmitFeedback(p identity.Principal, reference string, rating int, comment string) (*models.Feedback, error) {
	complaint, err := s.Storage.GetComplaintByReference(reference)
	if err != nil {
		return nil, err
	}
	if p.Anonymous() || complaint.ProfileID == nil || *complaint.ProfileID != p.ProfileID {
		return nil, servierrors.New(servierrors.KindAuthorization, "only the complaint owner may leave feedback")
	}

	// Fast path; the unique index on complaint_id remains the authoritative
	// guard against a concurrent duplicate.
	existing, err := s.Storage.GetFeedbackByComplaintID(complaint.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, servierrors.New(servierrors.KindAlreadyExists, "feedback already submitted for this complaint")
	}

	if rating < config.RatingMin || rating > config.RatingMax {
		return nil, servierrors.Newf(servierrors.KindValidation,
			"rating must be between %d and %d", config.RatingMin, config.RatingMax)
	}

	feedback := &models.Feedback{
		ComplaintID: complaint.ID,
		Rating:      rating,
		Comment:     comment,
	}
	if err := s.Storage.CreateFeedback(feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// Track returns a complaint if the principal's scope covers it: the owner,
// or staff of its department.
func (s *Service) Track(p identity.Principal, reference string) (*models.Complaint, error) {
	complaint, err := s.Storage.GetComplaintByReference(reference)
	if err != nil {
		return nil, err
	}
	if p.Anonymous() {
		return nil, servierrors.New(servierrors.KindAuthorization, "authentication required")
	}
	if p.IsStaff() {
		dept, err := p.Department()
		if err != nil {
			return nil, err
		}
		if complaint.DepartmentID == nil || *complaint.DepartmentID != dept {
			return nil, servierrors.New(servierrors.KindAuthorization, "complaint belongs to another department")
		}
		return complaint, nil
	}
	if complaint.ProfileID == nil || *complaint.ProfileID != p.ProfileID {
		return nil, servierrors.New(servierrors.KindAuthorization, "complaint belongs to another citizen")
	}
	return complaint, nil
}

// emit hands the event to the notification collaborator, if any.
func (s *Service) emit(event models.NotificationEvent) {
	if s.Notifier != nil {
		s.Notifier.Emit(event)
	}
}

func deref(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
