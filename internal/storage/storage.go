package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"servicom/backend/internal/models"
	"servicom/backend/internal/servierrors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// TransitionFunc validates and mutates a complaint while its row is locked.
// It may return a response to append to the complaint's log in the same
// transaction. Any error aborts the transaction untouched.
type TransitionFunc func(complaint *models.Complaint) (*models.ComplaintResponse, error)

// Scope restricts queries to the complaints a principal may see. The zero
// value is the unscoped (public/global) view.
type Scope struct {
	ProfileID    *uint
	DepartmentID *uint
}

// Global reports whether the scope places no restriction.
func (sc Scope) Global() bool {
	return sc.ProfileID == nil && sc.DepartmentID == nil
}

type Storage interface {
	// Users and profiles
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	UpdateUser(user *models.User) error
	EnsureProfile(userID string) (*models.Profile, error)
	UpdateProfile(profile *models.Profile) error

	// Departments
	CreateDepartment(dept *models.Department) error
	GetDepartmentByID(id uint) (*models.Department, error)
	GetDepartmentByName(name string) (*models.Department, error)
	ListDepartments() ([]models.Department, error)
	DeleteDepartment(id uint) error

	// Complaints
	CreateComplaint(complaint *models.Complaint) error
	GetComplaintByReference(reference string) (*models.Complaint, error)
	ListComplaints(scope Scope, status models.Status, limit int) ([]models.Complaint, error)
	TransitionComplaint(reference string, apply TransitionFunc) (*models.Complaint, error)
	CreateResponse(response *models.ComplaintResponse) error
	GetFeedbackByComplaintID(complaintID uint) (*models.Feedback, error)
	CreateFeedback(feedback *models.Feedback) error
	ListFeedback(scope Scope, limit int) ([]models.Feedback, error)

	// Aggregates for the statistics engine
	CountComplaints(scope Scope, status models.Status) (int64, error)
	AverageAgeDays(scope Scope, status models.Status) (float64, bool, error)
	CountResolvedInMonth(scope Scope, year int, month time.Month) (int64, error)
	FeedbackTotals(scope Scope) (models.FeedbackTotals, error)
	FeedbackTotalsForResponder(responderID string) (models.FeedbackTotals, error)

	// Redis-backed fast paths
	SetDeactivated(userID string, deactivated bool) error
	IsDeactivated(userID string) (bool, error)
	PublishEvent(event models.NotificationEvent) error
	SubscribeFeed(ctx context.Context) (<-chan models.NotificationEvent, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// scoped applies the scope restriction to a complaint query.
func (sc Scope) scoped(q *gorm.DB) *gorm.DB {
	if sc.ProfileID != nil {
		q = q.Where("profile_id = ?", *sc.ProfileID)
	}
	if sc.DepartmentID != nil {
		q = q.Where("department_id = ?", *sc.DepartmentID)
	}
	return q
}

// CreateUser stores a new account in PostgreSQL.
func (s *Service) CreateUser(user *models.User) error {
	if err := s.DB.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return servierrors.Wrap(servierrors.KindAlreadyExists, "username or email already taken", err)
		}
		log.Printf("ERROR: Failed to create user %s: %v", user.Username, err)
		return err
	}
	return nil
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, servierrors.Newf(servierrors.KindNotFound, "user %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, servierrors.Newf(servierrors.KindNotFound, "user %s not found", username)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// EnsureProfile returns the user's profile, creating an empty one on first
// access. Idempotent: concurrent calls converge on the single row guarded by
// the unique index on user_id.
func (s *Service) EnsureProfile(userID string) (*models.Profile, error) {
	var profile models.Profile
	result := s.DB.Where("user_id = ?", userID).
		FirstOrCreate(&profile, models.Profile{UserID: userID})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			// Lost the create race; the row exists now.
			err := s.DB.Where("user_id = ?", userID).First(&profile).Error
			return &profile, err
		}
		log.Printf("ERROR: Failed to ensure profile for user %s: %v", userID, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("INFO: Created profile for user %s", userID)
	}
	return &profile, nil
}

func (s *Service) UpdateProfile(profile *models.Profile) error {
	return s.DB.Save(profile).Error
}

func (s *Service) CreateDepartment(dept *models.Department) error {
	if err := s.DB.Create(dept).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return servierrors.Wrap(servierrors.KindAlreadyExists, "department name already taken", err)
		}
		return err
	}
	return nil
}

func (s *Service) GetDepartmentByID(id uint) (*models.Department, error) {
	var dept models.Department
	err := s.DB.First(&dept, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, servierrors.Newf(servierrors.KindNotFound, "department %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (s *Service) GetDepartmentByName(name string) (*models.Department, error) {
	var dept models.Department
	err := s.DB.First(&dept, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, servierrors.Newf(servierrors.KindNotFound, "department %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (s *Service) ListDepartments() ([]models.Department, error) {
	var depts []models.Department
	if err := s.DB.Order("name asc").Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}

// DeleteDepartment removes a department. Dependent profiles and complaints
// degrade to unassigned; nothing cascades.
func (s *Service) DeleteDepartment(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Profile{}).
			Where("department_id = ?", id).
			Update("department_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Complaint{}).
			Where("department_id = ?", id).
			Update("department_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Department{}, id).Error
	})
}
