package stats_test

import (
	"context"
	"time"

	"servicom/backend/internal/models"
	"servicom/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) EnsureProfile(userID string) (*models.Profile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockStorage) UpdateProfile(profile *models.Profile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *MockStorage) CreateDepartment(dept *models.Department) error {
	args := m.Called(dept)
	return args.Error(0)
}

func (m *MockStorage) GetDepartmentByID(id uint) (*models.Department, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockStorage) GetDepartmentByName(name string) (*models.Department, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockStorage) ListDepartments() ([]models.Department, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Department), args.Error(1)
}

func (m *MockStorage) DeleteDepartment(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) CreateComplaint(complaint *models.Complaint) error {
	args := m.Called(complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByReference(reference string) (*models.Complaint, error) {
	args := m.Called(reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaints(scope storage.Scope, status models.Status, limit int) ([]models.Complaint, error) {
	args := m.Called(scope, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) TransitionComplaint(reference string, apply storage.TransitionFunc) (*models.Complaint, error) {
	args := m.Called(reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	complaint := args.Get(0).(*models.Complaint)
	if _, err := apply(complaint); err != nil {
		return nil, err
	}
	return complaint, args.Error(1)
}

func (m *MockStorage) CreateResponse(response *models.ComplaintResponse) error {
	args := m.Called(response)
	return args.Error(0)
}

func (m *MockStorage) GetFeedbackByComplaintID(complaintID uint) (*models.Feedback, error) {
	args := m.Called(complaintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}

func (m *MockStorage) CreateFeedback(feedback *models.Feedback) error {
	args := m.Called(feedback)
	return args.Error(0)
}

func (m *MockStorage) ListFeedback(scope storage.Scope, limit int) ([]models.Feedback, error) {
	args := m.Called(scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Feedback), args.Error(1)
}

func (m *MockStorage) CountComplaints(scope storage.Scope, status models.Status) (int64, error) {
	args := m.Called(scope, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) AverageAgeDays(scope storage.Scope, status models.Status) (float64, bool, error) {
	args := m.Called(scope, status)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockStorage) CountResolvedInMonth(scope storage.Scope, year int, month time.Month) (int64, error) {
	args := m.Called(scope, year, month)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) FeedbackTotals(scope storage.Scope) (models.FeedbackTotals, error) {
	args := m.Called(scope)
	return args.Get(0).(models.FeedbackTotals), args.Error(1)
}

func (m *MockStorage) FeedbackTotalsForResponder(responderID string) (models.FeedbackTotals, error) {
	args := m.Called(responderID)
	return args.Get(0).(models.FeedbackTotals), args.Error(1)
}

func (m *MockStorage) SetDeactivated(userID string, deactivated bool) error {
	args := m.Called(userID, deactivated)
	return args.Error(0)
}

func (m *MockStorage) IsDeactivated(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) PublishEvent(event models.NotificationEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockStorage) SubscribeFeed(ctx context.Context) (<-chan models.NotificationEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan models.NotificationEvent), args.Error(1)
}
