package identity

import (
	"log"
	"strings"

	"servicom/backend/internal/models"
	"servicom/backend/internal/servierrors"
	"servicom/backend/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// Notifier receives account lifecycle events; emission is fire-and-forget.
type Notifier interface {
	Emit(event models.NotificationEvent)
}

// Service handles registration, credential checks, principal construction,
// and the administrator-driven activate/deactivate lifecycle.
type Service struct {
	Storage  storage.Storage
	Notifier Notifier
}

// NewService creates a new identity service.
func NewService(s storage.Storage, n Notifier) *Service {
	return &Service{Storage: s, Notifier: n}
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.Role
}

// Register creates an account and its profile. The role is fixed here; it
// never changes through self-service afterwards.
func (s *Service) Register(in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" {
		return nil, servierrors.New(servierrors.KindValidation, "username and email are required")
	}
	if len(in.Password) < 8 {
		return nil, servierrors.New(servierrors.KindValidation, "password must be at least 8 characters")
	}
	if in.Role == "" {
		in.Role = models.RoleCitizen
	}
	if !in.Role.Known() {
		return nil, servierrors.Newf(servierrors.KindValidation, "unknown role %q", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := s.Storage.CreateUser(user); err != nil {
		return nil, err
	}
	if _, err := s.Storage.EnsureProfile(user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credentials and returns the account. Deactivated
// accounts cannot log in.
func (s *Service) Authenticate(username, password string) (*models.User, error) {
	user, err := s.Storage.GetUserByUsername(username)
	if err != nil {
		if servierrors.IsKind(err, servierrors.KindNotFound) {
			return nil, servierrors.New(servierrors.KindAuthorization, "invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, servierrors.New(servierrors.KindAuthorization, "invalid credentials")
	}
	if !user.IsActive {
		return nil, servierrors.New(servierrors.KindAuthorization, "account is deactivated")
	}
	return user, nil
}

// PrincipalFor loads the account and builds its principal variant, ensuring
// the profile exists. Deactivated accounts are rejected; the Redis flag is
// the fast path, the account row the authority.
func (s *Service) PrincipalFor(userID string) (Principal, error) {
	flagged, err := s.Storage.IsDeactivated(userID)
	if err != nil {
		// Redis being down must not lock everyone out; fall through to the
		// account row.
		log.Printf("ERROR: Deactivation flag check failed for %s: %v", userID, err)
	} else if flagged {
		return Principal{}, servierrors.New(servierrors.KindAuthorization, "account is deactivated")
	}

	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return Principal{}, err
	}
	if !user.IsActive {
		return Principal{}, servierrors.New(servierrors.KindAuthorization, "account is deactivated")
	}

	profile, err := s.Storage.EnsureProfile(user.ID)
	if err != nil {
		return Principal{}, err
	}

	if user.Role == models.RoleStaff {
		return Staff(user, profile), nil
	}
	return Citizen(user, profile), nil
}

// VisibleComplaints returns the principal's scoped complaint list.
func (s *Service) VisibleComplaints(p Principal, status models.Status, limit int) ([]models.Complaint, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	return s.Storage.ListComplaints(scope, status, limit)
}

// Deactivate suspends an account and sets the fast-path flag.
func (s *Service) Deactivate(userID string) error {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	if err := s.Storage.UpdateUser(user); err != nil {
		return err
	}
	if err := s.Storage.SetDeactivated(userID, true); err != nil {
		log.Printf("ERROR: Failed to set deactivation flag for %s: %v", userID, err)
	}
	return nil
}

// Reactivate restores an account, clears the flag, and notifies the owner.
func (s *Service) Reactivate(userID string) (*models.User, error) {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	user.IsActive = true
	if err := s.Storage.UpdateUser(user); err != nil {
		return nil, err
	}
	if err := s.Storage.SetDeactivated(userID, false); err != nil {
		log.Printf("ERROR: Failed to clear deactivation flag for %s: %v", userID, err)
	}
	if s.Notifier != nil {
		s.Notifier.Emit(models.NotificationEvent{
			Kind:           models.EventAccountActivated,
			RecipientEmail: user.Email,
		})
	}
	return user, nil
}
