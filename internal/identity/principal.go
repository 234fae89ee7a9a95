// Package identity models authenticated principals and the complaint scope
// each one is allowed to see. A principal is a closed citizen/staff variant
// built from the account and its profile; core operations receive it as an
// explicit parameter, never from ambient request state.
package identity

import (
	"servicom/backend/internal/models"
	"servicom/backend/internal/servierrors"
	"servicom/backend/internal/storage"
)

// Principal is an authenticated actor. Construct one with Citizen or Staff;
// the zero value represents an anonymous visitor with no scope.
type Principal struct {
	UserID    string
	Username  string
	Name      string
	Email     string
	Role      models.Role
	ProfileID uint

	// departmentID is only populated for staff, straight from the profile.
	departmentID *uint
}

// Citizen builds the citizen variant of a principal.
func Citizen(user *models.User, profile *models.Profile) Principal {
	return Principal{
		UserID:    user.ID,
		Username:  user.Username,
		Name:      user.FullName(),
		Email:     user.Email,
		Role:      models.RoleCitizen,
		ProfileID: profile.ID,
	}
}

// Staff builds the staff variant, carrying the home department.
func Staff(user *models.User, profile *models.Profile) Principal {
	return Principal{
		UserID:       user.ID,
		Username:     user.Username,
		Name:         user.FullName(),
		Email:        user.Email,
		Role:         models.RoleStaff,
		ProfileID:    profile.ID,
		departmentID: profile.DepartmentID,
	}
}

// IsStaff reports whether the principal may triage complaints.
func (p Principal) IsStaff() bool {
	return p.Role == models.RoleStaff
}

// Anonymous reports whether the principal is the unauthenticated zero value.
func (p Principal) Anonymous() bool {
	return p.UserID == ""
}

// Department returns the staff principal's home department. Staff must
// belong to exactly one department before they may triage.
func (p Principal) Department() (uint, error) {
	if p.departmentID == nil {
		return 0, servierrors.Newf(servierrors.KindConfiguration,
			"staff account %s has no department assigned", p.Username)
	}
	return *p.departmentID, nil
}

// Scope returns the complaint visibility scope: a citizen sees their own
// complaints, staff see their department's.
func (p Principal) Scope() (storage.Scope, error) {
	if p.Anonymous() {
		return storage.Scope{}, servierrors.New(servierrors.KindAuthorization,
			"authentication required")
	}
	if p.IsStaff() {
		dept, err := p.Department()
		if err != nil {
			return storage.Scope{}, err
		}
		return storage.Scope{DepartmentID: &dept}, nil
	}
	profileID := p.ProfileID
	return storage.Scope{ProfileID: &profileID}, nil
}
