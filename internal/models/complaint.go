package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the complaint lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

// validTransitions is the full state machine. Terminal states have no
// outgoing edges.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusResolved, StatusRejected},
	StatusInProgress: {StatusResolved, StatusRejected},
	StatusResolved:   {},
	StatusRejected:   {},
}

// Known reports whether s is one of the four recognized statuses.
func (s Status) Known() bool {
	_, ok := validTransitions[s]
	return ok
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// CanTransitionTo reports whether the state machine allows moving from s to
// next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Category is the complaint subject type.
type Category string

const (
	CategoryServices Category = "services"
	CategoryGoods    Category = "goods"
)

// Known reports whether c is a recognized category.
func (c Category) Known() bool {
	return c == CategoryServices || c == CategoryGoods
}

// Complaint is the central entity: a citizen's grievance routed to a
// department and moved through the lifecycle by that department's staff.
type Complaint struct {
	gorm.Model

	// Reference is the opaque external lookup key, assigned exactly once at
	// creation. Sequential IDs are never exposed.
	Reference string `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`

	ProfileID *uint    `json:"profile_id,omitempty"`
	Profile   *Profile `gorm:"constraint:OnDelete:SET NULL" json:"profile,omitempty"`

	Category    Category `gorm:"type:text" json:"category"`
	Description string   `gorm:"type:text;not null" json:"description"`
	FilePath    string   `json:"file_path,omitempty"`

	DepartmentID *uint       `json:"department_id,omitempty"`
	Department   *Department `gorm:"constraint:OnDelete:SET NULL" json:"department,omitempty"`

	Status Status `gorm:"type:text;not null;default:'pending';index" json:"status"`
	// ResolvedDetails is required by the transition function when entering
	// the resolved state; the storage layer does not enforce it.
	ResolvedDetails string `gorm:"type:text" json:"resolved_details,omitempty"`

	Responses []ComplaintResponse `json:"responses,omitempty"`
	Feedback  *Feedback           `json:"feedback,omitempty"`
}

// BeforeCreate assigns the reference and initial status.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.Reference == "" {
		c.Reference = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	return
}

// OwnerEmail returns the owning citizen's email, or "" when the owner was
// deleted or not preloaded.
func (c *Complaint) OwnerEmail() string {
	if c.Profile != nil && c.Profile.User != nil {
		return c.Profile.User.Email
	}
	return ""
}
