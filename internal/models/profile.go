package models

import "gorm.io/gorm"

// Profile is the per-account contact record, one per user. It is created
// lazily through Storage.EnsureProfile, which is idempotent. For staff the
// department field is their home department; for citizens it stays nil.
type Profile struct {
	gorm.Model
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	PhoneNumber string `json:"phone_number"`
	Address     string `gorm:"type:text" json:"address"`
	Bio         string `gorm:"type:text" json:"bio"`
	ImagePath   string `json:"image_path"`
	// IDCode is the optional citizen identifier code; unused for staff.
	IDCode string `json:"id_code,omitempty"`

	DepartmentID *uint       `json:"department_id,omitempty"`
	Department   *Department `gorm:"constraint:OnDelete:SET NULL" json:"department,omitempty"`
}
