package models

import "gorm.io/gorm"

// ComplaintResponse is one entry in a complaint's append-only response log.
// Entries are ordered by creation time ascending and never mutated or
// deleted. The responder reference is nullified if the staff account is
// later removed.
type ComplaintResponse struct {
	gorm.Model
	ComplaintID uint    `gorm:"not null;index" json:"complaint_id"`
	ResponderID *string `json:"responder_id,omitempty"`
	Responder   *User   `gorm:"constraint:OnDelete:SET NULL" json:"responder,omitempty"`
	Comment     string  `gorm:"type:text;not null" json:"comment"`
}
