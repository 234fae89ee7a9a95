package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Department is a named routing target for complaints. Staff profiles point
// at their home department; complaints point at the department they target.
// Deleting a department nullifies those references, it never cascades.
type Department struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// NotifyEmails are extra recipients copied on department alerts.
	NotifyEmails pq.StringArray `gorm:"type:text[]" json:"notify_emails,omitempty"`
	// TelegramChatID, when non-zero, receives complaint alerts through the
	// telegram sink.
	TelegramChatID int64 `json:"telegram_chat_id,omitempty"`
}
