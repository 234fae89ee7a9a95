package models

import "gorm.io/gorm"

// Feedback is the citizen's rating of a complaint's handling. At most one
// exists per complaint; the unique index on ComplaintID is the authoritative
// guard against duplicates.
type Feedback struct {
	gorm.Model
	ComplaintID uint   `gorm:"uniqueIndex;not null" json:"complaint_id"`
	Rating      int    `gorm:"not null" json:"rating"`
	Comment     string `gorm:"type:text" json:"comment"`
}

// FeedbackTotals is the aggregate shape the statistics engine reads straight
// from SQL: count, mean rating, and the positive (>=4) / negative (<=2)
// buckets.
type FeedbackTotals struct {
	Total    int64   `json:"total"`
	Average  float64 `json:"average"`
	Positive int64   `json:"positive"`
	Negative int64   `json:"negative"`
}
