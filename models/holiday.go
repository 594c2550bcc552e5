package models

import (
	"time"
)

// Holiday removes its date from shift generation. At most one row per date.
type Holiday struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Date      time.Time `gorm:"uniqueIndex;not null;type:date" json:"date"`
	Note      string    `gorm:"size:500" json:"note"`
}
