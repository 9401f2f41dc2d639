package models

import (
	"time"
)

// Upload is append-only: rows are never updated or deleted once written,
// only extended through their Analyses.
type Upload struct {
	ID         uint      `gorm:"primaryKey;autoIncrement;column:id"`
	AccountID  uint      `gorm:"not null;index;column:account_id"`
	Filename   string    `gorm:"size:255;not null;column:filename"` // declared name as uploaded
	StoredName string    `gorm:"size:255;not null;column:stored_name"`
	StoredPath string    `gorm:"size:512;not null;column:stored_path"`
	UploadedAt time.Time `gorm:"autoCreateTime;column:uploaded_at"`
	MediaType  string    `gorm:"size:50;column:media_type"`
	SizeBytes  int64     `gorm:"column:size_bytes"`

	Analyses []Analysis `gorm:"foreignKey:UploadID"`
}

func (Upload) TableName() string {
	return "uploads"
}
