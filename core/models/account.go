package models

import (
	"time"
)

type Account struct {
	ID           uint       `gorm:"primaryKey;autoIncrement;column:id"`
	Username     string     `gorm:"size:80;not null;uniqueIndex;column:username"`
	Email        string     `gorm:"size:255;not null;uniqueIndex;column:email"`
	PasswordHash string     `gorm:"size:60;not null;column:password_hash"` // bcrypt output is always 60 bytes
	CreatedAt    time.Time  `gorm:"autoCreateTime;column:created_at"`
	LastLogin    *time.Time `gorm:"column:last_login"` // nullable

	// Relations
	Uploads       []Upload       `gorm:"foreignKey:AccountID"`
	Subscriptions []Subscription `gorm:"foreignKey:AccountID"`
}

func (Account) TableName() string {
	return "accounts"
}
