package models

import (
	"time"
)

const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

type Subscription struct {
	ID        uint       `gorm:"primaryKey;autoIncrement;column:id"`
	AccountID uint       `gorm:"not null;column:account_id;uniqueIndex:idx_one_active_subscription"`
	PlanType  string     `gorm:"size:50;not null;column:plan_type"`
	StartDate time.Time  `gorm:"not null;column:start_date"`
	EndDate   *time.Time `gorm:"column:end_date"` // nullable
	Status    string     `gorm:"size:20;not null;column:status"`
	// Active is non-NULL only while Status is "active". The composite
	// unique index with account_id makes the store itself reject a second
	// concurrent active subscription; cancelled/expired rows carry NULL
	// and never collide.
	Active *bool `gorm:"column:active;uniqueIndex:idx_one_active_subscription"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
