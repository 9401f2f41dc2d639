package core

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/MohsenMaaleki/windsightai/core/models"
	"github.com/MohsenMaaleki/windsightai/utils"
)

// subscriptionTermDays is the fixed plan term.
const subscriptionTermDays = 30

// Subscribe creates an active subscription for the account. At most one
// subscription per account may be active: the application check below
// produces the friendly conflict message, and the composite unique index
// on (account_id, active) rejects the second writer when two subscribes
// race past the check.
func Subscribe(db *gorm.DB, accountID uint, planType string) (*models.Subscription, error) {
	if accountID == 0 {
		return nil, &ValidationError{Message: "account_id is required"}
	}
	if planType == "" {
		return nil, &ValidationError{Message: "plan_type is required"}
	}

	var account models.Account
	if err := db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "account"}
		}
		return nil, err
	}

	existing, err := GetActiveSubscription(db, accountID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Field: "subscription", Message: "account already has an active subscription"}
	}

	// An overdue row still counts as none-active above but keeps the
	// unique slot occupied; expire it here so the insert does not bounce
	// off the index until the next sweep.
	if err := overdueScope(db, time.Now()).Where("account_id = ?", accountID).
		Updates(expiredColumns()).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	end := now.AddDate(0, 0, subscriptionTermDays)
	sub := models.Subscription{
		AccountID: accountID,
		PlanType:  planType,
		StartDate: now,
		EndDate:   &end,
		Status:    models.SubscriptionActive,
		Active:    utils.Ptr(true),
	}
	if err := db.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Field: "subscription", Message: "account already has an active subscription"}
		}
		return nil, err
	}

	return &sub, nil
}

// GetActiveSubscription returns the account's active subscription, or
// (nil, nil) when there is none. An active row whose end date has passed
// counts as none; the cron sweep converges its stored status later.
func GetActiveSubscription(db *gorm.DB, accountID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.Where("account_id = ? AND status = ?", accountID, models.SubscriptionActive).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if sub.EndDate != nil && !sub.EndDate.After(time.Now()) {
		return nil, nil
	}
	return &sub, nil
}

// CancelSubscription marks the subscription cancelled and stamps the end
// date with the cancellation time. Re-cancelling is not rejected; it
// overwrites the end date.
func CancelSubscription(db *gorm.DB, subscriptionID uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := db.First(&sub, subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "subscription"}
		}
		return nil, err
	}

	now := time.Now()
	sub.Status = models.SubscriptionCancelled
	sub.EndDate = &now
	sub.Active = nil
	// Select forces the NULL write for the active marker.
	if err := db.Model(&sub).Select("status", "end_date", "active").
		Updates(&sub).Error; err != nil {
		return nil, err
	}

	return &sub, nil
}

func overdueScope(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Model(&models.Subscription{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date <= ?", models.SubscriptionActive, now)
}

func expiredColumns() map[string]interface{} {
	return map[string]interface{}{
		"status": models.SubscriptionExpired,
		"active": nil,
	}
}

// ExpireOverdueSubscriptions flips active subscriptions whose end date
// has passed to expired and releases their active marker. Run
// periodically from the scheduler.
func ExpireOverdueSubscriptions(db *gorm.DB, now time.Time) (int64, error) {
	result := overdueScope(db, now).Updates(expiredColumns())
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		logrus.WithField("count", result.RowsAffected).Info("expired overdue subscriptions")
	}
	return result.RowsAffected, nil
}
