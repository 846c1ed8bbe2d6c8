package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription tiers. New accounts start on TierFree; upgrades happen through
// the checkout flow.
const (
	TierFree       = "free"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// User represents the user model stored in the database.
// Emails are compared byte-exact: "A@x.com" and "a@x.com" are two accounts.
type User struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Email            string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password         string         `json:"-" gorm:"type:varchar(255);not null"`
	SubscriptionTier string         `json:"subscription_tier" gorm:"type:varchar(20);not null;default:'free'"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}
