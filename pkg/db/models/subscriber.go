package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// Subscriber is a patient account attached to one merchant. Account status
// and subscription status are independent axes.
type Subscriber struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchantID         uuid.UUID                `gorm:"column:merchant_id;type:uuid;not null;index"`
	Name               string                   `gorm:"column:name;not null"`
	Email              string                   `gorm:"column:email;not null"`
	Products           pq.StringArray           `gorm:"column:products;type:text[];not null;default:ARRAY[]::text[]"`
	SubscriptionStatus enums.SubscriptionStatus `gorm:"column:subscription_status;not null;default:'active'"`
	AccountStatus      enums.AccountStatus      `gorm:"column:account_status;not null;default:'active'"`
	TotalSpent         decimal.Decimal          `gorm:"column:total_spent;type:numeric(12,2);not null;default:0"`
	JoinedAt           time.Time                `gorm:"column:joined_at;not null"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
