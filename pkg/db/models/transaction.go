package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// Transaction is an immutable financial record; the only merchant-driven
// mutation is the refund transition on completed rows.
type Transaction struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchantID     uuid.UUID               `gorm:"column:merchant_id;type:uuid;not null;index"`
	SubscriberID   *uuid.UUID              `gorm:"column:subscriber_id;type:uuid"`
	ProductName    string                  `gorm:"column:product_name;not null"`
	Amount         decimal.Decimal         `gorm:"column:amount;type:numeric(12,2);not null"`
	Status         enums.TransactionStatus `gorm:"column:status;not null;default:'pending'"`
	RefundReason   *string                 `gorm:"column:refund_reason"`
	RefundedAmount *decimal.Decimal        `gorm:"column:refunded_amount;type:numeric(12,2)"`
	RefundedAt     *time.Time              `gorm:"column:refunded_at"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// Payout groups settled transactions into a transfer. Status is system-set.
type Payout struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchantID       uuid.UUID          `gorm:"column:merchant_id;type:uuid;not null;index"`
	Amount           decimal.Decimal    `gorm:"column:amount;type:numeric(12,2);not null"`
	TransactionCount int                `gorm:"column:transaction_count;not null;default:0"`
	Method           string             `gorm:"column:method;not null"`
	Status           enums.PayoutStatus `gorm:"column:status;not null;default:'processing'"`
	ProcessedAt      *time.Time         `gorm:"column:processed_at"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
