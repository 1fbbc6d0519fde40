package subscribers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
)

// Service exposes merchant subscriber reads and the account-status toggle.
type Service interface {
	ListSubscribers(ctx context.Context, merchantID uuid.UUID, input ListInput) ([]SubscriberDTO, error)
	SetAccountStatus(ctx context.Context, merchantID, subscriberID uuid.UUID, status enums.AccountStatus) (*SubscriberDTO, error)
}

// ListInput carries the list filters.
type ListInput struct {
	AccountStatus *enums.AccountStatus
	Search        string
}

// SubscriberDTO is the subscriber payload returned to merchant clients.
type SubscriberDTO struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	Products           []string        `json:"products"`
	SubscriptionStatus string          `json:"subscription_status"`
	AccountStatus      string          `json:"account_status"`
	TotalSpent         decimal.Decimal `json:"total_spent"`
	JoinedAt           time.Time       `json:"joined_at"`
}

type service struct {
	repo *Repository
}

// NewService constructs the subscribers service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscriber repository required")
	}
	return &service{repo: repo}, nil
}

// ListSubscribers returns the merchant's subscribers, filtered by account
// status and a name/email search term.
func (s *service) ListSubscribers(ctx context.Context, merchantID uuid.UUID, input ListInput) ([]SubscriberDTO, error) {
	if input.AccountStatus != nil && !input.AccountStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account status").
			WithField("account_status", "invalid value")
	}
	rows, err := s.repo.List(ctx, merchantID, input.AccountStatus, strings.TrimSpace(input.Search))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscribers")
	}
	out := make([]SubscriberDTO, len(rows))
	for i := range rows {
		out[i] = *newSubscriberDTO(&rows[i])
	}
	return out, nil
}

// SetAccountStatus flips the subscriber's account between active and
// inactive. The subscription status is a separate axis and never changes
// here.
func (s *service) SetAccountStatus(ctx context.Context, merchantID, subscriberID uuid.UUID, status enums.AccountStatus) (*SubscriberDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account status").
			WithField("account_status", "invalid value")
	}

	subscriber, err := s.repo.FindByID(ctx, merchantID, subscriberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscriber not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscriber")
	}

	subscriber.AccountStatus = status
	updated, err := s.repo.Update(ctx, subscriber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update subscriber")
	}
	return newSubscriberDTO(updated), nil
}

func newSubscriberDTO(subscriber *models.Subscriber) *SubscriberDTO {
	return &SubscriberDTO{
		ID:                 subscriber.ID,
		Name:               subscriber.Name,
		Email:              subscriber.Email,
		Products:           append([]string{}, subscriber.Products...),
		SubscriptionStatus: string(subscriber.SubscriptionStatus),
		AccountStatus:      string(subscriber.AccountStatus),
		TotalSpent:         subscriber.TotalSpent,
		JoinedAt:           subscriber.JoinedAt,
	}
}
