package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db"
	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
	"github.com/saulrivera/medcart-backend/pkg/metrics"
	"github.com/saulrivera/medcart-backend/pkg/pagination"
)

const resolvedCacheTTL = 5 * time.Minute

// Service exposes the merchant-facing catalog: resolved reads plus override
// writes and resets.
type Service interface {
	GetProduct(ctx context.Context, merchantID, productID uuid.UUID) (*ResolvedProductDTO, error)
	ListProducts(ctx context.Context, merchantID uuid.UUID, input ListProductsInput) (*ProductListResult, error)
	ApplyEdit(ctx context.Context, merchantID, productID uuid.UUID, input EditInput) (*ResolvedProductDTO, error)
	ResetToDefault(ctx context.Context, merchantID, productID uuid.UUID, expectedVersion *int) (*ResolvedProductDTO, error)
}

// ListProductsInput captures the filter and page knobs for the resolved list.
type ListProductsInput struct {
	Category   *enums.ProductCategory
	Query      string
	Pagination pagination.Params
}

// EditInput holds optional override values. Nil means "leave this field
// alone"; a non-nil pointer overrides the base, even with an empty value.
// Array fields replace the base list wholesale.
type EditInput struct {
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	Status          *enums.ProductStatus
	Benefits        *[]string
	SideEffects     *[]string
	Images          *[]string
	DosageOptions   *[]DosageEditInput
	ExpectedVersion *int
	Actor           enums.Actor
}

// DosageEditInput is one strength in a wholesale dosage replacement.
type DosageEditInput struct {
	Name      string
	Price     decimal.Decimal
	IsDefault bool
}

type resolvedCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ResolvedProductKey(merchantID, productID, revision string) string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	cache    resolvedCache
	metrics  *metrics.ResolutionMetrics
}

// NewService constructs the catalog service. Cache and metrics are optional.
func NewService(repo *Repository, dbClient *db.Client, cache resolvedCache, m *metrics.ResolutionMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, cache: cache, metrics: m}, nil
}

// GetProduct returns the resolved merchant view of one product. The cache
// key carries the base product revision, so an admin import that rewrites
// the base row always misses and the resolved view never lags its inputs.
func (s *service) GetProduct(ctx context.Context, merchantID, productID uuid.UUID) (*ResolvedProductDTO, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	key := s.cacheKey(merchantID, product)
	if key != "" {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var dto ResolvedProductDTO
			if err := json.Unmarshal([]byte(raw), &dto); err == nil {
				return &dto, nil
			}
		}
	}

	started := time.Now()
	dto, err := s.resolveFor(ctx, merchantID, product)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveResolve("product", time.Since(started))

	if key != "" {
		if encoded, err := json.Marshal(dto); err == nil {
			_ = s.cache.Set(ctx, key, string(encoded), resolvedCacheTTL)
		}
	}
	return dto, nil
}

// ListProducts returns one resolved page of the catalog for the merchant.
func (s *service) ListProducts(ctx context.Context, merchantID uuid.UUID, input ListProductsInput) (*ProductListResult, error) {
	started := time.Now()
	products, next, err := s.repo.ListProducts(ctx, productListQuery{
		Pagination: input.Pagination,
		Category:   input.Category,
		Query:      strings.TrimSpace(input.Query),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	overrides, err := s.repo.FindOverridesForProducts(ctx, merchantID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load overrides")
	}

	result := &ProductListResult{
		Products:   make([]ResolvedProductDTO, len(products)),
		NextCursor: next,
	}
	for i := range products {
		resolved := Resolve(&products[i], overrides[products[i].ID])
		result.Products[i] = *NewResolvedProductDTO(resolved)
	}
	s.metrics.ObserveResolve("list", time.Since(started))
	return result, nil
}

// ApplyEdit validates the full edit, then merges it into the merchant delta.
// Invalid edits change nothing.
func (s *service) ApplyEdit(ctx context.Context, merchantID, productID uuid.UUID, input EditInput) (*ResolvedProductDTO, error) {
	if err := validateEdit(input); err != nil {
		return nil, err
	}
	actor := input.Actor
	if !actor.IsValid() {
		actor = enums.ActorMerchant
	}

	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindOverride(ctx, merchantID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load override")
	}

	if err := checkVersion(input.ExpectedVersion, existing); err != nil {
		s.metrics.IncVersionConflict("product_override")
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if existing == nil {
			override := &models.ProductOverride{
				ProductID:    productID,
				MerchantID:   merchantID,
				Version:      1,
				ModifiedBy:   actor,
				LastModified: now,
			}
			applyEditToOverride(override, input)
			created, err := txRepo.CreateOverride(ctx, override)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert override")
			}
			if input.DosageOptions != nil {
				rows := buildDosageRows(created.ID, *input.DosageOptions)
				if err := txRepo.ReplaceOverrideDosages(ctx, created.ID, rows); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace dosage options")
				}
			}
			return nil
		}

		previousVersion := existing.Version
		applyEditToOverride(existing, input)
		existing.Version = previousVersion + 1
		existing.ModifiedBy = actor
		existing.LastModified = now

		if err := txRepo.UpdateOverrideVersioned(ctx, existing, previousVersion); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeConflict, "override was modified concurrently")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update override")
		}
		if input.DosageOptions != nil {
			rows := buildDosageRows(existing.ID, *input.DosageOptions)
			if err := txRepo.ReplaceOverrideDosages(ctx, existing.ID, rows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace dosage options")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply edit")
	}

	s.metrics.IncOverrideWrite(string(actor))
	s.invalidate(ctx, merchantID, product)
	return s.resolveFor(ctx, merchantID, product)
}

// ResetToDefault clears the merchant delta entirely; the resolved view
// returns to the admin base. Resetting an absent override is a no-op.
func (s *service) ResetToDefault(ctx context.Context, merchantID, productID uuid.UUID, expectedVersion *int) (*ResolvedProductDTO, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindOverride(ctx, merchantID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load override")
	}
	if existing != nil {
		if err := checkVersion(expectedVersion, existing); err != nil {
			s.metrics.IncVersionConflict("product_override")
			return nil, err
		}
		if err := s.repo.DeleteOverride(ctx, merchantID, productID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete override")
		}
		s.metrics.IncOverrideReset()
	}

	s.invalidate(ctx, merchantID, product)
	return s.resolveFor(ctx, merchantID, product)
}

func (s *service) findProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) resolveFor(ctx context.Context, merchantID uuid.UUID, product *models.Product) (*ResolvedProductDTO, error) {
	override, err := s.repo.FindOverride(ctx, merchantID, product.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load override")
	}
	return NewResolvedProductDTO(Resolve(product, override)), nil
}

func (s *service) cacheKey(merchantID uuid.UUID, product *models.Product) string {
	if s.cache == nil {
		return ""
	}
	revision := product.UpdatedAt.UTC().Format(time.RFC3339Nano)
	return s.cache.ResolvedProductKey(merchantID.String(), product.ID.String(), revision)
}

func (s *service) invalidate(ctx context.Context, merchantID uuid.UUID, product *models.Product) {
	key := s.cacheKey(merchantID, product)
	if key == "" {
		return
	}
	_ = s.cache.Del(ctx, key)
}

func checkVersion(expected *int, existing *models.ProductOverride) error {
	if expected == nil {
		return nil
	}
	current := 0
	if existing != nil {
		current = existing.Version
	}
	if *expected != current {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("expected version %d, found %d", *expected, current))
	}
	return nil
}

func validateEdit(input EditInput) error {
	if isEmptyEdit(input) {
		return pkgerrors.New(pkgerrors.CodeValidation, "no editable fields provided")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank").
			WithField(FieldName, "cannot be blank")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative").
			WithField(FieldPrice, "must be non-negative")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product status").
			WithField(FieldStatus, "invalid value")
	}
	if input.DosageOptions != nil {
		if err := validateDosageEdits(*input.DosageOptions); err != nil {
			return err
		}
	}
	return nil
}

func validateDosageEdits(options []DosageEditInput) error {
	defaults := 0
	for _, opt := range options {
		if strings.TrimSpace(opt.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "dosage option name cannot be blank").
				WithField(FieldDosageOptions, "name cannot be blank")
		}
		if opt.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "dosage option price must be non-negative").
				WithField(FieldDosageOptions, "price must be non-negative")
		}
		if opt.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "only one dosage option may be the default").
			WithField(FieldDosageOptions, "multiple defaults")
	}
	return nil
}

func isEmptyEdit(input EditInput) bool {
	return input.Name == nil &&
		input.Description == nil &&
		input.Price == nil &&
		input.Status == nil &&
		input.Benefits == nil &&
		input.SideEffects == nil &&
		input.Images == nil &&
		input.DosageOptions == nil
}

func applyEditToOverride(override *models.ProductOverride, input EditInput) {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		override.Name = &trimmed
	}
	if input.Description != nil {
		override.Description = input.Description
	}
	if input.Price != nil {
		override.MerchantPrice = input.Price
	}
	if input.Status != nil {
		override.Status = input.Status
	}
	if input.Benefits != nil {
		arr := pq.StringArray(append([]string(nil), *input.Benefits...))
		override.Benefits = &arr
	}
	if input.SideEffects != nil {
		arr := pq.StringArray(append([]string(nil), *input.SideEffects...))
		override.SideEffects = &arr
	}
	if input.Images != nil {
		arr := pq.StringArray(append([]string(nil), *input.Images...))
		override.Images = &arr
	}
	if input.DosageOptions != nil {
		override.DosageOptionsSet = true
	}
}

func buildDosageRows(overrideID uuid.UUID, options []DosageEditInput) []models.OverrideDosageOption {
	rows := make([]models.OverrideDosageOption, len(options))
	for i, opt := range options {
		rows[i] = models.OverrideDosageOption{
			OverrideID: overrideID,
			Name:       strings.TrimSpace(opt.Name),
			Price:      opt.Price,
			IsDefault:  opt.IsDefault,
			Position:   i,
		}
	}
	return rows
}
