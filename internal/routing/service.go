package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db"
	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
	"github.com/saulrivera/medcart-backend/pkg/metrics"
	"github.com/saulrivera/medcart-backend/pkg/types"
)

// Service exposes per-state pharmacy routing for merchants.
type Service interface {
	ResolveState(ctx context.Context, merchantID uuid.UUID, state string) (*StateRoutingDTO, error)
	ResolveAll(ctx context.Context, merchantID uuid.UUID) ([]StateRoutingDTO, error)
	Select(ctx context.Context, merchantID uuid.UUID, input SelectInput) (*StateRoutingDTO, error)
	Reset(ctx context.Context, merchantID uuid.UUID, state string, expectedVersion *int) (*StateRoutingDTO, error)
	ListPharmacies(ctx context.Context, merchantID uuid.UUID) ([]PharmacyDTO, error)
	QuickAddPharmacy(ctx context.Context, merchantID uuid.UUID, input QuickAddInput) (*PharmacyDTO, error)
	AssignPharmacy(ctx context.Context, merchantID uuid.UUID, input AssignInput) (*AssignmentDTO, error)
}

// SelectInput sets the merchant's pharmacy for one state.
type SelectInput struct {
	State           string
	PharmacyID      uuid.UUID
	ExpectedVersion *int
	Actor           enums.Actor
}

// QuickAddInput creates a merchant-owned pharmacy.
type QuickAddInput struct {
	Name            string
	NPI             string
	StateLicense    string
	Contact         types.Contact
	StatesAvailable []string
}

// AssignInput claims a (state, product) pair for a merchant pharmacy.
type AssignInput struct {
	PharmacyID uuid.UUID
	State      string
	ProductID  uuid.UUID
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	pricer   Pricer
	metrics  *metrics.ResolutionMetrics
}

// NewService constructs the routing service. Metrics are optional.
func NewService(repo *Repository, dbClient *db.Client, pricer Pricer, m *metrics.ResolutionMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("routing repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("pricer required")
	}
	return &service{repo: repo, dbClient: dbClient, pricer: pricer, metrics: m}, nil
}

// ResolveState returns the effective pharmacy for one state, re-validating
// any stored selection at read time.
func (s *service) ResolveState(ctx context.Context, merchantID uuid.UUID, state string) (*StateRoutingDTO, error) {
	normalized, err := normalizeState(state)
	if err != nil {
		return nil, err
	}

	pharmacies, err := s.repo.ListPharmaciesForMerchant(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pharmacies")
	}
	selection, err := s.loadSelection(ctx, merchantID, normalized)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, normalized, pharmacies, selection)
}

// ResolveAll returns the effective routing for every U.S. state.
func (s *service) ResolveAll(ctx context.Context, merchantID uuid.UUID) ([]StateRoutingDTO, error) {
	pharmacies, err := s.repo.ListPharmaciesForMerchant(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pharmacies")
	}
	selections, err := s.repo.ListSelections(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list selections")
	}
	byState := make(map[string]*models.RoutingSelection, len(selections))
	for i := range selections {
		byState[selections[i].State] = &selections[i]
	}

	out := make([]StateRoutingDTO, 0, len(enums.USStateCodes))
	for _, state := range enums.USStateCodes {
		dto, err := s.resolve(ctx, state, pharmacies, byState[state])
		if err != nil {
			return nil, err
		}
		out = append(out, *dto)
	}
	return out, nil
}

// Select points a state at a specific pharmacy. The pharmacy must be active
// and serve the state; otherwise the table is left unchanged.
func (s *service) Select(ctx context.Context, merchantID uuid.UUID, input SelectInput) (*StateRoutingDTO, error) {
	state, err := normalizeState(input.State)
	if err != nil {
		return nil, err
	}
	actor := input.Actor
	if !actor.IsValid() {
		actor = enums.ActorMerchant
	}

	pharmacy, err := s.repo.FindPharmacyByID(ctx, input.PharmacyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pharmacy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pharmacy")
	}
	if pharmacy.Status != enums.PharmacyStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidSelection, "pharmacy is not active")
	}
	if !pharmacy.ServesState(state) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidSelection,
			fmt.Sprintf("pharmacy does not serve state %s", state))
	}

	selection, err := s.loadSelection(ctx, merchantID, state)
	if err != nil {
		return nil, err
	}
	if err := checkSelectionVersion(input.ExpectedVersion, selection); err != nil {
		s.metrics.IncVersionConflict("routing_selection")
		return nil, err
	}

	now := time.Now().UTC()
	pharmacyID := pharmacy.ID
	if selection == nil {
		created := &models.RoutingSelection{
			MerchantID:         merchantID,
			State:              state,
			SelectedPharmacyID: &pharmacyID,
			IsOverridden:       true,
			Version:            1,
			ModifiedBy:         actor,
			LastModified:       now,
		}
		if _, err := s.repo.CreateSelection(ctx, created); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert selection")
		}
	} else {
		previousVersion := selection.Version
		selection.SelectedPharmacyID = &pharmacyID
		selection.IsOverridden = true
		selection.Version = previousVersion + 1
		selection.ModifiedBy = actor
		selection.LastModified = now
		if err := s.repo.UpdateSelectionVersioned(ctx, selection, previousVersion); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "selection was modified concurrently")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update selection")
		}
	}

	return s.ResolveState(ctx, merchantID, state)
}

// Reset clears any override so the state rides the system default again.
// Resetting an unset state is a no-op.
func (s *service) Reset(ctx context.Context, merchantID uuid.UUID, state string, expectedVersion *int) (*StateRoutingDTO, error) {
	normalized, err := normalizeState(state)
	if err != nil {
		return nil, err
	}

	selection, err := s.loadSelection(ctx, merchantID, normalized)
	if err != nil {
		return nil, err
	}
	if selection != nil && selection.IsOverridden {
		if err := checkSelectionVersion(expectedVersion, selection); err != nil {
			s.metrics.IncVersionConflict("routing_selection")
			return nil, err
		}
		previousVersion := selection.Version
		selection.SelectedPharmacyID = nil
		selection.IsOverridden = false
		selection.Version = previousVersion + 1
		selection.ModifiedBy = enums.ActorAdmin
		selection.LastModified = time.Now().UTC()
		if err := s.repo.UpdateSelectionVersioned(ctx, selection, previousVersion); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "selection was modified concurrently")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reset selection")
		}
	}

	return s.ResolveState(ctx, merchantID, normalized)
}

// ListPharmacies returns platform pharmacies plus the merchant's own.
func (s *service) ListPharmacies(ctx context.Context, merchantID uuid.UUID) ([]PharmacyDTO, error) {
	rows, err := s.repo.ListPharmaciesForMerchant(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pharmacies")
	}
	out := make([]PharmacyDTO, len(rows))
	for i := range rows {
		out[i] = *NewPharmacyDTO(&rows[i])
	}
	return out, nil
}

// QuickAddPharmacy creates a merchant-owned pharmacy from the minimal
// NPI/license/contact form.
func (s *service) QuickAddPharmacy(ctx context.Context, merchantID uuid.UUID, input QuickAddInput) (*PharmacyDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy name is required").
			WithField("name", "required")
	}
	if strings.TrimSpace(input.NPI) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "npi is required").
			WithField("npi", "required")
	}
	if strings.TrimSpace(input.StateLicense) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "state license is required").
			WithField("state_license", "required")
	}
	states := make([]string, 0, len(input.StatesAvailable))
	for _, raw := range input.StatesAvailable {
		state, err := normalizeState(raw)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}

	pharmacy := &models.Pharmacy{
		Name:            strings.TrimSpace(input.Name),
		NPI:             strings.TrimSpace(input.NPI),
		StateLicense:    strings.TrimSpace(input.StateLicense),
		Contact:         input.Contact,
		Status:          enums.PharmacyStatusActive,
		StatesAvailable: pq.StringArray(states),
		OwnerKind:       enums.OwnerKindMerchant,
		MerchantID:      &merchantID,
	}
	created, err := s.repo.CreatePharmacy(ctx, pharmacy)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert pharmacy")
	}
	return NewPharmacyDTO(created), nil
}

// AssignPharmacy claims a (state, product) pair for a merchant pharmacy.
// Overlapping claims resolve last-assignment-wins; the displaced claim is
// reported as a collision warning.
func (s *service) AssignPharmacy(ctx context.Context, merchantID uuid.UUID, input AssignInput) (*AssignmentDTO, error) {
	state, err := normalizeState(input.State)
	if err != nil {
		return nil, err
	}

	pharmacy, err := s.repo.FindPharmacyByID(ctx, input.PharmacyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pharmacy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pharmacy")
	}
	if pharmacy.OwnerKind != enums.OwnerKindMerchant || pharmacy.MerchantID == nil || *pharmacy.MerchantID != merchantID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "pharmacy does not belong to merchant")
	}
	if !pharmacy.IsEligible(state) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidSelection,
			fmt.Sprintf("pharmacy cannot fulfill in state %s", state))
	}

	var warnings []string
	previous, err := s.repo.FindLatestAssignment(ctx, merchantID, state, input.ProductID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}
	if previous != nil && previous.PharmacyID != pharmacy.ID {
		warnings = append(warnings, WarnAssignmentCollision)
	}

	assignment := &models.PharmacyAssignment{
		MerchantID: merchantID,
		PharmacyID: pharmacy.ID,
		State:      state,
		ProductID:  input.ProductID,
		AssignedAt: time.Now().UTC(),
	}
	created, err := s.repo.CreateAssignment(ctx, assignment)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert assignment")
	}

	return &AssignmentDTO{
		ID:         created.ID,
		PharmacyID: created.PharmacyID,
		State:      created.State,
		ProductID:  created.ProductID,
		AssignedAt: created.AssignedAt,
		Warnings:   warnings,
	}, nil
}

func (s *service) resolve(ctx context.Context, state string, pharmacies []models.Pharmacy, selection *models.RoutingSelection) (*StateRoutingDTO, error) {
	result, err := EffectivePharmacy(ctx, state, pharmacies, selection, s.pricer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "price pharmacies")
	}
	for _, warning := range result.Warnings {
		s.metrics.IncRoutingFallback(warning)
	}

	dto := &StateRoutingDTO{
		State:        state,
		IsOverridden: result.IsOverridden,
		Warnings:     result.Warnings,
	}
	if result.Pharmacy != nil {
		dto.Pharmacy = NewPharmacyDTO(result.Pharmacy)
	}
	if selection != nil {
		dto.Version = selection.Version
		if !selection.LastModified.IsZero() {
			lm := selection.LastModified
			dto.LastModified = &lm
		}
		actor := string(selection.ModifiedBy)
		dto.ModifiedBy = &actor
	}
	return dto, nil
}

func (s *service) loadSelection(ctx context.Context, merchantID uuid.UUID, state string) (*models.RoutingSelection, error) {
	selection, err := s.repo.FindSelection(ctx, merchantID, state)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load selection")
	}
	return selection, nil
}

func checkSelectionVersion(expected *int, selection *models.RoutingSelection) error {
	if expected == nil {
		return nil
	}
	current := 0
	if selection != nil {
		current = selection.Version
	}
	if *expected != current {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("expected version %d, found %d", *expected, current))
	}
	return nil
}

func normalizeState(state string) (string, error) {
	normalized, err := enums.ParseUSState(state)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown state code %q", state)).
			WithField("state", "must be a two-letter US state code")
	}
	return normalized, nil
}
