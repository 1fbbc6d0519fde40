package routing

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
)

// Warning codes surfaced alongside routing resolutions.
const (
	WarnStaleSelection      = "stale_pharmacy_selection"
	WarnNoEligiblePharmacy  = "no_eligible_pharmacy"
	WarnAssignmentCollision = "assignment_collision"
)

// Pricer supplies the cost order used to pick the default pharmacy. The
// table only needs a total order over quotes.
type Pricer interface {
	Quote(ctx context.Context, pharmacyID uuid.UUID) (decimal.Decimal, error)
}

// EffectiveResult is the outcome of resolving one state.
type EffectiveResult struct {
	State        string
	Pharmacy     *models.Pharmacy
	IsOverridden bool
	Warnings     []string
}

// EffectivePharmacy resolves the pharmacy that fulfills orders for a state.
// An overridden selection wins while it stays eligible; a stale selection
// falls back to the cheapest active eligible pharmacy with a warning. The
// selection itself is never mutated on read.
func EffectivePharmacy(ctx context.Context, state string, pharmacies []models.Pharmacy, selection *models.RoutingSelection, pricer Pricer) (EffectiveResult, error) {
	result := EffectiveResult{State: state}

	if selection != nil && selection.IsOverridden && selection.SelectedPharmacyID != nil {
		if selected := findPharmacy(pharmacies, *selection.SelectedPharmacyID); selected != nil && selected.IsEligible(state) {
			result.Pharmacy = selected
			result.IsOverridden = true
			return result, nil
		}
		result.Warnings = append(result.Warnings, WarnStaleSelection)
	}

	fallback, err := cheapestEligible(ctx, state, pharmacies, pricer)
	if err != nil {
		return result, err
	}
	if fallback == nil {
		result.Warnings = append(result.Warnings, WarnNoEligiblePharmacy)
		return result, nil
	}
	result.Pharmacy = fallback
	return result, nil
}

// cheapestEligible picks the lowest-quoted active pharmacy serving the
// state. Ties break on pharmacy id so the choice is stable across calls.
func cheapestEligible(ctx context.Context, state string, pharmacies []models.Pharmacy, pricer Pricer) (*models.Pharmacy, error) {
	type candidate struct {
		pharmacy *models.Pharmacy
		quote    decimal.Decimal
	}
	var candidates []candidate
	for i := range pharmacies {
		p := &pharmacies[i]
		if !p.IsEligible(state) {
			continue
		}
		quote, err := pricer.Quote(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{pharmacy: p, quote: quote})
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		cmp := candidates[i].quote.Cmp(candidates[j].quote)
		if cmp != 0 {
			return cmp < 0
		}
		return candidates[i].pharmacy.ID.String() < candidates[j].pharmacy.ID.String()
	})
	return candidates[0].pharmacy, nil
}

func findPharmacy(pharmacies []models.Pharmacy, id uuid.UUID) *models.Pharmacy {
	for i := range pharmacies {
		if pharmacies[i].ID == id {
			return &pharmacies[i]
		}
	}
	return nil
}
