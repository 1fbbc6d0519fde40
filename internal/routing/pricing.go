package routing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaticPricer quotes fulfillment cost from a fixed table. Pharmacies
// without an entry quote the fallback price, so every active pharmacy stays
// orderable.
type StaticPricer struct {
	quotes   map[uuid.UUID]decimal.Decimal
	fallback decimal.Decimal
}

// NewStaticPricer builds a pricer over the provided quote table.
func NewStaticPricer(quotes map[uuid.UUID]decimal.Decimal, fallback decimal.Decimal) *StaticPricer {
	copied := make(map[uuid.UUID]decimal.Decimal, len(quotes))
	for id, quote := range quotes {
		copied[id] = quote
	}
	return &StaticPricer{quotes: copied, fallback: fallback}
}

// Quote returns the configured price for the pharmacy.
func (p *StaticPricer) Quote(_ context.Context, pharmacyID uuid.UUID) (decimal.Decimal, error) {
	if quote, ok := p.quotes[pharmacyID]; ok {
		return quote, nil
	}
	return p.fallback, nil
}
