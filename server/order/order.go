package order

import (
	"github.com/topi314/collective-tools/internal/omit"
	"github.com/topi314/collective-tools/server/collective"
)

type TierRef struct {
	ID int64 `json:"id"`
}

// Selection is a normalized in-progress ticket order for one tier. It fully
// replaces any prior selection for a different tier; there is no partial
// merge across tiers.
type Selection struct {
	Tier        TierRef        `json:"tier"`
	Quantity    omit.Omit[int] `json:"quantity,omitzero"`
	TotalAmount int64          `json:"totalAmount"`
	Interval    string         `json:"interval,omitempty"`
}

// NewBuilder returns a builder bound to the session's selection store.
func NewBuilder(store *Store) *Builder {
	return &Builder{
		store: store,
	}
}

type Builder struct {
	store *Store
}

// Build derives a normalized selection from a tier and the requested
// quantity. The per-unit price is the tier's single amount, falling back to
// its amount when unset. The total is computed with a quantity of one when
// the request carries none or a non-positive value, while Quantity echoes the
// raw request. Build also records the submitted values in the store for
// later re-display.
func (b *Builder) Build(tier collective.Tier, quantity omit.Omit[int]) Selection {
	unitAmount := tier.SingleAmount
	if unitAmount == 0 {
		unitAmount = tier.Amount
	}

	effectiveQuantity := 1
	if quantity.OK && quantity.Value > 0 {
		effectiveQuantity = quantity.Value
	}

	b.store.put(Input{
		Tier:     tier,
		Quantity: quantity,
	})

	return Selection{
		Tier:        TierRef{ID: tier.ID},
		Quantity:    quantity,
		TotalAmount: int64(effectiveQuantity) * unitAmount,
		Interval:    tier.Interval,
	}
}

// Last returns the last submitted values for the tier, if any.
func (b *Builder) Last(tierID int64) (Input, bool) {
	return b.store.Last(tierID)
}
