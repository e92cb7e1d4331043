package order

import (
	"testing"

	"github.com/topi314/collective-tools/internal/omit"
	"github.com/topi314/collective-tools/server/collective"
)

func TestBuildUsesSingleAmount(t *testing.T) {
	b := NewBuilder(NewStore())

	selection := b.Build(collective.Tier{
		ID:           1,
		Amount:       1000,
		SingleAmount: 800,
	}, omit.New(3))

	if selection.Tier.ID != 1 {
		t.Fatalf("expected tier 1, got %d", selection.Tier.ID)
	}
	if !selection.Quantity.OK || selection.Quantity.Value != 3 {
		t.Fatalf("expected quantity 3, got %+v", selection.Quantity)
	}
	if selection.TotalAmount != 2400 {
		t.Fatalf("expected total 2400, got %d", selection.TotalAmount)
	}
	if selection.Interval != "" {
		t.Fatalf("expected no interval, got %q", selection.Interval)
	}
}

func TestBuildWithoutQuantity(t *testing.T) {
	b := NewBuilder(NewStore())

	selection := b.Build(collective.Tier{
		ID:     2,
		Amount: 1500,
	}, omit.NewZero[int]())

	if selection.Quantity.OK {
		t.Fatalf("expected quantity to stay absent, got %+v", selection.Quantity)
	}
	if selection.TotalAmount != 1500 {
		t.Fatalf("expected total 1500, got %d", selection.TotalAmount)
	}
}

func TestBuildInvalidQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity omit.Omit[int]
	}{
		{name: "zero", quantity: omit.New(0)},
		{name: "negative", quantity: omit.New(-2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(NewStore())

			selection := b.Build(collective.Tier{ID: 3, Amount: 500}, tt.quantity)

			// total falls back to one unit, the raw quantity is echoed
			if selection.TotalAmount != 500 {
				t.Fatalf("expected total 500, got %d", selection.TotalAmount)
			}
			if !selection.Quantity.OK || selection.Quantity.Value != tt.quantity.Value {
				t.Fatalf("expected raw quantity %d echoed, got %+v", tt.quantity.Value, selection.Quantity)
			}
		})
	}
}

func TestBuildCarriesInterval(t *testing.T) {
	b := NewBuilder(NewStore())

	selection := b.Build(collective.Tier{
		ID:       4,
		Amount:   2000,
		Interval: "month",
	}, omit.New(2))

	if selection.Interval != "month" {
		t.Fatalf("expected interval month, got %q", selection.Interval)
	}
	if selection.TotalAmount != 4000 {
		t.Fatalf("expected total 4000, got %d", selection.TotalAmount)
	}
}

func TestStoreRestoresPriorInput(t *testing.T) {
	b := NewBuilder(NewStore())

	t1 := collective.Tier{ID: 1, Amount: 1000}
	t2 := collective.Tier{ID: 2, Amount: 2000}

	b.Build(t1, omit.New(3))
	b.Build(t2, omit.New(1))

	// switching back to t1 restores quantity 3 without re-entry
	input, ok := b.Last(t1.ID)
	if !ok {
		t.Fatal("expected stored input for tier 1")
	}
	if !input.Quantity.OK || input.Quantity.Value != 3 {
		t.Fatalf("expected restored quantity 3, got %+v", input.Quantity)
	}
	if input.Tier.ID != 1 {
		t.Fatalf("expected stored tier 1, got %d", input.Tier.ID)
	}
}

func TestStoreOverwritesSameTier(t *testing.T) {
	b := NewBuilder(NewStore())

	tier := collective.Tier{ID: 1, Amount: 1000}

	b.Build(tier, omit.New(3))
	b.Build(tier, omit.New(5))

	input, ok := b.Last(tier.ID)
	if !ok {
		t.Fatal("expected stored input for tier 1")
	}
	if input.Quantity.Value != 5 {
		t.Fatalf("expected latest quantity 5, got %+v", input.Quantity)
	}
}

func TestLastUnknownTier(t *testing.T) {
	b := NewBuilder(NewStore())

	if _, ok := b.Last(42); ok {
		t.Fatal("expected no stored input for unknown tier")
	}
}
