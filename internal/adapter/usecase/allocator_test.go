package usecase

import (
	"context"
	"errors"
	"testing"

	"mediabox-ledger/internal/adapter/memory"
	"mediabox-ledger/internal/core/domain"
	"mediabox-ledger/internal/core/port"
)

func fullScope() port.OrderScope {
	return port.OrderScope{
		ClientID:    "cl",
		CampaignID:  "ca",
		VersionID:   "v1",
		TabID:       "t1",
		SectionID:   "s1",
		TacticID:    "ta1",
		PlacementID: "p1",
	}
}

// TestNextOrderEmptyScope ensures an empty sibling collection yields 0.
func TestNextOrderEmptyScope(t *testing.T) {
	alloc := NewOrderAllocator(memory.NewStore())

	ord, err := alloc.NextOrder(context.Background(), port.KindSection, fullScope())
	if err != nil {
		t.Fatalf("NextOrder error: %v", err)
	}
	if ord != 0 {
		t.Fatalf("expected order 0 for empty scope, got %d", ord)
	}
}

// TestNextOrderMonotonic ensures each allocation lands strictly above the
// current sibling maximum, even with gaps.
func TestNextOrderMonotonic(t *testing.T) {
	store := memory.NewStore()
	alloc := NewOrderAllocator(store)
	ctx := context.Background()
	scope := fullScope()

	for _, ord := range []int{0, 3, 7} {
		err := store.CreateTactic(ctx, domain.Tactic{ID: "x" + string(rune('a'+ord)), SectionID: scope.SectionID, Order: ord})
		if err != nil {
			t.Fatalf("CreateTactic error: %v", err)
		}
	}

	ord, err := alloc.NextOrder(ctx, port.KindTactic, scope)
	if err != nil {
		t.Fatalf("NextOrder error: %v", err)
	}
	if ord != 8 {
		t.Fatalf("expected order 8 (max 7 + 1), got %d", ord)
	}
}

// countingRepo records how many max-order reads reach the store.
type countingRepo struct {
	port.LedgerRepository
	reads int
}

func (r *countingRepo) ReadMaxOrder(ctx context.Context, kind port.EntityKind, scope port.OrderScope) (int, bool, error) {
	r.reads++
	return r.LedgerRepository.ReadMaxOrder(ctx, kind, scope)
}

// TestNextOrderMissingContext ensures an incomplete parent chain fails before
// any store read.
func TestNextOrderMissingContext(t *testing.T) {
	repo := &countingRepo{LedgerRepository: memory.NewStore()}
	alloc := NewOrderAllocator(repo)

	scope := fullScope()
	scope.SectionID = ""
	_, err := alloc.NextOrder(context.Background(), port.KindTactic, scope)

	var missing *port.MissingContextError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingContextError, got %v", err)
	}
	if missing.Field != "section_id" {
		t.Fatalf("expected missing field section_id, got %q", missing.Field)
	}
	if repo.reads != 0 {
		t.Fatalf("expected no store reads on incomplete scope, got %d", repo.reads)
	}
}

// TestNextOrderChainPerKind checks the required chain grows with tree depth.
func TestNextOrderChainPerKind(t *testing.T) {
	alloc := NewOrderAllocator(memory.NewStore())
	ctx := context.Background()

	cases := []struct {
		kind  port.EntityKind
		strip func(*port.OrderScope)
		field string
	}{
		{port.KindTab, func(s *port.OrderScope) { s.VersionID = "" }, "version_id"},
		{port.KindSection, func(s *port.OrderScope) { s.TabID = "" }, "tab_id"},
		{port.KindPlacement, func(s *port.OrderScope) { s.TacticID = "" }, "tactic_id"},
		{port.KindCreative, func(s *port.OrderScope) { s.PlacementID = "" }, "placement_id"},
	}
	for _, tc := range cases {
		scope := fullScope()
		tc.strip(&scope)
		_, err := alloc.NextOrder(ctx, tc.kind, scope)
		var missing *port.MissingContextError
		if !errors.As(err, &missing) || missing.Field != tc.field {
			t.Fatalf("kind %s: expected missing %s, got %v", tc.kind, tc.field, err)
		}
	}
}
