package usecase

import (
	"context"

	"mediabox-ledger/internal/core/port"
)

// OrderAllocator produces the next sibling order for new tree entities. It
// always queries the authoritative store for the current maximum; allocating
// from a client-cached list length is exactly the race this component exists
// to avoid. Concurrent allocators on the same scope can still collide, since
// the max read is not transactional; true uniqueness under concurrent
// writers needs a read-modify transaction in the backing store.
type OrderAllocator struct {
	repo port.LedgerRepository
}

// NewOrderAllocator returns an allocator backed by the given repository.
func NewOrderAllocator(repo port.LedgerRepository) *OrderAllocator {
	return &OrderAllocator{repo: repo}
}

// chain lists the scope fields required for each entity kind, outermost
// first. Each kind needs everything its parent kind needs plus one more.
var chain = map[port.EntityKind][]string{
	port.KindTab:       {"client_id", "campaign_id", "version_id"},
	port.KindSection:   {"client_id", "campaign_id", "version_id", "tab_id"},
	port.KindTactic:    {"client_id", "campaign_id", "version_id", "tab_id", "section_id"},
	port.KindPlacement: {"client_id", "campaign_id", "version_id", "tab_id", "section_id", "tactic_id"},
	port.KindCreative:  {"client_id", "campaign_id", "version_id", "tab_id", "section_id", "tactic_id", "placement_id"},
}

// NextOrder validates the scope chain for the kind, reads the current
// maximum order among siblings and returns one above it. An empty sibling
// collection yields 0. An incomplete chain yields MissingContextError
// without touching the store.
func (a *OrderAllocator) NextOrder(ctx context.Context, kind port.EntityKind, scope port.OrderScope) (int, error) {
	if err := validateScope(kind, scope); err != nil {
		return 0, err
	}
	max, found, err := a.repo.ReadMaxOrder(ctx, kind, scope)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return max + 1, nil
}

func validateScope(kind port.EntityKind, scope port.OrderScope) error {
	fields, ok := chain[kind]
	if !ok {
		return &port.MissingContextError{Kind: kind, Field: "kind"}
	}
	for _, f := range fields {
		if scopeField(scope, f) == "" {
			return &port.MissingContextError{Kind: kind, Field: f}
		}
	}
	return nil
}

func scopeField(scope port.OrderScope, name string) string {
	switch name {
	case "client_id":
		return scope.ClientID
	case "campaign_id":
		return scope.CampaignID
	case "version_id":
		return scope.VersionID
	case "tab_id":
		return scope.TabID
	case "section_id":
		return scope.SectionID
	case "tactic_id":
		return scope.TacticID
	case "placement_id":
		return scope.PlacementID
	}
	return ""
}
