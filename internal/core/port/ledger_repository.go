package port

import (
	"context"
	"errors"
	"fmt"

	"mediabox-ledger/internal/core/domain"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("entity not found")

// EntityKind names one of the five ordered sibling collections of the
// campaign tree.
type EntityKind string

const (
	KindTab       EntityKind = "tab"
	KindSection   EntityKind = "section"
	KindTactic    EntityKind = "tactic"
	KindPlacement EntityKind = "placement"
	KindCreative  EntityKind = "creative"
)

// OrderScope is the chain of parent identifiers addressing one sibling
// collection. How much of the chain is required depends on the entity kind:
// a tab needs client/campaign/version, a creative needs the full chain down
// to its placement.
type OrderScope struct {
	ClientID    string
	CampaignID  string
	VersionID   string
	TabID       string
	SectionID   string
	TacticID    string
	PlacementID string
}

// MissingContextError reports an order allocation attempted with an
// incomplete parent chain. This is a programming error on the caller's side,
// never a transient condition; no store read happens when it is raised.
type MissingContextError struct {
	Kind  EntityKind
	Field string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("order allocation for %s: missing %s in scope", e.Kind, e.Field)
}

// LedgerRepository is the outbound port for the budget ledger. Max-order
// reads must hit the authoritative store at call time; implementations must
// never answer them from a cached sibling list.
type LedgerRepository interface {
	// ReadMaxOrder returns the highest order among siblings in the scoped
	// collection. found is false when the collection is empty.
	ReadMaxOrder(ctx context.Context, kind EntityKind, scope OrderScope) (max int, found bool, err error)

	// ListFeeRules returns a client's fee definitions. Tactic fee slots bind
	// to this list positionally by rule order.
	ListFeeRules(ctx context.Context, clientID string) ([]domain.FeeRule, error)
	// ListUnitTypes returns the unit-type reference list.
	ListUnitTypes(ctx context.Context) ([]domain.UnitType, error)

	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)
	GetSection(ctx context.Context, id string) (*domain.Section, error)
	GetTactic(ctx context.Context, id string) (*domain.Tactic, error)

	CreateTab(ctx context.Context, tab domain.Tab) error
	CreateSection(ctx context.Context, section domain.Section) error
	CreateTactic(ctx context.Context, tactic domain.Tactic) error
	CreatePlacement(ctx context.Context, placement domain.Placement) error
	CreateCreative(ctx context.Context, creative domain.Creative) error

	// UpdateTactic persists the full tactic row; partial-update semantics
	// are handled by the usecase before calling.
	UpdateTactic(ctx context.Context, tactic domain.Tactic) error

	ListTactics(ctx context.Context, sectionID string) ([]domain.Tactic, error)
	// ListCampaignTactics returns every tactic under the campaign, optionally
	// narrowed to one tab.
	ListCampaignTactics(ctx context.Context, campaignID string, tabID *string) ([]domain.Tactic, error)
	// ListCampaignSections returns every section under the campaign,
	// optionally narrowed to one tab, by sibling order.
	ListCampaignSections(ctx context.Context, campaignID string, tabID *string) ([]domain.Section, error)
	ListPlacements(ctx context.Context, tacticID string) ([]domain.Placement, error)
	ListCreatives(ctx context.Context, placementID string) ([]domain.Creative, error)

	// Deletes remove a single row; cascading over descendants is the
	// usecase's responsibility.
	DeleteSection(ctx context.Context, id string) error
	DeleteTactic(ctx context.Context, id string) error
	DeletePlacement(ctx context.Context, id string) error
	DeleteCreative(ctx context.Context, id string) error
}
