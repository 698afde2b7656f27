package port

import (
	"context"

	"mediabox-ledger/internal/core/budget"
	"mediabox-ledger/internal/core/domain"
)

// LedgerUseCase is the inbound port of the budget ledger. It covers order
// allocation, tree creation, tactic budget reconciliation and the
// section/campaign roll-ups.
type LedgerUseCase interface {
	// NextOrder returns the order value for a new entity of the given kind
	// within the scoped sibling collection: one above the current maximum,
	// or zero for an empty collection. Raises MissingContextError when the
	// parent chain is incomplete.
	NextOrder(ctx context.Context, kind EntityKind, scope OrderScope) (int, error)

	CreateTab(ctx context.Context, req CreateTabReq) (*domain.Tab, error)
	CreateSection(ctx context.Context, req CreateSectionReq) (*domain.Section, error)
	CreateTactic(ctx context.Context, req CreateTacticReq) (*domain.Tactic, error)
	CreatePlacement(ctx context.Context, req CreatePlacementReq) (*domain.Placement, error)
	CreateCreative(ctx context.Context, req CreateCreativeReq) (*domain.Creative, error)

	// UpdateTacticBudget applies a partial update to a tactic's budget
	// fields and returns the reconciled figures.
	UpdateTacticBudget(ctx context.Context, tacticID string, patch TacticBudgetPatch) (*TacticBudgetView, error)
	// PreviewBudget runs the reconciliation without persisting anything.
	PreviewBudget(ctx context.Context, req PreviewBudgetReq) (*TacticBudgetView, error)

	// SectionRollup sums one section's tactics against a grand total in the
	// requested denomination (stored when empty).
	SectionRollup(ctx context.Context, sectionID string, grandTotal float64, denom budget.Denomination) (*budget.SectionRollup, error)
	// SectionRollups sums every section of a campaign (or one tab), with
	// percentages relative to the summed total, sorted largest first.
	SectionRollups(ctx context.Context, campaignID string, tabID *string, denom budget.Denomination) ([]budget.SectionRollup, error)
	// CampaignRollup aggregates all tactics of a campaign, or of one tab
	// when tabID is non-nil, against the authorized budget.
	CampaignRollup(ctx context.Context, campaignID string, tabID *string) (*CampaignRollupResp, error)

	// DeleteSection removes a section with all tactics, placements and
	// creatives below it. DeleteTactic does the same from the tactic down.
	DeleteSection(ctx context.Context, sectionID string) error
	DeleteTactic(ctx context.Context, tacticID string) error
}

// CreateTabReq etc. carry the parent chain plus the entity's own fields. The
// chain doubles as the order-allocation scope.
type CreateTabReq struct {
	ClientID   string
	CampaignID string
	VersionID  string
	Name       string
}

type CreateSectionReq struct {
	ClientID   string
	CampaignID string
	VersionID  string
	TabID      string
	Name       string
	Color      string
}

type CreateTacticReq struct {
	ClientID    string
	CampaignID  string
	VersionID   string
	TabID       string
	SectionID   string
	Name        string
	Mode        domain.BudgetMode
	RawBudget   float64
	CostPerUnit float64
	HasBonus    bool
	BonusValue  float64
	Currency    string
	UnitTypeID  string
	Fees        [domain.FeeSlotCount]float64
}

type CreatePlacementReq struct {
	ClientID   string
	CampaignID string
	VersionID  string
	TabID      string
	SectionID  string
	TacticID   string
	Name       string
}

type CreateCreativeReq struct {
	ClientID    string
	CampaignID  string
	VersionID   string
	TabID       string
	SectionID   string
	TacticID    string
	PlacementID string
	Name        string
}

// TacticBudgetPatch is a partial update of budget-relevant fields. Nil
// pointers leave the stored value untouched.
type TacticBudgetPatch struct {
	Mode        *domain.BudgetMode
	RawBudget   *float64
	CostPerUnit *float64
	HasBonus    *bool
	BonusValue  *float64
	UnitTypeID  *string
	Fees        *[domain.FeeSlotCount]float64
}

// PreviewBudgetReq carries raw calculator inputs for a dry run.
type PreviewBudgetReq struct {
	Mode        domain.BudgetMode
	RawBudget   float64
	CostPerUnit float64
	HasBonus    bool
	BonusValue  float64
	TotalFees   float64
	UnitTypeID  string
}

// TacticBudgetView is the reconciled budget picture returned to callers.
// CostLabel is "CPM" for impression unit types and "CPU" otherwise; the
// volume arithmetic is identical either way.
type TacticBudgetView struct {
	budget.Result
	CostLabel string
}

// FeeLine is one resolved fee slot of a campaign roll-up.
type FeeLine struct {
	Slot   int
	Name   string
	Amount float64
}

// CampaignRollupResp pairs the arithmetic roll-up with fee slots resolved to
// names from the client's fee-rule list.
type CampaignRollupResp struct {
	budget.CampaignRollup
	FeeLines []FeeLine
}
