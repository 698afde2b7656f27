package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mediabox-ledger/internal/core/budget"
	"mediabox-ledger/internal/core/domain"
	"mediabox-ledger/internal/core/port"
)

// LedgerUseCase provides the business logic of the campaign budget ledger.
// It orchestrates the order allocator, the pure budget arithmetic and the
// repository to implement the LedgerUseCase port.
type LedgerUseCase struct {
	repo      port.LedgerRepository
	allocator *OrderAllocator
}

// NewLedgerUseCase creates a usecase with the provided repository.
func NewLedgerUseCase(repo port.LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{repo: repo, allocator: NewOrderAllocator(repo)}
}

// NextOrder exposes the allocator directly for callers that persist entities
// themselves.
func (u *LedgerUseCase) NextOrder(ctx context.Context, kind port.EntityKind, scope port.OrderScope) (int, error) {
	return u.allocator.NextOrder(ctx, kind, scope)
}

// CreateTab allocates an order among the version's tabs and persists the tab.
func (u *LedgerUseCase) CreateTab(ctx context.Context, req port.CreateTabReq) (*domain.Tab, error) {
	ord, err := u.allocator.NextOrder(ctx, port.KindTab, port.OrderScope{
		ClientID: req.ClientID, CampaignID: req.CampaignID, VersionID: req.VersionID,
	})
	if err != nil {
		return nil, err
	}
	tab := domain.Tab{
		ID:         uuid.NewString(),
		VersionID:  req.VersionID,
		CampaignID: req.CampaignID,
		Name:       req.Name,
		Order:      ord,
		CreatedAt:  time.Now().UTC(),
	}
	if err = u.repo.CreateTab(ctx, tab); err != nil {
		return nil, err
	}
	return &tab, nil
}

// CreateSection allocates an order among the tab's sections and persists it.
func (u *LedgerUseCase) CreateSection(ctx context.Context, req port.CreateSectionReq) (*domain.Section, error) {
	ord, err := u.allocator.NextOrder(ctx, port.KindSection, port.OrderScope{
		ClientID: req.ClientID, CampaignID: req.CampaignID, VersionID: req.VersionID, TabID: req.TabID,
	})
	if err != nil {
		return nil, err
	}
	section := domain.Section{
		ID:        uuid.NewString(),
		TabID:     req.TabID,
		Name:      req.Name,
		Color:     req.Color,
		Order:     ord,
		CreatedAt: time.Now().UTC(),
	}
	if err = u.repo.CreateSection(ctx, section); err != nil {
		return nil, err
	}
	return &section, nil
}

// CreateTactic allocates an order among the section's tactics and persists
// the tactic with its raw budget fields. Derived figures are never stored;
// they are recomputed on every read.
func (u *LedgerUseCase) CreateTactic(ctx context.Context, req port.CreateTacticReq) (*domain.Tactic, error) {
	ord, err := u.allocator.NextOrder(ctx, port.KindTactic, port.OrderScope{
		ClientID: req.ClientID, CampaignID: req.CampaignID, VersionID: req.VersionID,
		TabID: req.TabID, SectionID: req.SectionID,
	})
	if err != nil {
		return nil, err
	}
	mode := req.Mode
	if mode == "" {
		mode = domain.BudgetModeMedia
	}
	now := time.Now().UTC()
	tactic := domain.Tactic{
		ID:          uuid.NewString(),
		SectionID:   req.SectionID,
		Name:        req.Name,
		Mode:        mode,
		RawBudget:   req.RawBudget,
		CostPerUnit: req.CostPerUnit,
		HasBonus:    req.HasBonus,
		BonusValue:  req.BonusValue,
		Currency:    req.Currency,
		UnitTypeID:  req.UnitTypeID,
		Fees:        req.Fees,
		Order:       ord,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = u.repo.CreateTactic(ctx, tactic); err != nil {
		return nil, err
	}
	return &tactic, nil
}

// CreatePlacement allocates an order among the tactic's placements.
func (u *LedgerUseCase) CreatePlacement(ctx context.Context, req port.CreatePlacementReq) (*domain.Placement, error) {
	ord, err := u.allocator.NextOrder(ctx, port.KindPlacement, port.OrderScope{
		ClientID: req.ClientID, CampaignID: req.CampaignID, VersionID: req.VersionID,
		TabID: req.TabID, SectionID: req.SectionID, TacticID: req.TacticID,
	})
	if err != nil {
		return nil, err
	}
	placement := domain.Placement{
		ID:        uuid.NewString(),
		TacticID:  req.TacticID,
		Name:      req.Name,
		Order:     ord,
		CreatedAt: time.Now().UTC(),
	}
	if err = u.repo.CreatePlacement(ctx, placement); err != nil {
		return nil, err
	}
	return &placement, nil
}

// CreateCreative allocates an order among the placement's creatives.
func (u *LedgerUseCase) CreateCreative(ctx context.Context, req port.CreateCreativeReq) (*domain.Creative, error) {
	ord, err := u.allocator.NextOrder(ctx, port.KindCreative, port.OrderScope{
		ClientID: req.ClientID, CampaignID: req.CampaignID, VersionID: req.VersionID,
		TabID: req.TabID, SectionID: req.SectionID, TacticID: req.TacticID, PlacementID: req.PlacementID,
	})
	if err != nil {
		return nil, err
	}
	creative := domain.Creative{
		ID:          uuid.NewString(),
		PlacementID: req.PlacementID,
		Name:        req.Name,
		Order:       ord,
		CreatedAt:   time.Now().UTC(),
	}
	if err = u.repo.CreateCreative(ctx, creative); err != nil {
		return nil, err
	}
	return &creative, nil
}

// UpdateTacticBudget applies a partial update to a tactic's budget fields,
// persists the row and returns the reconciled figures.
func (u *LedgerUseCase) UpdateTacticBudget(ctx context.Context, tacticID string, patch port.TacticBudgetPatch) (*port.TacticBudgetView, error) {
	tactic, err := u.repo.GetTactic(ctx, tacticID)
	if err != nil {
		return nil, err
	}
	if tactic == nil {
		return nil, fmt.Errorf("tactic %s: %w", tacticID, port.ErrNotFound)
	}
	if patch.Mode != nil {
		tactic.Mode = *patch.Mode
	}
	if patch.RawBudget != nil {
		tactic.RawBudget = *patch.RawBudget
	}
	if patch.CostPerUnit != nil {
		tactic.CostPerUnit = *patch.CostPerUnit
	}
	if patch.HasBonus != nil {
		tactic.HasBonus = *patch.HasBonus
	}
	if patch.BonusValue != nil {
		tactic.BonusValue = *patch.BonusValue
	}
	if patch.UnitTypeID != nil {
		tactic.UnitTypeID = *patch.UnitTypeID
	}
	if patch.Fees != nil {
		tactic.Fees = *patch.Fees
	}
	tactic.UpdatedAt = time.Now().UTC()
	if err = u.repo.UpdateTactic(ctx, *tactic); err != nil {
		return nil, err
	}
	return u.budgetView(ctx, budget.Input{
		Mode:        tactic.Mode,
		RawBudget:   tactic.RawBudget,
		CostPerUnit: tactic.CostPerUnit,
		HasBonus:    tactic.HasBonus,
		BonusValue:  tactic.BonusValue,
		TotalFees:   tactic.TotalFees(),
	}, tactic.UnitTypeID)
}

// PreviewBudget runs the reconciliation on raw inputs without persisting.
func (u *LedgerUseCase) PreviewBudget(ctx context.Context, req port.PreviewBudgetReq) (*port.TacticBudgetView, error) {
	return u.budgetView(ctx, budget.Input{
		Mode:        req.Mode,
		RawBudget:   req.RawBudget,
		CostPerUnit: req.CostPerUnit,
		HasBonus:    req.HasBonus,
		BonusValue:  req.BonusValue,
		TotalFees:   req.TotalFees,
	}, req.UnitTypeID)
}

// SectionRollup sums one section's tactics against a grand total.
func (u *LedgerUseCase) SectionRollup(ctx context.Context, sectionID string, grandTotal float64, denom budget.Denomination) (*budget.SectionRollup, error) {
	section, err := u.repo.GetSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, fmt.Errorf("section %s: %w", sectionID, port.ErrNotFound)
	}
	tactics, err := u.repo.ListTactics(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if denom == "" {
		denom = budget.DenominationStored
	}
	roll := budget.AggregateSection(tactics, grandTotal, denom)
	roll.SectionID = section.ID
	roll.Name = section.Name
	return &roll, nil
}

// SectionRollups sums every section of the campaign (or of one tab) in the
// requested denomination. Percentages are shares of the summed total across
// the returned sections; the result is sorted largest budget first.
func (u *LedgerUseCase) SectionRollups(ctx context.Context, campaignID string, tabID *string, denom budget.Denomination) ([]budget.SectionRollup, error) {
	campaign, err := u.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, port.ErrNotFound)
	}
	sections, err := u.repo.ListCampaignSections(ctx, campaignID, tabID)
	if err != nil {
		return nil, err
	}
	if denom == "" {
		denom = budget.DenominationStored
	}

	rollups := make([]budget.SectionRollup, 0, len(sections))
	var grandTotal float64
	for _, section := range sections {
		tactics, err := u.repo.ListTactics(ctx, section.ID)
		if err != nil {
			return nil, err
		}
		roll := budget.AggregateSection(tactics, 0, denom)
		roll.SectionID = section.ID
		roll.Name = section.Name
		grandTotal += roll.SectionBudget
		rollups = append(rollups, roll)
	}
	if grandTotal > 0 {
		for i := range rollups {
			rollups[i].Percentage = rollups[i].SectionBudget / grandTotal * 100
		}
	}
	budget.SortRollups(rollups)
	return rollups, nil
}

// CampaignRollup aggregates every tactic of the campaign (or of one tab)
// against the authorized budget and resolves fee slots to rule names.
func (u *LedgerUseCase) CampaignRollup(ctx context.Context, campaignID string, tabID *string) (*port.CampaignRollupResp, error) {
	campaign, err := u.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, port.ErrNotFound)
	}
	tactics, err := u.repo.ListCampaignTactics(ctx, campaignID, tabID)
	if err != nil {
		return nil, err
	}
	rules, err := u.repo.ListFeeRules(ctx, campaign.ClientID)
	if err != nil {
		return nil, err
	}
	roll := budget.AggregateCampaign(tactics, campaign.AuthorizedBudget)
	resp := &port.CampaignRollupResp{CampaignRollup: roll}
	for slot := 1; slot <= domain.FeeSlotCount; slot++ {
		amount, ok := roll.FeeTotals[budget.FeeSlotKey(slot)]
		if !ok {
			continue
		}
		resp.FeeLines = append(resp.FeeLines, port.FeeLine{
			Slot:   slot,
			Name:   budget.FeeSlotName(rules, slot),
			Amount: amount,
		})
	}
	return resp, nil
}

// DeleteSection removes a section and everything below it: tactics,
// placements, creatives. The repository only deletes single rows, so the
// cascade walks the tree level by level.
func (u *LedgerUseCase) DeleteSection(ctx context.Context, sectionID string) error {
	tactics, err := u.repo.ListTactics(ctx, sectionID)
	if err != nil {
		return err
	}
	for _, t := range tactics {
		if err = u.DeleteTactic(ctx, t.ID); err != nil {
			return err
		}
	}
	return u.repo.DeleteSection(ctx, sectionID)
}

// DeleteTactic removes a tactic with its placements and creatives.
func (u *LedgerUseCase) DeleteTactic(ctx context.Context, tacticID string) error {
	placements, err := u.repo.ListPlacements(ctx, tacticID)
	if err != nil {
		return err
	}
	for _, p := range placements {
		creatives, err := u.repo.ListCreatives(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, c := range creatives {
			if err = u.repo.DeleteCreative(ctx, c.ID); err != nil {
				return err
			}
		}
		if err = u.repo.DeletePlacement(ctx, p.ID); err != nil {
			return err
		}
	}
	return u.repo.DeleteTactic(ctx, tacticID)
}

// budgetView runs the calculator and attaches the cost label. The label is
// the only thing the unit type changes; the arithmetic never sees it.
func (u *LedgerUseCase) budgetView(ctx context.Context, in budget.Input, unitTypeID string) (*port.TacticBudgetView, error) {
	view := &port.TacticBudgetView{Result: budget.Compute(in), CostLabel: "CPU"}
	if unitTypeID == "" {
		return view, nil
	}
	types, err := u.repo.ListUnitTypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, ut := range types {
		if ut.ID == unitTypeID && budget.IsImpressionUnit(ut) {
			view.CostLabel = "CPM"
			break
		}
	}
	return view, nil
}
