package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mediabox-ledger/internal/adapter/memory"
	"mediabox-ledger/internal/core/budget"
	"mediabox-ledger/internal/core/domain"
	"mediabox-ledger/internal/core/port"
)

type ledgerFixture struct {
	store      *memory.Store
	svc        *LedgerUseCase
	clientID   string
	campaignID string
	versionID  string
	tabID      string
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewLedgerUseCase(store)

	f := &ledgerFixture{
		store:      store,
		svc:        svc,
		clientID:   "client-1",
		campaignID: "campaign-1",
		versionID:  "version-1",
	}
	store.PutCampaign(domain.Campaign{
		ID:               f.campaignID,
		ClientID:         f.clientID,
		Name:             "Campaign",
		AuthorizedBudget: 50000,
	})
	store.PutFeeRules(f.clientID, []domain.FeeRule{
		{ID: "fr1", ClientID: f.clientID, Name: "Frais de gestion", Order: 0},
		{ID: "fr2", ClientID: f.clientID, Name: "Taxes", Order: 1},
	})
	store.PutUnitTypes([]domain.UnitType{
		{ID: "ut-imp", DisplayName: "Impressions"},
		{ID: "ut-click", DisplayName: "Clicks"},
	})

	tab, err := svc.CreateTab(ctx, port.CreateTabReq{
		ClientID: f.clientID, CampaignID: f.campaignID, VersionID: f.versionID, Name: "Plan",
	})
	require.NoError(t, err)
	f.tabID = tab.ID
	return f
}

func (f *ledgerFixture) sectionReq(name string) port.CreateSectionReq {
	return port.CreateSectionReq{
		ClientID: f.clientID, CampaignID: f.campaignID, VersionID: f.versionID,
		TabID: f.tabID, Name: name,
	}
}

func (f *ledgerFixture) tacticReq(sectionID string) port.CreateTacticReq {
	return port.CreateTacticReq{
		ClientID: f.clientID, CampaignID: f.campaignID, VersionID: f.versionID,
		TabID: f.tabID, SectionID: sectionID,
	}
}

func TestCreateAssignsSiblingOrders(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	section, err := f.svc.CreateSection(ctx, f.sectionReq("S1"))
	require.NoError(t, err)
	require.Equal(t, 0, section.Order)

	for want := 0; want < 3; want++ {
		req := f.tacticReq(section.ID)
		req.Name = "T"
		tactic, err := f.svc.CreateTactic(ctx, req)
		require.NoError(t, err)
		require.Equal(t, want, tactic.Order)
	}

	// a second section starts its own sibling scope at zero
	other, err := f.svc.CreateSection(ctx, f.sectionReq("S2"))
	require.NoError(t, err)
	require.Equal(t, 1, other.Order)
	req := f.tacticReq(other.ID)
	tactic, err := f.svc.CreateTactic(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 0, tactic.Order)
}

func TestUpdateTacticBudgetRecomputes(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	section, err := f.svc.CreateSection(ctx, f.sectionReq("S"))
	require.NoError(t, err)
	req := f.tacticReq(section.ID)
	req.Mode = domain.BudgetModeMedia
	req.RawBudget = 10000
	req.CostPerUnit = 25
	req.UnitTypeID = "ut-imp"
	req.Fees = [domain.FeeSlotCount]float64{1000, 500}
	tactic, err := f.svc.CreateTactic(ctx, req)
	require.NoError(t, err)

	bonus := true
	bonusValue := 500.0
	view, err := f.svc.UpdateTacticBudget(ctx, tactic.ID, port.TacticBudgetPatch{
		HasBonus: &bonus, BonusValue: &bonusValue,
	})
	require.NoError(t, err)

	require.Equal(t, 10000.0, view.MediaBudget)
	require.Equal(t, 11500.0, view.ClientBudget)
	require.Equal(t, 10500.0, view.EffectiveBudgetForVolume)
	require.Equal(t, int64(420), view.UnitVolume)
	require.Equal(t, "CPM", view.CostLabel, "impression unit type reads as cost per thousand")

	// fields outside the patch survive
	stored, err := f.store.GetTactic(ctx, tactic.ID)
	require.NoError(t, err)
	require.Equal(t, 25.0, stored.CostPerUnit)
	require.Equal(t, [domain.FeeSlotCount]float64{1000, 500}, stored.Fees)
}

func TestUpdateTacticBudgetUnknownTactic(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.UpdateTacticBudget(context.Background(), "nope", port.TacticBudgetPatch{})
	require.ErrorIs(t, err, port.ErrNotFound)
}

func TestPreviewBudgetCostLabel(t *testing.T) {
	f := newLedgerFixture(t)

	view, err := f.svc.PreviewBudget(context.Background(), port.PreviewBudgetReq{
		Mode: domain.BudgetModeClient, RawBudget: 1000, TotalFees: 1500, UnitTypeID: "ut-click",
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, view.MediaBudget)
	require.Equal(t, 1000.0, view.ClientBudget)
	require.Equal(t, "CPU", view.CostLabel)
}

func TestCampaignRollupResolvesFeeNames(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	section, err := f.svc.CreateSection(ctx, f.sectionReq("S"))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		req := f.tacticReq(section.ID)
		req.Mode = domain.BudgetModeClient
		req.RawBudget = 26000
		req.Fees = [domain.FeeSlotCount]float64{100, 0, 40}
		_, err = f.svc.CreateTactic(ctx, req)
		require.NoError(t, err)
	}

	resp, err := f.svc.CampaignRollup(ctx, f.campaignID, nil)
	require.NoError(t, err)

	require.Equal(t, 52000.0, resp.TotalClientBudget)
	require.Equal(t, -2000.0, resp.Difference)
	require.Len(t, resp.FeeLines, 2)
	require.Equal(t, port.FeeLine{Slot: 1, Name: "Frais de gestion", Amount: 200}, resp.FeeLines[0])
	// slot 3 has no matching rule and falls back to the generic label
	require.Equal(t, port.FeeLine{Slot: 3, Name: "Fee 3", Amount: 80}, resp.FeeLines[1])
}

// TestCampaignRollupSeesCreatedTabs builds the whole tree through the
// usecase alone; the roll-up must pick up tactics under a tab created via
// CreateTab, with no fixture-side wiring.
func TestCampaignRollupSeesCreatedTabs(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	tab, err := f.svc.CreateTab(ctx, port.CreateTabReq{
		ClientID: f.clientID, CampaignID: f.campaignID, VersionID: f.versionID, Name: "Plan B",
	})
	require.NoError(t, err)

	req := f.tacticReq("")
	req.TabID = tab.ID
	section, err := f.svc.CreateSection(ctx, port.CreateSectionReq{
		ClientID: f.clientID, CampaignID: f.campaignID, VersionID: f.versionID,
		TabID: tab.ID, Name: "S",
	})
	require.NoError(t, err)
	req.SectionID = section.ID
	req.Mode = domain.BudgetModeClient
	req.RawBudget = 52000
	_, err = f.svc.CreateTactic(ctx, req)
	require.NoError(t, err)

	resp, err := f.svc.CampaignRollup(ctx, f.campaignID, nil)
	require.NoError(t, err)
	require.Equal(t, 52000.0, resp.TotalClientBudget)

	// the tab filter resolves through the same path
	scoped, err := f.svc.CampaignRollup(ctx, f.campaignID, &tab.ID)
	require.NoError(t, err)
	require.Equal(t, 52000.0, scoped.TotalClientBudget)
}

func TestSectionRollupsSortedWithShares(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	budgets := map[string]float64{"Small": 1000, "Large": 3000}
	for _, name := range []string{"Small", "Large"} {
		section, err := f.svc.CreateSection(ctx, f.sectionReq(name))
		require.NoError(t, err)
		req := f.tacticReq(section.ID)
		req.RawBudget = budgets[name]
		_, err = f.svc.CreateTactic(ctx, req)
		require.NoError(t, err)
	}

	rollups, err := f.svc.SectionRollups(ctx, f.campaignID, nil, budget.DenominationStored)
	require.NoError(t, err)
	require.Len(t, rollups, 2)
	require.Equal(t, "Large", rollups[0].Name)
	require.Equal(t, 3000.0, rollups[0].SectionBudget)
	require.Equal(t, 75.0, rollups[0].Percentage)
	require.Equal(t, "Small", rollups[1].Name)
	require.Equal(t, 25.0, rollups[1].Percentage)
}

func TestSectionRollup(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	section, err := f.svc.CreateSection(ctx, f.sectionReq("S"))
	require.NoError(t, err)
	for _, raw := range []float64{600, 900} {
		req := f.tacticReq(section.ID)
		req.RawBudget = raw
		_, err = f.svc.CreateTactic(ctx, req)
		require.NoError(t, err)
	}

	roll, err := f.svc.SectionRollup(ctx, section.ID, 1000, budget.DenominationStored)
	require.NoError(t, err)
	require.Equal(t, 1500.0, roll.SectionBudget)
	require.Equal(t, 150.0, roll.Percentage)
	require.Equal(t, "S", roll.Name)
}

func TestDeleteTacticCascades(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	section, err := f.svc.CreateSection(ctx, f.sectionReq("S"))
	require.NoError(t, err)
	tactic, err := f.svc.CreateTactic(ctx, f.tacticReq(section.ID))
	require.NoError(t, err)

	placementReq := port.CreatePlacementReq{
		ClientID: f.clientID, CampaignID: f.campaignID, VersionID: f.versionID,
		TabID: f.tabID, SectionID: section.ID, TacticID: tactic.ID, Name: "P",
	}
	placement, err := f.svc.CreatePlacement(ctx, placementReq)
	require.NoError(t, err)
	_, err = f.svc.CreateCreative(ctx, port.CreateCreativeReq{
		ClientID: f.clientID, CampaignID: f.campaignID, VersionID: f.versionID,
		TabID: f.tabID, SectionID: section.ID, TacticID: tactic.ID,
		PlacementID: placement.ID, Name: "C",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTactic(ctx, tactic.ID))

	gone, err := f.store.GetTactic(ctx, tactic.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
	placements, err := f.store.ListPlacements(ctx, tactic.ID)
	require.NoError(t, err)
	require.Empty(t, placements)
	creatives, err := f.store.ListCreatives(ctx, placement.ID)
	require.NoError(t, err)
	require.Empty(t, creatives)
}

func TestDeleteSectionCascades(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	section, err := f.svc.CreateSection(ctx, f.sectionReq("S"))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = f.svc.CreateTactic(ctx, f.tacticReq(section.ID))
		require.NoError(t, err)
	}

	require.NoError(t, f.svc.DeleteSection(ctx, section.ID))

	tactics, err := f.store.ListTactics(ctx, section.ID)
	require.NoError(t, err)
	require.Empty(t, tactics)
	gone, err := f.store.GetSection(ctx, section.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}
