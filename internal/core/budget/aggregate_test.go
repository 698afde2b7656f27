package budget

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mediabox-ledger/internal/core/domain"
)

func tacticWithFees(mode domain.BudgetMode, raw float64, fees ...float64) domain.Tactic {
	t := domain.Tactic{Mode: mode, RawBudget: raw}
	copy(t.Fees[:], fees)
	return t
}

func TestAggregateCampaignAdditivity(t *testing.T) {
	tactics := []domain.Tactic{
		tacticWithFees(domain.BudgetModeMedia, 10000, 1000, 500),
		tacticWithFees(domain.BudgetModeClient, 8000, 400),
		tacticWithFees(domain.BudgetModeMedia, 0),
	}

	roll := AggregateCampaign(tactics, 50000)

	var wantClient float64
	for _, tc := range tactics {
		wantClient += Compute(Input{Mode: tc.Mode, RawBudget: tc.RawBudget, TotalFees: tc.TotalFees()}).ClientBudget
	}
	require.Equal(t, wantClient, roll.TotalClientBudget)
}

func TestAggregateCampaignOverspend(t *testing.T) {
	tactics := []domain.Tactic{
		tacticWithFees(domain.BudgetModeClient, 30000),
		tacticWithFees(domain.BudgetModeClient, 22000),
	}

	roll := AggregateCampaign(tactics, 50000)

	require.Equal(t, 52000.0, roll.TotalClientBudget)
	require.Equal(t, -2000.0, roll.Difference, "overspend must surface as a negative difference")
}

func TestAggregateCampaignFeeSlots(t *testing.T) {
	tactics := []domain.Tactic{
		tacticWithFees(domain.BudgetModeMedia, 1000, 100, 0, 50),
		tacticWithFees(domain.BudgetModeMedia, 2000, 200, 0, 25),
	}

	roll := AggregateCampaign(tactics, 10000)

	require.Equal(t, map[string]float64{"fee_1": 300, "fee_3": 75}, roll.FeeTotals)
	require.Equal(t, 375.0, roll.TotalFees)
}

func TestAggregateCampaignBonusCountsTowardVolumeNotSpend(t *testing.T) {
	tactic := domain.Tactic{Mode: domain.BudgetModeMedia, RawBudget: 10000, HasBonus: true, BonusValue: 500}

	roll := AggregateCampaign([]domain.Tactic{tactic}, 20000)

	require.Equal(t, 10500.0, roll.TotalMediaBudget)
	require.Equal(t, 10000.0, roll.TotalClientBudget)
	require.Equal(t, 500.0, roll.TotalBonus)
}

func TestAggregateSectionDenominations(t *testing.T) {
	tactics := []domain.Tactic{
		tacticWithFees(domain.BudgetModeMedia, 1000, 100),
		tacticWithFees(domain.BudgetModeClient, 2000, 300),
	}

	stored := AggregateSection(tactics, 0, DenominationStored)
	media := AggregateSection(tactics, 0, DenominationMedia)
	client := AggregateSection(tactics, 0, DenominationClient)

	require.Equal(t, 3000.0, stored.SectionBudget)
	require.Equal(t, 2700.0, media.SectionBudget)  // 1000 + (2000-300)
	require.Equal(t, 3100.0, client.SectionBudget) // (1000+100) + 2000
}

func TestAggregateSectionPercentageUnclamped(t *testing.T) {
	tactics := []domain.Tactic{tacticWithFees(domain.BudgetModeMedia, 1500)}

	roll := AggregateSection(tactics, 1000, DenominationStored)

	require.Equal(t, 150.0, roll.Percentage, "over-budget sections must show >100%")
}

func TestAggregateSectionZeroGrandTotal(t *testing.T) {
	roll := AggregateSection([]domain.Tactic{tacticWithFees(domain.BudgetModeMedia, 500)}, 0, DenominationStored)
	require.Equal(t, 0.0, roll.Percentage)
}

func TestSortRollupsDescendingStable(t *testing.T) {
	rollups := []SectionRollup{
		{SectionID: "a", SectionBudget: 100},
		{SectionID: "b", SectionBudget: 300},
		{SectionID: "c", SectionBudget: 100},
	}

	SortRollups(rollups)

	require.Equal(t, "b", rollups[0].SectionID)
	// equal budgets keep insertion order
	require.Equal(t, "a", rollups[1].SectionID)
	require.Equal(t, "c", rollups[2].SectionID)
}

func TestFeeSlotName(t *testing.T) {
	rules := []domain.FeeRule{
		{Name: "Taxes", Order: 2},
		{Name: "Frais de gestion", Order: 0},
		{Name: "Frais de plateforme", Order: 1},
	}

	require.Equal(t, "Frais de gestion", FeeSlotName(rules, 1))
	require.Equal(t, "Taxes", FeeSlotName(rules, 3))
	// slots beyond the rule list fall back to a generic label
	require.Equal(t, "Fee 4", FeeSlotName(rules, 4))
	require.Equal(t, "Fee 1", FeeSlotName(nil, 1))
}
