package budget

import (
	"fmt"
	"sort"

	"mediabox-ledger/internal/core/domain"
)

// Denomination selects which figure of each tactic a section roll-up sums.
// The historical behaviour sums the stored (raw) budget regardless of mode,
// which mixes denominations when a section contains both modes. That choice
// is kept as the default but made explicit so callers can opt into a
// consistent denomination instead.
type Denomination string

const (
	DenominationStored Denomination = "stored"
	DenominationMedia  Denomination = "media"
	DenominationClient Denomination = "client"
)

// SectionRollup is one section's summed budget and its share of a grand
// total. Percentage is deliberately not clamped: a section over budget shows
// more than 100 and that must stay visible.
type SectionRollup struct {
	SectionID     string
	Name          string
	SectionBudget float64
	Percentage    float64
}

// AggregateSection sums a section's tactics in the requested denomination
// and computes the share of grandTotal. A zero grand total yields zero
// percent rather than dividing.
func AggregateSection(tactics []domain.Tactic, grandTotal float64, denom Denomination) SectionRollup {
	var sum float64
	for _, t := range tactics {
		switch denom {
		case DenominationMedia:
			sum += Compute(tacticInput(t)).MediaBudget
		case DenominationClient:
			sum += Compute(tacticInput(t)).ClientBudget
		default:
			sum += t.RawBudget
		}
	}
	r := SectionRollup{SectionBudget: sum}
	if grandTotal > 0 {
		r.Percentage = sum / grandTotal * 100
	}
	return r
}

// SortRollups orders section roll-ups for display: largest budget first,
// insertion order preserved between equals.
func SortRollups(rollups []SectionRollup) {
	sort.SliceStable(rollups, func(i, j int) bool {
		return rollups[i].SectionBudget > rollups[j].SectionBudget
	})
}

// CampaignRollup is the full-campaign budget picture.
type CampaignRollup struct {
	// TotalMediaBudget includes bonus inventory, mirroring how planned
	// volume is presented.
	TotalMediaBudget  float64
	TotalClientBudget float64
	TotalBonus        float64
	// FeeTotals maps fee slot keys ("fee_1".."fee_5") to their summed
	// amounts. Slots that total zero are omitted; they contribute nothing
	// to TotalFees either way.
	FeeTotals map[string]float64
	TotalFees float64
	// Difference is authorized budget minus total client budget. Negative
	// means overspend; the caller decides how to surface the sign.
	Difference float64
}

// AggregateCampaign rolls up every tactic in scope against the campaign's
// authorized budget. The scope (one tab or all tabs) is the caller's choice;
// this function just sums what it is given.
func AggregateCampaign(tactics []domain.Tactic, authorizedBudget float64) CampaignRollup {
	roll := CampaignRollup{FeeTotals: make(map[string]float64)}
	slotSums := [domain.FeeSlotCount]float64{}
	for _, t := range tactics {
		res := Compute(tacticInput(t))
		roll.TotalMediaBudget += res.EffectiveBudgetForVolume
		roll.TotalClientBudget += res.ClientBudget
		if t.HasBonus {
			roll.TotalBonus += t.BonusValue
		}
		for i, f := range t.Fees {
			slotSums[i] += f
		}
	}
	for i, sum := range slotSums {
		roll.TotalFees += sum
		if sum != 0 {
			roll.FeeTotals[FeeSlotKey(i+1)] = sum
		}
	}
	roll.Difference = authorizedBudget - roll.TotalClientBudget
	return roll
}

// FeeSlotKey returns the map key for a 1-indexed fee slot.
func FeeSlotKey(slot int) string {
	return fmt.Sprintf("fee_%d", slot)
}

// FeeSlotName resolves a 1-indexed fee slot to the name of the rule at the
// same position in the client's ordered fee-rule list. Slots beyond the list
// fall back to a generic label instead of failing; historical tactics can
// carry values in slots the client no longer defines rules for.
func FeeSlotName(rules []domain.FeeRule, slot int) string {
	ordered := make([]domain.FeeRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	if slot >= 1 && slot <= len(ordered) {
		return ordered[slot-1].Name
	}
	return fmt.Sprintf("Fee %d", slot)
}

func tacticInput(t domain.Tactic) Input {
	return Input{
		Mode:        t.Mode,
		RawBudget:   t.RawBudget,
		CostPerUnit: t.CostPerUnit,
		HasBonus:    t.HasBonus,
		BonusValue:  t.BonusValue,
		TotalFees:   t.TotalFees(),
	}
}
