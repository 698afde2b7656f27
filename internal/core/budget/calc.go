// Package budget implements the campaign budget reconciliation arithmetic:
// per-tactic derivation of the media/client budget pair and unit volume, and
// the section/campaign roll-ups built on top of it. Everything in this
// package is pure and total: no store access, no errors, division guarded
// and subtraction clamped. Callers are expected to coerce non-numeric input
// to zero before invoking.
package budget

import (
	"math"
	"strings"

	"mediabox-ledger/internal/core/domain"
)

// Input carries one tactic's raw budget fields plus the precomputed sum of
// its fee lines. Fee amounts are derived elsewhere from the client's fee
// rules; this package only consumes the numeric total.
type Input struct {
	Mode        domain.BudgetMode
	RawBudget   float64 // meaning depends on Mode
	CostPerUnit float64
	HasBonus    bool
	BonusValue  float64
	TotalFees   float64
}

// Result is the reconciled budget picture for one tactic. Exactly one of
// MediaBudget/ClientBudget equals the user-entered figure, per the mode; the
// other is derived. Monetary fields are not rounded.
type Result struct {
	MediaBudget              float64
	ClientBudget             float64
	EffectiveBudgetForVolume float64
	UnitVolume               int64
	// Incomplete is set when CostPerUnit is zero, so no volume could be
	// derived. A warning for the caller, not an error.
	Incomplete bool
}

// Compute reconciles a tactic's budget figures.
//
// In media mode the entered budget is net spend and the client budget adds
// fees on top. In client mode the entered budget is gross and the media
// budget is what remains after fees, clamped at zero when fees exceed it.
// Bonus inventory counts toward volume but never toward spend. The volume
// formula is identical for CPM-denominated unit types; only the cost label
// differs (see IsImpressionUnit).
func Compute(in Input) Result {
	var res Result
	switch in.Mode {
	case domain.BudgetModeClient:
		res.ClientBudget = in.RawBudget
		res.MediaBudget = in.RawBudget - in.TotalFees
		if res.MediaBudget < 0 {
			res.MediaBudget = 0
		}
	default: // media mode is the historical default
		res.MediaBudget = in.RawBudget
		res.ClientBudget = in.RawBudget + in.TotalFees
	}

	res.EffectiveBudgetForVolume = res.MediaBudget
	if in.HasBonus {
		res.EffectiveBudgetForVolume += in.BonusValue
	}

	if in.CostPerUnit > 0 {
		res.UnitVolume = roundHalfUp(res.EffectiveBudgetForVolume / in.CostPerUnit)
	} else {
		res.Incomplete = true
	}
	return res
}

// IsImpressionUnit reports whether the unit type denotes impressions, in
// which case the cost per unit reads as a cost per thousand. Matching is by
// case-insensitive display name against the reference list entry.
func IsImpressionUnit(u domain.UnitType) bool {
	return strings.EqualFold(strings.TrimSpace(u.DisplayName), "impressions")
}

// roundHalfUp rounds to the nearest integer with halves going up. For the
// non-negative budgets seen in practice this matches math.Round; negative
// halves still round toward positive infinity.
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
