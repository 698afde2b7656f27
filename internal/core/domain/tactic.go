package domain

import "time"

// BudgetMode selects which of a tactic's two budget figures is the
// user-entered source of truth. The other one is always re-derived.
type BudgetMode string

const (
	// BudgetModeMedia means the entered budget is net media spend; the
	// client budget is derived by adding fees.
	BudgetModeMedia BudgetMode = "media"
	// BudgetModeClient means the entered budget is the gross, fee-inclusive
	// client amount; the media budget is derived by subtracting fees.
	BudgetModeClient BudgetMode = "client"
)

// FeeSlotCount is the number of numbered fee slots a tactic carries. Slots
// bind positionally to the client's ordered fee-rule list.
const FeeSlotCount = 5

// Tactic is the spend-bearing unit of the budget hierarchy.
type Tactic struct {
	ID          string
	SectionID   string
	Name        string
	Mode        BudgetMode
	RawBudget   float64 // denominated according to Mode
	CostPerUnit float64
	HasBonus    bool
	BonusValue  float64
	Currency    string // empty means inherit from campaign
	UnitTypeID  string
	Fees        [FeeSlotCount]float64 // fee_1..fee_5, client-side contributions
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalFees returns the sum of the tactic's fee slots.
func (t Tactic) TotalFees() float64 {
	var sum float64
	for _, f := range t.Fees {
		sum += f
	}
	return sum
}

// FeeRule is one named fee definition from a client's ordered fee list. A
// tactic's fee_i value corresponds to the i-th rule by Order, not by name.
type FeeRule struct {
	ID       string
	ClientID string
	Name     string
	Order    int
}

// UnitType is a reference-list entry describing what a tactic's unit volume
// counts. The "impressions" type flags CPM-denominated cost for display.
type UnitType struct {
	ID          string
	DisplayName string
}
