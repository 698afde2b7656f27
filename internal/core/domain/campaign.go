package domain

import "time"

// Campaign represents an advertising campaign and carries the budget the
// client authorized for it. Monetary amounts are decimal values in the
// campaign currency; rounding is a presentation concern.
type Campaign struct {
	ID               string
	ClientID         string
	Name             string
	Currency         string
	AuthorizedBudget float64
	StartDate        time.Time
	EndDate          time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Version is a thin grouping of tabs within a campaign. Budget planning
// always happens inside exactly one version.
type Version struct {
	ID         string
	CampaignID string
	Name       string
	CreatedAt  time.Time
}
