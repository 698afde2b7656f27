package domain

import "time"

// Tab ("onglet") is the top-level grouping of sections within a campaign
// version. Purely organizational, no budget of its own. CampaignID
// denormalizes the version's campaign so campaign-wide reads resolve the
// scope without walking the version.
type Tab struct {
	ID         string
	VersionID  string
	CampaignID string
	Name       string
	Order      int
	CreatedAt  time.Time
}

// Section is a named, colored group of tactics inside a tab. Its budget is
// always derived from its tactics, never stored.
type Section struct {
	ID        string
	TabID     string
	Name      string
	Color     string
	Order     int
	CreatedAt time.Time
}

// Placement belongs to a tactic. Non-budgetary; it exists in the tree for
// ordering and cascade deletion only.
type Placement struct {
	ID        string
	TacticID  string
	Name      string
	Order     int
	CreatedAt time.Time
}

// Creative belongs to a placement. Non-budgetary leaf of the tree.
type Creative struct {
	ID          string
	PlacementID string
	Name        string
	Order       int
	CreatedAt   time.Time
}
