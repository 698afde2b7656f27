package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mediabox-ledger/internal/adapter/memory"
	"mediabox-ledger/internal/core/domain"
)

// Seed inserts demo data into the ledger database: one client with fee rules
// and unit types, one campaign with a version, a tab, two sections and a few
// tactics. Safe to re-run; inserts conflict-ignore on primary keys.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	clientID := uuid.NewString()
	if _, err := db.Exec(ctx, `INSERT INTO clients (id, name) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		clientID, "Demo Client"); err != nil {
		return err
	}

	for i, name := range []string{"Frais de gestion", "Frais de plateforme", "Taxes"} {
		if _, err := db.Exec(ctx, `INSERT INTO fee_rules (id, client_id, name, ord) VALUES ($1,$2,$3,$4) ON CONFLICT DO NOTHING`,
			uuid.NewString(), clientID, name, i); err != nil {
			return err
		}
	}

	for _, name := range []string{"Impressions", "Clicks", "Completed views"} {
		if _, err := db.Exec(ctx, `INSERT INTO unit_types (id, display_name) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			uuid.NewString(), name); err != nil {
			return err
		}
	}

	campaignID := uuid.NewString()
	start := time.Now().AddDate(0, 0, -7)
	end := time.Now().AddDate(0, 3, 0)
	if _, err := db.Exec(ctx, `INSERT INTO campaigns
	(id, client_id, name, currency, authorized_budget, start_date, end_date, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,now(),now()) ON CONFLICT DO NOTHING`,
		campaignID, clientID, "Demo Campaign", "CAD", 50000.0, start, end); err != nil {
		return err
	}

	versionID := uuid.NewString()
	if _, err := db.Exec(ctx, `INSERT INTO versions (id, campaign_id, name) VALUES ($1,$2,$3) ON CONFLICT DO NOTHING`,
		versionID, campaignID, "V1"); err != nil {
		return err
	}

	tabID := uuid.NewString()
	if _, err := db.Exec(ctx, `INSERT INTO tabs (id, version_id, campaign_id, name, ord) VALUES ($1,$2,$3,$4,0) ON CONFLICT DO NOTHING`,
		tabID, versionID, campaignID, "Plan media"); err != nil {
		return err
	}

	sections := []struct {
		name  string
		color string
	}{
		{"Awareness", "#2563eb"},
		{"Conversion", "#16a34a"},
	}
	for si, sec := range sections {
		sectionID := uuid.NewString()
		if _, err := db.Exec(ctx, `INSERT INTO sections (id, tab_id, name, color, ord) VALUES ($1,$2,$3,$4,$5) ON CONFLICT DO NOTHING`,
			sectionID, tabID, sec.name, sec.color, si); err != nil {
			return err
		}
		for ti := 0; ti < 3; ti++ {
			if _, err := db.Exec(ctx, `INSERT INTO tactics
			(id, section_id, name, mode, raw_budget, cost_per_unit, has_bonus, bonus_value, fee_1, fee_2, ord)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) ON CONFLICT DO NOTHING`,
				uuid.NewString(), sectionID, fmt.Sprintf("%s tactic %d", sec.name, ti+1),
				string(domain.BudgetModeMedia), 10000.0, 25.0, ti == 0, 500.0, 1000.0, 500.0, ti); err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedMemory fills an in-memory store with the same demo shape as Seed and
// returns the seeded campaign id for convenience.
func SeedMemory(ctx context.Context, store *memory.Store) (string, error) {
	clientID := uuid.NewString()
	campaignID := uuid.NewString()
	versionID := uuid.NewString()
	tabID := uuid.NewString()
	now := time.Now().UTC()

	store.PutCampaign(domain.Campaign{
		ID:               campaignID,
		ClientID:         clientID,
		Name:             "Demo Campaign",
		Currency:         "CAD",
		AuthorizedBudget: 50000,
		StartDate:        now.AddDate(0, 0, -7),
		EndDate:          now.AddDate(0, 3, 0),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	store.PutFeeRules(clientID, []domain.FeeRule{
		{ID: uuid.NewString(), ClientID: clientID, Name: "Frais de gestion", Order: 0},
		{ID: uuid.NewString(), ClientID: clientID, Name: "Frais de plateforme", Order: 1},
		{ID: uuid.NewString(), ClientID: clientID, Name: "Taxes", Order: 2},
	})
	store.PutUnitTypes([]domain.UnitType{
		{ID: uuid.NewString(), DisplayName: "Impressions"},
		{ID: uuid.NewString(), DisplayName: "Clicks"},
		{ID: uuid.NewString(), DisplayName: "Completed views"},
	})

	if err := store.CreateTab(ctx, domain.Tab{ID: tabID, VersionID: versionID, CampaignID: campaignID, Name: "Plan media", CreatedAt: now}); err != nil {
		return "", err
	}

	for si, name := range []string{"Awareness", "Conversion"} {
		sectionID := uuid.NewString()
		if err := store.CreateSection(ctx, domain.Section{ID: sectionID, TabID: tabID, Name: name, Order: si, CreatedAt: now}); err != nil {
			return "", err
		}
		for ti := 0; ti < 3; ti++ {
			t := domain.Tactic{
				ID:          uuid.NewString(),
				SectionID:   sectionID,
				Name:        fmt.Sprintf("%s tactic %d", name, ti+1),
				Mode:        domain.BudgetModeMedia,
				RawBudget:   10000,
				CostPerUnit: 25,
				HasBonus:    ti == 0,
				BonusValue:  500,
				Order:       ti,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			t.Fees[0], t.Fees[1] = 1000, 500
			if err := store.CreateTactic(ctx, t); err != nil {
				return "", err
			}
		}
	}
	return campaignID, nil
}
