package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mediabox-ledger/internal/core/domain"
	"mediabox-ledger/internal/core/port"
)

// LedgerRepository implements port.LedgerRepository using pgxpool for
// PostgreSQL.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository returns a new repository instance.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// ReadMaxOrder queries the current maximum order among siblings. The read
// goes to the database on every call; sibling orders must never be derived
// from a cached list on the caller's side.
func (r *LedgerRepository) ReadMaxOrder(ctx context.Context, kind port.EntityKind, scope port.OrderScope) (int, bool, error) {
	var (
		query string
		arg   string
	)
	switch kind {
	case port.KindTab:
		query, arg = `SELECT MAX(ord) FROM tabs WHERE version_id = $1`, scope.VersionID
	case port.KindSection:
		query, arg = `SELECT MAX(ord) FROM sections WHERE tab_id = $1`, scope.TabID
	case port.KindTactic:
		query, arg = `SELECT MAX(ord) FROM tactics WHERE section_id = $1`, scope.SectionID
	case port.KindPlacement:
		query, arg = `SELECT MAX(ord) FROM placements WHERE tactic_id = $1`, scope.TacticID
	case port.KindCreative:
		query, arg = `SELECT MAX(ord) FROM creatives WHERE placement_id = $1`, scope.PlacementID
	default:
		return 0, false, fmt.Errorf("unknown entity kind %q", kind)
	}

	var max *int
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&max); err != nil {
		return 0, false, err
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

// ListFeeRules returns a client's fee definitions ordered by position.
func (r *LedgerRepository) ListFeeRules(ctx context.Context, clientID string) ([]domain.FeeRule, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, client_id, name, ord FROM fee_rules WHERE client_id = $1 ORDER BY ord`, clientID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FeeRule, error) {
		var fr domain.FeeRule
		err := row.Scan(&fr.ID, &fr.ClientID, &fr.Name, &fr.Order)
		return fr, err
	})
}

// ListUnitTypes returns the unit-type reference list.
func (r *LedgerRepository) ListUnitTypes(ctx context.Context) ([]domain.UnitType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, display_name FROM unit_types ORDER BY display_name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.UnitType, error) {
		var ut domain.UnitType
		err := row.Scan(&ut.ID, &ut.DisplayName)
		return ut, err
	})
}

// GetCampaign returns a campaign by id, or nil when absent.
func (r *LedgerRepository) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.pool.QueryRow(ctx, `SELECT id, client_id, name, currency, authorized_budget, start_date, end_date, created_at, updated_at FROM campaigns WHERE id = $1`, id).
		Scan(&c.ID, &c.ClientID, &c.Name, &c.Currency, &c.AuthorizedBudget, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetSection returns a section by id, or nil when absent.
func (r *LedgerRepository) GetSection(ctx context.Context, id string) (*domain.Section, error) {
	var s domain.Section
	err := r.pool.QueryRow(ctx, `SELECT id, tab_id, name, color, ord, created_at FROM sections WHERE id = $1`, id).
		Scan(&s.ID, &s.TabID, &s.Name, &s.Color, &s.Order, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetTactic returns a tactic by id, or nil when absent.
func (r *LedgerRepository) GetTactic(ctx context.Context, id string) (*domain.Tactic, error) {
	var t domain.Tactic
	err := r.pool.QueryRow(ctx, `SELECT id, section_id, name, mode, raw_budget, cost_per_unit, has_bonus, bonus_value, currency, unit_type_id, fee_1, fee_2, fee_3, fee_4, fee_5, ord, created_at, updated_at FROM tactics WHERE id = $1`, id).
		Scan(&t.ID, &t.SectionID, &t.Name, &t.Mode, &t.RawBudget, &t.CostPerUnit, &t.HasBonus, &t.BonusValue, &t.Currency, &t.UnitTypeID,
			&t.Fees[0], &t.Fees[1], &t.Fees[2], &t.Fees[3], &t.Fees[4], &t.Order, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *LedgerRepository) CreateTab(ctx context.Context, tab domain.Tab) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO tabs (id, version_id, campaign_id, name, ord, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		tab.ID, tab.VersionID, tab.CampaignID, tab.Name, tab.Order, tab.CreatedAt)
	return err
}

func (r *LedgerRepository) CreateSection(ctx context.Context, section domain.Section) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO sections (id, tab_id, name, color, ord, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		section.ID, section.TabID, section.Name, section.Color, section.Order, section.CreatedAt)
	return err
}

func (r *LedgerRepository) CreateTactic(ctx context.Context, t domain.Tactic) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO tactics
	(id, section_id, name, mode, raw_budget, cost_per_unit, has_bonus, bonus_value, currency, unit_type_id, fee_1, fee_2, fee_3, fee_4, fee_5, ord, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		t.ID, t.SectionID, t.Name, t.Mode, t.RawBudget, t.CostPerUnit, t.HasBonus, t.BonusValue, t.Currency, t.UnitTypeID,
		t.Fees[0], t.Fees[1], t.Fees[2], t.Fees[3], t.Fees[4], t.Order, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *LedgerRepository) CreatePlacement(ctx context.Context, p domain.Placement) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO placements (id, tactic_id, name, ord, created_at) VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.TacticID, p.Name, p.Order, p.CreatedAt)
	return err
}

func (r *LedgerRepository) CreateCreative(ctx context.Context, c domain.Creative) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO creatives (id, placement_id, name, ord, created_at) VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.PlacementID, c.Name, c.Order, c.CreatedAt)
	return err
}

// UpdateTactic writes the full tactic row.
func (r *LedgerRepository) UpdateTactic(ctx context.Context, t domain.Tactic) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tactics SET
	name = $2, mode = $3, raw_budget = $4, cost_per_unit = $5, has_bonus = $6, bonus_value = $7,
	currency = $8, unit_type_id = $9, fee_1 = $10, fee_2 = $11, fee_3 = $12, fee_4 = $13, fee_5 = $14,
	ord = $15, updated_at = $16
	WHERE id = $1`,
		t.ID, t.Name, t.Mode, t.RawBudget, t.CostPerUnit, t.HasBonus, t.BonusValue,
		t.Currency, t.UnitTypeID, t.Fees[0], t.Fees[1], t.Fees[2], t.Fees[3], t.Fees[4],
		t.Order, t.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

const tacticColumns = `t.id, t.section_id, t.name, t.mode, t.raw_budget, t.cost_per_unit, t.has_bonus, t.bonus_value, t.currency, t.unit_type_id, t.fee_1, t.fee_2, t.fee_3, t.fee_4, t.fee_5, t.ord, t.created_at, t.updated_at`

// ListTactics returns a section's tactics by sibling order.
func (r *LedgerRepository) ListTactics(ctx context.Context, sectionID string) ([]domain.Tactic, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tacticColumns+` FROM tactics t WHERE t.section_id = $1 ORDER BY t.ord`, sectionID)
	if err != nil {
		return nil, err
	}
	return collectTactics(rows)
}

// ListCampaignTactics returns every tactic under the campaign, optionally
// narrowed to one tab, joined through sections and tabs.
func (r *LedgerRepository) ListCampaignTactics(ctx context.Context, campaignID string, tabID *string) ([]domain.Tactic, error) {
	query := `SELECT ` + tacticColumns + `
	FROM tactics t
	JOIN sections s ON t.section_id = s.id
	JOIN tabs tb ON s.tab_id = tb.id
	WHERE tb.campaign_id = $1`
	args := []interface{}{campaignID}
	if tabID != nil {
		query += ` AND tb.id = $2`
		args = append(args, *tabID)
	}
	query += ` ORDER BY tb.ord, s.ord, t.ord`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectTactics(rows)
}

// ListCampaignSections returns every section under the campaign, optionally
// narrowed to one tab.
func (r *LedgerRepository) ListCampaignSections(ctx context.Context, campaignID string, tabID *string) ([]domain.Section, error) {
	query := `SELECT s.id, s.tab_id, s.name, s.color, s.ord, s.created_at
	FROM sections s
	JOIN tabs tb ON s.tab_id = tb.id
	WHERE tb.campaign_id = $1`
	args := []interface{}{campaignID}
	if tabID != nil {
		query += ` AND tb.id = $2`
		args = append(args, *tabID)
	}
	query += ` ORDER BY tb.ord, s.ord`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Section, error) {
		var s domain.Section
		err := row.Scan(&s.ID, &s.TabID, &s.Name, &s.Color, &s.Order, &s.CreatedAt)
		return s, err
	})
}

// ListPlacements returns a tactic's placements by sibling order.
func (r *LedgerRepository) ListPlacements(ctx context.Context, tacticID string) ([]domain.Placement, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, tactic_id, name, ord, created_at FROM placements WHERE tactic_id = $1 ORDER BY ord`, tacticID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Placement, error) {
		var p domain.Placement
		err := row.Scan(&p.ID, &p.TacticID, &p.Name, &p.Order, &p.CreatedAt)
		return p, err
	})
}

// ListCreatives returns a placement's creatives by sibling order.
func (r *LedgerRepository) ListCreatives(ctx context.Context, placementID string) ([]domain.Creative, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, placement_id, name, ord, created_at FROM creatives WHERE placement_id = $1 ORDER BY ord`, placementID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Creative, error) {
		var c domain.Creative
		err := row.Scan(&c.ID, &c.PlacementID, &c.Name, &c.Order, &c.CreatedAt)
		return c, err
	})
}

func (r *LedgerRepository) DeleteSection(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	return err
}

func (r *LedgerRepository) DeleteTactic(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tactics WHERE id = $1`, id)
	return err
}

func (r *LedgerRepository) DeletePlacement(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM placements WHERE id = $1`, id)
	return err
}

func (r *LedgerRepository) DeleteCreative(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM creatives WHERE id = $1`, id)
	return err
}

func collectTactics(rows pgx.Rows) ([]domain.Tactic, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Tactic, error) {
		var t domain.Tactic
		err := row.Scan(&t.ID, &t.SectionID, &t.Name, &t.Mode, &t.RawBudget, &t.CostPerUnit, &t.HasBonus, &t.BonusValue,
			&t.Currency, &t.UnitTypeID, &t.Fees[0], &t.Fees[1], &t.Fees[2], &t.Fees[3], &t.Fees[4], &t.Order, &t.CreatedAt, &t.UpdatedAt)
		return t, err
	})
}
