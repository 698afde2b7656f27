// Package memory implements the ledger repository over in-process maps. It
// backs local development (STORAGE=memory) and the usecase tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"mediabox-ledger/internal/core/domain"
	"mediabox-ledger/internal/core/port"
)

// Store is a mutex-guarded in-memory implementation of port.LedgerRepository.
type Store struct {
	mu sync.RWMutex

	campaigns  map[string]domain.Campaign
	tabs       map[string]domain.Tab
	sections   map[string]domain.Section
	tactics    map[string]domain.Tactic
	placements map[string]domain.Placement
	creatives  map[string]domain.Creative
	feeRules   map[string][]domain.FeeRule // keyed by client id
	unitTypes  []domain.UnitType
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		campaigns:  make(map[string]domain.Campaign),
		tabs:       make(map[string]domain.Tab),
		sections:   make(map[string]domain.Section),
		tactics:    make(map[string]domain.Tactic),
		placements: make(map[string]domain.Placement),
		creatives:  make(map[string]domain.Creative),
		feeRules:   make(map[string][]domain.FeeRule),
	}
}

// PutCampaign registers a campaign. Fixture helper for dev seeding and tests.
func (s *Store) PutCampaign(c domain.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[c.ID] = c
}

// PutFeeRules replaces a client's fee-rule list.
func (s *Store) PutFeeRules(clientID string, rules []domain.FeeRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeRules[clientID] = append([]domain.FeeRule(nil), rules...)
}

// PutUnitTypes replaces the unit-type reference list.
func (s *Store) PutUnitTypes(types []domain.UnitType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unitTypes = append([]domain.UnitType(nil), types...)
}

func (s *Store) ReadMaxOrder(_ context.Context, kind port.EntityKind, scope port.OrderScope) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max, found := 0, false
	observe := func(ord int) {
		if !found || ord > max {
			max, found = ord, true
		}
	}
	switch kind {
	case port.KindTab:
		for _, t := range s.tabs {
			if t.VersionID == scope.VersionID {
				observe(t.Order)
			}
		}
	case port.KindSection:
		for _, sec := range s.sections {
			if sec.TabID == scope.TabID {
				observe(sec.Order)
			}
		}
	case port.KindTactic:
		for _, t := range s.tactics {
			if t.SectionID == scope.SectionID {
				observe(t.Order)
			}
		}
	case port.KindPlacement:
		for _, p := range s.placements {
			if p.TacticID == scope.TacticID {
				observe(p.Order)
			}
		}
	case port.KindCreative:
		for _, c := range s.creatives {
			if c.PlacementID == scope.PlacementID {
				observe(c.Order)
			}
		}
	}
	return max, found, nil
}

func (s *Store) ListFeeRules(_ context.Context, clientID string) ([]domain.FeeRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := append([]domain.FeeRule(nil), s.feeRules[clientID]...)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Order < rules[j].Order })
	return rules, nil
}

func (s *Store) ListUnitTypes(_ context.Context) ([]domain.UnitType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.UnitType(nil), s.unitTypes...), nil
}

func (s *Store) GetCampaign(_ context.Context, id string) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.campaigns[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *Store) GetSection(_ context.Context, id string) (*domain.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sec, ok := s.sections[id]; ok {
		return &sec, nil
	}
	return nil, nil
}

func (s *Store) GetTactic(_ context.Context, id string) (*domain.Tactic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tactics[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (s *Store) CreateTab(_ context.Context, tab domain.Tab) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs[tab.ID] = tab
	return nil
}

func (s *Store) CreateSection(_ context.Context, section domain.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections[section.ID] = section
	return nil
}

func (s *Store) CreateTactic(_ context.Context, tactic domain.Tactic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tactics[tactic.ID] = tactic
	return nil
}

func (s *Store) CreatePlacement(_ context.Context, placement domain.Placement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placements[placement.ID] = placement
	return nil
}

func (s *Store) CreateCreative(_ context.Context, creative domain.Creative) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creatives[creative.ID] = creative
	return nil
}

func (s *Store) UpdateTactic(_ context.Context, tactic domain.Tactic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tactics[tactic.ID]; !ok {
		return port.ErrNotFound
	}
	s.tactics[tactic.ID] = tactic
	return nil
}

func (s *Store) ListTactics(_ context.Context, sectionID string) ([]domain.Tactic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Tactic
	for _, t := range s.tactics {
		if t.SectionID == sectionID {
			out = append(out, t)
		}
	}
	sortByOrderTactics(out)
	return out, nil
}

func (s *Store) ListCampaignTactics(_ context.Context, campaignID string, tabID *string) ([]domain.Tactic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inScope := make(map[string]bool) // section ids under the campaign scope
	for _, sec := range s.campaignSectionsLocked(campaignID, tabID) {
		inScope[sec.ID] = true
	}

	var out []domain.Tactic
	for _, t := range s.tactics {
		if inScope[t.SectionID] {
			out = append(out, t)
		}
	}
	sortByOrderTactics(out)
	return out, nil
}

func (s *Store) ListCampaignSections(_ context.Context, campaignID string, tabID *string) ([]domain.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.campaignSectionsLocked(campaignID, tabID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// campaignSectionsLocked resolves every section under the campaign scope by
// walking section -> tab -> denormalized campaign id. Callers hold s.mu.
func (s *Store) campaignSectionsLocked(campaignID string, tabID *string) []domain.Section {
	var out []domain.Section
	for _, sec := range s.sections {
		tab, ok := s.tabs[sec.TabID]
		if !ok || tab.CampaignID != campaignID {
			continue
		}
		if tabID != nil && tab.ID != *tabID {
			continue
		}
		out = append(out, sec)
	}
	return out
}

func (s *Store) ListPlacements(_ context.Context, tacticID string) ([]domain.Placement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Placement
	for _, p := range s.placements {
		if p.TacticID == tacticID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *Store) ListCreatives(_ context.Context, placementID string) ([]domain.Creative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Creative
	for _, c := range s.creatives {
		if c.PlacementID == placementID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *Store) DeleteSection(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sections, id)
	return nil
}

func (s *Store) DeleteTactic(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tactics, id)
	return nil
}

func (s *Store) DeletePlacement(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.placements, id)
	return nil
}

func (s *Store) DeleteCreative(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creatives, id)
	return nil
}

func sortByOrderTactics(tactics []domain.Tactic) {
	sort.SliceStable(tactics, func(i, j int) bool { return tactics[i].Order < tactics[j].Order })
}
