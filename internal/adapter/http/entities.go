package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mediabox-ledger/internal/core/domain"
	"mediabox-ledger/internal/core/port"
)

// Create requests carry the full parent chain; it doubles as the order
// allocation scope, so an incomplete chain is rejected before any store read.

type createTabRequest struct {
	ClientID   string `json:"client_id"`
	CampaignID string `json:"campaign_id"`
	VersionID  string `json:"version_id"`
	Name       string `json:"name"`
}

type createSectionRequest struct {
	createTabRequest
	TabID string `json:"tab_id"`
	Color string `json:"color"`
}

type createTacticRequest struct {
	createSectionRequest
	SectionID   string    `json:"section_id"`
	Mode        string    `json:"mode"`
	Budget      float64   `json:"budget"`
	CostPerUnit float64   `json:"cost_per_unit"`
	HasBonus    bool      `json:"has_bonus"`
	BonusValue  float64   `json:"bonus_value"`
	Currency    string    `json:"currency"`
	UnitTypeID  string    `json:"unit_type_id"`
	Fees        []float64 `json:"fees"`
}

type createPlacementRequest struct {
	createTacticRequest
	TacticID string `json:"tactic_id"`
}

type createCreativeRequest struct {
	createPlacementRequest
	PlacementID string `json:"placement_id"`
}

func (h *Handler) handleCreateTab(w http.ResponseWriter, r *http.Request) {
	var req createTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	tab, err := h.svc.CreateTab(r.Context(), port.CreateTabReq{
		ClientID: req.ClientID, CampaignID: req.CampaignID, VersionID: req.VersionID, Name: req.Name,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, tab)
}

func (h *Handler) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	var req createSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	section, err := h.svc.CreateSection(r.Context(), port.CreateSectionReq{
		ClientID: req.ClientID, CampaignID: req.CampaignID, VersionID: req.VersionID,
		TabID: req.TabID, Name: req.Name, Color: req.Color,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, section)
}

func (h *Handler) handleCreateTactic(w http.ResponseWriter, r *http.Request) {
	var req createTacticRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	tactic, err := h.svc.CreateTactic(r.Context(), port.CreateTacticReq{
		ClientID: req.ClientID, CampaignID: req.CampaignID, VersionID: req.VersionID,
		TabID: req.TabID, SectionID: req.SectionID,
		Name:        req.Name,
		Mode:        domain.BudgetMode(req.Mode),
		RawBudget:   req.Budget,
		CostPerUnit: req.CostPerUnit,
		HasBonus:    req.HasBonus,
		BonusValue:  req.BonusValue,
		Currency:    req.Currency,
		UnitTypeID:  req.UnitTypeID,
		Fees:        feeSlots(req.Fees),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, tactic)
}

func (h *Handler) handleCreatePlacement(w http.ResponseWriter, r *http.Request) {
	var req createPlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	placement, err := h.svc.CreatePlacement(r.Context(), port.CreatePlacementReq{
		ClientID: req.ClientID, CampaignID: req.CampaignID, VersionID: req.VersionID,
		TabID: req.TabID, SectionID: req.SectionID, TacticID: req.TacticID, Name: req.Name,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, placement)
}

func (h *Handler) handleCreateCreative(w http.ResponseWriter, r *http.Request) {
	var req createCreativeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	creative, err := h.svc.CreateCreative(r.Context(), port.CreateCreativeReq{
		ClientID: req.ClientID, CampaignID: req.CampaignID, VersionID: req.VersionID,
		TabID: req.TabID, SectionID: req.SectionID, TacticID: req.TacticID,
		PlacementID: req.PlacementID, Name: req.Name,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, creative)
}

func (h *Handler) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSection(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteTactic(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTactic(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// feeSlots copies a request fee list into the five positional slots. Extra
// entries are dropped; missing ones stay zero.
func feeSlots(fees []float64) [domain.FeeSlotCount]float64 {
	var slots [domain.FeeSlotCount]float64
	for i, f := range fees {
		if i >= domain.FeeSlotCount {
			break
		}
		slots[i] = f
	}
	return slots
}
