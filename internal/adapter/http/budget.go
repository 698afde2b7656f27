package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mediabox-ledger/internal/core/domain"
	"mediabox-ledger/internal/core/port"
)

type tacticBudgetPatch struct {
	Mode        *string    `json:"mode"`
	Budget      *float64   `json:"budget"`
	CostPerUnit *float64   `json:"cost_per_unit"`
	HasBonus    *bool      `json:"has_bonus"`
	BonusValue  *float64   `json:"bonus_value"`
	UnitTypeID  *string    `json:"unit_type_id"`
	Fees        *[]float64 `json:"fees"`
}

type budgetPreviewRequest struct {
	Mode        string  `json:"mode"`
	Budget      float64 `json:"budget"`
	CostPerUnit float64 `json:"cost_per_unit"`
	HasBonus    bool    `json:"has_bonus"`
	BonusValue  float64 `json:"bonus_value"`
	TotalFees   float64 `json:"total_fees"`
	UnitTypeID  string  `json:"unit_type_id"`
}

type budgetView struct {
	MediaBudget              float64 `json:"media_budget"`
	ClientBudget             float64 `json:"client_budget"`
	EffectiveBudgetForVolume float64 `json:"effective_budget_for_volume"`
	UnitVolume               int64   `json:"unit_volume"`
	Incomplete               bool    `json:"incomplete"`
	CostLabel                string  `json:"cost_label"`
}

// handleUpdateTacticBudget applies a partial update to a tactic's budget
// fields and returns the reconciled figures. Unknown tactics produce 404.
func (h *Handler) handleUpdateTacticBudget(w http.ResponseWriter, r *http.Request) {
	var req tacticBudgetPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	patch := port.TacticBudgetPatch{
		RawBudget:   req.Budget,
		CostPerUnit: req.CostPerUnit,
		HasBonus:    req.HasBonus,
		BonusValue:  req.BonusValue,
		UnitTypeID:  req.UnitTypeID,
	}
	if req.Mode != nil {
		mode := domain.BudgetMode(*req.Mode)
		patch.Mode = &mode
	}
	if req.Fees != nil {
		slots := feeSlots(*req.Fees)
		patch.Fees = &slots
	}
	view, err := h.svc.UpdateTacticBudget(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toBudgetView(view))
}

// handleBudgetPreview runs the budget reconciliation on raw inputs without
// persisting anything. Used by editors to show derived figures as the user
// types.
func (h *Handler) handleBudgetPreview(w http.ResponseWriter, r *http.Request) {
	var req budgetPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	view, err := h.svc.PreviewBudget(r.Context(), port.PreviewBudgetReq{
		Mode:        domain.BudgetMode(req.Mode),
		RawBudget:   req.Budget,
		CostPerUnit: req.CostPerUnit,
		HasBonus:    req.HasBonus,
		BonusValue:  req.BonusValue,
		TotalFees:   req.TotalFees,
		UnitTypeID:  req.UnitTypeID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toBudgetView(view))
}

func toBudgetView(v *port.TacticBudgetView) budgetView {
	return budgetView{
		MediaBudget:              v.MediaBudget,
		ClientBudget:             v.ClientBudget,
		EffectiveBudgetForVolume: v.EffectiveBudgetForVolume,
		UnitVolume:               v.UnitVolume,
		Incomplete:               v.Incomplete,
		CostLabel:                v.CostLabel,
	}
}
