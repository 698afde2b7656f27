package httpadapter

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mediabox-ledger/internal/core/budget"
)

type feeLineView struct {
	Slot   int     `json:"slot"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type campaignRollupView struct {
	TotalMediaBudget  float64       `json:"total_media_budget"`
	TotalClientBudget float64       `json:"total_client_budget"`
	TotalBonus        float64       `json:"total_bonus"`
	TotalFees         float64       `json:"total_fees"`
	FeeLines          []feeLineView `json:"fee_lines"`
	Difference        float64       `json:"difference"`
	Overspent         bool          `json:"overspent"`
}

// parseDenomination validates the `denomination` query parameter. An absent
// value maps to the stored-field default; anything outside the known set is
// rejected so a typo cannot masquerade as the default.
func parseDenomination(raw string) (budget.Denomination, bool) {
	switch budget.Denomination(raw) {
	case "":
		return budget.DenominationStored, true
	case budget.DenominationStored, budget.DenominationMedia, budget.DenominationClient:
		return budget.Denomination(raw), true
	}
	return "", false
}

// handleSectionRollup sums one section's tactics. It accepts optional
// `grand_total` (denominator for the percentage share) and `denomination`
// (stored, media or client; stored when absent) query parameters.
func (h *Handler) handleSectionRollup(w http.ResponseWriter, r *http.Request) {
	var (
		q          = r.URL.Query()
		grandTotal float64
		err        error
	)
	if gt := q.Get("grand_total"); gt != "" {
		grandTotal, err = strconv.ParseFloat(gt, 64)
		if err != nil {
			http.Error(w, "invalid grand_total", http.StatusBadRequest)
			return
		}
	}
	denom, ok := parseDenomination(q.Get("denomination"))
	if !ok {
		http.Error(w, "invalid denomination", http.StatusBadRequest)
		return
	}
	roll, err := h.svc.SectionRollup(r.Context(), chi.URLParam(r, "id"), grandTotal, denom)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, roll)
}

// handleSectionRollups returns every section of a campaign summed in one
// denomination, sorted largest budget first. Optional `tab_id` narrows the
// scope to one tab.
func (h *Handler) handleSectionRollups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	denom, ok := parseDenomination(q.Get("denomination"))
	if !ok {
		http.Error(w, "invalid denomination", http.StatusBadRequest)
		return
	}
	var tabID *string
	if tid := q.Get("tab_id"); tid != "" {
		tabID = &tid
	}
	rollups, err := h.svc.SectionRollups(r.Context(), chi.URLParam(r, "id"), tabID, denom)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rollups)
}

// handleCampaignRollup returns the full-campaign budget picture. An optional
// `tab_id` query parameter narrows the scope to one tab.
func (h *Handler) handleCampaignRollup(w http.ResponseWriter, r *http.Request) {
	var tabID *string
	if tid := r.URL.Query().Get("tab_id"); tid != "" {
		tabID = &tid
	}
	resp, err := h.svc.CampaignRollup(r.Context(), chi.URLParam(r, "id"), tabID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	view := campaignRollupView{
		TotalMediaBudget:  resp.TotalMediaBudget,
		TotalClientBudget: resp.TotalClientBudget,
		TotalBonus:        resp.TotalBonus,
		TotalFees:         resp.TotalFees,
		Difference:        resp.Difference,
		Overspent:         resp.Difference < 0,
		FeeLines:          make([]feeLineView, 0, len(resp.FeeLines)),
	}
	for _, fl := range resp.FeeLines {
		view.FeeLines = append(view.FeeLines, feeLineView{Slot: fl.Slot, Name: fl.Name, Amount: fl.Amount})
	}
	h.writeJSON(w, http.StatusOK, view)
}
