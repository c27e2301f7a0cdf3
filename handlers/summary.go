package handlers

import (
	"encoding/json"
	"net/http"

	"famledger/format"
	"famledger/ledger"
	"famledger/middleware"
	"famledger/models"
	"famledger/session"
)

type totalsDisplay struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

type summaryResponse struct {
	Window       ledger.Window             `json:"window"`
	Label        string                    `json:"label"`
	Transactions []models.Transaction      `json:"transactions"`
	Allocations  []models.BudgetAllocation `json:"allocations"`
	Totals       ledger.Totals             `json:"totals"`
	Display      totalsDisplay             `json:"display"`
	Alert        *models.BudgetAllocation  `json:"alert,omitempty"`
	// Empty tells the screen to render its distinct no-data state.
	Empty bool `json:"empty"`
}

func buildSummary(res ledger.Result) summaryResponse {
	return summaryResponse{
		Window:       res.Window,
		Label:        format.RangeLabel(res.Window.Granularity, res.Window.Start, res.Window.End),
		Transactions: res.Transactions,
		Allocations:  res.Allocations,
		Totals:       res.Totals,
		Display: totalsDisplay{
			Income:  format.Currency(res.Totals.Income),
			Expense: format.Currency(res.Totals.Expense),
			Balance: format.Currency(res.Totals.Balance),
		},
		Alert: res.Alert,
		Empty: len(res.Transactions) == 0,
	}
}

func (h *Handler) respondSummary(w http.ResponseWriter, sess *session.Session) {
	res, ok := sess.Result()
	if !ok {
		http.Error(w, "Session is closed", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, buildSummary(res))
}

// GetSummary returns the aggregation result for the caller's active
// period: filtered lists, totals, period bounds, and a one-time budget
// alert when due.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.respondSummary(w, sess)
}

type setPeriodRequest struct {
	Granularity string `json:"granularity"`
}

// SetPeriod switches the granularity and resets the period to the window
// containing now.
func (h *Handler) SetPeriod(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var req setPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := sess.SetGranularity(models.Granularity(req.Granularity)); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.respondSummary(w, sess)
}

// PrevPeriod steps the period back one unit of the active granularity.
func (h *Handler) PrevPeriod(w http.ResponseWriter, r *http.Request) {
	h.shiftPeriod(w, r, -1)
}

// NextPeriod steps the period forward one unit.
func (h *Handler) NextPeriod(w http.ResponseWriter, r *http.Request) {
	h.shiftPeriod(w, r, 1)
}

func (h *Handler) shiftPeriod(w http.ResponseWriter, r *http.Request, delta int) {
	id, _ := middleware.IdentityFromRequest(r)
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sess.Shift(delta)
	h.respondSummary(w, sess)
}
