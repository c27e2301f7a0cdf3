package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"famledger/format"
	"famledger/ledger"
	"famledger/middleware"
	"famledger/models"
	"famledger/validate"
)

type allocationRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	DateRange   string `json:"dateRange"`      // day, week, or month
	SelectedUID string `json:"selectedUid"`    // member the budget targets
	Date        string `json:"date,omitempty"` // reference date, default now
}

// parseAllocation validates the form and derives the validity interval:
// the allocation spans exactly the period window containing the reference
// date, so the aggregation's per-granularity comparisons line up.
func parseAllocation(req allocationRequest) (validate.Verdict, models.BudgetAllocation) {
	verdict := validate.Allocation(validate.AllocationForm{
		AmountText:  req.Amount,
		Description: req.Description,
		DateRange:   models.Granularity(req.DateRange),
		SelectedUID: req.SelectedUID,
	})
	if !verdict.OK {
		return verdict, models.BudgetAllocation{}
	}

	ref := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return validate.Verdict{Field: "date", Message: "Invalid date"}, models.BudgetAllocation{}
		}
		ref = parsed
	}

	g := models.Granularity(req.DateRange)
	window := ledger.Resolve(g, ref)
	amount, _ := format.ParseAmount(req.Amount)

	return validate.Verdict{OK: true}, models.BudgetAllocation{
		Amount:         amount,
		Description:    req.Description,
		DateRange:      g,
		DateRangeStart: window.Start,
		DateRangeEnd:   window.End,
		SelectedUID:    req.SelectedUID,
	}
}

// CreateAllocation issues a budget to one member for one period. Routing
// restricts this to the provider account.
func (h *Handler) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	profile := sess.Profile()

	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	verdict, a := parseAllocation(req)
	if !verdict.OK {
		writeJSON(w, http.StatusBadRequest, verdict)
		return
	}

	a.ID = uuid.NewString()
	a.ProviderName = profile.Name

	if err := h.store.UpsertAllocation(r.Context(), profile.FamilyCode, a); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAllocation replaces an existing allocation's fields, keeping its
// id so an already-shown alert is not repeated.
func (h *Handler) UpdateAllocation(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	profile := sess.Profile()
	allocID := mux.Vars(r)["id"]

	doc, err := h.store.Ledger(r.Context(), profile.FamilyCode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, ok := doc.Budgets[allocID]; !ok {
		http.Error(w, "Allocation not found", http.StatusNotFound)
		return
	}

	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	verdict, a := parseAllocation(req)
	if !verdict.OK {
		writeJSON(w, http.StatusBadRequest, verdict)
		return
	}

	a.ID = allocID
	a.ProviderName = profile.Name

	if err := h.store.UpsertAllocation(r.Context(), profile.FamilyCode, a); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAllocation removes an allocation; its id leaves the alert
// shown-set on the next recomputation.
func (h *Handler) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	profile := sess.Profile()
	allocID := mux.Vars(r)["id"]

	if err := h.store.DeleteAllocation(r.Context(), profile.FamilyCode, allocID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
