package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"famledger/catalog"
	"famledger/format"
	"famledger/middleware"
	"famledger/models"
	"famledger/validate"
)

type transactionRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Type        string `json:"type"`
	CategoryID  string `json:"categoryId"`
	Date        string `json:"date"` // RFC 3339
}

// parseTransaction validates the raw form fields and builds the parts of a
// record that come straight from the request. The validation verdict is
// returned untouched so screens can highlight the first failing field.
func parseTransaction(req transactionRequest) (validate.Verdict, models.Transaction) {
	date, dateErr := time.Parse(time.RFC3339, req.Date)

	verdict := validate.Transaction(validate.TransactionForm{
		AmountText:  req.Amount,
		Description: req.Description,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		HasDate:     dateErr == nil,
	})
	if !verdict.OK {
		return verdict, models.Transaction{}
	}

	cat, ok := catalog.Lookup(req.CategoryID)
	if !ok {
		return validate.Verdict{Field: "category", Message: "Unknown category"}, models.Transaction{}
	}
	amount, _ := format.ParseAmount(req.Amount)

	return validate.Verdict{OK: true}, models.Transaction{
		Date:        date,
		Amount:      amount,
		Description: req.Description,
		Type:        req.Type,
		Category:    cat, // snapshot, not a live catalog reference
	}
}

// CreateTransaction adds a record to the family ledger.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	profile := sess.Profile()

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	verdict, t := parseTransaction(req)
	if !verdict.OK {
		writeJSON(w, http.StatusBadRequest, verdict)
		return
	}

	t.ID = uuid.NewString()
	t.OwnerUID = profile.UID
	t.OwnerName = profile.Name
	t.AccountType = profile.Role

	if err := h.store.UpsertTransaction(r.Context(), profile.FamilyCode, t); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTransaction edits an existing record. Members may only edit their
// own records; the provider may edit any.
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	profile := sess.Profile()
	txID := mux.Vars(r)["id"]

	existing, ok, err := h.findTransaction(r, profile.FamilyCode, txID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}
	if !profile.IsProvider() && existing.OwnerUID != profile.UID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	verdict, t := parseTransaction(req)
	if !verdict.OK {
		writeJSON(w, http.StatusBadRequest, verdict)
		return
	}

	// Identity of the record and its author survive the edit.
	t.ID = txID
	t.OwnerUID = existing.OwnerUID
	t.OwnerName = existing.OwnerName
	t.AccountType = existing.AccountType

	if err := h.store.UpsertTransaction(r.Context(), profile.FamilyCode, t); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTransaction removes a record, with the same ownership rule as
// UpdateTransaction.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	profile := sess.Profile()
	txID := mux.Vars(r)["id"]

	existing, ok, err := h.findTransaction(r, profile.FamilyCode, txID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}
	if !profile.IsProvider() && existing.OwnerUID != profile.UID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.store.DeleteTransaction(r.Context(), profile.FamilyCode, txID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTransactions returns the caller's filtered, sorted transactions for
// the active period.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	res, ok := sess.Result()
	if !ok {
		http.Error(w, "Session is closed", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, res.Transactions)
}

func (h *Handler) findTransaction(r *http.Request, familyCode, id string) (models.Transaction, bool, error) {
	doc, err := h.store.Ledger(r.Context(), familyCode)
	if err != nil {
		return models.Transaction{}, false, err
	}
	t, ok := doc.Transactions[id]
	return t, ok, nil
}
