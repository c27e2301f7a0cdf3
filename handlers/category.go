package handlers

import (
	"net/http"

	"famledger/catalog"
)

// GetCategories returns the static catalog for a transaction type. The
// screens copy an entry into the record at creation time; they never
// store a reference back into the catalog.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	txType := r.URL.Query().Get("type")
	writeJSON(w, http.StatusOK, catalog.ByType(txType))
}
