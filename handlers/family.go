package handlers

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"famledger/logger"
	"famledger/middleware"
	"famledger/models"
	"famledger/store"
)

type createFamilyRequest struct {
	Name         string `json:"name"`
	ProfileColor string `json:"profileColor"`
}

// CreateFamily creates a provider account: a fresh family code, an empty
// ledger document, and the provider profile. The code is generated once
// and never changes.
func (h *Handler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)

	if _, err := h.store.Profile(r.Context(), id.UID); err == nil {
		http.Error(w, "Account already belongs to a family", http.StatusConflict)
		return
	} else if err != store.ErrNotFound {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var req createFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = id.Name
	}
	if name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	code, err := h.newFamilyCode(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.store.CreateLedger(r.Context(), code); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	profile := &models.AccountProfile{
		UID:          id.UID,
		Name:         name,
		Email:        id.Email,
		Role:         models.RoleProvider,
		ProfileColor: req.ProfileColor,
		FamilyCode:   code,
	}
	if err := h.store.SaveProfile(r.Context(), profile); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Get().Info("family created",
		zap.String("uid", id.UID), zap.String("familyCode", code))
	writeJSON(w, http.StatusCreated, profile)
}

type joinFamilyRequest struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	ProfileColor string `json:"profileColor"`
}

// JoinFamily links a member account to an existing family by code.
func (h *Handler) JoinFamily(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)

	if _, err := h.store.Profile(r.Context(), id.UID); err == nil {
		http.Error(w, "Account already belongs to a family", http.StatusConflict)
		return
	} else if err != store.ErrNotFound {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var req joinFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		http.Error(w, "Family code is required", http.StatusBadRequest)
		return
	}
	if _, err := h.store.Ledger(r.Context(), code); err == store.ErrNotFound {
		http.Error(w, "Invalid family code", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = id.Name
	}
	profile := &models.AccountProfile{
		UID:          id.UID,
		Name:         name,
		Email:        id.Email,
		Role:         models.RoleMember,
		ProfileColor: req.ProfileColor,
		FamilyCode:   code,
	}
	if err := h.store.SaveProfile(r.Context(), profile); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Get().Info("member joined family",
		zap.String("uid", id.UID), zap.String("familyCode", code))
	writeJSON(w, http.StatusCreated, profile)
}

// GetProfile returns the caller's account profile, or 404 when the
// account has not created or joined a family yet.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)
	profile, err := h.store.Profile(r.Context(), id.UID)
	if err == store.ErrNotFound {
		http.Error(w, "No account profile", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// SignOut tears down the caller's session so nothing is recomputed or
// published afterwards.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromRequest(r)
	h.sessions.End(id.UID)
	w.WriteHeader(http.StatusNoContent)
}

// newFamilyCode draws 6-digit codes until one is unused.
func (h *Handler) newFamilyCode(r *http.Request) (string, error) {
	for range [5]struct{}{} {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return "", fmt.Errorf("generate family code: %w", err)
		}
		code := fmt.Sprintf("%06d", n.Int64()+100000)
		if _, err := h.store.Ledger(r.Context(), code); err == store.ErrNotFound {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not find a free family code")
}
