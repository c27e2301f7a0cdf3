package middleware

import (
	"net/http"

	"famledger/models"
	"famledger/store"
)

// RequireProvider guards routes only the family's provider account may
// call, such as budget allocation writes.
func RequireProvider(st store.DocumentStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromRequest(r)
			if !ok {
				http.Error(w, "Unauthorized: No identity found", http.StatusUnauthorized)
				return
			}
			profile, err := st.Profile(r.Context(), id.UID)
			if err == store.ErrNotFound {
				http.Error(w, "Forbidden: No account profile", http.StatusForbidden)
				return
			}
			if err != nil {
				http.Error(w, "Failed to resolve account profile", http.StatusInternalServerError)
				return
			}
			if profile.Role != models.RoleProvider {
				http.Error(w, "Forbidden: Provider role required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
