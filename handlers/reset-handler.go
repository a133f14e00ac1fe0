package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"karya-project/microservices/points-service/logging"
	"karya-project/microservices/points-service/services"
)

type ResetHandler struct {
	reset *services.ResetService
	users services.UserStore
}

func NewResetHandler(reset *services.ResetService, users services.UserStore) *ResetHandler {
	return &ResetHandler{reset: reset, users: users}
}

// ManualReset ručno pokreće nedeljni reset. Dozvoljeno samo adminu — odbija se
// pre bilo kakvog računanja ili upisa.
func (h *ResetHandler) ManualReset(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"admin"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	callerID := r.Header.Get("User-ID")
	if callerID == "" {
		http.Error(w, "User-ID header is required", http.StatusBadRequest)
		return
	}

	// Uloga iz headera nije dovoljna — proveri korisnika i u bazi.
	caller, err := h.users.GetUserByID(r.Context(), callerID)
	if err != nil {
		http.Error(w, "caller not found", http.StatusUnauthorized)
		return
	}

	if err := h.reset.RunManual(r.Context(), caller); err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			http.Error(w, "Access forbidden: only admins may trigger a reset", http.StatusForbidden)
			return
		}
		logging.Logger.Errorf("Event ID: MANUAL_RESET_FAILED, Description: Manual reset by %s failed: %v", callerID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logging.Logger.Infof("Event ID: MANUAL_RESET_DONE, Description: Manual weekly reset triggered by %s.", callerID)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Weekly reset completed successfully"})
}
