package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"karya-project/microservices/points-service/logging"
	"karya-project/microservices/points-service/models"
	"karya-project/microservices/points-service/services"
)

// ArchiveLister daje pristup istoriji nedeljnih arhiva za prikaz.
type ArchiveLister interface {
	GetWeeklyArchives(ctx context.Context, limit int64) ([]models.WeeklyArchive, error)
}

type PointsHandler struct {
	ranking  *services.RankingService
	archives ArchiveLister
}

func NewPointsHandler(ranking *services.RankingService, archives ArchiveLister) *PointsHandler {
	return &PointsHandler{ranking: ranking, archives: archives}
}

func checkRole(r *http.Request, allowedRoles []string) error {
	userRole := r.Header.Get("Role")
	if userRole == "" {
		return fmt.Errorf("role is missing in request header")
	}

	// Proveri da li je uloga dozvoljena
	for _, role := range allowedRoles {
		if role == userRole {
			return nil
		}
	}
	return fmt.Errorf("access forbidden: user does not have the required role")
}

// viewerIsAdmin — vidljivost obrisanih zadataka zavisi od uloge posmatrača.
func viewerIsAdmin(r *http.Request) bool {
	return r.Header.Get("Role") == string(models.RoleAdmin)
}

// GetUserSummary vraća preseke poena korisnika za danas/nedelju/mesec/ukupno.
func (h *PointsHandler) GetUserSummary(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"admin", "management", "head", "user"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	vars := mux.Vars(r)
	userID := vars["userId"]
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	summary, err := h.ranking.GetUserSummary(r.Context(), userID, viewerIsAdmin(r))
	if err != nil {
		logging.Logger.Errorf("Event ID: SUMMARY_FETCH_FAILED, Description: Failed to build summary for user %s: %v", userID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// GetLeaderboard vraća kompletnu korisničku rang listu za traženi period.
// Top-N isecanje je posao prikaza, lista se vraća cela.
func (h *PointsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"admin", "management", "head", "user"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "week"
	}

	ranking, err := h.ranking.GetUserRanking(r.Context(), period, viewerIsAdmin(r))
	if err != nil {
		logging.Logger.Errorf("Event ID: LEADERBOARD_FETCH_FAILED, Description: Failed to build leaderboard: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ranking)
}

// GetMyRank vraća rang jednog korisnika; 0 znači nerangiran.
func (h *PointsHandler) GetMyRank(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"admin", "management", "head", "user"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	vars := mux.Vars(r)
	userID := vars["userId"]

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "week"
	}

	rank, err := h.ranking.GetUserRank(r.Context(), userID, period, viewerIsAdmin(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"userId": userID,
		"period": period,
		"rank":   rank,
	})
}

// GetDepartmentRanking vraća departmansku rang listu.
func (h *PointsHandler) GetDepartmentRanking(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"admin", "management", "head", "user"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	ranking, err := h.ranking.GetDepartmentRanking(r.Context(), viewerIsAdmin(r))
	if err != nil {
		logging.Logger.Errorf("Event ID: DEPARTMENT_RANKING_FAILED, Description: Failed to build department ranking: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ranking)
}

// GetWeeklyArchives vraća istoriju nedeljnih arhiva, najnovije prve.
func (h *PointsHandler) GetWeeklyArchives(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"admin", "management"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	archives, err := h.archives.GetWeeklyArchives(r.Context(), 12)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(archives)
}
