package services

import (
	"karya-project/microservices/points-service/models"
	"karya-project/microservices/points-service/utils"
)

// countsForViewer je jedino mesto koje odlučuje da li zadatak ulazi u agregaciju.
// Završeni zadaci ulaze uvek; obrisani zadaci koji su pre brisanja bili završeni
// (imaju completedAt) vidljivi su samo adminu. Sve ostalo se preskače.
func countsForViewer(task *models.Task, viewerIsAdmin bool) bool {
	if task.Status == models.StatusComplete {
		return true
	}
	if task.Status == models.StatusDeleted && viewerIsAdmin {
		_, completed := utils.ResolveTimestamp(task.CompletedAt)
		return completed
	}
	return false
}

// inWindow proverava da li zadatak upada u prozor po rešenom datumu završetka.
// Zadatak bez parsirajućeg datuma ulazi samo u neograničene (all-time) prozore.
func inWindow(task *models.Task, window models.Window) bool {
	completedAt, ok := task.CompletionTime()
	if !ok {
		return !window.Bounded()
	}
	return window.Contains(completedAt)
}

// assignedTo proverava da li je korisnik među izvršiocima zadatka.
func assignedTo(task *models.Task, userID string) bool {
	for _, id := range task.AssignedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AggregateUserPoints sabira izvršne i bonus poene jednog korisnika za dati prozor.
// Neispravni zadaci (bez izvršilaca, bez datuma, nepoznata težina) ne obaraju
// agregaciju — doprinose nula poena ili podrazumevane vrednosti.
func AggregateUserPoints(tasks []models.Task, user *models.User, window models.Window, viewerIsAdmin bool) models.PointsSummary {
	summary := models.PointsSummary{UserID: user.ID}

	for i := range tasks {
		task := &tasks[i]
		if !assignedTo(task, user.ID) {
			continue
		}
		if !countsForViewer(task, viewerIsAdmin) {
			continue
		}
		if !inWindow(task, window) {
			continue
		}
		summary.TaskPoints += CalculateTaskPoints(task)
		summary.CompletedTasks++
	}

	summary.BonusPoints = sumBonusLedger(user, window)
	summary.TotalPoints = summary.TaskPoints + summary.BonusPoints
	return summary
}

// sumBonusLedger sabira dnevne bonus unose čiji ključ (datum) upada u prozor.
// Unosi eksplicitno označeni kao neupotrebljivi se preskaču.
func sumBonusLedger(user *models.User, window models.Window) int {
	total := 0
	for key, entry := range user.DailyBonusLedger {
		if !entry.Usable() {
			continue
		}
		day, ok := utils.ParseBonusDateKey(key)
		if !ok {
			continue
		}
		if window.Contains(day) {
			total += entry.Points
		}
	}
	return total
}

// AggregateLeadershipPoints sabira liderske poene po korisniku koji je zadatke
// dodelio, za dati prozor. Zadaci bez assignedById se preskaču.
func AggregateLeadershipPoints(tasks []models.Task, window models.Window, viewerIsAdmin bool) map[string]int {
	totals := make(map[string]int)

	for i := range tasks {
		task := &tasks[i]
		if task.AssignedByID == "" {
			continue
		}
		if !countsForViewer(task, viewerIsAdmin) {
			continue
		}
		if !inWindow(task, window) {
			continue
		}
		ep := CalculateTaskPoints(task)
		totals[task.AssignedByID] += CalculateLeadershipPoints(task, ep).Total
	}

	return totals
}
