package services

import (
	"math"

	"karya-project/microservices/points-service/models"
)

// Konstante bodovanja. Jedno mesto za sve stope — formule su ranije bile
// raskopirane po komponentama sa neusaglašenim vrednostima.
const (
	rdBaseMultiplier       = 5    // R&D zadaci množe osnovne poene pre podele
	collaborationBonusRate = 0.10 // bonus za saradnju kad ima više izvršilaca
	urgentBonusRate        = 0.25 // bonus za hitne zadatke
	onTimeFlatBonus        = 3    // fiksni bonus za završetak u roku
	legacyUrgentFlatBonus  = 5    // staro `urgent` polje, pre migracije

	completionBonusRate   = 0.20 // liderski bonus za završetak tima
	rdCompletionBonusRate = 0.50 // R&D varijanta liderskog bonusa
	fairnessBonusRate     = 0.05 // bonus pravičnosti težine, samo ne-R&D
	leaderOnTimeBonusRate = 0.05 // liderski bonus za završetak u roku
)

// LeadershipBreakdown su komponente liderskih poena za jedan zadatak.
type LeadershipBreakdown struct {
	CompletionBonus    int `json:"completionBonus"`
	DifficultyFairness int `json:"difficultyFairness"`
	OnTimeBonus        int `json:"onTimeBonus"`
	Total              int `json:"total"`
}

// CalculateTaskPoints računa izvršne poene koje jedan izvršilac dobija za zadatak.
// Osnovni poeni se dele ravnomerno na sve izvršioce (round half-up); zadatak bez
// izvršilaca vredi nula. Ne-R&D zadaci dobijaju aditivne bonuse (saradnja, hitnost,
// rok); R&D zadaci umesto toga množe osnovu sa 5 pre podele.
func CalculateTaskPoints(task *models.Task) int {
	assignees := len(task.AssignedUserIDs)
	if assignees == 0 {
		return 0
	}

	base := task.BasePoints()
	if task.IsRdNewSkill {
		base *= rdBaseMultiplier
	}

	perUser := roundHalfUp(float64(base) / float64(assignees))

	total := perUser
	if !task.IsRdNewSkill {
		if assignees > 1 {
			total += roundHalfUp(float64(perUser) * collaborationBonusRate)
		}
		if task.IsUrgent {
			total += roundHalfUp(float64(perUser) * urgentBonusRate)
		}
		if task.CompletedOnTime() {
			total += onTimeFlatBonus
		}
		if task.LegacyUrgent {
			total += legacyUrgentFlatBonus
		}
	}

	if total < 0 {
		return 0
	}
	return total
}

// CalculateLeadershipPoints računa liderske poene za korisnika koji je dodelio
// zadatak, na osnovu već izračunatih izvršnih poena. Poziva se samo za završene
// zadatke sa poznatim assignedById.
//
// R&D zadaci dobijaju 50% izvršnih poena kao completion bonus (umesto 20%), ali
// bez bonusa pravičnosti i roka.
func CalculateLeadershipPoints(task *models.Task, taskExecutionPoints int) LeadershipBreakdown {
	var lb LeadershipBreakdown

	if task.IsRdNewSkill {
		lb.CompletionBonus = roundHalfUp(float64(taskExecutionPoints) * rdCompletionBonusRate)
	} else {
		lb.CompletionBonus = roundHalfUp(float64(taskExecutionPoints) * completionBonusRate)
		lb.DifficultyFairness = roundHalfUp(float64(taskExecutionPoints) * fairnessBonusRate)
		if task.CompletedOnTime() {
			lb.OnTimeBonus = roundHalfUp(float64(taskExecutionPoints) * leaderOnTimeBonusRate)
		}
	}

	lb.Total = lb.CompletionBonus + lb.DifficultyFairness + lb.OnTimeBonus
	return lb
}

// roundHalfUp zaokružuje na najbliži ceo broj, polovina ide naviše.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
