package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"karya-project/microservices/points-service/logging"
	"karya-project/microservices/points-service/models"
)

// ErrNotAuthorized se vraća kada ručni reset pokrene korisnik koji nije admin.
var ErrNotAuthorized = errors.New("caller is not authorized to trigger weekly reset")

// ResetGuardInterval — zakazani posao je no-op ako je reset već odrađen u
// poslednjih 7 dana, pa su dupli okidači bezopasni.
const ResetGuardInterval = 7 * 24 * time.Hour

// CounterStore nulira nedeljne brojače korisnika. Implementacija sme da primeni
// parcijalnu semantiku: vraća ID-jeve korisnika čiji upis nije uspeo, a ostale
// upisuje normalno.
type CounterStore interface {
	ResetWeeklyCounters(ctx context.Context, resets []models.WeeklyCounterReset) (failed []string, err error)
}

// ArchiveStore čuva nedeljne arhive i globalni marker poslednjeg reseta.
type ArchiveStore interface {
	GetResetMarker(ctx context.Context) (*models.ResetMarker, error)
	SaveWeeklyArchive(ctx context.Context, archive *models.WeeklyArchive) error
	TouchResetMarker(ctx context.Context, at time.Time) error
}

// Notifier šalje obaveštenje svim korisnicima. Best-effort — greška ne sme da
// obori reset.
type Notifier interface {
	NotifyAll(ctx context.Context, message string) error
}

// ResetService arhivira nedeljnu rang listu i nulira nedeljne brojače.
// Ovo je jedina putanja u sistemu koja sme da piše nedeljna polja korisnika.
type ResetService struct {
	tasks    TaskStore
	users    UserStore
	counters CounterStore
	archive  ArchiveStore
	notifier Notifier
	now      func() time.Time
}

func NewResetService(tasks TaskStore, users UserStore, counters CounterStore, archive ArchiveStore, notifier Notifier) *ResetService {
	return &ResetService{
		tasks:    tasks,
		users:    users,
		counters: counters,
		archive:  archive,
		notifier: notifier,
		now:      time.Now,
	}
}

// Run je ulaz za zakazani okidač.
func (s *ResetService) Run(ctx context.Context) error {
	return s.run(ctx, "", false)
}

// RunManual je ulaz za ručni okidač — odbija ne-admin pozivaoce pre bilo
// kakvog čitanja ili upisa.
func (s *ResetService) RunManual(ctx context.Context, caller *models.User) error {
	if caller == nil || !caller.IsAdmin() {
		return ErrNotAuthorized
	}
	return s.run(ctx, caller.ID, true)
}

func (s *ResetService) run(ctx context.Context, resetBy string, manual bool) error {
	now := s.now()

	// Čuvar idempotentnosti: ako marker pokazuje reset u poslednjih 7 dana,
	// ceo posao je no-op.
	marker, err := s.archive.GetResetMarker(ctx)
	if err != nil {
		return fmt.Errorf("failed to read reset marker: %w", err)
	}
	if marker != nil && now.Sub(marker.LastResetAt) < ResetGuardInterval {
		logging.Logger.Infof("Event ID: WEEKLY_RESET_SKIPPED, Description: Last reset was at %s, within guard interval — skipping.", marker.LastResetAt.Format(time.RFC3339))
		return nil
	}

	tasks, err := s.tasks.GetAllTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot tasks: %w", err)
	}
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot users: %w", err)
	}

	week := models.WeekWindow(now)
	ranking := BuildUserRanking(tasks, users, week, false)
	leadership := AggregateLeadershipPoints(tasks, week, false)

	usersByID := make(map[string]*models.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}

	entries := make([]models.ArchiveRankingEntry, 0, len(ranking))
	var topPerformer, topLeader *models.ArchiveRankingEntry
	for _, r := range ranking {
		user, ok := usersByID[r.UserID]
		if !ok {
			continue
		}
		weekSummary := AggregateUserPoints(tasks, user, week, false)
		lp := leadership[r.UserID]

		entry := models.ArchiveRankingEntry{
			UserID:           r.UserID,
			UserName:         r.Name,
			ExecutionPoints:  weekSummary.TaskPoints,
			LeadershipPoints: lp,
			BonusPoints:      weekSummary.BonusPoints,
			TCS:              weekSummary.TaskPoints + lp + weekSummary.BonusPoints,
			CompletedTasks:   weekSummary.CompletedTasks,
			DepartmentID:     r.DepartmentID,
			Rank:             r.Rank,
		}
		entries = append(entries, entry)

		if entry.ExecutionPoints > 0 && (topPerformer == nil || entry.ExecutionPoints > topPerformer.ExecutionPoints) {
			e := entry
			topPerformer = &e
		}
		if entry.LeadershipPoints > 0 && (topLeader == nil || entry.LeadershipPoints > topLeader.LeadershipPoints) {
			e := entry
			topLeader = &e
		}
	}

	archive := &models.WeeklyArchive{
		WeekStart:    *week.Start,
		WeekEnd:      *week.End,
		ArchivedAt:   now,
		Rankings:     entries,
		TotalUsers:   len(users),
		TopPerformer: topPerformer,
		TopLeader:    topLeader,
		ManualReset:  manual,
		ResetBy:      resetBy,
	}

	// Arhiva je obavezna — bez nje ceo reset pada i biće ponovljen na sledećem
	// okidaču (čuvar ga čini bezbednim za ponavljanje).
	if err := s.archive.SaveWeeklyArchive(ctx, archive); err != nil {
		return fmt.Errorf("failed to save weekly archive: %w", err)
	}

	resets := make([]models.WeeklyCounterReset, 0, len(ranking))
	for _, r := range ranking {
		resets = append(resets, models.WeeklyCounterReset{
			UserID:  r.UserID,
			Rank:    r.Rank,
			ResetAt: now,
		})
	}

	// Parcijalni neuspesi se loguju po korisniku i ne obaraju ostatak.
	failed, err := s.counters.ResetWeeklyCounters(ctx, resets)
	if err != nil {
		return fmt.Errorf("failed to reset weekly counters: %w", err)
	}
	for _, userID := range failed {
		logging.Logger.Errorf("Event ID: WEEKLY_RESET_USER_FAILED, Description: Failed to reset weekly counters for user %s.", userID)
	}

	if err := s.archive.TouchResetMarker(ctx, now); err != nil {
		return fmt.Errorf("failed to update reset marker: %w", err)
	}

	// Obaveštenje je best-effort: neuspeh se loguje i ne poništava reset.
	if s.notifier != nil {
		if err := s.notifier.NotifyAll(ctx, "Weekly leaderboard has been reset. A new week starts now!"); err != nil {
			logging.Logger.Warnf("Event ID: WEEKLY_RESET_NOTIFY_FAILED, Description: Failed to notify users after reset: %v", err)
		}
	}

	logging.Logger.Infof("Event ID: WEEKLY_RESET_DONE, Description: Weekly reset archived %d rankings for week %s - %s (manual=%v).",
		len(entries), week.Start.Format("2006-01-02"), week.End.Format("2006-01-02"), manual)
	return nil
}
