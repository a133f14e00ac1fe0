package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"karya-project/microservices/points-service/models"
)

// TaskStore i UserStore su pogled servisa na sloj skladišta; Mongo implementacije
// žive u repositories paketu, testovi koriste in-memory zamene.
type TaskStore interface {
	GetAllTasks(ctx context.Context) ([]models.Task, error)
}

type UserStore interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// RankingService izlaže rang liste i preseke poena nad snimkom iz skladišta.
type RankingService struct {
	tasks TaskStore
	users UserStore
}

func NewRankingService(tasks TaskStore, users UserStore) *RankingService {
	return &RankingService{tasks: tasks, users: users}
}

// BuildUserRanking pravi kompletnu korisničku rang listu za dati prozor.
// Redosled je totalan i deterministički: poeni prozora opadajuće, pa all-time
// poeni opadajuće, pa ID korisnika rastuće — permutacija ulaza ne menja izlaz.
func BuildUserRanking(tasks []models.Task, users []models.User, window models.Window, viewerIsAdmin bool) []models.UserRankingEntry {
	allTime := models.AllTimeWindow()
	entries := make([]models.UserRankingEntry, 0, len(users))

	for i := range users {
		user := &users[i]
		windowSummary := AggregateUserPoints(tasks, user, window, viewerIsAdmin)
		allTimeSummary := AggregateUserPoints(tasks, user, allTime, viewerIsAdmin)

		entries = append(entries, models.UserRankingEntry{
			UserID:         user.ID,
			Name:           user.Name,
			TotalPoints:    allTimeSummary.TotalPoints,
			WeekPoints:     windowSummary.TotalPoints,
			CompletedTasks: allTimeSummary.CompletedTasks,
			WeeklyTasks:    windowSummary.CompletedTasks,
			DepartmentID:   user.PrimaryDepartmentID(),
		})
	}

	slices.SortFunc(entries, func(a, b models.UserRankingEntry) int {
		if c := cmp.Compare(b.WeekPoints, a.WeekPoints); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

// RankForUser vraća rang korisnika u listi, ili 0 ako ga nema.
func RankForUser(entries []models.UserRankingEntry, userID string) int {
	for _, entry := range entries {
		if entry.UserID == userID {
			return entry.Rank
		}
	}
	return 0
}

type departmentBucket struct {
	totalPoints int
	monthPoints int
	totalTasks  int
	userIDs     map[string]struct{}
}

// BuildDepartmentRanking grupiše završene zadatke po departmanu i pravi
// departmansku rang listu. Zadaci bez departmana idu u sintetički "unassigned"
// bucket; bonus ledger korisnika se pripisuje njegovom primarnom departmanu.
func BuildDepartmentRanking(tasks []models.Task, users []models.User, now time.Time, viewerIsAdmin bool) []models.DepartmentRankingEntry {
	monthWindow := models.MonthWindow(now)
	allTime := models.AllTimeWindow()
	buckets := make(map[string]*departmentBucket)

	bucketFor := func(departmentID string) *departmentBucket {
		if departmentID == "" {
			departmentID = models.UnassignedDepartmentID
		}
		b, ok := buckets[departmentID]
		if !ok {
			b = &departmentBucket{userIDs: make(map[string]struct{})}
			buckets[departmentID] = b
		}
		return b
	}

	for i := range tasks {
		task := &tasks[i]
		if !countsForViewer(task, viewerIsAdmin) {
			continue
		}

		b := bucketFor(task.DepartmentID)
		pts := CalculateTaskPoints(task)

		b.totalTasks++
		b.totalPoints += pts
		if inWindow(task, monthWindow) {
			b.monthPoints += pts
		}
		for _, userID := range task.AssignedUserIDs {
			b.userIDs[userID] = struct{}{}
		}
	}

	// Bonus poeni korisnika se slivaju u njegov primarni departman.
	for i := range users {
		user := &users[i]
		bonusAllTime := sumBonusLedger(user, allTime)
		if bonusAllTime == 0 {
			continue
		}
		b := bucketFor(user.PrimaryDepartmentID())
		b.totalPoints += bonusAllTime
		b.monthPoints += sumBonusLedger(user, monthWindow)
	}

	entries := make([]models.DepartmentRankingEntry, 0, len(buckets))
	for departmentID, b := range buckets {
		entry := models.DepartmentRankingEntry{
			DepartmentID: departmentID,
			TotalPoints:  b.totalPoints,
			MonthPoints:  b.monthPoints,
			TotalUsers:   len(b.userIDs),
			TotalTasks:   b.totalTasks,
		}
		if entry.TotalUsers > 0 {
			entry.AvgPointsPerUser = float64(entry.TotalPoints) / float64(entry.TotalUsers)
		}
		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b models.DepartmentRankingEntry) int {
		if c := cmp.Compare(b.MonthPoints, a.MonthPoints); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
			return c
		}
		return cmp.Compare(a.DepartmentID, b.DepartmentID)
	})

	return entries
}

// GetUserRanking dohvata snimak iz skladišta i pravi rang listu za traženi period.
func (s *RankingService) GetUserRanking(ctx context.Context, period string, viewerIsAdmin bool) ([]models.UserRankingEntry, error) {
	tasks, users, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	window := models.WindowForPeriod(period, time.Now())
	return BuildUserRanking(tasks, users, window, viewerIsAdmin), nil
}

// GetUserRank vraća rang jednog korisnika za traženi period (0 = nerangiran).
func (s *RankingService) GetUserRank(ctx context.Context, userID, period string, viewerIsAdmin bool) (int, error) {
	ranking, err := s.GetUserRanking(ctx, period, viewerIsAdmin)
	if err != nil {
		return 0, err
	}
	return RankForUser(ranking, userID), nil
}

// GetDepartmentRanking dohvata snimak i pravi departmansku rang listu.
func (s *RankingService) GetDepartmentRanking(ctx context.Context, viewerIsAdmin bool) ([]models.DepartmentRankingEntry, error) {
	tasks, users, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return BuildDepartmentRanking(tasks, users, time.Now(), viewerIsAdmin), nil
}

// GetUserSummary vraća preseke poena korisnika za sva četiri prozora.
func (s *RankingService) GetUserSummary(ctx context.Context, userID string, viewerIsAdmin bool) (map[string]models.PointsSummary, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	tasks, err := s.tasks.GetAllTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	now := time.Now()
	return map[string]models.PointsSummary{
		"today": AggregateUserPoints(tasks, user, models.TodayWindow(now), viewerIsAdmin),
		"week":  AggregateUserPoints(tasks, user, models.WeekWindow(now), viewerIsAdmin),
		"month": AggregateUserPoints(tasks, user, models.MonthWindow(now), viewerIsAdmin),
		"all":   AggregateUserPoints(tasks, user, models.AllTimeWindow(), viewerIsAdmin),
	}, nil
}

func (s *RankingService) snapshot(ctx context.Context) ([]models.Task, []models.User, error) {
	tasks, err := s.tasks.GetAllTasks(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get users: %w", err)
	}
	return tasks, users, nil
}
