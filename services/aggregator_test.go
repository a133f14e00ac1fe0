package services

import (
	"testing"
	"time"

	"karya-project/microservices/points-service/models"
)

// Sreda, 19. avgust 2026 — nedelja je 17.08 (pon) do 23.08 (ned).
var testNow = time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC)

func completedTask(userIDs []string, completedAt time.Time) models.Task {
	return models.Task{
		Difficulty:      models.DifficultyHard,
		Status:          models.StatusComplete,
		AssignedUserIDs: userIDs,
		CompletedAt:     completedAt,
	}
}

func TestAggregateUserPoints_WindowBoundaries(t *testing.T) {
	window := models.WeekWindow(testNow)
	user := models.User{ID: "u1", Name: "Ana"}

	tests := []struct {
		name        string
		completedAt time.Time
		wantTasks   int
	}{
		{"inside window", testNow, 1},
		{"exactly at window start", *window.Start, 1},
		{"exactly at window end", *window.End, 1},
		{"one microsecond after window end", window.End.Add(time.Microsecond), 0},
		{"before window start", window.Start.Add(-time.Nanosecond), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []models.Task{completedTask([]string{"u1"}, tt.completedAt)}
			summary := AggregateUserPoints(tasks, &user, window, false)
			if summary.CompletedTasks != tt.wantTasks {
				t.Errorf("CompletedTasks = %d, want %d", summary.CompletedTasks, tt.wantTasks)
			}
		})
	}
}

func TestAggregateUserPoints_CompletionDateFallbackChain(t *testing.T) {
	window := models.WeekWindow(testNow)
	user := models.User{ID: "u1"}
	inside := testNow
	outside := testNow.AddDate(0, 0, -30)

	tests := []struct {
		name      string
		task      models.Task
		wantTasks int
	}{
		{
			name: "completedAt wins over updatedAt",
			task: models.Task{
				Status: models.StatusComplete, AssignedUserIDs: []string{"u1"},
				CompletedAt: outside, UpdatedAt: inside,
			},
			wantTasks: 0,
		},
		{
			name: "updatedAt used when completedAt missing",
			task: models.Task{
				Status: models.StatusComplete, AssignedUserIDs: []string{"u1"},
				UpdatedAt: inside,
			},
			wantTasks: 1,
		},
		{
			name: "createdAt used when first two missing",
			task: models.Task{
				Status: models.StatusComplete, AssignedUserIDs: []string{"u1"},
				CreatedAt: inside,
			},
			wantTasks: 1,
		},
		{
			name: "timestamp is the last resort",
			task: models.Task{
				Status: models.StatusComplete, AssignedUserIDs: []string{"u1"},
				Timestamp: inside,
			},
			wantTasks: 1,
		},
		{
			name: "unparseable garbage skips the field",
			task: models.Task{
				Status: models.StatusComplete, AssignedUserIDs: []string{"u1"},
				CompletedAt: "not-a-date", UpdatedAt: inside,
			},
			wantTasks: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := AggregateUserPoints([]models.Task{tt.task}, &user, window, false)
			if summary.CompletedTasks != tt.wantTasks {
				t.Errorf("CompletedTasks = %d, want %d", summary.CompletedTasks, tt.wantTasks)
			}
		})
	}
}

func TestAggregateUserPoints_UnresolvableDateCountsOnlyAllTime(t *testing.T) {
	user := models.User{ID: "u1"}
	task := models.Task{Status: models.StatusComplete, AssignedUserIDs: []string{"u1"}}

	bounded := AggregateUserPoints([]models.Task{task}, &user, models.WeekWindow(testNow), false)
	if bounded.CompletedTasks != 0 {
		t.Errorf("bounded window CompletedTasks = %d, want 0", bounded.CompletedTasks)
	}

	allTime := AggregateUserPoints([]models.Task{task}, &user, models.AllTimeWindow(), false)
	if allTime.CompletedTasks != 1 {
		t.Errorf("all-time CompletedTasks = %d, want 1", allTime.CompletedTasks)
	}
	if allTime.TaskPoints != 50 {
		t.Errorf("all-time TaskPoints = %d, want 50", allTime.TaskPoints)
	}
}

func TestAggregateUserPoints_StatusFilter(t *testing.T) {
	window := models.AllTimeWindow()
	user := models.User{ID: "u1"}

	for _, status := range []models.TaskStatus{models.StatusPending, models.StatusOngoing, models.StatusRejected} {
		task := models.Task{Status: status, AssignedUserIDs: []string{"u1"}, CompletedAt: testNow}
		summary := AggregateUserPoints([]models.Task{task}, &user, window, false)
		if summary.CompletedTasks != 0 {
			t.Errorf("status %s contributed to aggregation", status)
		}
	}
}

func TestAggregateUserPoints_DeletedTaskVisibility(t *testing.T) {
	window := models.AllTimeWindow()
	user := models.User{ID: "u1"}
	deleted := models.Task{Status: models.StatusDeleted, AssignedUserIDs: []string{"u1"}, CompletedAt: testNow}

	asUser := AggregateUserPoints([]models.Task{deleted}, &user, window, false)
	if asUser.CompletedTasks != 0 {
		t.Errorf("non-admin viewer sees deleted task")
	}

	asAdmin := AggregateUserPoints([]models.Task{deleted}, &user, window, true)
	if asAdmin.CompletedTasks != 1 {
		t.Errorf("admin viewer does not see completed-then-deleted task")
	}

	// Obrisan zadatak koji nikad nije završen ne vidi niko.
	neverDone := models.Task{Status: models.StatusDeleted, AssignedUserIDs: []string{"u1"}}
	asAdmin = AggregateUserPoints([]models.Task{neverDone}, &user, window, true)
	if asAdmin.CompletedTasks != 0 {
		t.Errorf("admin viewer sees deleted task that was never completed")
	}
}

func TestAggregateUserPoints_BonusLedger(t *testing.T) {
	window := models.WeekWindow(testNow)
	notUsable := false
	user := models.User{
		ID: "u1",
		DailyBonusLedger: map[string]models.BonusEntry{
			"2026-08-18": {Points: 20},                       // u nedelji
			"2026-08-10": {Points: 15},                       // prethodna nedelja
			"2026-08-19": {Points: 10, IsUsable: &notUsable}, // neupotrebljiv
			"garbage":    {Points: 99},                       // neparsirajući ključ
		},
	}

	summary := AggregateUserPoints(nil, &user, window, false)
	if summary.BonusPoints != 20 {
		t.Errorf("BonusPoints = %d, want 20", summary.BonusPoints)
	}

	allTime := AggregateUserPoints(nil, &user, models.AllTimeWindow(), false)
	if allTime.BonusPoints != 35 {
		t.Errorf("all-time BonusPoints = %d, want 35", allTime.BonusPoints)
	}
	if allTime.TotalPoints != 35 {
		t.Errorf("all-time TotalPoints = %d, want 35", allTime.TotalPoints)
	}
}

func TestAggregateUserPoints_OnlyAssignedTasksCount(t *testing.T) {
	window := models.AllTimeWindow()
	user := models.User{ID: "u1"}
	tasks := []models.Task{
		completedTask([]string{"u2"}, testNow),
		completedTask([]string{"u2", "u3"}, testNow),
	}
	summary := AggregateUserPoints(tasks, &user, window, false)
	if summary.CompletedTasks != 0 || summary.TaskPoints != 0 {
		t.Errorf("got %+v, want zero contribution", summary)
	}
}

func TestAggregateLeadershipPoints(t *testing.T) {
	window := models.AllTimeWindow()
	due := testNow.Add(time.Hour)

	tasks := []models.Task{
		{
			Difficulty: models.DifficultyHard, Status: models.StatusComplete,
			AssignedUserIDs: []string{"u1"}, AssignedByID: "lead",
			CompletedAt: testNow, TargetDate: due,
		},
		{
			Difficulty: models.DifficultyMedium, Status: models.StatusComplete,
			AssignedUserIDs: []string{"u2"}, AssignedByID: "lead",
			CompletedAt: testNow,
		},
		// Bez assignedById — ne pripisuje se nikom.
		{
			Difficulty: models.DifficultyEasy, Status: models.StatusComplete,
			AssignedUserIDs: []string{"u3"}, CompletedAt: testNow,
		},
	}

	totals := AggregateLeadershipPoints(tasks, window, false)

	// Prvi zadatak: EP=53 (50 + rok 3), LP = 11 + 3 + 3 = 17.
	// Drugi: EP=25, LP = 5 + 1 = 6. Ukupno za lead-a: 23.
	if got := totals["lead"]; got != 23 {
		t.Errorf("leadership total = %d, want 23", got)
	}
	if len(totals) != 1 {
		t.Errorf("unexpected leadership entries: %v", totals)
	}
}
