package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"karya-project/microservices/points-service/models"
)

type fakeTaskStore struct {
	tasks []models.Task
	calls int
}

func (f *fakeTaskStore) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	f.calls++
	return f.tasks, nil
}

type fakeUserStore struct {
	users []models.User
}

func (f *fakeUserStore) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == userID {
			return &f.users[i], nil
		}
	}
	return nil, errors.New("user not found")
}

type fakeCounterStore struct {
	resetBatches [][]models.WeeklyCounterReset
	failIDs      []string
}

func (f *fakeCounterStore) ResetWeeklyCounters(ctx context.Context, resets []models.WeeklyCounterReset) ([]string, error) {
	f.resetBatches = append(f.resetBatches, resets)
	return f.failIDs, nil
}

type fakeArchiveStore struct {
	marker   *models.ResetMarker
	archives []*models.WeeklyArchive
	saveErr  error
}

func (f *fakeArchiveStore) GetResetMarker(ctx context.Context) (*models.ResetMarker, error) {
	return f.marker, nil
}

func (f *fakeArchiveStore) SaveWeeklyArchive(ctx context.Context, archive *models.WeeklyArchive) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.archives = append(f.archives, archive)
	return nil
}

func (f *fakeArchiveStore) TouchResetMarker(ctx context.Context, at time.Time) error {
	count := 1
	if f.marker != nil {
		count = f.marker.ResetCount + 1
	}
	f.marker = &models.ResetMarker{LastResetAt: at, ResetCount: count}
	return nil
}

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) NotifyAll(ctx context.Context, message string) error {
	f.calls++
	return f.err
}

func newResetFixture() (*ResetService, *fakeTaskStore, *fakeCounterStore, *fakeArchiveStore, *fakeNotifier) {
	tasks := &fakeTaskStore{tasks: []models.Task{
		{Difficulty: models.DifficultyHard, Status: models.StatusComplete, AssignedUserIDs: []string{"u1"}, AssignedByID: "u2", CompletedAt: testNow, DepartmentID: "eng"},
		{Difficulty: models.DifficultyMedium, Status: models.StatusComplete, AssignedUserIDs: []string{"u2"}, CompletedAt: testNow},
	}}
	users := &fakeUserStore{users: []models.User{
		{ID: "u1", Name: "Ana", Role: models.RoleUser, DepartmentIDs: []string{"eng"}},
		{ID: "u2", Name: "Boris", Role: models.RoleHead},
		{ID: "admin", Name: "Ceca", Role: models.RoleAdmin},
	}}
	counters := &fakeCounterStore{}
	archive := &fakeArchiveStore{}
	notifier := &fakeNotifier{}

	service := NewResetService(tasks, users, counters, archive, notifier)
	service.now = func() time.Time { return testNow }
	return service, tasks, counters, archive, notifier
}

func TestResetService_Run(t *testing.T) {
	service, _, counters, archive, notifier := newResetFixture()

	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(archive.archives) != 1 {
		t.Fatalf("archives = %d, want 1", len(archive.archives))
	}
	record := archive.archives[0]

	week := models.WeekWindow(testNow)
	if !record.WeekStart.Equal(*week.Start) || !record.WeekEnd.Equal(*week.End) {
		t.Errorf("archive window = %v - %v, want %v - %v", record.WeekStart, record.WeekEnd, week.Start, week.End)
	}
	if record.TotalUsers != 3 {
		t.Errorf("TotalUsers = %d, want 3", record.TotalUsers)
	}
	if len(record.Rankings) != 3 {
		t.Fatalf("rankings = %d, want 3", len(record.Rankings))
	}
	if record.ManualReset {
		t.Errorf("scheduled run must not be tagged manual")
	}

	byUser := make(map[string]models.ArchiveRankingEntry)
	for _, entry := range record.Rankings {
		byUser[entry.UserID] = entry
	}
	u1 := byUser["u1"]
	if u1.ExecutionPoints != 50 {
		t.Errorf("u1 EP = %d, want 50", u1.ExecutionPoints)
	}
	u2 := byUser["u2"]
	if u2.ExecutionPoints != 25 {
		t.Errorf("u2 EP = %d, want 25", u2.ExecutionPoints)
	}
	// u2 je dodelio hard zadatak: LP = round(50*0.2) + round(50*0.05) = 10 + 3.
	if u2.LeadershipPoints != 13 {
		t.Errorf("u2 LP = %d, want 13", u2.LeadershipPoints)
	}
	if u2.TCS != 25+13 {
		t.Errorf("u2 TCS = %d, want 38", u2.TCS)
	}

	if record.TopPerformer == nil || record.TopPerformer.UserID != "u1" {
		t.Errorf("TopPerformer = %+v, want u1", record.TopPerformer)
	}
	if record.TopLeader == nil || record.TopLeader.UserID != "u2" {
		t.Errorf("TopLeader = %+v, want u2", record.TopLeader)
	}

	if len(counters.resetBatches) != 1 || len(counters.resetBatches[0]) != 3 {
		t.Errorf("counter resets = %+v, want one batch of 3", counters.resetBatches)
	}
	if archive.marker == nil || !archive.marker.LastResetAt.Equal(testNow) || archive.marker.ResetCount != 1 {
		t.Errorf("marker = %+v", archive.marker)
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.calls)
	}
}

func TestResetService_IdempotentWithinGuard(t *testing.T) {
	service, _, counters, archive, _ := newResetFixture()

	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	// Drugi okidač u okviru čuvara — mora da bude no-op.
	service.now = func() time.Time { return testNow.Add(time.Hour) }
	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if len(archive.archives) != 1 {
		t.Errorf("archives = %d, want 1 (duplicate trigger archived again)", len(archive.archives))
	}
	if len(counters.resetBatches) != 1 {
		t.Errorf("counter batches = %d, want 1", len(counters.resetBatches))
	}
	if archive.marker.ResetCount != 1 {
		t.Errorf("marker count = %d, want 1", archive.marker.ResetCount)
	}

	// Posle isteka čuvara reset ponovo prolazi.
	service.now = func() time.Time { return testNow.Add(ResetGuardInterval + time.Hour) }
	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("third Run() error = %v", err)
	}
	if len(archive.archives) != 2 {
		t.Errorf("archives after guard expiry = %d, want 2", len(archive.archives))
	}
}

func TestResetService_ArchiveFailureIsFatal(t *testing.T) {
	service, _, counters, archive, notifier := newResetFixture()
	archive.saveErr = errors.New("mongo down")

	err := service.Run(context.Background())
	if err == nil {
		t.Fatalf("Run() succeeded despite archive failure")
	}
	if len(counters.resetBatches) != 0 {
		t.Errorf("counters were reset despite archive failure")
	}
	if archive.marker != nil {
		t.Errorf("marker was touched despite archive failure")
	}
	if notifier.calls != 0 {
		t.Errorf("notification sent despite archive failure")
	}
}

func TestResetService_PartialCounterFailureContinues(t *testing.T) {
	service, _, counters, archive, notifier := newResetFixture()
	counters.failIDs = []string{"u1"}

	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil (partial failures are logged, not fatal)", err)
	}
	if len(archive.archives) != 1 {
		t.Errorf("archive missing after partial counter failure")
	}
	if archive.marker == nil {
		t.Errorf("marker not touched after partial counter failure")
	}
	if notifier.calls != 1 {
		t.Errorf("notification not sent after partial counter failure")
	}
}

func TestResetService_NotifierFailureDoesNotRollBack(t *testing.T) {
	service, _, _, archive, notifier := newResetFixture()
	notifier.err = errors.New("notifications service unreachable")

	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil (notification is best-effort)", err)
	}
	if len(archive.archives) != 1 || archive.marker == nil {
		t.Errorf("reset rolled back on notification failure")
	}
}

func TestResetService_ManualReset(t *testing.T) {
	service, tasks, _, archive, _ := newResetFixture()

	// Ne-admin se odbija pre bilo kakvog čitanja.
	readsBefore := tasks.calls
	err := service.RunManual(context.Background(), &models.User{ID: "u1", Role: models.RoleUser})
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("RunManual() by non-admin = %v, want ErrNotAuthorized", err)
	}
	if tasks.calls != readsBefore {
		t.Errorf("task snapshot read before authorization check")
	}
	if len(archive.archives) != 0 {
		t.Errorf("archive written for unauthorized caller")
	}

	// Admin prolazi i arhiva nosi oznaku ručnog reseta.
	err = service.RunManual(context.Background(), &models.User{ID: "admin", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("RunManual() by admin error = %v", err)
	}
	if len(archive.archives) != 1 {
		t.Fatalf("archives = %d, want 1", len(archive.archives))
	}
	record := archive.archives[0]
	if !record.ManualReset || record.ResetBy != "admin" {
		t.Errorf("manual archive tags = manualReset:%v resetBy:%q", record.ManualReset, record.ResetBy)
	}
}
