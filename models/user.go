package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleManagement UserRole = "management"
	RoleHead       UserRole = "head"
	RoleUser       UserRole = "user"
)

// BonusEntry je ručno/eksterno dodeljen bonus za konkretan dan, nezavisan od zadataka.
type BonusEntry struct {
	Points         int   `json:"points" bson:"points"`
	ExpirationDays int   `json:"expirationDays,omitempty" bson:"expirationDays,omitempty"`
	IsUsable       *bool `json:"isUsable,omitempty" bson:"isUsable,omitempty"`
}

// Usable vraća false samo kada je unos eksplicitno označen kao neupotrebljiv.
func (b BonusEntry) Usable() bool {
	return b.IsUsable == nil || *b.IsUsable
}

type User struct {
	ID                string                `json:"id" bson:"_id"`
	Name              string                `json:"name" bson:"name"`
	Email             string                `json:"email,omitempty" bson:"email,omitempty"`
	Role              UserRole              `json:"role" bson:"role"`
	DepartmentIDs     []string              `json:"departmentIds" bson:"departmentIds"`
	DailyBonusLedger  map[string]BonusEntry `json:"dailyBonusLedger,omitempty" bson:"dailyBonusLedger,omitempty"`
	DailyPointsTarget int                   `json:"dailyPointsTarget" bson:"dailyPointsTarget"`
	Streak            int                   `json:"streak" bson:"streak"`

	// Nedeljni brojači — upisuje ih isključivo weekly reset, niko drugi.
	WeeklyExecutionPoints  int        `json:"weeklyExecutionPoints" bson:"weeklyExecutionPoints"`
	WeeklyLeadershipPoints int        `json:"weeklyLeadershipPoints" bson:"weeklyLeadershipPoints"`
	WeeklyBonusPoints      int        `json:"weeklyBonusPoints" bson:"weeklyBonusPoints"`
	WeeklyTCS              int        `json:"weeklyTCS" bson:"weeklyTCS"`
	WeeklyCompletedTasks   int        `json:"weeklyCompletedTasks" bson:"weeklyCompletedTasks"`
	WeeklyRank             *int       `json:"weeklyRank" bson:"weeklyRank"`
	WeeklyRankLastWeek     int        `json:"weeklyRankLastWeek,omitempty" bson:"weeklyRankLastWeek,omitempty"`
	LastWeeklyReset        *time.Time `json:"lastWeeklyReset,omitempty" bson:"lastWeeklyReset,omitempty"`
}

// IsAdmin — samo admin sme da vidi obrisane zadatke i da ručno pokrene reset.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PrimaryDepartmentID vraća prvi departman korisnika, ili "unassigned" ako ga nema.
func (u *User) PrimaryDepartmentID() string {
	if len(u.DepartmentIDs) > 0 && u.DepartmentIDs[0] != "" {
		return u.DepartmentIDs[0]
	}
	return UnassignedDepartmentID
}
