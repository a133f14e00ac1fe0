package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"karya-project/microservices/points-service/utils"
)

type TaskStatus string

const (
	StatusPending  TaskStatus = "pending"
	StatusOngoing  TaskStatus = "ongoing"
	StatusComplete TaskStatus = "complete"
	StatusRejected TaskStatus = "rejected"
	StatusDeleted  TaskStatus = "deleted"
)

type TaskDifficulty string

const (
	DifficultyEasy     TaskDifficulty = "easy"
	DifficultyMedium   TaskDifficulty = "medium"
	DifficultyHard     TaskDifficulty = "hard"
	DifficultyCritical TaskDifficulty = "critical"
)

// DifficultyBasePoints mapira težinu zadatka na osnovne poene.
var DifficultyBasePoints = map[TaskDifficulty]int{
	DifficultyEasy:     10,
	DifficultyMedium:   25,
	DifficultyHard:     50,
	DifficultyCritical: 100,
}

// DefaultBasePoints se koristi kada zadatak nema ni težinu ni eksplicitne poene.
const DefaultBasePoints = 50

type Task struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	AssignedUserIDs []string           `json:"assignedUserIds" bson:"assignedUserIds"`
	AssignedByID    string             `json:"assignedById,omitempty" bson:"assignedById,omitempty"`
	Status          TaskStatus         `json:"status" bson:"status"`
	Difficulty      TaskDifficulty     `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	Points          *float64           `json:"points,omitempty" bson:"points,omitempty"`
	IsUrgent        bool               `json:"isUrgent" bson:"isUrgent"`
	LegacyUrgent    bool               `json:"urgent,omitempty" bson:"urgent,omitempty"` // staro polje, pre migracije
	IsRdNewSkill    bool               `json:"isRdNewSkill" bson:"isRdNewSkill"`
	DepartmentID    string             `json:"departmentId,omitempty" bson:"departmentId,omitempty"`

	// Vremenska polja stižu u više enkodiranja (epoch, ISO string, mapa sa
	// seconds/nanoseconds), pa se čuvaju sirova i rešavaju kroz utils.ResolveTimestamp.
	TargetDate  interface{} `json:"targetDate,omitempty" bson:"targetDate,omitempty"`
	CompletedAt interface{} `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	StartedAt   interface{} `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	CreatedAt   interface{} `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt   interface{} `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	Timestamp   interface{} `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// CompletionTime rešava datum završetka zadatka kroz lanac:
// completedAt -> updatedAt -> createdAt -> timestamp. Prva parsirana vrednost pobeđuje.
func (t *Task) CompletionTime() (time.Time, bool) {
	for _, raw := range []interface{}{t.CompletedAt, t.UpdatedAt, t.CreatedAt, t.Timestamp} {
		if ts, ok := utils.ResolveTimestamp(raw); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

// TargetTime rešava ciljni datum zadatka, ako postoji.
func (t *Task) TargetTime() (time.Time, bool) {
	return utils.ResolveTimestamp(t.TargetDate)
}

// CompletedOnTime vraća true samo kada su oba datuma prisutna i completedAt <= targetDate.
func (t *Task) CompletedOnTime() bool {
	completed, ok := utils.ResolveTimestamp(t.CompletedAt)
	if !ok {
		return false
	}
	target, ok := t.TargetTime()
	if !ok {
		return false
	}
	return !completed.After(target)
}

// BasePoints vraća osnovne poene zadatka pre podele na izvršioce:
// prepoznata težina -> konfigurisana vrednost, inače eksplicitno `points` polje,
// inače podrazumevanih 50.
func (t *Task) BasePoints() int {
	if pts, ok := DifficultyBasePoints[t.Difficulty]; ok {
		return pts
	}
	if t.Points != nil && !math.IsNaN(*t.Points) && !math.IsInf(*t.Points, 0) {
		return int(*t.Points)
	}
	return DefaultBasePoints
}
