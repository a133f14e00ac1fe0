package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnassignedDepartmentID je sintetički departman za zadatke bez departmana.
const UnassignedDepartmentID = "unassigned"

// PointsSummary su agregirani poeni jednog korisnika za jedan prozor.
type PointsSummary struct {
	UserID         string `json:"userId"`
	TaskPoints     int    `json:"taskPoints"`
	BonusPoints    int    `json:"bonusPoints"`
	TotalPoints    int    `json:"totalPoints"`
	CompletedTasks int    `json:"completedTasks"`
}

// UserRankingEntry je jedan red korisničke rang liste.
type UserRankingEntry struct {
	UserID         string `json:"id"`
	Name           string `json:"name"`
	TotalPoints    int    `json:"totalPoints"`
	WeekPoints     int    `json:"weekPoints"`
	CompletedTasks int    `json:"completedTasks"`
	WeeklyTasks    int    `json:"weeklyTasks"`
	DepartmentID   string `json:"departmentId,omitempty"`
	Rank           int    `json:"rank"`
}

// DepartmentRankingEntry je jedan red departmanske rang liste.
type DepartmentRankingEntry struct {
	DepartmentID     string  `json:"id"`
	TotalPoints      int     `json:"totalPoints"`
	MonthPoints      int     `json:"monthPoints"`
	TotalUsers       int     `json:"totalUsers"`
	TotalTasks       int     `json:"totalTasks"`
	AvgPointsPerUser float64 `json:"avgPointsPerUser"`
}

// ArchiveRankingEntry je jedan red u nedeljnoj arhivi rang liste.
type ArchiveRankingEntry struct {
	UserID           string `json:"userId" bson:"userId"`
	UserName         string `json:"userName" bson:"userName"`
	ExecutionPoints  int    `json:"executionPoints" bson:"executionPoints"`
	LeadershipPoints int    `json:"leadershipPoints" bson:"leadershipPoints"`
	BonusPoints      int    `json:"bonusPoints" bson:"bonusPoints"`
	TCS              int    `json:"tcs" bson:"tcs"`
	CompletedTasks   int    `json:"completedTasks" bson:"completedTasks"`
	DepartmentID     string `json:"departmentId,omitempty" bson:"departmentId,omitempty"`
	Rank             int    `json:"rank" bson:"rank"`
}

// WeeklyArchive je trajni zapis jedne zaključene nedelje.
type WeeklyArchive struct {
	ID           primitive.ObjectID    `json:"id" bson:"_id,omitempty"`
	WeekStart    time.Time             `json:"weekStart" bson:"weekStart"`
	WeekEnd      time.Time             `json:"weekEnd" bson:"weekEnd"`
	ArchivedAt   time.Time             `json:"archivedAt" bson:"archivedAt"`
	Rankings     []ArchiveRankingEntry `json:"rankings" bson:"rankings"`
	TotalUsers   int                   `json:"totalUsers" bson:"totalUsers"`
	TopPerformer *ArchiveRankingEntry  `json:"topPerformer" bson:"topPerformer"`
	TopLeader    *ArchiveRankingEntry  `json:"topLeader" bson:"topLeader"`
	ManualReset  bool                  `json:"manualReset,omitempty" bson:"manualReset,omitempty"`
	ResetBy      string                `json:"resetBy,omitempty" bson:"resetBy,omitempty"`
}

// WeeklyCounterReset je nalog za nuliranje nedeljnih brojača jednog korisnika.
type WeeklyCounterReset struct {
	UserID  string
	Rank    int
	ResetAt time.Time
}

// ResetMarker je globalni marker poslednjeg reseta — čuvar idempotentnosti.
type ResetMarker struct {
	ID          string    `json:"id" bson:"_id"`
	LastResetAt time.Time `json:"lastResetAt" bson:"lastResetAt"`
	ResetCount  int       `json:"resetCount" bson:"resetCount"`
}
