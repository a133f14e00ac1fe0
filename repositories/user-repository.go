package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"karya-project/microservices/points-service/logging"
	"karya-project/microservices/points-service/models"
)

// UserRepo čita korisnike i nulira njihove nedeljne brojače.
type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(collection *mongo.Collection) *UserRepo {
	return &UserRepo{collection: collection}
}

func (r *UserRepo) GetAllUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %v", err)
		}
		users = append(users, user)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return users, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}
	return &user, nil
}

// ResetWeeklyCounters nulira nedeljne brojače za svakog korisnika ponaosob.
// Upisi idu jedan po jedan da neuspeh jednog korisnika ne obori ostale —
// neuspeli ID-jevi se vraćaju pozivaocu.
func (r *UserRepo) ResetWeeklyCounters(ctx context.Context, resets []models.WeeklyCounterReset) ([]string, error) {
	var failed []string

	for _, reset := range resets {
		update := bson.M{
			"$set": bson.M{
				"weeklyExecutionPoints":  0,
				"weeklyLeadershipPoints": 0,
				"weeklyBonusPoints":      0,
				"weeklyTCS":              0,
				"weeklyCompletedTasks":   0,
				"weeklyRank":             nil,
				"weeklyRankLastWeek":     reset.Rank,
				"lastWeeklyReset":        reset.ResetAt,
			},
		}

		_, err := r.collection.UpdateOne(ctx, bson.M{"_id": reset.UserID}, update)
		if err != nil {
			logging.Logger.Errorf("Event ID: USER_COUNTER_RESET_FAILED, Description: Failed to reset counters for user %s: %v", reset.UserID, err)
			failed = append(failed, reset.UserID)
		}
	}

	return failed, nil
}
