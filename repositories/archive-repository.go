package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"karya-project/microservices/points-service/models"
)

// resetMarkerID — marker je jedan globalni dokument sa fiksnim ID-jem.
const resetMarkerID = "weekly-reset-marker"

// ArchiveRepo čuva nedeljne arhive rang liste i globalni marker reseta.
type ArchiveRepo struct {
	archives *mongo.Collection
	markers  *mongo.Collection
}

func NewArchiveRepo(archives, markers *mongo.Collection) *ArchiveRepo {
	return &ArchiveRepo{archives: archives, markers: markers}
}

func (r *ArchiveRepo) SaveWeeklyArchive(ctx context.Context, archive *models.WeeklyArchive) error {
	if _, err := r.archives.InsertOne(ctx, archive); err != nil {
		return fmt.Errorf("failed to insert weekly archive: %v", err)
	}
	return nil
}

func (r *ArchiveRepo) GetResetMarker(ctx context.Context) (*models.ResetMarker, error) {
	var marker models.ResetMarker
	err := r.markers.FindOne(ctx, bson.M{"_id": resetMarkerID}).Decode(&marker)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil // marker još ne postoji — prvi reset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reset marker: %v", err)
	}
	return &marker, nil
}

// TouchResetMarker upisuje vreme poslednjeg reseta i uvećava brojač, upsert-om
// nad jednim dokumentom da uzastopni okidači ne prave duplikate.
func (r *ArchiveRepo) TouchResetMarker(ctx context.Context, at time.Time) error {
	update := bson.M{
		"$set": bson.M{"lastResetAt": at},
		"$inc": bson.M{"resetCount": 1},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.markers.UpdateOne(ctx, bson.M{"_id": resetMarkerID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to update reset marker: %v", err)
	}
	return nil
}

// GetWeeklyArchives vraća arhive sortirane od najnovije, za prikaz istorije.
func (r *ArchiveRepo) GetWeeklyArchives(ctx context.Context, limit int64) ([]models.WeeklyArchive, error) {
	opts := options.Find().SetSort(bson.M{"archivedAt": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.archives.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve weekly archives: %v", err)
	}
	defer cursor.Close(ctx)

	var archives []models.WeeklyArchive
	for cursor.Next(ctx) {
		var archive models.WeeklyArchive
		if err := cursor.Decode(&archive); err != nil {
			return nil, fmt.Errorf("failed to decode weekly archive: %v", err)
		}
		archives = append(archives, archive)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return archives, nil
}
