package slots

import (
	"context"
	"time"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SlotMongoRepository struct {
	Collection *mongo.Collection
}

func NewSlotMongoRepository(db *mongo.Client, dbName string) contracts.SlotRepository {
	return &SlotMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionTimeSlots),
	}
}

func (r *SlotMongoRepository) Insert(ctx context.Context, slot *models.TimeSlot) (string, error) {
	now := time.Now()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	result, err := r.Collection.InsertOne(ctx, slot)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *SlotMongoRepository) FindByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	objectID, err := primitive.ObjectIDFromHex(slotID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var slot models.TimeSlot
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &slot, nil
}

func (r *SlotMongoRepository) FindByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.TimeSlot, error) {
	filter := bson.M{"doctorId": doctorID, "date": date}
	return r.findSorted(ctx, filter)
}

func (r *SlotMongoRepository) FindByDoctorAndRange(ctx context.Context, doctorID, startDate, endDate string) ([]models.TimeSlot, error) {
	filter := bson.M{
		"doctorId": doctorID,
		"date":     bson.M{"$gte": startDate, "$lte": endDate},
	}
	return r.findSorted(ctx, filter)
}

func (r *SlotMongoRepository) FindByExternalEventID(ctx context.Context, doctorID, externalEventID string) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	filter := bson.M{"doctorId": doctorID, "externalEventId": externalEventID}
	err := r.Collection.FindOne(ctx, filter).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &slot, nil
}

func (r *SlotMongoRepository) FindUnlinkedForExport(ctx context.Context, doctorID, startDate, endDate string) ([]models.TimeSlot, error) {
	filter := bson.M{
		"doctorId": doctorID,
		"date":     bson.M{"$gte": startDate, "$lte": endDate},
		"status":   models.SlotStatusBooked,
		"$or": []bson.M{
			{"externalEventId": bson.M{"$exists": false}},
			{"externalEventId": ""},
		},
	}
	return r.findSorted(ctx, filter)
}

// UpdateStatusIf is the single compare-and-swap gate for slot status
// transitions. The status predicate is part of the update filter, so the
// storage engine evaluates it atomically; a nil result means the predicate
// did not match and the caller lost the race.
func (r *SlotMongoRepository) UpdateStatusIf(ctx context.Context, slotID string, from, to models.SlotStatus) (*models.TimeSlot, error) {
	objectID, err := primitive.ObjectIDFromHex(slotID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	filter := bson.M{"_id": objectID, "status": from}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}}

	var slot models.TimeSlot
	err = r.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &slot, nil
}

func (r *SlotMongoRepository) UpdateFromExternal(ctx context.Context, slotID string, expected models.SlotStatus, patch contracts.SlotExternalPatch) (*models.TimeSlot, error) {
	objectID, err := primitive.ObjectIDFromHex(slotID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	now := time.Now()
	filter := bson.M{"_id": objectID, "status": expected}
	update := bson.M{"$set": bson.M{
		"date":         patch.Date,
		"startTime":    patch.StartTime,
		"endTime":      patch.EndTime,
		"status":       patch.Status,
		"lastSyncedAt": now,
		"updatedAt":    now,
	}}

	var slot models.TimeSlot
	err = r.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &slot, nil
}

func (r *SlotMongoRepository) SetExternalEventID(ctx context.Context, slotID, externalEventID string) error {
	objectID, err := primitive.ObjectIDFromHex(slotID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"externalEventId": externalEventID,
		"lastSyncedAt":    now,
		"updatedAt":       now,
	}}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *SlotMongoRepository) Delete(ctx context.Context, slotID string) error {
	objectID, err := primitive.ObjectIDFromHex(slotID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}

func (r *SlotMongoRepository) findSorted(ctx context.Context, filter bson.M) ([]models.TimeSlot, error) {
	sort := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, sort)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return slots, nil
}
