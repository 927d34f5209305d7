package credentials

import (
	"context"
	"time"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CredentialMongoRepository struct {
	Collection *mongo.Collection
}

func NewCredentialMongoRepository(db *mongo.Client, dbName string) contracts.CredentialRepository {
	return &CredentialMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionCalendarCredentials),
	}
}

func (r *CredentialMongoRepository) Upsert(ctx context.Context, credential *models.CalendarCredential) error {
	now := time.Now()
	filter := bson.M{"ownerId": credential.OwnerID}
	update := bson.M{
		"$set": bson.M{
			"encryptedRefreshToken": credential.EncryptedRefreshToken,
			"lastRefreshedAt":       credential.LastRefreshedAt,
			"updatedAt":             now,
		},
		"$setOnInsert": bson.M{
			"ownerId":   credential.OwnerID,
			"createdAt": now,
		},
	}

	_, err := r.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *CredentialMongoRepository) FindByOwnerID(ctx context.Context, ownerID string) (*models.CalendarCredential, error) {
	var credential models.CalendarCredential
	err := r.Collection.FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&credential)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &credential, nil
}

func (r *CredentialMongoRepository) Delete(ctx context.Context, ownerID string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}
