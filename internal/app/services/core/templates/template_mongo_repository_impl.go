package templates

import (
	"context"
	"time"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TemplateMongoRepository struct {
	Collection *mongo.Collection
}

func NewTemplateMongoRepository(db *mongo.Client, dbName string) contracts.TemplateRepository {
	return &TemplateMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionWeeklyTemplates),
	}
}

func (r *TemplateMongoRepository) ReplaceForDoctor(ctx context.Context, doctorID string, templates []models.AvailabilityTemplate) error {
	_, err := r.Collection.DeleteMany(ctx, bson.M{"doctorId": doctorID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}

	if len(templates) == 0 {
		return nil
	}

	now := time.Now()
	documents := make([]interface{}, 0, len(templates))
	for i := range templates {
		templates[i].DoctorID = doctorID
		templates[i].CreatedAt = now
		templates[i].UpdatedAt = now
		documents = append(documents, templates[i])
	}

	_, err = r.Collection.InsertMany(ctx, documents)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *TemplateMongoRepository) FindByDoctor(ctx context.Context, doctorID string) ([]models.AvailabilityTemplate, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"doctorId": doctorID})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var templates []models.AvailabilityTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return templates, nil
}

func (r *TemplateMongoRepository) DistinctDoctorIDs(ctx context.Context) ([]string, error) {
	values, err := r.Collection.Distinct(ctx, "doctorId", bson.M{})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	doctorIDs := make([]string, 0, len(values))
	for _, value := range values {
		if doctorID, ok := value.(string); ok {
			doctorIDs = append(doctorIDs, doctorID)
		}
	}
	return doctorIDs, nil
}
