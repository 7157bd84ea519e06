package auditlog

import (
	"context"
	"fmt"
	"time"

	"assettracker/pkg/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "audit_logs"

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(mongoCollection)}
}

func (r *MongoRepository) PersistLog(ctx context.Context, auditlog models.AuditLog, auditLogData interface{}) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate audit log id: %w", err)
	}

	doc := bson.M{
		"_id":           id.String(),
		"resource_id":   auditlog.ResourceID,
		"resource_type": auditlog.ResourceType,
		"action":        auditlog.Action,
		"data":          auditLogData,
		"created_at":    time.Now().UTC(),
	}
	if auditlog.Actor != nil {
		doc["actor"] = *auditlog.Actor
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *MongoRepository) GetResourceLog(ctx context.Context, id string, resourceType string) ([]models.AuditLog, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"resource_id": id, "resource_type": resourceType},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer cursor.Close(ctx)

	auditLogs := []models.AuditLog{}
	if err := cursor.All(ctx, &auditLogs); err != nil {
		return nil, fmt.Errorf("failed to decode audit logs: %w", err)
	}

	return auditLogs, nil
}
