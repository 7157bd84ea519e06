package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/models"

	"github.com/jackc/pgerrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "assets"

// MongoRepository keeps assets in the "assets" collection with the asset id as _id.
// Records written by earlier versions carry an ObjectID _id, which the driver
// decodes into its hex string; idFilter matches both forms.
type MongoRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		db:         db,
		collection: db.Collection(mongoCollection),
	}
}

func (r *MongoRepository) GetAssetList(ctx context.Context) ([]models.Asset, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("unable to select assets: %w", err)
	}
	defer cursor.Close(ctx)

	assets := []models.Asset{}
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, fmt.Errorf("unable to decode assets: %w", err)
	}

	return assets, nil
}

func (r *MongoRepository) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	err := r.collection.FindOne(ctx, idFilter(id)).Decode(&asset)
	if err != nil {
		return nil, r.wrapError(err, id, "unable to fetch asset")
	}

	return &asset, nil
}

func (r *MongoRepository) PersistAsset(ctx context.Context, asset models.Asset) (*models.Asset, error) {
	now := time.Now().UTC()
	doc := bson.M{
		"_id":           asset.ID,
		"description":   asset.Description,
		"serial_number": asset.SerialNumber,
		"status":        asset.Status,
		"location":      asset.Location,
		"created_at":    now,
		"updated_at":    now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, custom_error.WrapDBError("Unable to store asset", pgerrcode.UniqueViolation)
		}
		return nil, fmt.Errorf("failed to insert asset record: %w", err)
	}

	return &asset, nil
}

func (r *MongoRepository) UpdateAsset(ctx context.Context, id string, req models.UpdateAssetRequest) (*models.Asset, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}

	var asset models.Asset
	err := r.collection.FindOneAndUpdate(ctx,
		idFilter(id),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&asset)
	if err != nil {
		return nil, r.wrapError(err, id, "failed to update asset")
	}

	return &asset, nil
}

func (r *MongoRepository) RemoveAsset(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	if err := r.collection.FindOneAndDelete(ctx, idFilter(id)).Decode(&asset); err != nil {
		return nil, r.wrapError(err, id, "failed to delete asset")
	}

	return &asset, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}

func (r *MongoRepository) wrapError(err error, id, message string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return custom_error.NewNotFoundError("asset", id)
	}
	return fmt.Errorf("%s: %w", message, err)
}
