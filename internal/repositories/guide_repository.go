package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/travo-app/travo-server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GuideRepository defines the interface for destination guide operations
type GuideRepository interface {
	CreateGuide(ctx context.Context, guide *models.Guide) error
	GetGuideByID(ctx context.Context, id string) (*models.Guide, error)
	GetGuidesByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Guide, error)
	GetGuidesByDestination(ctx context.Context, destination string, skip, limit int64) ([]models.Guide, error)
	GetAllGuides(ctx context.Context, skip, limit int64) ([]models.Guide, error)
	UpdateGuide(ctx context.Context, id string, guide *models.Guide) error
	DeleteGuide(ctx context.Context, id string) error
}

// MongoGuideRepository implements GuideRepository for MongoDB
type MongoGuideRepository struct {
	collection *mongo.Collection
}

// NewMongoGuideRepository creates a new MongoGuideRepository
func NewMongoGuideRepository(db *mongo.Database) *MongoGuideRepository {
	return &MongoGuideRepository{collection: db.Collection("guides")}
}

func (r *MongoGuideRepository) CreateGuide(ctx context.Context, guide *models.Guide) error {
	guide.ID = primitive.NewObjectID()
	guide.CreatedAt = time.Now()
	guide.UpdatedAt = guide.CreatedAt
	_, err := r.collection.InsertOne(ctx, guide)
	return err
}

func (r *MongoGuideRepository) GetGuideByID(ctx context.Context, id string) (*models.Guide, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid guide ID format: %w", err)
	}

	var guide models.Guide
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&guide)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("guide not found")
		}
		return nil, err
	}
	return &guide, nil
}

func (r *MongoGuideRepository) GetGuidesByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Guide, error) {
	return r.findGuides(ctx, bson.M{"author_id": authorID}, skip, limit)
}

// GetGuidesByDestination matches the destination case-insensitively so
// "lisbon" finds guides filed under "Lisbon".
func (r *MongoGuideRepository) GetGuidesByDestination(ctx context.Context, destination string, skip, limit int64) ([]models.Guide, error) {
	filter := bson.M{"destination": bson.M{"$regex": primitive.Regex{Pattern: "^" + destination + "$", Options: "i"}}}
	return r.findGuides(ctx, filter, skip, limit)
}

func (r *MongoGuideRepository) GetAllGuides(ctx context.Context, skip, limit int64) ([]models.Guide, error) {
	return r.findGuides(ctx, bson.M{}, skip, limit)
}

func (r *MongoGuideRepository) findGuides(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Guide, error) {
	var guides []models.Guide
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &guides); err != nil {
		return nil, err
	}
	return guides, nil
}

func (r *MongoGuideRepository) UpdateGuide(ctx context.Context, id string, guide *models.Guide) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid guide ID format: %w", err)
	}

	guide.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":           guide.Title,
			"destination":     guide.Destination,
			"body":            guide.Body,
			"cover_image_url": guide.CoverImageURL,
			"updated_at":      guide.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("guide not found")
	}
	return nil
}

func (r *MongoGuideRepository) DeleteGuide(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid guide ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("guide not found")
	}
	return nil
}
