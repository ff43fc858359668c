package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	kartserrors "kartrm/internal/karts/errors"
	"kartrm/pkg/config"
	"kartrm/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Karts"
)

type mongoKartRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type KartRepository interface {
	Create(ctx context.Context, kart *model.Kart) error
	FindByID(ctx context.Context, id string) (*model.Kart, error)
	FindByCode(ctx context.Context, code string) (*model.Kart, error)
	FindAll(ctx context.Context) ([]*model.Kart, error)
	FindAvailable(ctx context.Context) ([]*model.Kart, error)
	Update(ctx context.Context, id string, kart *model.Kart) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	CountAvailable(ctx context.Context) (int64, error)
}

func NewMongoKartRepository(cfg *config.Config) KartRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoKartRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoKartRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoKartRepository) Create(ctx context.Context, kart *model.Kart) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	kart.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, kart)
	if err != nil {
		return fmt.Errorf("failed to create kart: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		kart.ID = oid.Hex()
	}

	return nil
}

func (r *mongoKartRepository) FindByID(ctx context.Context, id string) (*model.Kart, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", kartserrors.ErrInvalidID, id)
	}

	var kart model.Kart
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&kart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", kartserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find kart: %w", err)
	}
	return &kart, nil
}

func (r *mongoKartRepository) FindByCode(ctx context.Context, code string) (*model.Kart, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var kart model.Kart
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&kart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", kartserrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find kart by code: %w", err)
	}
	return &kart, nil
}

func (r *mongoKartRepository) FindAll(ctx context.Context) ([]*model.Kart, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query karts: %w", err)
	}
	defer cursor.Close(ctx)

	var karts []*model.Kart
	if err = cursor.All(ctx, &karts); err != nil {
		return nil, fmt.Errorf("failed to decode karts: %w", err)
	}

	return karts, nil
}

func (r *mongoKartRepository) FindAvailable(ctx context.Context) ([]*model.Kart, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"available": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query available karts: %w", err)
	}
	defer cursor.Close(ctx)

	var karts []*model.Kart
	if err = cursor.All(ctx, &karts); err != nil {
		return nil, fmt.Errorf("failed to decode karts: %w", err)
	}

	return karts, nil
}

func (r *mongoKartRepository) Update(ctx context.Context, id string, kart *model.Kart) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", kartserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"code":      kart.Code,
			"model":     kart.Model,
			"available": kart.Available,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update kart: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", kartserrors.ErrNotFound, id)
	}

	return result, nil
}

func (r *mongoKartRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", kartserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete kart: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", kartserrors.ErrNotFound, id)
	}

	return nil
}

// CountAvailable counts the karts currently marked fit for the track. The
// figure caps how many participants one session can hold.
func (r *mongoKartRepository) CountAvailable(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"available": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count available karts: %w", err)
	}
	return count, nil
}
