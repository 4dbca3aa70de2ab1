package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	allocerrors "campusalloc/internal/allocations/errors"
	"campusalloc/pkg/config"
	"campusalloc/pkg/model"
)

const (
	CollectionName = "Snapshots"
)

type SnapshotRepository interface {
	Save(ctx context.Context, snap *model.Snapshot) error
	LoadLatest(ctx context.Context) (*model.Snapshot, error)
}

type mongoSnapshotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSnapshotRepository(cfg *config.Config) SnapshotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSnapshotRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout, respecting any tighter
// deadline the caller already set.
func (r *mongoSnapshotRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSnapshotRepository) Save(ctx context.Context, snap *model.Snapshot) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}

	if _, err := r.collection.InsertOne(ctx, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *mongoSnapshotRepository) LoadLatest(ctx context.Context) (*model.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "saved_at", Value: -1}})

	var snap model.Snapshot
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&snap)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, allocerrors.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return &snap, nil
}
