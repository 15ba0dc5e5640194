package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

const snapshotsCollection = "inventory_snapshots"

// SnapshotRepository stores inventory snapshots in MongoDB.
type SnapshotRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewSnapshotRepository connects to MongoDB and verifies the connection.
func NewSnapshotRepository(ctx context.Context, uri string, dbName string) (*SnapshotRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &SnapshotRepository{
		client:   client,
		dbName:   dbName,
		collName: snapshotsCollection,
	}, nil
}

func (r *SnapshotRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveSnapshot inserts one snapshot.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snapshot models.InventorySnapshot) error {
	if _, err := r.collection().InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert inventory snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns the most recent snapshots first. A non-positive
// limit returns every snapshot.
func (r *SnapshotRepository) ListSnapshots(ctx context.Context, limit int) ([]models.InventorySnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	snapshots := []models.InventorySnapshot{}
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to decode inventory snapshots: %w", err)
	}
	return snapshots, nil
}

// Close closes the MongoDB connection.
func (r *SnapshotRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
