package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

func TestSnapshotRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save", func(mt *mtest.T) {
		repo := &SnapshotRepository{client: mt.Client, dbName: "backoffice", collName: snapshotsCollection}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.SaveSnapshot(context.Background(), models.InventorySnapshot{
			Date:     time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
			Articles: models.ArticleStatistics{TotalArticles: 2},
		})
		require.NoError(mt, err)
	})

	mt.Run("save failure", func(mt *mtest.T) {
		repo := &SnapshotRepository{client: mt.Client, dbName: "backoffice", collName: snapshotsCollection}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := repo.SaveSnapshot(context.Background(), models.InventorySnapshot{})
		assert.Error(mt, err)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := &SnapshotRepository{client: mt.Client, dbName: "backoffice", collName: snapshotsCollection}
		ns := "backoffice." + snapshotsCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "articles", Value: bson.D{{Key: "total_articles", Value: 4}}}},
				bson.D{{Key: "articles", Value: bson.D{{Key: "total_articles", Value: 2}}}},
			),
		)

		snapshots, err := repo.ListSnapshots(context.Background(), 2)
		require.NoError(mt, err)
		require.Len(mt, snapshots, 2)
		assert.Equal(mt, 4, snapshots[0].Articles.TotalArticles)
	})
}
