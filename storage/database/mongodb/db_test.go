package mongorepos

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/tests"
)

// openTestDB connects to MONGODB_TEST_URI, or skips the test when it is unset.
func openTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	conf := &core.Config{AppName: "edutube-test"}
	conf.Database.URI = uri
	conf.Database.Name = "edutube_test_" + core.NewID()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := Open(ctx, conf)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx := context.Background()
		_ = db.Drop(ctx)
		_ = Close(ctx, db)
	})
	return db
}

func resetFunc(db *mongo.Database, colls ...string) func(t *testing.T) {
	return func(t *testing.T) {
		for _, coll := range colls {
			_, err := db.Collection(coll).DeleteMany(context.Background(), bson.M{})
			require.NoError(t, err)
		}
	}
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	_, err := EnsureIndexes(context.Background(), db)
	require.NoError(t, err)

	testutil.RunUserRepositoryTests(t, NewUserRepository(db), resetFunc(db, usersColl))
}

func TestContentRepository(t *testing.T) {
	db := openTestDB(t)
	testutil.RunContentRepositoryTests(t, NewContentRepository(db), resetFunc(db, contentsColl))
}

func TestEnsureIndexes(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	names, err := EnsureIndexes(ctx, db)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"contents.teacherId_1_createdAt_-1",
		"contents.matchedTopics_1",
		"contents.status_1",
		"users.email_1",
	}, names)

	// idempotent
	_, err = EnsureIndexes(ctx, db)
	assert.NoError(t, err)
}

func TestContentRepository_legacyDocument(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	teacherID := core.NewID()
	tid, _ := objectID(teacherID)

	// shape written before sequences were always present
	res, err := db.Collection(contentsColl).InsertOne(ctx, bson.M{
		"teacherId":        tid,
		"originalFileName": "notes.pdf",
		"status":           "published",
		"createdAt":        time.Now().UTC(),
	})
	require.NoError(t, err)

	repo := NewContentRepository(db)
	oid := res.InsertedID.(interface{ Hex() string }).Hex()
	rec, err := repo.GetContent(ctx, oid)
	require.NoError(t, err)
	assert.Equal(t, teacherID, rec.TeacherID)
	assert.NotNil(t, rec.Assignments)
	assert.NotNil(t, rec.MatchedTopics)
}
