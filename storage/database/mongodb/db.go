package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/trezcool/edutube/core"
)

const (
	usersColl    = "users"
	contentsColl = "contents"
)

// Open connects to MongoDB and waits for it to answer.
func Open(ctx context.Context, conf *core.Config) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(conf.Database.URI).
		SetAppName(conf.AppName)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client.Database(conf.Database.Name), nil
}

// Close disconnects the client behind db.
func Close(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = client.Ping(ctx, readpref.Primary()); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping cancelled")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

// Indexes lists the indexes EnsureIndexes creates, per collection.
var Indexes = map[string][]mongo.IndexModel{
	contentsColl: {
		{Keys: bson.D{{Key: "teacherId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "matchedTopics", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	},
	usersColl: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
}

// EnsureIndexes creates the missing indexes. Existing ones are left as they are.
func EnsureIndexes(ctx context.Context, db *mongo.Database) ([]string, error) {
	var names []string
	for coll, models := range Indexes {
		created, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return names, errors.Wrapf(err, "creating %s indexes", coll)
		}
		for _, name := range created {
			names = append(names, coll+"."+name)
		}
	}
	return names, nil
}

func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// objectID parses a hex id. Malformed ids never match a document.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}
