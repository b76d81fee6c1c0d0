package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/content"
	"github.com/trezcool/edutube/core/user"
	"github.com/trezcool/edutube/storage/database/inmem"
	"github.com/trezcool/edutube/storage/database/mongodb"
)

// Engines
const (
	EngineMongoDB = "mongodb"
	EngineMemory  = "memory"
)

var ErrUnknownEngine = errors.New("unknown database engine")

// Repos holds the repositories of the configured engine.
type Repos struct {
	User    user.Repository
	Content content.Repository

	mongo *mongo.Database // nil unless EngineMongoDB
}

// Open connects to the configured engine. An empty engine means EngineMongoDB.
func Open(ctx context.Context, conf *core.Config) (*Repos, error) {
	switch conf.Database.Engine {
	case EngineMongoDB, "":
		db, err := mongorepos.Open(ctx, conf)
		if err != nil {
			return nil, errors.Wrap(err, "opening mongodb")
		}
		return &Repos{
			User:    mongorepos.NewUserRepository(db),
			Content: mongorepos.NewContentRepository(db),
			mongo:   db,
		}, nil
	case EngineMemory:
		db := inmemdb.Open()
		return &Repos{
			User:    inmemdb.NewUserRepository(db),
			Content: inmemdb.NewContentRepository(db),
		}, nil
	}
	return nil, errors.Wrapf(ErrUnknownEngine, "%q", conf.Database.Engine)
}

// Migrate creates the indexes the repositories rely on. It returns the names of the created indexes.
func (r *Repos) Migrate(ctx context.Context) ([]string, error) {
	if r.mongo == nil {
		return nil, nil
	}
	names, err := mongorepos.EnsureIndexes(ctx, r.mongo)
	if err != nil {
		return names, errors.Wrap(err, "migrating database")
	}
	return names, nil
}

func (r *Repos) Close(ctx context.Context) error {
	if r.mongo == nil {
		return nil
	}
	return mongorepos.Close(ctx, r.mongo)
}
