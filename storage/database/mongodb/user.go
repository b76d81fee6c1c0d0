package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/edutube/core/user"
	"github.com/trezcool/edutube/core/video"
)

type (
	userDoc struct {
		ID        primitive.ObjectID `bson:"_id,omitempty"`
		FullName  string             `bson:"fullName"`
		Email     string             `bson:"email"`
		Password  string             `bson:"password"` // bcrypt hash
		Role      string             `bson:"role"`
		Playlists []playlistDoc      `bson:"playlists"`
		CreatedAt time.Time          `bson:"createdAt"`
		UpdatedAt time.Time          `bson:"updatedAt"`
	}

	playlistDoc struct {
		ID           primitive.ObjectID `bson:"_id"`
		Title        string             `bson:"title"`
		VideoCount   int                `bson:"videoCount"`
		Videos       []video.Match      `bson:"videos"`
		CreatedAt    time.Time          `bson:"createdAt"`
		IsBookmarked bool               `bson:"isBookmarked"`
	}
)

type userRepository struct {
	coll *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{coll: db.Collection(usersColl)}
}

func (repo userRepository) boil(usr user.User) userDoc {
	d := userDoc{
		FullName:  usr.FullName,
		Email:     usr.Email,
		Password:  string(usr.PasswordHash),
		Role:      usr.Role,
		Playlists: make([]playlistDoc, 0, len(usr.Playlists)),
		CreatedAt: usr.CreatedAt.UTC(),
		UpdatedAt: usr.UpdatedAt.UTC(),
	}
	if oid, ok := objectID(usr.ID); ok {
		d.ID = oid
	}
	for _, pl := range usr.Playlists {
		d.Playlists = append(d.Playlists, repo.boilPlaylist(pl))
	}
	return d
}

func (repo userRepository) boilPlaylist(pl user.Playlist) playlistDoc {
	oid, ok := objectID(pl.ID)
	if !ok {
		oid = primitive.NewObjectID()
	}
	videos := pl.Videos
	if videos == nil {
		videos = []video.Match{}
	}
	return playlistDoc{
		ID:           oid,
		Title:        pl.Title,
		VideoCount:   pl.VideoCount,
		Videos:       videos,
		CreatedAt:    pl.CreatedAt.UTC(),
		IsBookmarked: pl.IsBookmarked,
	}
}

func (repo userRepository) unboil(d userDoc) user.User {
	return user.User{
		ID:           d.ID.Hex(),
		FullName:     d.FullName,
		Email:        d.Email,
		Role:         d.Role,
		PasswordHash: []byte(d.Password),
		Playlists:    repo.unboilPlaylists(d.Playlists),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (repo userRepository) unboilPlaylists(docs []playlistDoc) []user.Playlist {
	pls := make([]user.Playlist, 0, len(docs))
	for _, d := range docs {
		videos := d.Videos
		if videos == nil {
			videos = []video.Match{}
		}
		pls = append(pls, user.Playlist{
			ID:           d.ID.Hex(),
			Title:        d.Title,
			VideoCount:   d.VideoCount,
			Videos:       videos,
			CreatedAt:    d.CreatedAt,
			IsBookmarked: d.IsBookmarked,
		})
	}
	return pls
}

// trapNoDocsErr replaces mongo.ErrNoDocuments with notFound.
func trapNoDocsErr(err, notFound error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return err
}

func (repo userRepository) findOne(ctx context.Context, filter bson.M) (user.User, error) {
	var d userDoc
	if err := repo.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		return user.User{}, trapNoDocsErr(err, user.ErrNotFound)
	}
	return repo.unboil(d), nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	d := repo.boil(usr)
	res, err := repo.coll.InsertOne(ctx, d)
	if err != nil {
		if isDuplicateKey(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return repo.unboil(d), nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return repo.findOne(ctx, bson.M{"_id": oid})
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.findOne(ctx, bson.M{"email": email})
}

func (repo userRepository) GetUserByEmailAndRole(ctx context.Context, email, role string) (user.User, error) {
	return repo.findOne(ctx, bson.M{"email": email, "role": role})
}

func (repo userRepository) SetUserPassword(ctx context.Context, id string, hash []byte, updatedAt time.Time) error {
	oid, ok := objectID(id)
	if !ok {
		return user.ErrNotFound
	}
	res, err := repo.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"password": string(hash), "updatedAt": updatedAt.UTC()}})
	if err != nil {
		return errors.Wrap(err, "updating password")
	}
	if res.MatchedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

// updatePlaylists applies update to the user matching filter and returns the resulting playlists.
func (repo userRepository) updatePlaylists(ctx context.Context, filter bson.M, update bson.M) ([]user.Playlist, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"playlists": 1})

	var d userDoc
	if err := repo.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d); err != nil {
		return nil, err
	}
	return repo.unboilPlaylists(d.Playlists), nil
}

func (repo userRepository) PushPlaylist(ctx context.Context, userID string, pl user.Playlist) ([]user.Playlist, error) {
	oid, ok := objectID(userID)
	if !ok {
		return nil, user.ErrNotFound
	}
	pls, err := repo.updatePlaylists(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"playlists": repo.boilPlaylist(pl)},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrap(err, "pushing playlist")
	}
	return pls, nil
}

func (repo userRepository) PullPlaylist(ctx context.Context, userID, playlistID string) ([]user.Playlist, error) {
	oid, ok := objectID(userID)
	if !ok {
		return nil, user.ErrNotFound
	}
	pid, ok := objectID(playlistID)
	if !ok { // cannot match any playlist
		usr, err := repo.findOne(ctx, bson.M{"_id": oid})
		if err != nil {
			return nil, err
		}
		return usr.Playlists, nil
	}

	pls, err := repo.updatePlaylists(ctx, bson.M{"_id": oid}, bson.M{
		"$pull": bson.M{"playlists": bson.M{"_id": pid}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrap(err, "pulling playlist")
	}
	return pls, nil
}

func (repo userRepository) UpdatePlaylist(ctx context.Context, userID, playlistID string, up user.UpdatePlaylist) ([]user.Playlist, error) {
	oid, ok := objectID(userID)
	if !ok {
		return nil, user.ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if up.Title != "" {
		set["playlists.$.title"] = up.Title
	}
	if up.IsBookmarked != nil {
		set["playlists.$.isBookmarked"] = *up.IsBookmarked
	}

	pid, ok := objectID(playlistID)
	if ok {
		pls, err := repo.updatePlaylists(ctx, bson.M{"_id": oid, "playlists._id": pid}, bson.M{"$set": set})
		if err == nil {
			return pls, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrap(err, "updating playlist")
		}
	}

	// tell a missing user from a missing playlist
	n, err := repo.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return nil, errors.Wrap(err, "counting users")
	}
	if n == 0 {
		return nil, user.ErrNotFound
	}
	return nil, user.ErrPlaylistNotFound
}
