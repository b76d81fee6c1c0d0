package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/edutube/core/content"
)

type contentDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	TeacherID         primitive.ObjectID `bson:"teacherId"`
	TeacherName       string             `bson:"teacherName"`
	OriginalFileName  string             `bson:"originalFileName"`
	FileType          string             `bson:"fileType"`
	content.Generated `bson:",inline"`
	ModelUsed         string    `bson:"modelUsed"`
	ProcessingTime    int64     `bson:"processingTime"`
	Status            string    `bson:"status"`
	Views             int       `bson:"views"`
	Downloads         int       `bson:"downloads"`
	CreatedAt         time.Time `bson:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

type contentRepository struct {
	coll *mongo.Collection
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *mongo.Database) content.Repository {
	return &contentRepository{coll: db.Collection(contentsColl)}
}

func (repo contentRepository) boil(rec content.Record) (contentDoc, error) {
	tid, ok := objectID(rec.TeacherID)
	if !ok {
		return contentDoc{}, errors.Errorf("invalid teacher id %q", rec.TeacherID)
	}
	d := contentDoc{
		TeacherID:        tid,
		TeacherName:      rec.TeacherName,
		OriginalFileName: rec.OriginalFileName,
		FileType:         rec.FileType,
		Generated:        rec.Generated,
		ModelUsed:        rec.ModelUsed,
		ProcessingTime:   rec.ProcessingTime,
		Status:           rec.Status,
		Views:            rec.Views,
		Downloads:        rec.Downloads,
		CreatedAt:        rec.CreatedAt.UTC(),
		UpdatedAt:        rec.UpdatedAt.UTC(),
	}
	if oid, ok := objectID(rec.ID); ok {
		d.ID = oid
	}
	return d, nil
}

func (repo contentRepository) unboil(d contentDoc) content.Record {
	rec := content.Record{
		ID:               d.ID.Hex(),
		TeacherID:        d.TeacherID.Hex(),
		TeacherName:      d.TeacherName,
		OriginalFileName: d.OriginalFileName,
		FileType:         d.FileType,
		Generated:        d.Generated,
		ModelUsed:        d.ModelUsed,
		ProcessingTime:   d.ProcessingTime,
		Status:           d.Status,
		Views:            d.Views,
		Downloads:        d.Downloads,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	rec.Generated.Sanitize() // documents written by older clients may lack sequences
	return rec
}

func (repo contentRepository) CreateContent(ctx context.Context, rec content.Record) (content.Record, error) {
	d, err := repo.boil(rec)
	if err != nil {
		return content.Record{}, err
	}
	res, err := repo.coll.InsertOne(ctx, d)
	if err != nil {
		return content.Record{}, errors.Wrap(err, "inserting content")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return repo.unboil(d), nil
}

func (repo contentRepository) QueryContents(ctx context.Context, filter content.QueryFilter) ([]content.Record, error) {
	tid, ok := objectID(filter.TeacherID)
	if !ok {
		return []content.Record{}, nil
	}
	query := bson.M{"teacherId": tid}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := repo.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "finding contents")
	}
	var docs []contentDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding contents")
	}

	recs := make([]content.Record, 0, len(docs))
	for _, d := range docs {
		recs = append(recs, repo.unboil(d))
	}
	return recs, nil
}

func (repo contentRepository) GetContent(ctx context.Context, id string) (content.Record, error) {
	oid, ok := objectID(id)
	if !ok {
		return content.Record{}, content.ErrNotFound
	}
	var d contentDoc
	if err := repo.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return content.Record{}, trapNoDocsErr(err, content.ErrNotFound)
	}
	return repo.unboil(d), nil
}

func (repo contentRepository) DeleteContent(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return content.ErrNotFound
	}
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting content")
	}
	if res.DeletedCount == 0 {
		return content.ErrNotFound
	}
	return nil
}

func (repo contentRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (content.Record, error) {
	oid, ok := objectID(id)
	if !ok {
		return content.Record{}, content.ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d contentDoc
	if err := repo.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return content.Record{}, content.ErrNotFound
		}
		return content.Record{}, errors.Wrap(err, "updating content")
	}
	return repo.unboil(d), nil
}

func (repo contentRepository) UpdateContentStatus(ctx context.Context, id, status string, updatedAt time.Time) (content.Record, error) {
	return repo.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"status": status, "updatedAt": updatedAt.UTC()}})
}

func (repo contentRepository) IncrementContentCounter(ctx context.Context, id string, counter content.Counter) (content.Record, error) {
	switch counter {
	case content.CounterViews, content.CounterDownloads:
	default:
		return content.Record{}, errors.Errorf("unknown counter %q", counter)
	}
	return repo.findOneAndUpdate(ctx, id, bson.M{"$inc": bson.M{string(counter): 1}})
}
