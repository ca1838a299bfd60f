package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

// codeDocumentValidation is MongoDB's DocumentValidationFailure error code.
const codeDocumentValidation = 121

// MongoStore is the MongoDB backend. It owns the client and is safe for
// concurrent use.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore wraps an already connected client and database.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *MongoStore {
	return &MongoStore{client: client, db: db}
}

// ConnectMongo dials uri, verifies the deployment is reachable and returns a
// store bound to database dbName.
func ConnectMongo(ctx context.Context, uri, dbName string, timeout time.Duration) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return NewMongoStore(client, client.Database(dbName)), nil
}

// Ping checks the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Provision creates the collections, validators, indexes and counter seeds
// when the database holds no collections at all. Any existing collection
// means the store was provisioned before and nothing is touched.
func (s *MongoStore) Provision(ctx context.Context) error {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return err
	}
	if len(names) > 0 {
		return nil
	}

	for _, sc := range schemas {
		opts := options.CreateCollection().SetValidator(bson.M{"$jsonSchema": sc.jsonSchema()})
		if err := s.db.CreateCollection(ctx, sc.Collection, opts); err != nil {
			return err
		}
	}
	for _, name := range []string{CollCounters, CollIdempotency} {
		if err := s.db.CreateCollection(ctx, name); err != nil {
			return err
		}
	}

	if _, err := s.db.Collection(CollComments).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "profile_id", Value: 1}},
	}); err != nil {
		return err
	}
	if _, err := s.db.Collection(CollLikes).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "comment_id", Value: 1}, {Key: "user_id", Value: 1}},
	}); err != nil {
		return err
	}
	if _, err := s.db.Collection(CollIdempotency).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}, {Key: "method", Value: 1}, {Key: "path", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}); err != nil {
		return err
	}

	seeds := make([]any, 0, len(domain.Sequences))
	for _, name := range domain.Sequences {
		seeds = append(seeds, domain.Counter{Name: name, Seq: 0})
	}
	_, err = s.db.Collection(CollCounters).InsertMany(ctx, seeds)
	return err
}

// IncrementCounter atomically adds delta to the named counter, creating it
// at delta when missing, and returns the post-increment value.
func (s *MongoStore) IncrementCounter(ctx context.Context, name string, delta int64) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c domain.Counter
	err := s.db.Collection(CollCounters).
		FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": delta}}, opts).
		Decode(&c)
	if err != nil {
		return 0, err
	}
	return c.Seq, nil
}

// InsertProfile stores p. Schema violations surface as *SchemaError.
func (s *MongoStore) InsertProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.db.Collection(CollProfiles).InsertOne(ctx, p)
	return mongoWriteErr(CollProfiles, err)
}

// GetProfile returns the profile with the given id or ErrNotFound.
func (s *MongoStore) GetProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	var p domain.Profile
	if err := findOne(ctx, s.db.Collection(CollProfiles), bson.M{"id": id}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProfiles returns every profile whose id is in ids, in no particular
// order. Missing ids are simply absent from the result.
func (s *MongoStore) FindProfiles(ctx context.Context, ids ...int64) ([]domain.Profile, error) {
	out := []domain.Profile{}
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.db.Collection(CollProfiles).Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertComment stores c. Schema violations surface as *SchemaError.
func (s *MongoStore) InsertComment(ctx context.Context, c *domain.Comment) error {
	_, err := s.db.Collection(CollComments).InsertOne(ctx, c)
	return mongoWriteErr(CollComments, err)
}

// GetComment returns the comment with the given id or ErrNotFound.
func (s *MongoStore) GetComment(ctx context.Context, id int64) (*domain.Comment, error) {
	var c domain.Comment
	if err := findOne(ctx, s.db.Collection(CollComments), bson.M{"id": id}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComments returns the comments matching q. An empty result is an empty
// slice, not an error.
func (s *MongoStore) ListComments(ctx context.Context, q CommentQuery) ([]domain.Comment, error) {
	filter := bson.D{{Key: "profile_id", Value: q.ProfileID}}
	if col, ok := voteColumn(q.NonEmpty); ok {
		filter = append(filter, bson.E{Key: col, Value: bson.M{"$ne": ""}})
	}

	opts := options.Find().SetProjection(bson.M{"_id": 0})
	switch q.SortBy {
	case SortRecent:
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	case SortBest:
		opts.SetSort(bson.D{{Key: "likes", Value: -1}})
	}

	cur, err := s.db.Collection(CollComments).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []domain.Comment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IncrementLikes adds delta to the comment's likes counter.
func (s *MongoStore) IncrementLikes(ctx context.Context, commentID, delta int64) error {
	res, err := s.db.Collection(CollComments).UpdateOne(ctx,
		bson.M{"id": commentID},
		bson.M{"$inc": bson.M{"likes": delta}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertLike stores l. Schema violations surface as *SchemaError.
func (s *MongoStore) InsertLike(ctx context.Context, l *domain.Like) error {
	_, err := s.db.Collection(CollLikes).InsertOne(ctx, l)
	return mongoWriteErr(CollLikes, err)
}

// FindLike returns the like left by userID on commentID, or ErrNotFound.
func (s *MongoStore) FindLike(ctx context.Context, commentID, userID int64) (*domain.Like, error) {
	var l domain.Like
	if err := findOne(ctx, s.db.Collection(CollLikes), bson.M{"comment_id": commentID, "user_id": userID}, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteLike removes one like matching (commentID, userID). It returns
// ErrNotFound when nothing was deleted.
func (s *MongoStore) DeleteLike(ctx context.Context, commentID, userID int64) error {
	res, err := s.db.Collection(CollLikes).DeleteOne(ctx, bson.M{"comment_id": commentID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetIdempotency returns a non-expired record or ErrNotFound.
func (s *MongoStore) GetIdempotency(ctx context.Context, key, method, path string, now time.Time) (*domain.Idempotency, error) {
	var rec domain.Idempotency
	filter := bson.M{
		"key":        key,
		"method":     method,
		"path":       path,
		"expires_at": bson.M{"$gt": now},
	}
	if err := findOne(ctx, s.db.Collection(CollIdempotency), filter, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency inserts rec and returns ErrDuplicate on a unique
// (key, method, path) violation. An expired record the TTL monitor has not
// removed yet is deleted first.
func (s *MongoStore) CreateIdempotency(ctx context.Context, rec *domain.Idempotency) error {
	coll := s.db.Collection(CollIdempotency)
	_, err := coll.DeleteOne(ctx, bson.M{
		"key":        rec.Key,
		"method":     rec.Method,
		"path":       rec.Path,
		"expires_at": bson.M{"$lte": rec.CreatedAt},
	})
	if err != nil {
		return err
	}
	_, err = coll.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func findOne(ctx context.Context, coll *mongo.Collection, filter any, out any) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// mongoWriteErr converts a DocumentValidationFailure into *SchemaError and
// passes every other error through unchanged.
func mongoWriteErr(collection string, err error) error {
	if err == nil {
		return nil
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == codeDocumentValidation {
				return &SchemaError{Collection: collection, Rules: decodeSchemaRules(e.Details)}
			}
		}
	}
	return err
}
