package store

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/friendgraph/pkg/analysis"
	"github.com/matzehuels/friendgraph/pkg/errors"
)

// DefaultDatabase and DefaultCollection name where MongoStore keeps reports.
const (
	DefaultDatabase   = "friendgraph"
	DefaultCollection = "reports"
)

// MongoStore keeps reports in a MongoDB collection, one document per report
// with the report ID as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri, verifies the connection, and ensures the
// source/created_at index exists. An empty database uses DefaultDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	coll := client.Database(database).Collection(DefaultCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "source", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create report index")
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// Save upserts r by ID.
func (s *MongoStore) Save(ctx context.Context, r *analysis.Report) error {
	if r == nil || r.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "report must have an ID")
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save report %s", r.ID)
	}
	return nil
}

// Get loads the report with the given ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*analysis.Report, error) {
	return s.findOne(ctx, bson.M{"_id": id}, nil, "report %s", id)
}

// Latest loads the newest report for source.
func (s *MongoStore) Latest(ctx context.Context, source string) (*analysis.Report, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.findOne(ctx, bson.M{"source": source}, opts, "no report for source %s", source)
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions, format string, args ...any) (*analysis.Report, error) {
	var r analysis.Report
	var err error
	if opts != nil {
		err = s.coll.FindOne(ctx, filter, opts).Decode(&r)
	} else {
		err = s.coll.FindOne(ctx, filter).Decode(&r)
	}
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeReportNotFound, format, args...)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, format, args...)
	}
	return &r, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
