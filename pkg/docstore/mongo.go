package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore backs collections with a hosted MongoDB database. Documents
// are stored with _id equal to the document id.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo failed: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, doc Document) (string, error) {
	id := uuid.NewString()

	stored := bson.M(cloneDocument(doc))
	stored["id"] = id
	stored["_id"] = id

	if _, err := s.db.Collection(collection).InsertOne(ctx, stored); err != nil {
		return "", fmt.Errorf("add document to %s: %w", collection, err)
	}

	return id, nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc Document) error {
	stored := bson.M(cloneDocument(doc))
	stored["id"] = id
	stored["_id"] = id

	opts := options.Replace().SetUpsert(true)
	if _, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, stored, opts); err != nil {
		return fmt.Errorf("set document %s/%s: %w", collection, id, err)
	}

	return nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var doc Document
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s/%s: %w", collection, id, err)
	}

	delete(doc, "_id")
	return normalizeDocument(doc), nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, patch Document) error {
	cleaned := bson.M(cloneDocument(patch))
	delete(cleaned, "id")
	delete(cleaned, "_id")

	result, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": cleaned})
	if err != nil {
		return fmt.Errorf("update document %s/%s: %w", collection, id, err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", collection, id, err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	filter, err := mongoFilter(q.Filters)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if q.OrderBy != "" {
		direction := 1
		if q.Descending {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: direction}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var doc Document
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		delete(doc, "_id")
		docs = append(docs, normalizeDocument(doc))
	}

	return docs, cursor.Err()
}

func (s *MongoStore) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	filter, err := mongoFilter(filters)
	if err != nil {
		return 0, err
	}

	count, err := s.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}

	return count, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// normalizeDocument rewrites the driver's primitive.M/primitive.A values
// as plain maps and slices so callers see one document shape regardless
// of backend.
func normalizeDocument(doc Document) Document {
	out := make(Document, len(doc))
	for field, value := range doc {
		out[field] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case primitive.M:
		return map[string]any(normalizeDocument(Document(v)))
	case map[string]any:
		return map[string]any(normalizeDocument(Document(v)))
	case primitive.A:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}

func mongoFilter(filters []Filter) (bson.M, error) {
	out := bson.M{}
	for _, f := range filters {
		op, err := mongoOperator(f.Op)
		if err != nil {
			return nil, err
		}

		// Merge multiple predicates on the same field (range pairs).
		if existing, ok := out[f.Field].(bson.M); ok {
			existing[op] = f.Value
			continue
		}
		out[f.Field] = bson.M{op: f.Value}
	}
	return out, nil
}

func mongoOperator(op Operator) (string, error) {
	switch op {
	case OpEqual:
		return "$eq", nil
	case OpGreater:
		return "$gt", nil
	case OpGreaterEqual:
		return "$gte", nil
	case OpLess:
		return "$lt", nil
	case OpLessEqual:
		return "$lte", nil
	default:
		return "", fmt.Errorf("unsupported operator %q", op)
	}
}
