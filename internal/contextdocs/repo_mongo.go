package contextdocs

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repo using a MongoDB collection.
type MongoRepo struct {
	Coll *mongo.Collection
}

// NewMongoRepo constructs a MongoRepo over the contextdocuments collection.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{Coll: db.Collection("contextdocuments")}
}

// Create inserts a new context document.
func (r *MongoRepo) Create(ctx context.Context, doc ContextDocument) error {
	_, err := r.Coll.InsertOne(ctx, doc)
	return err
}

// GetByID returns a context document by ID.
func (r *MongoRepo) GetByID(ctx context.Context, id string) (ContextDocument, error) {
	var doc ContextDocument
	err := r.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ContextDocument{}, ErrNotFound
		}
		return ContextDocument{}, err
	}
	return doc, nil
}

// List returns all context documents, newest first.
func (r *MongoRepo) List(ctx context.Context) ([]ContextDocument, error) {
	return r.find(ctx, 0)
}

// ListRecent returns the newest limit context documents.
func (r *MongoRepo) ListRecent(ctx context.Context, limit int) ([]ContextDocument, error) {
	return r.find(ctx, int64(limit))
}

func (r *MongoRepo) find(ctx context.Context, limit int64) ([]ContextDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadDate", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.Coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	docs := []ContextDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes a context document.
func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.Coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*MongoRepo)(nil)
