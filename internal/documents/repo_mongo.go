package documents

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

// NewMongoRepo constructs a MongoRepo over the documents collection.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{Coll: db.Collection("documents")}
}

// Create inserts a new document.
func (r *MongoRepo) Create(ctx context.Context, doc Document) error {
	_, err := r.Coll.InsertOne(ctx, doc)
	return err
}

// GetByID returns a document by ID.
func (r *MongoRepo) GetByID(ctx context.Context, id string) (Document, error) {
	var doc Document
	err := r.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns all documents, newest first.
func (r *MongoRepo) List(ctx context.Context) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadDate", Value: -1}})
	cursor, err := r.Coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	docs := []Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UpdateTexts applies the user-editable text fields and returns the updated document.
func (r *MongoRepo) UpdateTexts(ctx context.Context, id string, update TextUpdate) (Document, error) {
	set := bson.M{}
	if update.OCRText != nil {
		set["ocrText"] = *update.OCRText
	}
	if update.AICleanedText != nil {
		set["aiCleanedText"] = *update.AICleanedText
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc Document
	err := r.Coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// Delete removes a document.
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
