package notesets

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

// NewMongoRepo constructs a MongoRepo over the notesets collection.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{Coll: db.Collection("notesets")}
}

// Create inserts a new note set.
func (r *MongoRepo) Create(ctx context.Context, ns NoteSet) error {
	_, err := r.Coll.InsertOne(ctx, ns)
	return err
}

// GetByID returns a note set by ID.
func (r *MongoRepo) GetByID(ctx context.Context, id string) (NoteSet, error) {
	var ns NoteSet
	err := r.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ns)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NoteSet{}, ErrNotFound
		}
		return NoteSet{}, err
	}
	return ns, nil
}

// List returns all note sets, most recently updated first.
func (r *MongoRepo) List(ctx context.Context) ([]NoteSet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedDate", Value: -1}})
	cursor, err := r.Coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	sets := []NoteSet{}
	if err := cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// Update replaces a stored note set.
func (r *MongoRepo) Update(ctx context.Context, ns NoteSet) error {
	res, err := r.Coll.ReplaceOne(ctx, bson.M{"_id": ns.ID}, ns)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a note set.
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
