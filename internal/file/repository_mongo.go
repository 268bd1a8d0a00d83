package file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const repoTimeout = 5 * time.Second

type mongoRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID      string             `bson:"owner_id"`
	StoredName   string             `bson:"stored_name"`
	OriginalName string             `bson:"original_name"`
	MimeType     string             `bson:"mime_type"`
	SizeBytes    int64              `bson:"size_bytes"`
	URL          string             `bson:"url"`
	StorageKey   string             `bson:"storage_key"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (m mongoRecord) record() Record {
	return Record{
		ID:           m.ID.Hex(),
		OwnerID:      m.OwnerID,
		StoredName:   m.StoredName,
		OriginalName: m.OriginalName,
		MimeType:     m.MimeType,
		SizeBytes:    m.SizeBytes,
		URL:          m.URL,
		StorageKey:   m.StorageKey,
		CreatedAt:    m.CreatedAt,
	}
}

// MongoRepository stores file records in a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository builds a repository over coll.
func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// Insert stores rec and returns it with the generated id.
func (r *MongoRepository) Insert(ctx context.Context, rec Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	doc := mongoRecord{
		ID:           primitive.NewObjectID(),
		OwnerID:      rec.OwnerID,
		StoredName:   rec.StoredName,
		OriginalName: rec.OriginalName,
		MimeType:     rec.MimeType,
		SizeBytes:    rec.SizeBytes,
		URL:          rec.URL,
		StorageKey:   rec.StorageKey,
		CreatedAt:    rec.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return Record{}, fmt.Errorf("insert file record: %w", err)
	}
	rec.ID = doc.ID.Hex()
	return rec, nil
}

// FindByOwner returns the owner's records ordered by creation time, newest first.
func (r *MongoRepository) FindByOwner(ctx context.Context, ownerID string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find file records: %w", err)
	}

	var docs []mongoRecord
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode file records: %w", err)
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.record())
	}
	return records, nil
}

// FindOne fetches a record by id, restricted to the owner.
func (r *MongoRepository) FindOne(ctx context.Context, id, ownerID string) (Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Record{}, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var doc mongoRecord
	err = r.coll.FindOne(ctx, bson.M{"_id": oid, "owner_id": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("find file record: %w", err)
	}
	return doc.record(), nil
}

// DeleteByID removes a record by id.
func (r *MongoRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping reports whether the backing deployment answers.
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
