package repository

import (
	"context"
	"errors"
	"time"

	"secondbrain/internal/knowledge/model"
	"secondbrain/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionKnowledge = "knowledges"

// server error codes for an index that already exists under other options or name
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

type MongoRepository struct {
	Coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{Coll: db.Collection(CollectionKnowledge)}
}

func (r *MongoRepository) Create(ctx context.Context, note *model.Note) error {
	if note.Tags == nil {
		note.Tags = []string{}
	}
	// BSON dates carry millisecond precision; truncate so the returned note matches what is stored.
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := *note
	doc.ID = NewID(now)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.Coll.InsertOne(ctx, doc); err != nil {
		logger.Sugar.Errorf("Failed to create note: %v", err)
		return err
	}
	*note = doc
	return nil
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]model.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.Coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		logger.Sugar.Errorf("Failed to list notes: %v", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	notes := []model.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		logger.Sugar.Errorf("Failed to decode notes: %v", err)
		return nil, err
	}
	for i := range notes {
		if notes[i].Tags == nil {
			notes[i].Tags = []string{}
		}
	}
	return notes, nil
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	names, err := r.Coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// default name title_text_content_text_tags_text, shared with indexes built by earlier deployments
			Keys: bson.D{{Key: "title", Value: "text"}, {Key: "content", Value: "text"}, {Key: "tags", Value: "text"}},
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("knowledge_created_at"),
		},
	})
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && (cmdErr.Code == codeIndexOptionsConflict || cmdErr.Code == codeIndexKeySpecsConflict) {
		logger.Sugar.Warnf("Existing index differs from the requested one, keeping it: %v", err)
		return nil
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to create indexes: %v", err)
		return err
	}
	logger.Sugar.Infof("Indexes in place: %v", names)
	return nil
}
