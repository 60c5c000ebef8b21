package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/portfolio-backend/internal/core"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	messagesCollection  = "contact_messages"
	countersCollection  = "counters"
	downloadsCollection = "resume_downloads"
)

// Store is a MongoDB backed MessageStore and StatsStore
type Store struct {
	client    *mongo.Client
	messages  *mongo.Collection
	counters  *mongo.Collection
	downloads *mongo.Collection
	logger    *zap.Logger
}

var (
	_ core.MessageStore = (*Store)(nil)
	_ core.StatsStore   = (*Store)(nil)
)

// Connect dials MongoDB and returns a store over the given database
func Connect(ctx context.Context, uri, database string, logger *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := NewStore(client, database, logger)
	if err := s.ensureIndexes(ctx); err != nil {
		logger.Warn("Failed to create MongoDB indexes", zap.Error(err))
	}
	logger.Info("Connected to MongoDB", zap.String("database", database))
	return s, nil
}

// NewStore wraps an existing client
func NewStore(client *mongo.Client, database string, logger *zap.Logger) *Store {
	db := client.Database(database)
	return &Store{
		client:    client,
		messages:  db.Collection(messagesCollection),
		counters:  db.Collection(countersCollection),
		downloads: db.Collection(downloadsCollection),
		logger:    logger,
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "analysis.is_spam", Value: 1}, {Key: "analysis.priority", Value: 1}}},
	})
	return err
}

// Create inserts a new contact message
func (s *Store) Create(ctx context.Context, msg *core.ContactMessage) error {
	if _, err := s.messages.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Get loads a contact message by ID
func (s *Store) Get(ctx context.Context, id string) (*core.ContactMessage, error) {
	var msg core.ContactMessage
	err := s.messages.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load message: %w", err)
	}
	return &msg, nil
}

// Replace overwrites an existing contact message
func (s *Store) Replace(ctx context.Context, msg *core.ContactMessage) error {
	res, err := s.messages.ReplaceOne(ctx, bson.M{"_id": msg.ID}, msg)
	if err != nil {
		return fmt.Errorf("failed to replace message: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Find returns messages matching the filter, newest first
func (s *Store) Find(ctx context.Context, filter core.MessageFilter) ([]*core.ContactMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cur, err := s.messages.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer cur.Close(ctx)

	msgs := make([]*core.ContactMessage, 0)
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return msgs, nil
}

// buildFilter translates a MessageFilter into a query document
func buildFilter(f core.MessageFilter) bson.M {
	q := bson.M{}
	if f.Spam != nil {
		q["analysis.is_spam"] = *f.Spam
	}
	if f.Priority != "" {
		q["analysis.priority"] = string(f.Priority)
	}
	if f.Category != "" {
		q["analysis.category"] = string(f.Category)
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	return q
}

// IncrementCounter atomically bumps a named counter, creating it on first use
func (s *Store) IncrementCounter(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Count int64 `bson:"count"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"count": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}
	return doc.Count, nil
}

// Counter reads a named counter; a missing counter reads as zero
func (s *Store) Counter(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Count int64 `bson:"count"`
	}
	err := s.counters.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read counter %s: %w", name, err)
	}
	return doc.Count, nil
}

// RecordDownload appends to the resume download log
func (s *Store) RecordDownload(ctx context.Context, download *core.ResumeDownload) error {
	if _, err := s.downloads.InsertOne(ctx, download); err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}
	return nil
}

// CountDownloads returns the number of logged resume downloads
func (s *Store) CountDownloads(ctx context.Context) (int64, error) {
	n, err := s.downloads.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count downloads: %w", err)
	}
	return n, nil
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
