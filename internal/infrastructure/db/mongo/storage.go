package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
)

const storageCollection = "browser_storage"

// storageDocument is one stored key of one browser.
type storageDocument struct {
	ID        string    `bson:"_id"`
	BrowserID string    `bson:"browser_id"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Storage keeps browser storage in the browser_storage collection.
type Storage struct {
	db  *mongo.Database
	col *mongo.Collection
	now func() time.Time
}

// NewStorage returns a Storage backed by db.
func NewStorage(db *mongo.Database) *Storage {
	return &Storage{db: db, col: db.Collection(storageCollection), now: time.Now}
}

// EnsureIndexes creates the browser_id index.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "browser_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo storage indexes: %w", err)
	}
	return nil
}

// For returns the view of browserID.
func (s *Storage) For(browserID string) ports.Storage {
	return &browserStorage{s: s, browserID: browserID}
}

// Ping checks the connection for the readiness probe.
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

func documentID(browserID, key string) string {
	return browserID + ":" + key
}

type browserStorage struct {
	s         *Storage
	browserID string
}

func (b *browserStorage) GetItem(ctx context.Context, key string) (string, error) {
	var doc storageDocument
	err := b.s.col.FindOne(ctx, bson.M{"_id": documentID(b.browserID, key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", domain.ErrStorageKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("mongo get item: %w", err)
	}
	return doc.Value, nil
}

func (b *browserStorage) SetItem(ctx context.Context, key, value string) error {
	id := documentID(b.browserID, key)
	doc := storageDocument{
		ID:        id,
		BrowserID: b.browserID,
		Key:       key,
		Value:     value,
		UpdatedAt: b.s.now().UTC(),
	}
	_, err := b.s.col.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo set item: %w", err)
	}
	return nil
}

func (b *browserStorage) RemoveItem(ctx context.Context, key string) error {
	if _, err := b.s.col.DeleteOne(ctx, bson.M{"_id": documentID(b.browserID, key)}); err != nil {
		return fmt.Errorf("mongo remove item: %w", err)
	}
	return nil
}
