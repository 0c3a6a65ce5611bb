package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"signboard-admin/internal/clock"
	"signboard-admin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDocumentNotFound = errors.New("document_not_found")
	ErrInvalidDocument  = errors.New("invalid_document")
)

// Store is the document persistence the services write through. Documents are
// JSON objects keyed by a store-assigned id inside a named collection.
type Store interface {
	AddDocument(ctx context.Context, collection string, data any) (string, error)
	GetDocument(ctx context.Context, collection, id string, dest any) error
	ListDocuments(ctx context.Context, collection string) ([]models.Record, error)
	UpdateDocument(ctx context.Context, collection, id string, patch map[string]any) error
	ListDocumentsBetween(ctx context.Context, collection string, start, end time.Time) ([]models.Record, error)
}

// GormStore keeps documents in the records table.
type GormStore struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewStore(db *gorm.DB, c clock.Clock) *GormStore {
	if c == nil {
		c = clock.System()
	}
	return &GormStore{db: db, clock: c}
}

func (s *GormStore) AddDocument(ctx context.Context, collection string, data any) (string, error) {
	raw, err := encodeObject(data)
	if err != nil {
		return "", err
	}

	now := s.clock.Now().UTC()
	rec := models.Record{
		ID:         uuid.NewString(),
		Collection: collection,
		Data:       raw,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("add %s document: %w", collection, err)
	}
	return rec.ID, nil
}

// GetDocument decodes the stored JSON into dest.
func (s *GormStore) GetDocument(ctx context.Context, collection, id string, dest any) error {
	rec, err := s.find(s.db.WithContext(ctx), collection, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(rec.Data, dest); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return nil
}

// ListDocuments returns the collection oldest first.
func (s *GormStore) ListDocuments(ctx context.Context, collection string) ([]models.Record, error) {
	var recs []models.Record
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at ASC").Order("id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return recs, nil
}

// UpdateDocument merges patch into the top level of the stored object. Concurrent
// writers are not coordinated beyond the row lock: the last one wins.
func (s *GormStore) UpdateDocument(ctx context.Context, collection, id string, patch map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), collection, id)
		if err != nil {
			return err
		}

		doc := map[string]any{}
		if len(rec.Data) > 0 {
			if err := json.Unmarshal(rec.Data, &doc); err != nil {
				return fmt.Errorf("decode %s/%s: %w", collection, id, err)
			}
		}
		for k, v := range patch {
			doc[k] = v
		}

		raw, err := encodeObject(doc)
		if err != nil {
			return err
		}
		return tx.Model(&models.Record{}).
			Where("collection = ? AND id = ?", collection, id).
			Updates(map[string]any{"data": raw, "updated_at": s.clock.Now().UTC()}).Error
	})
}

func (s *GormStore) find(db *gorm.DB, collection, id string) (*models.Record, error) {
	var rec models.Record
	err := db.Where("collection = ? AND id = ?", collection, id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &rec, nil
}

// encodeObject marshals data and insists on a JSON object so patches can merge.
func encodeObject(data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("%w: documents must be JSON objects", ErrInvalidDocument)
	}
	return raw, nil
}
