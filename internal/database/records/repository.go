// Package records provides sqlite storage for schemaless records grouped into collections.
//
// # Usage
//
//	repo := records.NewRepository(db)
//	err := repo.Upsert(ctx, "products", "p1", []byte(`{"id":"p1","title":"Mat"}`))
//	row, err := repo.Get(ctx, "products", "p1")
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/shayfa/internal/entities"
)

// ErrDuplicateID is returned by Insert when the id is already taken.
var ErrDuplicateID = errors.New("record id already exists")

// Repository handles all record database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new records repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EnsureCollections registers each collection name that is not registered yet.
func (r *Repository) EnsureCollections(ctx context.Context, names []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			c := entities.StoredCollection{Name: name}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error; err != nil {
				return fmt.Errorf("failed to create collection %s: %w", name, err)
			}
		}
		return nil
	})
}

// Collections returns the registered collection names.
func (r *Repository) Collections(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&entities.StoredCollection{}).Order("name ASC").Pluck("name", &names).Error
	return names, err
}

// Get returns the raw document for (collection, id), or nil when absent.
func (r *Repository) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var row entities.StoredRecord
	err := r.db.WithContext(ctx).
		Where("collection = ? AND record_id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Data), nil
}

// List returns every document in the collection in insertion order.
func (r *Repository) List(ctx context.Context, collection string) ([][]byte, error) {
	var rows []entities.StoredRecord
	err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	docs := make([][]byte, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, []byte(row.Data))
	}
	return docs, nil
}

// Upsert replaces the document stored under (collection, id), creating it if needed.
// An existing row keeps its insertion position.
func (r *Repository) Upsert(ctx context.Context, collection, id string, data []byte) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, collection, id)
		if err != nil {
			return err
		}
		if found {
			return tx.Model(&entities.StoredRecord{}).
				Where("collection = ? AND record_id = ?", collection, id).
				Updates(map[string]any{
					"data":       datatypes.JSON(data),
					"updated_at": time.Now(),
				}).Error
		}
		return create(tx, collection, id, data)
	})
}

// Insert stores a new document and fails with ErrDuplicateID if the id is taken.
func (r *Repository) Insert(ctx context.Context, collection, id string, data []byte) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, collection, id)
		if err != nil {
			return err
		}
		if found {
			return ErrDuplicateID
		}
		return create(tx, collection, id, data)
	})
}

// Delete removes the document and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, collection, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("collection = ? AND record_id = ?", collection, id).
		Delete(&entities.StoredRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Count returns the number of documents in the collection.
func (r *Repository) Count(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.StoredRecord{}).
		Where("collection = ?", collection).
		Count(&count).Error
	return count, err
}

func exists(tx *gorm.DB, collection, id string) (bool, error) {
	var count int64
	err := tx.Model(&entities.StoredRecord{}).
		Where("collection = ? AND record_id = ?", collection, id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up record: %w", err)
	}
	return count > 0, nil
}

func create(tx *gorm.DB, collection, id string, data []byte) error {
	var maxSeq int64
	err := tx.Model(&entities.StoredRecord{}).
		Where("collection = ?", collection).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error
	if err != nil {
		return fmt.Errorf("failed to compute insertion order: %w", err)
	}

	row := entities.StoredRecord{
		Collection: collection,
		RecordID:   id,
		Seq:        maxSeq + 1,
		Data:       datatypes.JSON(data),
	}
	return tx.Create(&row).Error
}
