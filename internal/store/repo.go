// Package store persists dashboard documents in an embedded SQLite database,
// one JSON blob per key.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is a persisted JSON blob. Keys mirror the storage keys of the
// original dashboard: current layout, saved layouts, preferences.
type Document struct {
	Key       string         `gorm:"primaryKey;type:varchar(128)" json:"key"`
	Doc       datatypes.JSON `json:"doc"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Repo struct {
	db *gorm.DB
}

func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

func New(db *gorm.DB) (*Repo, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("migrating documents table: %w", err)
	}
	return &Repo{db: db}, nil
}

// Put upserts the document for a key.
func (r *Repo) Put(ctx context.Context, key string, doc any) error {
	buf, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document %q: %w", key, err)
	}
	d := Document{Key: key, Doc: datatypes.JSON(buf), UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"doc", "updated_at"}),
		}).
		Create(&d).Error
}

// Get decodes the document for a key into dst. The boolean reports whether
// the key existed; a stored blob that fails to decode is an error.
func (r *Repo) Get(ctx context.Context, key string, dst any) (bool, error) {
	var d Document
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(d.Doc, dst); err != nil {
		return true, fmt.Errorf("decoding document %q: %w", key, err)
	}
	return true, nil
}

// Delete removes the document for a key. Missing keys are not an error.
func (r *Repo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&Document{}).Error
}
