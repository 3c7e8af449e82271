package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Store is the persistence layer for users and the images/labels/albums/favorites they own.
// It is safe for concurrent use; every call runs on its own pooled connection or transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the schema
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&User{},
		&Image{},
		&ImageObject{},
		&Album{},
		&AlbumImage{},
		&Favorite{},
	)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Page is an offset/limit window over a listing
type Page struct {
	Offset int
	Limit  int
}

// Normalize applies the default limit and clamps out of range values
func (p Page) Normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) apply(tx *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return tx.Offset(p.Offset).Limit(p.Limit)
}

// first loads a single row, returning (nil, nil) when nothing matches
func first[T any](tx *gorm.DB, conds ...any) (*T, error) {
	var row T
	err := tx.First(&row, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
