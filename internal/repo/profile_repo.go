// Package repo implements the data persistence layer for domain entities.
// This file provides the SQLite operations for the Profile model.
//
// Error semantics:
//   - When a profile is not found, functions return ErrNotFound.
//   - Documents rejected by the profiles schema return *SchemaError.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

// InsertProfile stores p. The caller assigns p.ID.
func (s *SQLStore) InsertProfile(ctx context.Context, p *domain.Profile) error {
	if err := checkSchema(CollProfiles, p); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(p).Error
}

// GetProfile returns the profile with the given id or ErrNotFound.
func (s *SQLStore) GetProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	var p domain.Profile
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindProfiles returns every profile whose id is in ids. Missing ids are
// simply absent from the result.
func (s *SQLStore) FindProfiles(ctx context.Context, ids ...int64) ([]domain.Profile, error) {
	out := []domain.Profile{}
	if len(ids) == 0 {
		return out, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
