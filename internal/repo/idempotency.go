// Package repo implements the data persistence layer for domain entities.
// This file provides the SQLite helpers for the Idempotency model used to
// implement safe-retry semantics for POST endpoints.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

// GetIdempotency returns a non-expired record or ErrNotFound.
func (s *SQLStore) GetIdempotency(ctx context.Context, key, method, path string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := s.db.WithContext(ctx).
		Where("key = ? AND method = ? AND path = ? AND expires_at > ?", key, method, path, now).
		First(&rec).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

// CreateIdempotency inserts rec and returns ErrDuplicate on unique violation.
// A record for the same (key, method, path) that has expired by
// rec.CreatedAt is replaced, since SQLite has no TTL sweep.
func (s *SQLStore) CreateIdempotency(ctx context.Context, rec *domain.Idempotency) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("key = ? AND method = ? AND path = ? AND expires_at <= ?",
			rec.Key, rec.Method, rec.Path, rec.CreatedAt).
			Delete(&domain.Idempotency{}).Error
		if err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return ErrDuplicate
		}
		return err
	}
	return nil
}
