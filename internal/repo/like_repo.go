package repo

import (
	"context"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

// InsertLike stores l. The caller assigns l.ID and l.CreatedAt.
func (s *SQLStore) InsertLike(ctx context.Context, l *domain.Like) error {
	if err := checkSchema(CollLikes, l); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(l).Error
}

// FindLike returns the like left by userID on commentID, or ErrNotFound.
func (s *SQLStore) FindLike(ctx context.Context, commentID, userID int64) (*domain.Like, error) {
	var l domain.Like
	err := s.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Order("id ASC").
		First(&l).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// DeleteLike removes one like matching (commentID, userID). It returns
// ErrNotFound when there is none.
func (s *SQLStore) DeleteLike(ctx context.Context, commentID, userID int64) error {
	l, err := s.FindLike(ctx, commentID, userID)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ?", l.ID).Delete(&domain.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
