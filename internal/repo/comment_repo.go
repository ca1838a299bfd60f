package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

// InsertComment stores c. The caller assigns c.ID and c.CreatedAt.
func (s *SQLStore) InsertComment(ctx context.Context, c *domain.Comment) error {
	if err := checkSchema(CollComments, c); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(c).Error
}

// GetComment returns the comment with the given id or ErrNotFound.
func (s *SQLStore) GetComment(ctx context.Context, id int64) (*domain.Comment, error) {
	var c domain.Comment
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListComments returns the comments matching q, or an empty slice.
func (s *SQLStore) ListComments(ctx context.Context, q CommentQuery) ([]domain.Comment, error) {
	tx := s.db.WithContext(ctx).Where("profile_id = ?", q.ProfileID)
	if col, ok := voteColumn(q.NonEmpty); ok {
		tx = tx.Where(col + " <> ''")
	}
	switch q.SortBy {
	case SortRecent:
		tx = tx.Order("created_at DESC")
	case SortBest:
		tx = tx.Order("likes DESC")
	}

	out := []domain.Comment{}
	err := tx.Find(&out).Error
	return out, err
}

// IncrementLikes adds delta to the comment's likes counter.
func (s *SQLStore) IncrementLikes(ctx context.Context, commentID, delta int64) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn("likes", gorm.Expr("likes + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
