package repo

import "context"

// IncrementCounter atomically adds delta to the named counter, creating it at
// delta when missing, and returns the post-increment value. The upsert and
// the read happen in one statement so concurrent callers never observe the
// same value.
func (s *SQLStore) IncrementCounter(ctx context.Context, name string, delta int64) (int64, error) {
	var seq int64
	err := s.db.WithContext(ctx).
		Raw(`INSERT INTO counters (name, seq) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET seq = seq + excluded.seq
			RETURNING seq`, name, delta).
		Scan(&seq).Error
	return seq, err
}
