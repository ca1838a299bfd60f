// Package domain defines the persisted entities of the profile board.
package domain

import "time"

// Idempotency stores the response produced for a request carrying an
// Idempotency-Key, keyed by (key, method, path). A retry with the same key
// is answered from this record instead of re-running the handler.
type Idempotency struct {
	ID        string    `json:"id"         bson:"_id"        gorm:"type:char(36);primaryKey"`
	Key       string    `json:"key"        bson:"key"        gorm:"type:varchar(200);not null;uniqueIndex:ux_idem_key_route,priority:1"`
	Method    string    `json:"method"     bson:"method"     gorm:"type:varchar(16);not null;uniqueIndex:ux_idem_key_route,priority:2"`
	Path      string    `json:"path"       bson:"path"       gorm:"type:varchar(512);not null;uniqueIndex:ux_idem_key_route,priority:3"`
	Status    int       `json:"status"     bson:"status"     gorm:"not null"`
	Body      []byte    `json:"body"       bson:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" gorm:"autoCreateTime:false"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at" gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

// Expired reports whether the record is no longer valid at now.
func (i *Idempotency) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
