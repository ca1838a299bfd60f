// Package domain defines the persisted entities of the profile board:
// profiles, comments on profiles, likes on comments, and the named sequence
// counters that mint their integer identifiers. The same structs are mapped
// to MongoDB documents (bson tags) and to SQLite rows (gorm tags).
package domain

import "time"

// Sequence names, one counter document/row per entity type.
const (
	SeqProfile = "profile"
	SeqComment = "comment"
	SeqLike    = "like"
)

// Sequences lists every counter seeded when the store is provisioned.
var Sequences = []string{SeqProfile, SeqComment, SeqLike}

// Profile is a personality profile that can be commented on. A commenter is
// itself a profile, so Comment.UserID references this type as well.
//
// Only Name is required; every other attribute is free-form. Profiles are
// never updated or deleted once created.
type Profile struct {
	ID          int64  `json:"id"                    bson:"id"                    gorm:"primaryKey;autoIncrement:false"`
	Name        string `json:"name"                  bson:"name,omitempty"        gorm:"type:varchar(255)"`
	Description string `json:"description,omitempty" bson:"description,omitempty" gorm:"type:text"`
	MBTI        string `json:"mbti,omitempty"        bson:"mbti,omitempty"        gorm:"column:mbti;type:varchar(16)"`
	Enneagram   string `json:"enneagram,omitempty"   bson:"enneagram,omitempty"   gorm:"type:varchar(16)"`
	Variant     string `json:"variant,omitempty"     bson:"variant,omitempty"     gorm:"type:varchar(16)"`
	Tritype     int    `json:"tritype,omitempty"     bson:"tritype,omitempty"`
	Socionics   string `json:"socionics,omitempty"   bson:"socionics,omitempty"   gorm:"type:varchar(16)"`
	Sloan       string `json:"sloan,omitempty"       bson:"sloan,omitempty"       gorm:"type:varchar(16)"`
	Psyche      string `json:"psyche,omitempty"      bson:"psyche,omitempty"      gorm:"type:varchar(16)"`
	Image       string `json:"image,omitempty"       bson:"image,omitempty"       gorm:"type:varchar(1024)"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string { return "profiles" }

// Comment is a note left by UserID on the profile ProfileID, optionally
// carrying personality "votes" (MBTI, Enneagram, Zodiac).
//
// Likes is a denormalised counter maintained by the like service; it is the
// only field that changes after creation.
type Comment struct {
	ID          int64     `json:"id"          bson:"id"                gorm:"primaryKey;autoIncrement:false"`
	ProfileID   int64     `json:"profile_id"  bson:"profile_id"        gorm:"not null;index:idx_comments_profile"`
	UserID      int64     `json:"user_id"     bson:"user_id,omitempty" gorm:"not null"`
	Title       string    `json:"title"       bson:"title"             gorm:"type:varchar(255)"`
	Description string    `json:"description" bson:"description"       gorm:"type:text"`
	MBTI        string    `json:"mbti"        bson:"mbti"              gorm:"column:mbti;type:varchar(16)"`
	Enneagram   string    `json:"enneagram"   bson:"enneagram"         gorm:"type:varchar(16)"`
	Zodiac      string    `json:"zodiac"      bson:"zodiac"            gorm:"type:varchar(16)"`
	CreatedAt   time.Time `json:"created_at"  bson:"created_at"        gorm:"autoCreateTime:false"`
	Likes       int64     `json:"likes"       bson:"likes"             gorm:"not null;default:0"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// HasContent reports whether at least one of the textual fields or votes is
// non-empty. Whitespace counts as content.
func (c *Comment) HasContent() bool {
	for _, s := range []string{c.Title, c.Description, c.MBTI, c.Enneagram, c.Zodiac} {
		if s != "" {
			return true
		}
	}
	return false
}

// Like records that UserID liked CommentID. At most one like per
// (comment_id, user_id) pair is expected; the pair is checked, not enforced.
type Like struct {
	ID        int64     `json:"id"         bson:"id"                   gorm:"primaryKey;autoIncrement:false"`
	CommentID int64     `json:"comment_id" bson:"comment_id,omitempty" gorm:"not null;index:idx_likes_comment_user,priority:1"`
	UserID    int64     `json:"user_id"    bson:"user_id"              gorm:"not null;index:idx_likes_comment_user,priority:2"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"           gorm:"autoCreateTime:false"`
}

// TableName returns the database table name for Like.
func (Like) TableName() string { return "likes" }

// Counter is a named sequence. In MongoDB the name is the document _id.
type Counter struct {
	Name string `json:"name" bson:"_id" gorm:"primaryKey;type:varchar(64)"`
	Seq  int64  `json:"seq"  bson:"seq" gorm:"not null;default:0"`
}

// TableName returns the database table name for Counter.
func (Counter) TableName() string { return "counters" }
