package engagement

import "time"

// Like records that one anonymous visitor liked one post. The composite
// unique index is the authority for the at-most-one-like-per-visitor rule;
// the service treats a duplicate-key rejection as "already liked".
type Like struct {
	LikeID    string    `gorm:"column:like_id;primaryKey;size:190;not null"`
	ContentID string    `gorm:"column:content_id;size:190;not null;uniqueIndex:idx_likes_content_visitor,priority:1"`
	VisitorID string    `gorm:"column:visitor_id;size:190;not null;uniqueIndex:idx_likes_content_visitor,priority:2"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Like) TableName() string {
	return "content_likes"
}

// Share is an append-only outbound-share event tagged with the target
// platform. Rows are never updated or deleted.
type Share struct {
	ShareID   string    `gorm:"column:share_id;primaryKey;size:190;not null"`
	ContentID string    `gorm:"column:content_id;size:190;not null;index"`
	Platform  string    `gorm:"column:platform;size:32;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Share) TableName() string {
	return "content_shares"
}
