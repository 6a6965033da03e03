package content

import "time"

// Post models a published blog entry. It is the likeable, viewable,
// commentable content unit the engagement services operate on; view_count
// is only ever mutated through atomic store-side increments.
type Post struct {
	PostID     string    `gorm:"column:post_id;primaryKey;size:190;not null" json:"post_id"`
	Title      string    `gorm:"column:title;size:320;not null" json:"title"`
	Slug       string    `gorm:"column:slug;size:190;not null;uniqueIndex" json:"slug"`
	Excerpt    string    `gorm:"column:excerpt;type:text" json:"excerpt"`
	Body       string    `gorm:"column:body;type:text;not null" json:"body"`
	CoverImage string    `gorm:"column:cover_image;size:512" json:"cover_image"`
	Category   string    `gorm:"column:category;size:64;index" json:"category"`
	Tags       []string  `gorm:"column:tags;serializer:json" json:"tags"`
	Published  bool      `gorm:"column:published;not null;default:false;index" json:"published"`
	Featured   bool      `gorm:"column:featured;not null;default:false" json:"featured"`
	ViewCount  int64     `gorm:"column:view_count;not null;default:0" json:"view_count"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Post) TableName() string {
	return "posts"
}
