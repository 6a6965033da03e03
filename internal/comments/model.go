package comments

import "time"

// Comment is a top-level remark on a post. Approved gates public
// visibility; moderation is the only writer of that flag after submission.
type Comment struct {
	CommentID   string    `gorm:"column:comment_id;primaryKey;size:190;not null" json:"comment_id"`
	ContentID   string    `gorm:"column:content_id;size:190;not null;index" json:"content_id"`
	AuthorName  string    `gorm:"column:author_name;size:120;not null" json:"author_name"`
	AuthorEmail string    `gorm:"column:author_email;size:320" json:"author_email,omitempty"`
	Body        string    `gorm:"column:body;type:text;not null" json:"body"`
	Approved    bool      `gorm:"column:approved;not null;default:false;index" json:"approved"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Comment) TableName() string {
	return "blog_comments"
}

// Reply is a single-level response scoped to exactly one parent comment.
// Deleting the parent removes its replies.
type Reply struct {
	ReplyID     string    `gorm:"column:reply_id;primaryKey;size:190;not null" json:"reply_id"`
	CommentID   string    `gorm:"column:comment_id;size:190;not null;index" json:"comment_id"`
	Comment     *Comment  `gorm:"foreignKey:CommentID;references:CommentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	AuthorName  string    `gorm:"column:author_name;size:120;not null" json:"author_name"`
	AuthorEmail string    `gorm:"column:author_email;size:320" json:"author_email,omitempty"`
	Body        string    `gorm:"column:body;type:text;not null" json:"body"`
	Approved    bool      `gorm:"column:approved;not null;default:false;index" json:"approved"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Reply) TableName() string {
	return "comment_replies"
}
