package gallery

import "time"

// Photo is a gallery image.
type Photo struct {
	PhotoID      string    `gorm:"column:photo_id;primaryKey;size:190;not null" json:"photo_id"`
	Title        string    `gorm:"column:title;size:320" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	ImageURL     string    `gorm:"column:image_url;size:512;not null" json:"image_url"`
	Category     string    `gorm:"column:category;size:64" json:"category"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Photo) TableName() string { return "gallery_photos" }

// Video is an embedded YouTube video; the thumbnail is derived from the
// video id at creation time.
type Video struct {
	VideoID      string    `gorm:"column:video_id;primaryKey;size:190;not null" json:"video_id"`
	Title        string    `gorm:"column:title;size:320;not null" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	YouTubeURL   string    `gorm:"column:youtube_url;size:512;not null" json:"youtube_url"`
	ThumbnailURL string    `gorm:"column:thumbnail_url;size:512" json:"thumbnail_url"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Video) TableName() string { return "gallery_videos" }

// Audio is a hosted audio piece.
type Audio struct {
	AudioID      string    `gorm:"column:audio_id;primaryKey;size:190;not null" json:"audio_id"`
	Title        string    `gorm:"column:title;size:320;not null" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	AudioURL     string    `gorm:"column:audio_url;size:512;not null" json:"audio_url"`
	CoverImage   string    `gorm:"column:cover_image;size:512" json:"cover_image"`
	Duration     string    `gorm:"column:duration;size:16" json:"duration"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Audio) TableName() string { return "gallery_audios" }

// Note is a short written piece shown in the gallery.
type Note struct {
	NoteID       string    `gorm:"column:note_id;primaryKey;size:190;not null" json:"note_id"`
	Title        string    `gorm:"column:title;size:320;not null" json:"title"`
	Body         string    `gorm:"column:body;type:text;not null" json:"body"`
	Category     string    `gorm:"column:category;size:64" json:"category"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Note) TableName() string { return "gallery_notes" }

// Quote is a collected quotation.
type Quote struct {
	QuoteID      string    `gorm:"column:quote_id;primaryKey;size:190;not null" json:"quote_id"`
	Text         string    `gorm:"column:text;type:text;not null" json:"text"`
	Author       string    `gorm:"column:author;size:320" json:"author"`
	Source       string    `gorm:"column:source;size:320" json:"source"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Quote) TableName() string { return "gallery_quotes" }

// Collection bundles every media kind for the public gallery page.
type Collection struct {
	Photos []Photo `json:"photos"`
	Videos []Video `json:"videos"`
	Audios []Audio `json:"audios"`
	Notes  []Note  `json:"notes"`
	Quotes []Quote `json:"quotes"`
}
