package catalog

import "time"

// Project is a portfolio entry.
type Project struct {
	ProjectID    string    `gorm:"column:project_id;primaryKey;size:190;not null" json:"project_id"`
	Title        string    `gorm:"column:title;size:320;not null" json:"title"`
	Slug         string    `gorm:"column:slug;size:190;not null;uniqueIndex" json:"slug"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	Body         string    `gorm:"column:body;type:text" json:"body"`
	CoverImage   string    `gorm:"column:cover_image;size:512" json:"cover_image"`
	TechStack    []string  `gorm:"column:tech_stack;serializer:json" json:"tech_stack"`
	LiveURL      string    `gorm:"column:live_url;size:512" json:"live_url"`
	GithubURL    string    `gorm:"column:github_url;size:512" json:"github_url"`
	Featured     bool      `gorm:"column:featured;not null;default:false" json:"featured"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Project) TableName() string {
	return "projects"
}

// Product is an item in the digital-product store. Price is stored in
// cents to keep arithmetic exact.
type Product struct {
	ProductID    string    `gorm:"column:product_id;primaryKey;size:190;not null" json:"product_id"`
	Title        string    `gorm:"column:title;size:320;not null" json:"title"`
	Slug         string    `gorm:"column:slug;size:190;not null;uniqueIndex" json:"slug"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	PriceCents   int64     `gorm:"column:price_cents;not null;default:0" json:"price_cents"`
	CoverImage   string    `gorm:"column:cover_image;size:512" json:"cover_image"`
	Category     string    `gorm:"column:category;size:64;index" json:"category"`
	ExternalLink string    `gorm:"column:external_link;size:512" json:"external_link"`
	Featured     bool      `gorm:"column:featured;not null;default:false" json:"featured"`
	Active       bool      `gorm:"column:active;not null;index" json:"active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Product) TableName() string {
	return "products"
}
