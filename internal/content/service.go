package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/folioworks/folio/backend/internal/faults"
	"github.com/folioworks/folio/backend/internal/ident"
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

const (
	opServiceNew = "content.service.new"
	opCreatePost = "content.create_post"
	opUpdatePost = "content.update_post"
	opDeletePost = "content.delete_post"
	opGetPost    = "content.get_post"
	opListPosts  = "content.list_posts"
)

// ServiceConfig wires the dependencies of the content service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ident.Provider
	Logger     *zap.Logger
}

// Service manages authoring and retrieval of blog posts.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider ident.Provider
	logger     *zap.Logger
}

// NewService validates the configuration and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, faults.New(opServiceNew, "missing_database", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, faults.New(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{db: cfg.Database, clock: clock, idProvider: cfg.IDProvider, logger: logger}, nil
}

// PostInput carries the author-editable fields of a post.
type PostInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Body       string
	CoverImage string
	Category   string
	Tags       []string
	Published  bool
	Featured   bool
}

// Filter narrows List results. Query matches title and excerpt
// case-insensitively; zero values leave a dimension unfiltered.
type Filter struct {
	Query         string
	Category      string
	Tag           string
	FeaturedOnly  bool
	IncludeDrafts bool
}

// Create persists a new post. The slug is derived from the title when not
// supplied and suffixed until unique.
func (s *Service) Create(ctx context.Context, input PostInput) (Post, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" {
		return Post{}, faults.New(opCreatePost, "missing_title", faults.ErrValidation)
	}
	if body == "" {
		return Post{}, faults.New(opCreatePost, "missing_body", faults.ErrValidation)
	}

	slugSeed := input.Slug
	if strings.TrimSpace(slugSeed) == "" {
		slugSeed = title
	}
	baseSlug := Slugify(slugSeed)
	if baseSlug == "" {
		return Post{}, faults.New(opCreatePost, "unusable_slug", faults.ErrValidation)
	}

	postID, err := s.idProvider.NewID()
	if err != nil {
		return Post{}, s.storeFailure(opCreatePost, "id_generation_failed", err)
	}

	now := s.clock().UTC()
	post := Post{
		PostID:     postID,
		Title:      title,
		Excerpt:    strings.TrimSpace(input.Excerpt),
		Body:       body,
		CoverImage: strings.TrimSpace(input.CoverImage),
		Category:   strings.TrimSpace(input.Category),
		Tags:       normalizeTags(input.Tags),
		Published:  input.Published,
		Featured:   input.Featured,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, baseSlug, "")
		if err != nil {
			return err
		}
		post.Slug = slug
		return tx.Create(&post).Error
	})
	if txErr != nil {
		return Post{}, s.storeFailure(opCreatePost, "post_insert_failed", txErr, zap.String("slug", baseSlug))
	}

	return post, nil
}

// Update replaces the editable fields of an existing post.
func (s *Service) Update(ctx context.Context, postID string, input PostInput) (Post, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" {
		return Post{}, faults.New(opUpdatePost, "missing_title", faults.ErrValidation)
	}
	if body == "" {
		return Post{}, faults.New(opUpdatePost, "missing_body", faults.ErrValidation)
	}

	var post Post
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Take(&post).Error; err != nil {
			return err
		}

		post.Title = title
		post.Excerpt = strings.TrimSpace(input.Excerpt)
		post.Body = body
		post.CoverImage = strings.TrimSpace(input.CoverImage)
		post.Category = strings.TrimSpace(input.Category)
		post.Tags = normalizeTags(input.Tags)
		post.Published = input.Published
		post.Featured = input.Featured
		post.UpdatedAt = s.clock().UTC()

		if requested := strings.TrimSpace(input.Slug); requested != "" {
			base := Slugify(requested)
			if base != "" && base != post.Slug {
				slug, err := uniqueSlug(tx, base, post.PostID)
				if err != nil {
					return err
				}
				post.Slug = slug
			}
		}

		return tx.Save(&post).Error
	})
	if errors.Is(txErr, gorm.ErrRecordNotFound) {
		return Post{}, faults.New(opUpdatePost, "post_not_found", faults.ErrNotFound)
	}
	if txErr != nil {
		return Post{}, s.storeFailure(opUpdatePost, "post_update_failed", txErr, zap.String("post_id", postID))
	}

	return post, nil
}

// Delete removes a post permanently.
func (s *Service) Delete(ctx context.Context, postID string) error {
	result := s.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&Post{})
	if result.Error != nil {
		return s.storeFailure(opDeletePost, "post_delete_failed", result.Error, zap.String("post_id", postID))
	}
	if result.RowsAffected == 0 {
		return faults.New(opDeletePost, "post_not_found", faults.ErrNotFound)
	}
	return nil
}

// GetBySlug returns a published post for public rendering.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Post, error) {
	var post Post
	err := s.db.WithContext(ctx).
		Where("slug = ? AND published = ?", slug, true).
		Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Post{}, faults.New(opGetPost, "post_not_found", faults.ErrNotFound)
	}
	if err != nil {
		return Post{}, s.storeFailure(opGetPost, "query_failed", err, zap.String("slug", slug))
	}
	return post, nil
}

// GetByID returns a post regardless of its published state. Reserved for
// the moderation console.
func (s *Service) GetByID(ctx context.Context, postID string) (Post, error) {
	var post Post
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Post{}, faults.New(opGetPost, "post_not_found", faults.ErrNotFound)
	}
	if err != nil {
		return Post{}, s.storeFailure(opGetPost, "query_failed", err, zap.String("post_id", postID))
	}
	return post, nil
}

// List returns posts matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Post, error) {
	query := s.db.WithContext(ctx).Model(&Post{})
	if !filter.IncludeDrafts {
		query = query.Where("published = ?", true)
	}
	if filter.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		query = query.Where("tags LIKE ?", fmt.Sprintf(`%%%q%%`, strings.ToLower(tag)))
	}
	if needle := strings.ToLower(strings.TrimSpace(filter.Query)); needle != "" {
		pattern := "%" + needle + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ?", pattern, pattern)
	}

	var posts []Post
	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, s.storeFailure(opListPosts, "query_failed", err)
	}
	return posts, nil
}

func uniqueSlug(tx *gorm.DB, base, excludePostID string) (string, error) {
	candidate := base
	for suffix := 2; ; suffix++ {
		var count int64
		query := tx.Model(&Post{}).Where("slug = ?", candidate)
		if excludePostID != "" {
			query = query.Where("post_id <> ?", excludePostID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		normalized = append(normalized, cleaned)
	}
	return normalized
}

func (s *Service) storeFailure(operation, reason string, err error, fields ...zap.Field) error {
	attrs := append([]zap.Field{zap.String("operation", operation), zap.Error(err)}, fields...)
	s.logger.Error("content service error", attrs...)
	return faults.New(operation, reason, errors.Join(faults.ErrStoreUnavailable, err))
}
