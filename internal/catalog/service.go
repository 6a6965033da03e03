package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/folioworks/folio/backend/internal/content"
	"github.com/folioworks/folio/backend/internal/faults"
	"github.com/folioworks/folio/backend/internal/ident"
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

const (
	opServiceNew    = "catalog.service.new"
	opListProjects  = "catalog.list_projects"
	opGetProject    = "catalog.get_project"
	opSaveProject   = "catalog.save_project"
	opDeleteProject = "catalog.delete_project"
	opListProducts  = "catalog.list_products"
	opGetProduct    = "catalog.get_product"
	opSaveProduct   = "catalog.save_product"
	opDeleteProduct = "catalog.delete_product"
	slugSuffixLimit = 50
)

// ServiceConfig wires the dependencies of the catalog service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ident.Provider
	Logger     *zap.Logger
}

// Service manages portfolio projects and store products.
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

// ProjectInput carries the editable fields of a project.
type ProjectInput struct {
	Title        string
	Description  string
	Body         string
	CoverImage   string
	TechStack    []string
	LiveURL      string
	GithubURL    string
	Featured     bool
	DisplayOrder int
}

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Title        string
	Description  string
	PriceCents   int64
	CoverImage   string
	Category     string
	ExternalLink string
	Featured     bool
	Active       bool
}

// ListProjects returns projects ordered for display: explicit order first,
// then recency.
func (s *Service) ListProjects(ctx context.Context, featuredOnly bool) ([]Project, error) {
	query := s.db.WithContext(ctx).Model(&Project{})
	if featuredOnly {
		query = query.Where("featured = ?", true)
	}
	var projects []Project
	if err := query.Order("display_order ASC, created_at DESC").Find(&projects).Error; err != nil {
		return nil, s.storeFailure(opListProjects, "query_failed", err)
	}
	return projects, nil
}

// GetProjectBySlug returns one project.
func (s *Service) GetProjectBySlug(ctx context.Context, slug string) (Project, error) {
	var project Project
	err := s.db.WithContext(ctx).Where("slug = ?", slug).Take(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Project{}, faults.New(opGetProject, "project_not_found", faults.ErrNotFound)
	}
	if err != nil {
		return Project{}, s.storeFailure(opGetProject, "query_failed", err, zap.String("slug", slug))
	}
	return project, nil
}

// CreateProject persists a new project.
func (s *Service) CreateProject(ctx context.Context, input ProjectInput) (Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Project{}, faults.New(opSaveProject, "missing_title", faults.ErrValidation)
	}

	projectID, err := s.idProvider.NewID()
	if err != nil {
		return Project{}, s.storeFailure(opSaveProject, "id_generation_failed", err)
	}

	now := s.clock().UTC()
	project := Project{
		ProjectID:    projectID,
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		Body:         input.Body,
		CoverImage:   strings.TrimSpace(input.CoverImage),
		TechStack:    input.TechStack,
		LiveURL:      strings.TrimSpace(input.LiveURL),
		GithubURL:    strings.TrimSpace(input.GithubURL),
		Featured:     input.Featured,
		DisplayOrder: input.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := s.uniqueSlug(tx, &Project{}, content.Slugify(title), "project_id", "")
		if err != nil {
			return err
		}
		project.Slug = slug
		return tx.Create(&project).Error
	})
	if txErr != nil {
		return Project{}, s.storeFailure(opSaveProject, "insert_failed", txErr)
	}
	return project, nil
}

// UpdateProject replaces the editable fields of an existing project.
func (s *Service) UpdateProject(ctx context.Context, projectID string, input ProjectInput) (Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Project{}, faults.New(opSaveProject, "missing_title", faults.ErrValidation)
	}

	var project Project
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Take(&project).Error; err != nil {
			return err
		}
		project.Title = title
		project.Description = strings.TrimSpace(input.Description)
		project.Body = input.Body
		project.CoverImage = strings.TrimSpace(input.CoverImage)
		project.TechStack = input.TechStack
		project.LiveURL = strings.TrimSpace(input.LiveURL)
		project.GithubURL = strings.TrimSpace(input.GithubURL)
		project.Featured = input.Featured
		project.DisplayOrder = input.DisplayOrder
		project.UpdatedAt = s.clock().UTC()
		return tx.Save(&project).Error
	})
	if errors.Is(txErr, gorm.ErrRecordNotFound) {
		return Project{}, faults.New(opSaveProject, "project_not_found", faults.ErrNotFound)
	}
	if txErr != nil {
		return Project{}, s.storeFailure(opSaveProject, "update_failed", txErr, zap.String("project_id", projectID))
	}
	return project, nil
}

// DeleteProject removes a project permanently.
func (s *Service) DeleteProject(ctx context.Context, projectID string) error {
	result := s.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&Project{})
	if result.Error != nil {
		return s.storeFailure(opDeleteProject, "delete_failed", result.Error, zap.String("project_id", projectID))
	}
	if result.RowsAffected == 0 {
		return faults.New(opDeleteProject, "project_not_found", faults.ErrNotFound)
	}
	return nil
}

// ListProducts returns store products, newest first. Public callers see
// active products only.
func (s *Service) ListProducts(ctx context.Context, includeInactive bool) ([]Product, error) {
	query := s.db.WithContext(ctx).Model(&Product{})
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	var products []Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, s.storeFailure(opListProducts, "query_failed", err)
	}
	return products, nil
}

// GetProductBySlug returns one active product.
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	var product Product
	err := s.db.WithContext(ctx).Where("slug = ? AND active = ?", slug, true).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, faults.New(opGetProduct, "product_not_found", faults.ErrNotFound)
	}
	if err != nil {
		return Product{}, s.storeFailure(opGetProduct, "query_failed", err, zap.String("slug", slug))
	}
	return product, nil
}

// CreateProduct persists a new product.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (Product, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Product{}, faults.New(opSaveProduct, "missing_title", faults.ErrValidation)
	}
	if input.PriceCents < 0 {
		return Product{}, faults.New(opSaveProduct, "negative_price", faults.ErrValidation)
	}

	productID, err := s.idProvider.NewID()
	if err != nil {
		return Product{}, s.storeFailure(opSaveProduct, "id_generation_failed", err)
	}

	now := s.clock().UTC()
	product := Product{
		ProductID:    productID,
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		PriceCents:   input.PriceCents,
		CoverImage:   strings.TrimSpace(input.CoverImage),
		Category:     strings.TrimSpace(input.Category),
		ExternalLink: strings.TrimSpace(input.ExternalLink),
		Featured:     input.Featured,
		Active:       input.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := s.uniqueSlug(tx, &Product{}, content.Slugify(title), "product_id", "")
		if err != nil {
			return err
		}
		product.Slug = slug
		return tx.Create(&product).Error
	})
	if txErr != nil {
		return Product{}, s.storeFailure(opSaveProduct, "insert_failed", txErr)
	}
	return product, nil
}

// UpdateProduct replaces the editable fields of an existing product.
func (s *Service) UpdateProduct(ctx context.Context, productID string, input ProductInput) (Product, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Product{}, faults.New(opSaveProduct, "missing_title", faults.ErrValidation)
	}
	if input.PriceCents < 0 {
		return Product{}, faults.New(opSaveProduct, "negative_price", faults.ErrValidation)
	}

	var product Product
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Take(&product).Error; err != nil {
			return err
		}
		product.Title = title
		product.Description = strings.TrimSpace(input.Description)
		product.PriceCents = input.PriceCents
		product.CoverImage = strings.TrimSpace(input.CoverImage)
		product.Category = strings.TrimSpace(input.Category)
		product.ExternalLink = strings.TrimSpace(input.ExternalLink)
		product.Featured = input.Featured
		product.Active = input.Active
		product.UpdatedAt = s.clock().UTC()
		return tx.Save(&product).Error
	})
	if errors.Is(txErr, gorm.ErrRecordNotFound) {
		return Product{}, faults.New(opSaveProduct, "product_not_found", faults.ErrNotFound)
	}
	if txErr != nil {
		return Product{}, s.storeFailure(opSaveProduct, "update_failed", txErr, zap.String("product_id", productID))
	}
	return product, nil
}

// DeleteProduct removes a product permanently.
func (s *Service) DeleteProduct(ctx context.Context, productID string) error {
	result := s.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&Product{})
	if result.Error != nil {
		return s.storeFailure(opDeleteProduct, "delete_failed", result.Error, zap.String("product_id", productID))
	}
	if result.RowsAffected == 0 {
		return faults.New(opDeleteProduct, "product_not_found", faults.ErrNotFound)
	}
	return nil
}

func (s *Service) uniqueSlug(tx *gorm.DB, model any, base, idColumn, excludeID string) (string, error) {
	if base == "" {
		return "", faults.New(opSaveProject, "unusable_slug", faults.ErrValidation)
	}
	candidate := base
	for suffix := 2; suffix < slugSuffixLimit+2; suffix++ {
		var count int64
		query := tx.Model(model).Where("slug = ?", candidate)
		if excludeID != "" {
			query = query.Where(idColumn+" <> ?", excludeID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
	return "", fmt.Errorf("could not find a free slug for %q", base)
}

func (s *Service) storeFailure(operation, reason string, err error, fields ...zap.Field) error {
	attrs := append([]zap.Field{zap.String("operation", operation), zap.Error(err)}, fields...)
	s.logger.Error("catalog service error", attrs...)
	return faults.New(operation, reason, errors.Join(faults.ErrStoreUnavailable, err))
}
