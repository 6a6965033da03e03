package engagement

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/folioworks/folio/backend/internal/content"
	"github.com/folioworks/folio/backend/internal/faults"
	"github.com/folioworks/folio/backend/internal/ident"
	"github.com/folioworks/folio/backend/internal/session"
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	errMissingContentID  = errors.New("content identifier is required")
	noOpLogger           = zap.NewNop()
)

const (
	opServiceNew = "engagement.service.new"
	opToggleLike = "engagement.toggle_like"
	opLiked      = "engagement.liked"
	opLikeCount  = "engagement.like_count"
	opRecordView = "engagement.record_view"
	opTrackShare = "engagement.track_share"
	opShareCount = "engagement.share_count"
)

// unknownPlatform is recorded when a share arrives without a platform tag.
const unknownPlatform = "unknown"

// ServiceConfig wires the dependencies of the engagement service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ident.Provider
	Logger     *zap.Logger
}

// Service implements anonymous per-visitor likes, at-least-once view
// counting and fire-and-forget share tracking. The store is authoritative
// for every count; nothing here caches state between calls.
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

// ToggleResult reports the like state after a toggle.
type ToggleResult struct {
	Liked bool `json:"liked"`
}

// ToggleLike flips the like state for (content, visitor). The check and the
// write run in one transaction with the row locked, so two racing toggles
// from the same visitor serialize; if a concurrent insert still wins the
// race the unique index rejects ours and the call converges to liked.
func (s *Service) ToggleLike(ctx context.Context, contentID string, visitorID session.VisitorID) (ToggleResult, error) {
	if strings.TrimSpace(contentID) == "" {
		return ToggleResult{}, faults.New(opToggleLike, "missing_content_id", errors.Join(faults.ErrValidation, errMissingContentID))
	}
	if _, err := session.NewVisitorID(visitorID.String()); err != nil {
		return ToggleResult{}, faults.New(opToggleLike, "invalid_visitor_id", errors.Join(faults.ErrValidation, err))
	}

	var result ToggleResult
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Like
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("content_id = ? AND visitor_id = ?", contentID, visitorID.String()).
			Take(&existing).Error
		if err == nil {
			if err := tx.Where("like_id = ?", existing.LikeID).Delete(&Like{}).Error; err != nil {
				return err
			}
			result = ToggleResult{Liked: false}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		likeID, err := s.idProvider.NewID()
		if err != nil {
			return err
		}
		like := Like{
			LikeID:    likeID,
			ContentID: contentID,
			VisitorID: visitorID.String(),
			CreatedAt: s.clock().UTC(),
		}
		if err := tx.Create(&like).Error; err != nil {
			if isDuplicateKey(err) {
				// A concurrent toggle inserted first; the invariant holds.
				result = ToggleResult{Liked: true}
				return nil
			}
			return err
		}
		result = ToggleResult{Liked: true}
		return nil
	})
	if txErr != nil {
		s.logError(opToggleLike, txErr, zap.String("content_id", contentID))
		return ToggleResult{}, faults.New(opToggleLike, "store_unavailable", errors.Join(faults.ErrStoreUnavailable, txErr))
	}

	return result, nil
}

// Liked reports whether the visitor currently likes the content.
func (s *Service) Liked(ctx context.Context, contentID string, visitorID session.VisitorID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Like{}).
		Where("content_id = ? AND visitor_id = ?", contentID, visitorID.String()).
		Count(&count).Error
	if err != nil {
		s.logError(opLiked, err, zap.String("content_id", contentID))
		return false, faults.New(opLiked, "store_unavailable", errors.Join(faults.ErrStoreUnavailable, err))
	}
	return count > 0, nil
}

// LikeCount derives the like total from the Like set; the denormalized
// figure shown by clients is advisory only.
func (s *Service) LikeCount(ctx context.Context, contentID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Like{}).
		Where("content_id = ?", contentID).
		Count(&count).Error
	if err != nil {
		s.logError(opLikeCount, err, zap.String("content_id", contentID))
		return 0, faults.New(opLikeCount, "store_unavailable", errors.Join(faults.ErrStoreUnavailable, err))
	}
	return count, nil
}

// RecordView bumps the post's view counter by one with a store-side atomic
// increment. Analytics never breaks a page render: a missing post is a
// silent no-op and store failures are logged and swallowed.
func (s *Service) RecordView(ctx context.Context, contentID string) {
	if strings.TrimSpace(contentID) == "" {
		return
	}
	result := s.db.WithContext(ctx).Model(&content.Post{}).
		Where("post_id = ?", contentID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		s.logError(opRecordView, result.Error, zap.String("content_id", contentID))
		return
	}
	if result.RowsAffected == 0 {
		s.logger.Debug("view recorded for unknown content", zap.String("content_id", contentID))
	}
}

// TrackShare appends one share event. Pure analytics: failures are logged
// and swallowed so the user-visible share action is never blocked.
func (s *Service) TrackShare(ctx context.Context, contentID, platform string) {
	if strings.TrimSpace(contentID) == "" {
		return
	}
	normalized := strings.ToLower(strings.TrimSpace(platform))
	if normalized == "" {
		normalized = unknownPlatform
	}

	shareID, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opTrackShare, err, zap.String("content_id", contentID))
		return
	}
	share := Share{
		ShareID:   shareID,
		ContentID: contentID,
		Platform:  normalized,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&share).Error; err != nil {
		s.logError(opTrackShare, err,
			zap.String("content_id", contentID),
			zap.String("platform", normalized))
	}
}

// ShareCount returns the number of recorded share events for the content.
func (s *Service) ShareCount(ctx context.Context, contentID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Share{}).
		Where("content_id = ?", contentID).
		Count(&count).Error
	if err != nil {
		s.logError(opShareCount, err, zap.String("content_id", contentID))
		return 0, faults.New(opShareCount, "store_unavailable", errors.Join(faults.ErrStoreUnavailable, err))
	}
	return count, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := err.Error()
	return strings.Contains(message, "UNIQUE constraint failed") ||
		strings.Contains(message, "duplicate key value")
}

func (s *Service) logError(operation string, err error, fields ...zap.Field) {
	attrs := append([]zap.Field{zap.String("operation", operation), zap.Error(err)}, fields...)
	s.logger.Error("engagement service error", attrs...)
}
