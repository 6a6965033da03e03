package gallery

import (
	"context"
	"errors"
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
	opServiceNew  = "gallery.service.new"
	opListMedia   = "gallery.list_media"
	opCreatePhoto = "gallery.create_photo"
	opCreateVideo = "gallery.create_video"
	opCreateAudio = "gallery.create_audio"
	opCreateNote  = "gallery.create_note"
	opCreateQuote = "gallery.create_quote"
	opDeleteMedia = "gallery.delete_media"
	opReorder     = "gallery.set_display_order"

	displayOrdering = "display_order ASC, created_at ASC"
)

// ServiceConfig wires the dependencies of the gallery service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ident.Provider
	Logger     *zap.Logger
}

// Service manages the five gallery media kinds.
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

// ListAll loads the full gallery, every kind in display order.
func (s *Service) ListAll(ctx context.Context) (Collection, error) {
	var collection Collection
	db := s.db.WithContext(ctx)

	if err := db.Order(displayOrdering).Find(&collection.Photos).Error; err != nil {
		return Collection{}, s.storeFailure(opListMedia, "photo_query_failed", err)
	}
	if err := db.Order(displayOrdering).Find(&collection.Videos).Error; err != nil {
		return Collection{}, s.storeFailure(opListMedia, "video_query_failed", err)
	}
	if err := db.Order(displayOrdering).Find(&collection.Audios).Error; err != nil {
		return Collection{}, s.storeFailure(opListMedia, "audio_query_failed", err)
	}
	if err := db.Order(displayOrdering).Find(&collection.Notes).Error; err != nil {
		return Collection{}, s.storeFailure(opListMedia, "note_query_failed", err)
	}
	if err := db.Order(displayOrdering).Find(&collection.Quotes).Error; err != nil {
		return Collection{}, s.storeFailure(opListMedia, "quote_query_failed", err)
	}
	return collection, nil
}

// CreatePhoto stores a gallery photo.
func (s *Service) CreatePhoto(ctx context.Context, photo Photo) (Photo, error) {
	if strings.TrimSpace(photo.ImageURL) == "" {
		return Photo{}, faults.New(opCreatePhoto, "missing_image_url", faults.ErrValidation)
	}
	id, err := s.idProvider.NewID()
	if err != nil {
		return Photo{}, s.storeFailure(opCreatePhoto, "id_generation_failed", err)
	}
	photo.PhotoID = id
	photo.CreatedAt = s.clock().UTC()
	if err := s.db.WithContext(ctx).Create(&photo).Error; err != nil {
		return Photo{}, s.storeFailure(opCreatePhoto, "insert_failed", err)
	}
	return photo, nil
}

// CreateVideo stores a gallery video, deriving the thumbnail from the
// YouTube URL when it parses.
func (s *Service) CreateVideo(ctx context.Context, video Video) (Video, error) {
	if strings.TrimSpace(video.Title) == "" {
		return Video{}, faults.New(opCreateVideo, "missing_title", faults.ErrValidation)
	}
	if strings.TrimSpace(video.YouTubeURL) == "" {
		return Video{}, faults.New(opCreateVideo, "missing_youtube_url", faults.ErrValidation)
	}
	id, err := s.idProvider.NewID()
	if err != nil {
		return Video{}, s.storeFailure(opCreateVideo, "id_generation_failed", err)
	}
	video.VideoID = id
	video.ThumbnailURL = ThumbnailURL(ExtractYouTubeID(video.YouTubeURL))
	video.CreatedAt = s.clock().UTC()
	if err := s.db.WithContext(ctx).Create(&video).Error; err != nil {
		return Video{}, s.storeFailure(opCreateVideo, "insert_failed", err)
	}
	return video, nil
}

// CreateAudio stores a gallery audio piece.
func (s *Service) CreateAudio(ctx context.Context, audio Audio) (Audio, error) {
	if strings.TrimSpace(audio.Title) == "" {
		return Audio{}, faults.New(opCreateAudio, "missing_title", faults.ErrValidation)
	}
	if strings.TrimSpace(audio.AudioURL) == "" {
		return Audio{}, faults.New(opCreateAudio, "missing_audio_url", faults.ErrValidation)
	}
	id, err := s.idProvider.NewID()
	if err != nil {
		return Audio{}, s.storeFailure(opCreateAudio, "id_generation_failed", err)
	}
	audio.AudioID = id
	audio.CreatedAt = s.clock().UTC()
	if err := s.db.WithContext(ctx).Create(&audio).Error; err != nil {
		return Audio{}, s.storeFailure(opCreateAudio, "insert_failed", err)
	}
	return audio, nil
}

// CreateNote stores a gallery note.
func (s *Service) CreateNote(ctx context.Context, note Note) (Note, error) {
	if strings.TrimSpace(note.Title) == "" {
		return Note{}, faults.New(opCreateNote, "missing_title", faults.ErrValidation)
	}
	if strings.TrimSpace(note.Body) == "" {
		return Note{}, faults.New(opCreateNote, "missing_body", faults.ErrValidation)
	}
	id, err := s.idProvider.NewID()
	if err != nil {
		return Note{}, s.storeFailure(opCreateNote, "id_generation_failed", err)
	}
	note.NoteID = id
	note.CreatedAt = s.clock().UTC()
	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		return Note{}, s.storeFailure(opCreateNote, "insert_failed", err)
	}
	return note, nil
}

// CreateQuote stores a gallery quote.
func (s *Service) CreateQuote(ctx context.Context, quote Quote) (Quote, error) {
	if strings.TrimSpace(quote.Text) == "" {
		return Quote{}, faults.New(opCreateQuote, "missing_text", faults.ErrValidation)
	}
	id, err := s.idProvider.NewID()
	if err != nil {
		return Quote{}, s.storeFailure(opCreateQuote, "id_generation_failed", err)
	}
	quote.QuoteID = id
	quote.CreatedAt = s.clock().UTC()
	if err := s.db.WithContext(ctx).Create(&quote).Error; err != nil {
		return Quote{}, s.storeFailure(opCreateQuote, "insert_failed", err)
	}
	return quote, nil
}

// Kind selects a media table for deletion.
type Kind string

// Media kinds accepted by Delete.
const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindNote  Kind = "note"
	KindQuote Kind = "quote"
)

// Delete removes one media record of the given kind.
func (s *Service) Delete(ctx context.Context, kind Kind, id string) error {
	var result *gorm.DB
	db := s.db.WithContext(ctx)
	switch kind {
	case KindPhoto:
		result = db.Where("photo_id = ?", id).Delete(&Photo{})
	case KindVideo:
		result = db.Where("video_id = ?", id).Delete(&Video{})
	case KindAudio:
		result = db.Where("audio_id = ?", id).Delete(&Audio{})
	case KindNote:
		result = db.Where("note_id = ?", id).Delete(&Note{})
	case KindQuote:
		result = db.Where("quote_id = ?", id).Delete(&Quote{})
	default:
		return faults.New(opDeleteMedia, "unknown_kind", faults.ErrValidation)
	}
	if result.Error != nil {
		return s.storeFailure(opDeleteMedia, "delete_failed", result.Error, zap.String("kind", string(kind)), zap.String("id", id))
	}
	if result.RowsAffected == 0 {
		return faults.New(opDeleteMedia, "media_not_found", faults.ErrNotFound)
	}
	return nil
}

// SetDisplayOrder moves one media record to a new position within its kind.
func (s *Service) SetDisplayOrder(ctx context.Context, kind Kind, id string, displayOrder int) error {
	var result *gorm.DB
	db := s.db.WithContext(ctx)
	switch kind {
	case KindPhoto:
		result = db.Model(&Photo{}).Where("photo_id = ?", id).Update("display_order", displayOrder)
	case KindVideo:
		result = db.Model(&Video{}).Where("video_id = ?", id).Update("display_order", displayOrder)
	case KindAudio:
		result = db.Model(&Audio{}).Where("audio_id = ?", id).Update("display_order", displayOrder)
	case KindNote:
		result = db.Model(&Note{}).Where("note_id = ?", id).Update("display_order", displayOrder)
	case KindQuote:
		result = db.Model(&Quote{}).Where("quote_id = ?", id).Update("display_order", displayOrder)
	default:
		return faults.New(opReorder, "unknown_kind", faults.ErrValidation)
	}
	if result.Error != nil {
		return s.storeFailure(opReorder, "update_failed", result.Error, zap.String("kind", string(kind)), zap.String("id", id))
	}
	if result.RowsAffected == 0 {
		return faults.New(opReorder, "media_not_found", faults.ErrNotFound)
	}
	return nil
}

func (s *Service) storeFailure(operation, reason string, err error, fields ...zap.Field) error {
	attrs := append([]zap.Field{zap.String("operation", operation), zap.Error(err)}, fields...)
	s.logger.Error("gallery service error", attrs...)
	return faults.New(operation, reason, errors.Join(faults.ErrStoreUnavailable, err))
}
