package contact

import (
	"context"
	"errors"
	"net/mail"
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
	opServiceNew    = "contact.service.new"
	opSubmitMessage = "contact.submit_message"
	opListMessages  = "contact.list_messages"
	opMarkRead      = "contact.mark_read"
	opRecordReply   = "contact.record_reply"
	opDeleteMessage = "contact.delete_message"
)

// ServiceConfig wires the dependencies of the contact service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ident.Provider
	Logger     *zap.Logger
}

// Service stores contact-form submissions and drives the admin inbox
// workflow (read state, recorded replies).
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

// SubmitRequest carries a visitor contact submission.
type SubmitRequest struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// Submit validates and stores a contact message with status unread.
func (s *Service) Submit(ctx context.Context, request SubmitRequest) (Message, error) {
	name := strings.TrimSpace(request.Name)
	email := strings.TrimSpace(request.Email)
	subject := strings.TrimSpace(request.Subject)
	body := strings.TrimSpace(request.Body)

	switch {
	case name == "":
		return Message{}, faults.New(opSubmitMessage, "missing_name", faults.ErrValidation)
	case email == "":
		return Message{}, faults.New(opSubmitMessage, "missing_email", faults.ErrValidation)
	case subject == "":
		return Message{}, faults.New(opSubmitMessage, "missing_subject", faults.ErrValidation)
	case body == "":
		return Message{}, faults.New(opSubmitMessage, "missing_body", faults.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Message{}, faults.New(opSubmitMessage, "invalid_email", errors.Join(faults.ErrValidation, err))
	}

	messageID, err := s.idProvider.NewID()
	if err != nil {
		return Message{}, s.storeFailure(opSubmitMessage, "id_generation_failed", err)
	}

	now := s.clock().UTC()
	message := Message{
		MessageID: messageID,
		Name:      name,
		Email:     email,
		Subject:   subject,
		Body:      body,
		Status:    StatusUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return Message{}, s.storeFailure(opSubmitMessage, "insert_failed", err)
	}
	return message, nil
}

// List returns messages newest first, optionally restricted to one status.
func (s *Service) List(ctx context.Context, status string) ([]Message, error) {
	query := s.db.WithContext(ctx).Model(&Message{})
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		query = query.Where("status = ?", trimmed)
	}
	var messages []Message
	if err := query.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, s.storeFailure(opListMessages, "query_failed", err)
	}
	return messages, nil
}

// MarkRead transitions a message out of the unread state.
func (s *Service) MarkRead(ctx context.Context, messageID string) error {
	return s.update(ctx, opMarkRead, messageID, map[string]any{
		"status":     StatusRead,
		"updated_at": s.clock().UTC(),
	})
}

// RecordReply stores the reply text sent to the visitor and marks the
// message handled. Delivery itself happens outside this service.
func (s *Service) RecordReply(ctx context.Context, messageID, replyMessage string) error {
	reply := strings.TrimSpace(replyMessage)
	if reply == "" {
		return faults.New(opRecordReply, "missing_reply", faults.ErrValidation)
	}
	return s.update(ctx, opRecordReply, messageID, map[string]any{
		"replied":       true,
		"reply_message": reply,
		"status":        StatusRead,
		"updated_at":    s.clock().UTC(),
	})
}

// Delete removes a message permanently.
func (s *Service) Delete(ctx context.Context, messageID string) error {
	result := s.db.WithContext(ctx).Where("message_id = ?", messageID).Delete(&Message{})
	if result.Error != nil {
		return s.storeFailure(opDeleteMessage, "delete_failed", result.Error, zap.String("message_id", messageID))
	}
	if result.RowsAffected == 0 {
		return faults.New(opDeleteMessage, "message_not_found", faults.ErrNotFound)
	}
	return nil
}

func (s *Service) update(ctx context.Context, operation, messageID string, values map[string]any) error {
	result := s.db.WithContext(ctx).Model(&Message{}).
		Where("message_id = ?", messageID).
		Updates(values)
	if result.Error != nil {
		return s.storeFailure(operation, "update_failed", result.Error, zap.String("message_id", messageID))
	}
	if result.RowsAffected == 0 {
		return faults.New(operation, "message_not_found", faults.ErrNotFound)
	}
	return nil
}

func (s *Service) storeFailure(operation, reason string, err error, fields ...zap.Field) error {
	attrs := append([]zap.Field{zap.String("operation", operation), zap.Error(err)}, fields...)
	s.logger.Error("contact service error", attrs...)
	return faults.New(operation, reason, errors.Join(faults.ErrStoreUnavailable, err))
}
