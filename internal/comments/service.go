package comments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
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

	// Visitor-supplied text is stored as plain text; markup is stripped,
	// not escaped into the page later.
	textPolicy = bluemonday.StrictPolicy()
)

const (
	opServiceNew         = "comments.service.new"
	opListApproved       = "comments.list_approved"
	opSubmitComment      = "comments.submit_comment"
	opSubmitReply        = "comments.submit_reply"
	opListAll            = "comments.list_all"
	opSetCommentApproval = "comments.set_comment_approval"
	opDeleteComment      = "comments.delete_comment"
	opSetReplyApproval   = "comments.set_reply_approval"
	opDeleteReply        = "comments.delete_reply"
)

// ApprovalPolicy decides the approved flag on freshly submitted comments
// and replies. The product currently publishes immediately; holding for
// review is a configuration change, not a code change.
type ApprovalPolicy string

const (
	// ApprovalPolicyAutoApprove publishes submissions immediately.
	ApprovalPolicyAutoApprove ApprovalPolicy = "auto_approve"
	// ApprovalPolicyHoldForReview keeps submissions hidden until a moderator approves.
	ApprovalPolicyHoldForReview ApprovalPolicy = "hold_for_review"
)

// ServiceConfig wires the dependencies of the comment thread service.
type ServiceConfig struct {
	Database       *gorm.DB
	Clock          func() time.Time
	IDProvider     ident.Provider
	Logger         *zap.Logger
	ApprovalPolicy ApprovalPolicy
}

// Service manages the two-level public discussion thread and its
// moderation surface.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider ident.Provider
	logger     *zap.Logger
	policy     ApprovalPolicy
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
	policy := cfg.ApprovalPolicy
	if policy == "" {
		policy = ApprovalPolicyAutoApprove
	}

	return &Service{
		db:         cfg.Database,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
		policy:     policy,
	}, nil
}

// Thread is a comment with its publicly visible replies.
type Thread struct {
	Comment Comment `json:"comment"`
	Replies []Reply `json:"replies"`
}

// ModeratedComment is the unfiltered moderation view of a comment: every
// reply regardless of approval, joined with its post for display.
type ModeratedComment struct {
	Comment   Comment `json:"comment"`
	PostTitle string  `json:"post_title"`
	PostSlug  string  `json:"post_slug"`
	Replies   []Reply `json:"replies"`
}

// SubmitCommentRequest carries a visitor comment submission.
type SubmitCommentRequest struct {
	ContentID   string
	AuthorName  string
	AuthorEmail string
	Body        string
}

// SubmitReplyRequest carries a visitor reply submission.
type SubmitReplyRequest struct {
	CommentID   string
	AuthorName  string
	AuthorEmail string
	Body        string
}

// ListApproved returns the public thread for a post: approved comments
// oldest first, each with its approved replies oldest first. Each call is
// a full snapshot.
func (s *Service) ListApproved(ctx context.Context, contentID string) ([]Thread, error) {
	var approved []Comment
	err := s.db.WithContext(ctx).
		Where("content_id = ? AND approved = ?", contentID, true).
		Order("created_at ASC").
		Find(&approved).Error
	if err != nil {
		return nil, s.storeFailure(opListApproved, "query_failed", err, zap.String("content_id", contentID))
	}

	replyIndex, err := s.loadReplies(ctx, opListApproved, commentIDs(approved), true)
	if err != nil {
		return nil, err
	}

	threads := make([]Thread, 0, len(approved))
	for _, comment := range approved {
		threads = append(threads, Thread{
			Comment: comment,
			Replies: replyIndex[comment.CommentID],
		})
	}
	return threads, nil
}

// Submit validates and persists a visitor comment. The approved flag
// follows the service's approval policy.
func (s *Service) Submit(ctx context.Context, request SubmitCommentRequest) (Comment, error) {
	name, body, err := s.validateSubmission(opSubmitComment, request.AuthorName, request.Body)
	if err != nil {
		return Comment{}, err
	}

	var postCount int64
	if err := s.db.WithContext(ctx).Model(&content.Post{}).
		Where("post_id = ?", request.ContentID).
		Count(&postCount).Error; err != nil {
		return Comment{}, s.storeFailure(opSubmitComment, "content_lookup_failed", err, zap.String("content_id", request.ContentID))
	}
	if postCount == 0 {
		return Comment{}, faults.New(opSubmitComment, "content_not_found", faults.ErrNotFound)
	}

	commentID, err := s.idProvider.NewID()
	if err != nil {
		return Comment{}, s.storeFailure(opSubmitComment, "id_generation_failed", err)
	}

	now := s.clock().UTC()
	comment := Comment{
		CommentID:   commentID,
		ContentID:   request.ContentID,
		AuthorName:  name,
		AuthorEmail: strings.TrimSpace(request.AuthorEmail),
		Body:        body,
		Approved:    s.policy == ApprovalPolicyAutoApprove,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return Comment{}, s.storeFailure(opSubmitComment, "comment_insert_failed", err, zap.String("content_id", request.ContentID))
	}
	return comment, nil
}

// SubmitReply validates and persists a reply under an existing comment.
func (s *Service) SubmitReply(ctx context.Context, request SubmitReplyRequest) (Reply, error) {
	name, body, err := s.validateSubmission(opSubmitReply, request.AuthorName, request.Body)
	if err != nil {
		return Reply{}, err
	}

	var parentCount int64
	if err := s.db.WithContext(ctx).Model(&Comment{}).
		Where("comment_id = ?", request.CommentID).
		Count(&parentCount).Error; err != nil {
		return Reply{}, s.storeFailure(opSubmitReply, "parent_lookup_failed", err, zap.String("comment_id", request.CommentID))
	}
	if parentCount == 0 {
		return Reply{}, faults.New(opSubmitReply, "comment_not_found", faults.ErrNotFound)
	}

	replyID, err := s.idProvider.NewID()
	if err != nil {
		return Reply{}, s.storeFailure(opSubmitReply, "id_generation_failed", err)
	}

	now := s.clock().UTC()
	reply := Reply{
		ReplyID:     replyID,
		CommentID:   request.CommentID,
		AuthorName:  name,
		AuthorEmail: strings.TrimSpace(request.AuthorEmail),
		Body:        body,
		Approved:    s.policy == ApprovalPolicyAutoApprove,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&reply).Error; err != nil {
		return Reply{}, s.storeFailure(opSubmitReply, "reply_insert_failed", err, zap.String("comment_id", request.CommentID))
	}
	return reply, nil
}

// ListAll is the moderation view: every comment, approved or not, newest
// first, with all replies and the owning post's title and slug. An empty
// contentID spans all posts.
func (s *Service) ListAll(ctx context.Context, contentID string) ([]ModeratedComment, error) {
	query := s.db.WithContext(ctx).Model(&Comment{})
	if contentID != "" {
		query = query.Where("content_id = ?", contentID)
	}

	var all []Comment
	if err := query.Order("created_at DESC").Find(&all).Error; err != nil {
		return nil, s.storeFailure(opListAll, "query_failed", err)
	}

	replyIndex, err := s.loadReplies(ctx, opListAll, commentIDs(all), false)
	if err != nil {
		return nil, err
	}

	postIndex := make(map[string]content.Post)
	if len(all) > 0 {
		ids := make([]string, 0, len(all))
		seen := make(map[string]struct{}, len(all))
		for _, comment := range all {
			if _, dup := seen[comment.ContentID]; dup {
				continue
			}
			seen[comment.ContentID] = struct{}{}
			ids = append(ids, comment.ContentID)
		}
		var posts []content.Post
		if err := s.db.WithContext(ctx).Where("post_id IN ?", ids).Find(&posts).Error; err != nil {
			return nil, s.storeFailure(opListAll, "post_lookup_failed", err)
		}
		for _, post := range posts {
			postIndex[post.PostID] = post
		}
	}

	moderated := make([]ModeratedComment, 0, len(all))
	for _, comment := range all {
		post := postIndex[comment.ContentID]
		moderated = append(moderated, ModeratedComment{
			Comment:   comment,
			PostTitle: post.Title,
			PostSlug:  post.Slug,
			Replies:   replyIndex[comment.CommentID],
		})
	}
	return moderated, nil
}

// SetCommentApproval flips public visibility of a comment. Both directions
// are allowed; the flip is reversible.
func (s *Service) SetCommentApproval(ctx context.Context, commentID string, approved bool) error {
	return s.setApproval(ctx, opSetCommentApproval, &Comment{}, "comment_id", commentID, approved)
}

// DeleteComment removes a comment and cascades to all of its replies.
// Deletion is terminal.
func (s *Service) DeleteComment(ctx context.Context, commentID string) error {
	var deleted int64
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Explicit reply delete keeps the no-orphans invariant even on
		// stores without enforced foreign keys.
		if err := tx.Where("comment_id = ?", commentID).Delete(&Reply{}).Error; err != nil {
			return err
		}
		result := tx.Where("comment_id = ?", commentID).Delete(&Comment{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if txErr != nil {
		return s.storeFailure(opDeleteComment, "delete_failed", txErr, zap.String("comment_id", commentID))
	}
	if deleted == 0 {
		return faults.New(opDeleteComment, "comment_not_found", faults.ErrNotFound)
	}
	return nil
}

// SetReplyApproval flips public visibility of a reply.
func (s *Service) SetReplyApproval(ctx context.Context, replyID string, approved bool) error {
	return s.setApproval(ctx, opSetReplyApproval, &Reply{}, "reply_id", replyID, approved)
}

// DeleteReply removes a single reply.
func (s *Service) DeleteReply(ctx context.Context, replyID string) error {
	result := s.db.WithContext(ctx).Where("reply_id = ?", replyID).Delete(&Reply{})
	if result.Error != nil {
		return s.storeFailure(opDeleteReply, "delete_failed", result.Error, zap.String("reply_id", replyID))
	}
	if result.RowsAffected == 0 {
		return faults.New(opDeleteReply, "reply_not_found", faults.ErrNotFound)
	}
	return nil
}

func (s *Service) setApproval(ctx context.Context, operation string, model any, idColumn, id string, approved bool) error {
	result := s.db.WithContext(ctx).Model(model).
		Where(idColumn+" = ?", id).
		Updates(map[string]any{"approved": approved, "updated_at": s.clock().UTC()})
	if result.Error != nil {
		return s.storeFailure(operation, "update_failed", result.Error, zap.String(idColumn, id))
	}
	if result.RowsAffected == 0 {
		return faults.New(operation, "record_not_found", faults.ErrNotFound)
	}
	return nil
}

func (s *Service) validateSubmission(operation, authorName, body string) (string, string, error) {
	name := textPolicy.Sanitize(strings.TrimSpace(authorName))
	cleanBody := textPolicy.Sanitize(strings.TrimSpace(body))
	if name == "" {
		return "", "", faults.New(operation, "missing_author_name", faults.ErrValidation)
	}
	if cleanBody == "" {
		return "", "", faults.New(operation, "missing_body", faults.ErrValidation)
	}
	return name, cleanBody, nil
}

func (s *Service) loadReplies(ctx context.Context, operation string, ids []string, approvedOnly bool) (map[string][]Reply, error) {
	index := make(map[string][]Reply, len(ids))
	if len(ids) == 0 {
		return index, nil
	}

	query := s.db.WithContext(ctx).Where("comment_id IN ?", ids)
	if approvedOnly {
		query = query.Where("approved = ?", true)
	}

	var replies []Reply
	if err := query.Order("created_at ASC").Find(&replies).Error; err != nil {
		return nil, s.storeFailure(operation, "reply_query_failed", err)
	}
	for _, reply := range replies {
		index[reply.CommentID] = append(index[reply.CommentID], reply)
	}
	return index, nil
}

func commentIDs(list []Comment) []string {
	ids := make([]string, 0, len(list))
	for _, comment := range list {
		ids = append(ids, comment.CommentID)
	}
	return ids
}

func (s *Service) storeFailure(operation, reason string, err error, fields ...zap.Field) error {
	attrs := append([]zap.Field{zap.String("operation", operation), zap.Error(err)}, fields...)
	s.logger.Error("comment service error", attrs...)
	return faults.New(operation, reason, errors.Join(faults.ErrStoreUnavailable, err))
}
