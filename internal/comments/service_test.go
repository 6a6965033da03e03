package comments

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/folioworks/folio/backend/internal/content"
	"github.com/folioworks/folio/backend/internal/faults"
)

type sequenceIDGenerator struct {
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

// tickingClock returns a clock that advances one second per call so
// created_at ordering is deterministic.
func tickingClock() func() time.Time {
	current := time.Unix(1700000000, 0).UTC()
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newTestService(t *testing.T, policy ApprovalPolicy) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:comments_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&content.Post{}, &Comment{}, &Reply{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Database:       db,
		Clock:          tickingClock(),
		IDProvider:     &sequenceIDGenerator{},
		ApprovalPolicy: policy,
	})
	if err != nil {
		t.Fatalf("failed to construct comment service: %v", err)
	}

	return service, db
}

func seedPost(t *testing.T, db *gorm.DB, postID, title string) {
	t.Helper()
	post := content.Post{
		PostID:    postID,
		Title:     title,
		Slug:      postID,
		Body:      "body",
		Published: true,
		CreatedAt: time.Unix(1699990000, 0).UTC(),
		UpdatedAt: time.Unix(1699990000, 0).UTC(),
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
}

func mustSubmit(t *testing.T, service *Service, contentID, author, body string) Comment {
	t.Helper()
	comment, err := service.Submit(context.Background(), SubmitCommentRequest{
		ContentID:  contentID,
		AuthorName: author,
		Body:       body,
	})
	if err != nil {
		t.Fatalf("unexpected submit error: %v", err)
	}
	return comment
}

func TestSubmitAutoApprovesByDefault(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)
	seedPost(t, service.db, "post-1", "First Post")

	comment := mustSubmit(t, service, "post-1", "Ana", "Loved this piece.")
	if !comment.Approved {
		t.Fatalf("expected auto-approved comment")
	}

	threads, err := service.ListApproved(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("expected 1 visible thread, got %d", len(threads))
	}
	if threads[0].Comment.AuthorName != "Ana" {
		t.Fatalf("unexpected author %q", threads[0].Comment.AuthorName)
	}
}

func TestSubmitHoldsForReviewWhenConfigured(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyHoldForReview)
	seedPost(t, service.db, "post-1", "First Post")

	comment := mustSubmit(t, service, "post-1", "Ana", "Loved this piece.")
	if comment.Approved {
		t.Fatalf("expected comment held for review")
	}

	threads, err := service.ListApproved(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(threads) != 0 {
		t.Fatalf("expected no visible threads, got %d", len(threads))
	}
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)
	seedPost(t, service.db, "post-1", "First Post")

	if _, err := service.Submit(context.Background(), SubmitCommentRequest{
		ContentID: "post-1",
		Body:      "no name",
	}); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error for missing author, got %v", err)
	}

	if _, err := service.Submit(context.Background(), SubmitCommentRequest{
		ContentID:  "post-1",
		AuthorName: "Ana",
		Body:       "   ",
	}); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error for missing body, got %v", err)
	}
}

func TestSubmitRejectsUnknownPost(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)

	_, err := service.Submit(context.Background(), SubmitCommentRequest{
		ContentID:  "no-such-post",
		AuthorName: "Ana",
		Body:       "hello",
	})
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestSubmitStripsMarkupFromText(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)
	seedPost(t, service.db, "post-1", "First Post")

	comment := mustSubmit(t, service, "post-1", "<b>Ana</b>", `great <script>alert("x")</script>read`)
	if comment.AuthorName != "Ana" {
		t.Fatalf("expected markup stripped from author, got %q", comment.AuthorName)
	}
	if comment.Body != "great read" {
		t.Fatalf("expected script stripped from body, got %q", comment.Body)
	}
}

func TestListApprovedOrdersOldestFirst(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)
	seedPost(t, service.db, "post-1", "First Post")

	mustSubmit(t, service, "post-1", "Ana", "first")
	mustSubmit(t, service, "post-1", "Ben", "second")
	mustSubmit(t, service, "post-1", "Cleo", "third")

	threads, err := service.ListApproved(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(threads) != 3 {
		t.Fatalf("expected 3 threads, got %d", len(threads))
	}
	for index, expected := range []string{"first", "second", "third"} {
		if threads[index].Comment.Body != expected {
			t.Fatalf("expected body %q at position %d, got %q", expected, index, threads[index].Comment.Body)
		}
	}
}

func TestListApprovedFiltersUnapprovedReplies(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)
	seedPost(t, service.db, "post-1", "First Post")
	comment := mustSubmit(t, service, "post-1", "Ana", "parent")

	first, err := service.SubmitReply(context.Background(), SubmitReplyRequest{
		CommentID:  comment.CommentID,
		AuthorName: "Ben",
		Body:       "visible reply",
	})
	if err != nil {
		t.Fatalf("unexpected reply error: %v", err)
	}
	second, err := service.SubmitReply(context.Background(), SubmitReplyRequest{
		CommentID:  comment.CommentID,
		AuthorName: "Cleo",
		Body:       "hidden reply",
	})
	if err != nil {
		t.Fatalf("unexpected reply error: %v", err)
	}
	if err := service.SetReplyApproval(context.Background(), second.ReplyID, false); err != nil {
		t.Fatalf("unexpected approval error: %v", err)
	}

	threads, err := service.ListApproved(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	if len(threads[0].Replies) != 1 {
		t.Fatalf("expected 1 visible reply, got %d", len(threads[0].Replies))
	}
	if threads[0].Replies[0].ReplyID != first.ReplyID {
		t.Fatalf("unexpected visible reply %q", threads[0].Replies[0].ReplyID)
	}
}

func TestSubmitReplyRejectsUnknownParent(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)

	_, err := service.SubmitReply(context.Background(), SubmitReplyRequest{
		CommentID:  "no-such-comment",
		AuthorName: "Ben",
		Body:       "orphan",
	})
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestApprovalFlipIsReversible(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)
	seedPost(t, service.db, "post-1", "First Post")
	comment := mustSubmit(t, service, "post-1", "Ana", "toggle me")

	if err := service.SetCommentApproval(context.Background(), comment.CommentID, false); err != nil {
		t.Fatalf("unexpected approval error: %v", err)
	}
	threads, err := service.ListApproved(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(threads) != 0 {
		t.Fatalf("expected hidden comment, got %d threads", len(threads))
	}

	if err := service.SetCommentApproval(context.Background(), comment.CommentID, true); err != nil {
		t.Fatalf("unexpected approval error: %v", err)
	}
	threads, err = service.ListApproved(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("expected restored comment, got %d threads", len(threads))
	}
}

func TestSetCommentApprovalUnknownID(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)

	err := service.SetCommentApproval(context.Background(), "no-such-comment", true)
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestListAllIncludesUnapprovedAndPostContext(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)
	seedPost(t, service.db, "post-1", "First Post")
	comment := mustSubmit(t, service, "post-1", "Ana", "moderate me")
	if err := service.SetCommentApproval(context.Background(), comment.CommentID, false); err != nil {
		t.Fatalf("unexpected approval error: %v", err)
	}

	moderated, err := service.ListAll(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(moderated) != 1 {
		t.Fatalf("expected unapproved comment in moderation view, got %d", len(moderated))
	}
	if moderated[0].Comment.Approved {
		t.Fatalf("expected comment to remain unapproved")
	}
	if moderated[0].PostTitle != "First Post" || moderated[0].PostSlug != "post-1" {
		t.Fatalf("expected post context, got %q %q", moderated[0].PostTitle, moderated[0].PostSlug)
	}
}

func TestListAllFiltersByContent(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)
	seedPost(t, service.db, "post-1", "First Post")
	seedPost(t, service.db, "post-2", "Second Post")
	mustSubmit(t, service, "post-1", "Ana", "on first")
	mustSubmit(t, service, "post-2", "Ben", "on second")

	moderated, err := service.ListAll(context.Background(), "post-2")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(moderated) != 1 {
		t.Fatalf("expected 1 comment for post-2, got %d", len(moderated))
	}
	if moderated[0].Comment.Body != "on second" {
		t.Fatalf("unexpected comment %q", moderated[0].Comment.Body)
	}
}

func TestDeleteCommentCascadesToReplies(t *testing.T) {
	service, db := newTestService(t, ApprovalPolicyAutoApprove)
	seedPost(t, db, "post-1", "First Post")
	comment := mustSubmit(t, service, "post-1", "Ana", "parent")

	for _, author := range []string{"Ben", "Cleo"} {
		if _, err := service.SubmitReply(context.Background(), SubmitReplyRequest{
			CommentID:  comment.CommentID,
			AuthorName: author,
			Body:       "reply",
		}); err != nil {
			t.Fatalf("unexpected reply error: %v", err)
		}
	}

	if err := service.DeleteComment(context.Background(), comment.CommentID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	var commentCount, replyCount int64
	if err := db.Model(&Comment{}).Count(&commentCount).Error; err != nil {
		t.Fatalf("failed to count comments: %v", err)
	}
	if err := db.Model(&Reply{}).Count(&replyCount).Error; err != nil {
		t.Fatalf("failed to count replies: %v", err)
	}
	if commentCount != 0 || replyCount != 0 {
		t.Fatalf("expected cascade delete, got %d comments and %d replies", commentCount, replyCount)
	}
}

func TestDeleteCommentUnknownID(t *testing.T) {
	service, _ := newTestService(t, ApprovalPolicyAutoApprove)

	err := service.DeleteComment(context.Background(), "no-such-comment")
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDeleteReplyLeavesParent(t *testing.T) {
	service, db := newTestService(t, ApprovalPolicyAutoApprove)
	seedPost(t, db, "post-1", "First Post")
	comment := mustSubmit(t, service, "post-1", "Ana", "parent")
	reply, err := service.SubmitReply(context.Background(), SubmitReplyRequest{
		CommentID:  comment.CommentID,
		AuthorName: "Ben",
		Body:       "reply",
	})
	if err != nil {
		t.Fatalf("unexpected reply error: %v", err)
	}

	if err := service.DeleteReply(context.Background(), reply.ReplyID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	var commentCount int64
	if err := db.Model(&Comment{}).Count(&commentCount).Error; err != nil {
		t.Fatalf("failed to count comments: %v", err)
	}
	if commentCount != 1 {
		t.Fatalf("expected parent comment to survive, got %d", commentCount)
	}
}
