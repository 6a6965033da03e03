package engagement

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/folioworks/folio/backend/internal/content"
	"github.com/folioworks/folio/backend/internal/session"
)

type sequenceIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:engagement_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&content.Post{}, &Like{}, &Share{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Database:   db,
		Clock:      func() time.Time { return time.Unix(1700000600, 0).UTC() },
		IDProvider: &sequenceIDGenerator{},
	})
	if err != nil {
		t.Fatalf("failed to construct engagement service: %v", err)
	}

	return service, db
}

func mustVisitorID(t *testing.T, value string) session.VisitorID {
	t.Helper()
	visitorID, err := session.NewVisitorID(value)
	if err != nil {
		t.Fatalf("unexpected visitor id error: %v", err)
	}
	return visitorID
}

func seedPost(t *testing.T, db *gorm.DB, postID string) {
	t.Helper()
	post := content.Post{
		PostID:    postID,
		Title:     "Seeded Post",
		Slug:      postID,
		Body:      "body",
		Published: true,
		CreatedAt: time.Unix(1700000000, 0).UTC(),
		UpdatedAt: time.Unix(1700000000, 0).UTC(),
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
}

func likeCountFor(t *testing.T, db *gorm.DB, contentID string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&Like{}).Where("content_id = ?", contentID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count likes: %v", err)
	}
	return count
}

func TestToggleLikeFlipsStateAcrossCalls(t *testing.T) {
	service, db := newTestService(t)
	visitorID := mustVisitorID(t, "visitor-1")

	first, err := service.ToggleLike(context.Background(), "post-1", visitorID)
	if err != nil {
		t.Fatalf("unexpected error on first toggle: %v", err)
	}
	if !first.Liked {
		t.Fatalf("expected first toggle to like")
	}
	if got := likeCountFor(t, db, "post-1"); got != 1 {
		t.Fatalf("expected 1 like row, got %d", got)
	}

	second, err := service.ToggleLike(context.Background(), "post-1", visitorID)
	if err != nil {
		t.Fatalf("unexpected error on second toggle: %v", err)
	}
	if second.Liked {
		t.Fatalf("expected second toggle to unlike")
	}
	if got := likeCountFor(t, db, "post-1"); got != 0 {
		t.Fatalf("expected 0 like rows after unlike, got %d", got)
	}
}

func TestToggleLikeKeepsOneRowPerVisitor(t *testing.T) {
	service, db := newTestService(t)
	visitorID := mustVisitorID(t, "visitor-1")

	for toggle := 0; toggle < 5; toggle++ {
		if _, err := service.ToggleLike(context.Background(), "post-1", visitorID); err != nil {
			t.Fatalf("unexpected error on toggle %d: %v", toggle, err)
		}
	}

	if got := likeCountFor(t, db, "post-1"); got != 1 {
		t.Fatalf("expected exactly 1 like row after odd toggle count, got %d", got)
	}

	liked, err := service.Liked(context.Background(), "post-1", visitorID)
	if err != nil {
		t.Fatalf("unexpected liked error: %v", err)
	}
	if !liked {
		t.Fatalf("expected visitor to like the post after odd toggle count")
	}
}

func TestToggleLikeCountsVisitorsIndependently(t *testing.T) {
	service, _ := newTestService(t)
	first := mustVisitorID(t, "visitor-1")
	second := mustVisitorID(t, "visitor-2")

	if _, err := service.ToggleLike(context.Background(), "post-1", first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.ToggleLike(context.Background(), "post-1", second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := service.LikeCount(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected count error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 likes from distinct visitors, got %d", count)
	}

	if _, err := service.ToggleLike(context.Background(), "post-1", first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, err = service.LikeCount(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected count error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 like after first visitor unliked, got %d", count)
	}
}

func TestToggleLikeRejectsMissingContentID(t *testing.T) {
	service, _ := newTestService(t)
	visitorID := mustVisitorID(t, "visitor-1")

	if _, err := service.ToggleLike(context.Background(), "   ", visitorID); err == nil {
		t.Fatalf("expected validation error for blank content id")
	}
}

func TestToggleLikeSerializesConcurrentToggles(t *testing.T) {
	service, db := newTestService(t)
	visitorID := mustVisitorID(t, "visitor-1")

	var waitGroup sync.WaitGroup
	errCh := make(chan error, 2)
	for worker := 0; worker < 2; worker++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			if _, err := service.ToggleLike(context.Background(), "post-1", visitorID); err != nil {
				errCh <- err
			}
		}()
	}
	waitGroup.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected toggle error: %v", err)
	}

	if got := likeCountFor(t, db, "post-1"); got > 1 {
		t.Fatalf("expected at most one like row per visitor, got %d", got)
	}
}

func TestRecordViewIncrementsCounter(t *testing.T) {
	service, db := newTestService(t)
	seedPost(t, db, "post-42")

	for view := 0; view < 3; view++ {
		service.RecordView(context.Background(), "post-42")
	}

	var stored content.Post
	if err := db.Where("post_id = ?", "post-42").Take(&stored).Error; err != nil {
		t.Fatalf("failed to load post: %v", err)
	}
	if stored.ViewCount != 3 {
		t.Fatalf("expected view count 3, got %d", stored.ViewCount)
	}
}

func TestRecordViewIgnoresUnknownContent(t *testing.T) {
	service, db := newTestService(t)
	seedPost(t, db, "post-42")

	service.RecordView(context.Background(), "no-such-post")
	service.RecordView(context.Background(), "")

	var stored content.Post
	if err := db.Where("post_id = ?", "post-42").Take(&stored).Error; err != nil {
		t.Fatalf("failed to load post: %v", err)
	}
	if stored.ViewCount != 0 {
		t.Fatalf("expected untouched view count, got %d", stored.ViewCount)
	}
}

func TestTrackShareNormalizesPlatform(t *testing.T) {
	service, db := newTestService(t)

	service.TrackShare(context.Background(), "post-1", "  Twitter ")
	service.TrackShare(context.Background(), "post-1", "")
	service.TrackShare(context.Background(), "post-1", "twitter")

	var shares []Share
	if err := db.Where("content_id = ?", "post-1").Order("share_id ASC").Find(&shares).Error; err != nil {
		t.Fatalf("failed to load shares: %v", err)
	}
	if len(shares) != 3 {
		t.Fatalf("expected 3 share events, got %d", len(shares))
	}
	if shares[0].Platform != "twitter" {
		t.Fatalf("expected trimmed lowercase platform, got %q", shares[0].Platform)
	}
	if shares[1].Platform != "unknown" {
		t.Fatalf("expected empty platform to record as unknown, got %q", shares[1].Platform)
	}

	count, err := service.ShareCount(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected share count error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected share count 3, got %d", count)
	}
}

func TestTrackShareIgnoresBlankContentID(t *testing.T) {
	service, db := newTestService(t)

	service.TrackShare(context.Background(), "  ", "twitter")

	var count int64
	if err := db.Model(&Share{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count shares: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no share rows, got %d", count)
	}
}
