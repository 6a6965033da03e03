package database

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/folioworks/folio/backend/internal/engagement"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:database_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return db
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := newTestDB(t)

	if err := Migrate(db, nil); err != nil {
		t.Fatalf("unexpected migrate error: %v", err)
	}

	for _, table := range []string{
		"posts", "content_likes", "content_shares",
		"blog_comments", "comment_replies",
		"projects", "products", "contact_messages",
		"gallery_photos", "gallery_videos", "gallery_audios", "gallery_notes", "gallery_quotes",
		"db_migrations",
	} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %q to exist", table)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	if err := Migrate(db, nil); err != nil {
		t.Fatalf("unexpected first migrate error: %v", err)
	}
	if err := Migrate(db, nil); err != nil {
		t.Fatalf("unexpected second migrate error: %v", err)
	}

	var count int64
	if err := db.Model(&migrationRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count migration records: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 migration record, got %d", count)
	}
}

func TestNormalizeSharePlatformsBackfill(t *testing.T) {
	db := newTestDB(t)

	if err := db.AutoMigrate(&engagement.Share{}, &migrationRecord{}); err != nil {
		t.Fatalf("failed to prepare schema: %v", err)
	}
	shares := []engagement.Share{
		{ShareID: "share-1", ContentID: "post-1", Platform: "", CreatedAt: time.Unix(1700000000, 0).UTC()},
		{ShareID: "share-2", ContentID: "post-1", Platform: "twitter", CreatedAt: time.Unix(1700000001, 0).UTC()},
	}
	if err := db.Create(&shares).Error; err != nil {
		t.Fatalf("failed to seed shares: %v", err)
	}

	if err := applyMigrations(db, nil); err != nil {
		t.Fatalf("unexpected migration error: %v", err)
	}

	var backfilled engagement.Share
	if err := db.Where("share_id = ?", "share-1").Take(&backfilled).Error; err != nil {
		t.Fatalf("failed to load share: %v", err)
	}
	if backfilled.Platform != "unknown" {
		t.Fatalf("expected blank platform backfilled to unknown, got %q", backfilled.Platform)
	}

	var untouched engagement.Share
	if err := db.Where("share_id = ?", "share-2").Take(&untouched).Error; err != nil {
		t.Fatalf("failed to load share: %v", err)
	}
	if untouched.Platform != "twitter" {
		t.Fatalf("expected tagged platform untouched, got %q", untouched.Platform)
	}
}
