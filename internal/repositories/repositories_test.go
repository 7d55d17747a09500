package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/cine/internal/models"
	"github.com/desertthunder/cine/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestSessionRepository(t *testing.T) {
	t.Run("Save And Load", func(t *testing.T) {
		repo := NewSessionRepository(newTestDB(t))

		if err := repo.Save("tok-1"); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		token, err := repo.Load()
		if err != nil {
			t.Fatalf("failed to load token: %v", err)
		}
		if token != "tok-1" {
			t.Errorf("expected 'tok-1', got %q", token)
		}
	})

	t.Run("Save Replaces Previous Token", func(t *testing.T) {
		repo := NewSessionRepository(newTestDB(t))

		if err := repo.Save("tok-1"); err != nil {
			t.Fatalf("failed to save first token: %v", err)
		}
		if err := repo.Save("tok-2"); err != nil {
			t.Fatalf("failed to save second token: %v", err)
		}

		token, err := repo.Load()
		if err != nil {
			t.Fatalf("failed to load token: %v", err)
		}
		if token != "tok-2" {
			t.Errorf("expected latest token 'tok-2', got %q", token)
		}
	})

	t.Run("Save Refuses Empty Token", func(t *testing.T) {
		repo := NewSessionRepository(newTestDB(t))

		if err := repo.Save(""); err == nil {
			t.Error("expected error for empty token")
		}
	})

	t.Run("Load With No Token", func(t *testing.T) {
		repo := NewSessionRepository(newTestDB(t))

		token, err := repo.Load()
		if err != nil {
			t.Fatalf("expected no error for empty slot, got %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token, got %q", token)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewSessionRepository(newTestDB(t))

		if err := repo.Save("tok-1"); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}
		if err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear token: %v", err)
		}

		token, err := repo.Load()
		if err != nil {
			t.Fatalf("failed to load after clear: %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token after clear, got %q", token)
		}

		if err := repo.Clear(); err != nil {
			t.Errorf("expected clearing an empty slot to succeed, got %v", err)
		}
	})
}

func TestVideoRepository(t *testing.T) {
	videos := []models.Video{
		{ID: "v1", Title: "First", Category: "Sci-Fi", Duration: "1:30:00", Views: 100},
		{ID: "v2", Title: "Second", Category: "Sci-Fi", Duration: "2:00:00", Views: 200},
	}

	t.Run("ReplaceCategory And ListByCategory", func(t *testing.T) {
		repo := NewVideoRepository(newTestDB(t))

		if err := repo.ReplaceCategory("Sci-Fi", videos); err != nil {
			t.Fatalf("failed to replace category: %v", err)
		}

		cached, err := repo.ListByCategory("Sci-Fi")
		if err != nil {
			t.Fatalf("failed to list category: %v", err)
		}
		if len(cached) != 2 {
			t.Fatalf("expected 2 videos, got %d", len(cached))
		}
		if cached[0].ID != "v1" || cached[1].ID != "v2" {
			t.Errorf("expected feed order preserved, got %+v", cached)
		}
	})

	t.Run("ReplaceCategory Swaps Wholesale", func(t *testing.T) {
		repo := NewVideoRepository(newTestDB(t))

		if err := repo.ReplaceCategory("Sci-Fi", videos); err != nil {
			t.Fatalf("failed to seed category: %v", err)
		}

		replacement := []models.Video{{ID: "v3", Title: "Third", Category: "Sci-Fi"}}
		if err := repo.ReplaceCategory("Sci-Fi", replacement); err != nil {
			t.Fatalf("failed to replace category: %v", err)
		}

		cached, err := repo.ListByCategory("Sci-Fi")
		if err != nil {
			t.Fatalf("failed to list category: %v", err)
		}
		if len(cached) != 1 || cached[0].ID != "v3" {
			t.Errorf("expected wholesale replacement, got %+v", cached)
		}
	})

	t.Run("ReplaceCategory Keys By Section Not Video Category", func(t *testing.T) {
		repo := NewVideoRepository(newTestDB(t))

		// The uncategorized feed carries videos with their own categories;
		// the cache keys them under the section they were fetched for.
		mixed := []models.Video{
			{ID: "v1", Title: "First", Category: "Sci-Fi"},
			{ID: "v4", Title: "Fourth", Category: "Crime"},
		}
		if err := repo.ReplaceCategory("", mixed); err != nil {
			t.Fatalf("failed to replace section: %v", err)
		}

		cached, err := repo.ListByCategory("")
		if err != nil {
			t.Fatalf("failed to list section: %v", err)
		}
		if len(cached) != 2 {
			t.Fatalf("expected both videos under the empty section, got %+v", cached)
		}
		if cached[0].Category != "Sci-Fi" || cached[1].Category != "Crime" {
			t.Errorf("expected videos to keep their own categories, got %+v", cached)
		}
	})

	t.Run("Replacing One Section Leaves Others Intact", func(t *testing.T) {
		repo := NewVideoRepository(newTestDB(t))

		// The all feed repeats videos already cached under their named
		// sections; caching it must not pull their rows out of those sections.
		if err := repo.ReplaceCategory("Sci-Fi", videos[:1]); err != nil {
			t.Fatalf("failed to seed section: %v", err)
		}
		if err := repo.ReplaceCategory("", videos); err != nil {
			t.Fatalf("failed to cache all feed: %v", err)
		}

		cached, err := repo.ListByCategory("Sci-Fi")
		if err != nil {
			t.Fatalf("failed to list section: %v", err)
		}
		if len(cached) != 1 || cached[0].ID != "v1" {
			t.Fatalf("expected Sci-Fi to keep its cached video, got %+v", cached)
		}

		all, err := repo.ListByCategory("")
		if err != nil {
			t.Fatalf("failed to list all section: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected both videos under the all section, got %+v", all)
		}

		// And the inverse: refreshing the named section leaves the all
		// feed's copy alone.
		if err := repo.ReplaceCategory("Sci-Fi", videos); err != nil {
			t.Fatalf("failed to refresh section: %v", err)
		}
		all, err = repo.ListByCategory("")
		if err != nil {
			t.Fatalf("failed to list all section: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected the all section to be untouched, got %+v", all)
		}
	})

	t.Run("ReplaceCategory Validates Videos", func(t *testing.T) {
		repo := NewVideoRepository(newTestDB(t))

		invalid := []models.Video{{ID: "", Title: "No ID"}}
		if err := repo.ReplaceCategory("Sci-Fi", invalid); err == nil {
			t.Error("expected validation error for missing id")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewVideoRepository(newTestDB(t))

		if err := repo.ReplaceCategory("Sci-Fi", videos); err != nil {
			t.Fatalf("failed to seed category: %v", err)
		}

		video, err := repo.Get("v2")
		if err != nil {
			t.Fatalf("failed to get video: %v", err)
		}
		if video.Title != "Second" {
			t.Errorf("unexpected video %+v", video)
		}

		if _, err := repo.Get("missing"); err == nil {
			t.Error("expected error for uncached video")
		}
	})
}
