package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/cine/internal/models"
)

// VideoRepository caches fetched videos locally, one row per (section, id).
//
// The section column records the feed a video was fetched under, which can
// differ from the video's own category (the "" / all feed carries videos of
// every category). A video appearing in several feeds is cached once per
// section, so replacing one section never disturbs another. Each section is
// replaced wholesale when its feed is refetched, matching the snapshot
// rebuild semantics of the aggregator (no incremental merge).
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new [VideoRepository] with the given database connection
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// ReplaceCategory swaps the cached rows for a feed section with a fresh feed.
//
// Position preserves the backend's feed order.
func (r *VideoRepository) ReplaceCategory(category string, videos []models.Video) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM videos WHERE section = ?", category); err != nil {
		return fmt.Errorf("failed to clear section %q: %w", category, err)
	}

	query := `
		INSERT INTO videos (section, id, title, description, thumbnail_url, video_url, category, duration, trending, views, released_at, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(section, id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			thumbnail_url = excluded.thumbnail_url,
			video_url = excluded.video_url,
			category = excluded.category,
			duration = excluded.duration,
			trending = excluded.trending,
			views = excluded.views,
			released_at = excluded.released_at,
			position = excluded.position,
			cached_at = CURRENT_TIMESTAMP
	`

	for i, v := range videos {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("refusing to cache video: %w", err)
		}
		_, err := tx.Exec(query, category, v.ID, v.Title, v.Description, v.ThumbnailURL, v.VideoURL, v.Category, v.Duration, v.Trending, v.Views, v.ReleasedAt, i)
		if err != nil {
			return fmt.Errorf("failed to cache video %s: %w", v.ID, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a cached video by id. A video cached under several sections
// resolves to any one of its rows; they carry the same descriptor.
func (r *VideoRepository) Get(id string) (*models.Video, error) {
	query := `
		SELECT id, title, description, thumbnail_url, video_url, category, duration, trending, views, released_at
		FROM videos
		WHERE id = ?
		LIMIT 1
	`

	video, err := scanVideo(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("video not cached: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query video: %w", err)
	}
	return video, nil
}

// ListByCategory returns the cached feed for a section in feed order.
func (r *VideoRepository) ListByCategory(category string) ([]models.Video, error) {
	query := `
		SELECT id, title, description, thumbnail_url, video_url, category, duration, trending, views, released_at
		FROM videos
		WHERE section = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return videos, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner) (*models.Video, error) {
	var v models.Video
	err := row.Scan(&v.ID, &v.Title, &v.Description, &v.ThumbnailURL, &v.VideoURL, &v.Category, &v.Duration, &v.Trending, &v.Views, &v.ReleasedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
