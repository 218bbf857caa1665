package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/marimeireles/spotify-to-youtube/internal/models"
	"github.com/marimeireles/spotify-to-youtube/internal/shared"
)

// ResolutionRepository implements models.Repository[*models.PersistedResolution]
// for the resolution cache.
//
// One row per catalog track; track_id carries a UNIQUE constraint so a
// track resolves to at most one video. Soft-deleted rows are invisible
// to lookups, which lets `cache clear` keep history without serving it.
type ResolutionRepository struct {
	db *sql.DB
}

// NewResolutionRepository creates a ResolutionRepository with the given database connection
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Create inserts a new [models.PersistedResolution] with a generated ID
func (r *ResolutionRepository) Create(res *models.PersistedResolution) error {
	id := shared.GenerateID()
	res.SetID(id)

	if err := res.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO resolutions (id, track_id, video_id, artist, title, duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		res.TrackID(),
		res.VideoID(),
		res.Artist(),
		res.Title(),
		res.Duration(),
		res.CreatedAt(),
		res.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert resolution: %w", err)
	}

	return nil
}

// Get retrieves a resolution by ID, excluding soft-deleted rows
func (r *ResolutionRepository) Get(id string) (*models.PersistedResolution, error) {
	query := `
		SELECT id, track_id, video_id, artist, title, duration, created_at, updated_at, deleted_at
		FROM resolutions
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByTrackID retrieves a resolution by catalog track ID
func (r *ResolutionRepository) GetByTrackID(trackID string) (*models.PersistedResolution, error) {
	query := `
		SELECT id, track_id, video_id, artist, title, duration, created_at, updated_at, deleted_at
		FROM resolutions
		WHERE track_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, trackID))
}

// Update modifies an existing resolution in the database
func (r *ResolutionRepository) Update(res *models.PersistedResolution) error {
	if err := res.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	res.SetUpdatedAt(now)

	query := `
		UPDATE resolutions
		SET video_id = ?, artist = ?, title = ?, duration = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		res.VideoID(),
		res.Artist(),
		res.Title(),
		res.Duration(),
		now,
		res.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update resolution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resolution not found or already deleted: %s", res.ID())
	}

	return nil
}

// Delete soft-deletes a resolution by ID
func (r *ResolutionRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE resolutions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete resolution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resolution not found or already deleted: %s", id)
	}

	return nil
}

// DeleteAll soft-deletes every live resolution and returns the count.
// Backs the `cache clear` command.
func (r *ResolutionRepository) DeleteAll() (int64, error) {
	result, err := r.db.Exec("UPDATE resolutions SET deleted_at = ? WHERE deleted_at IS NULL", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear resolutions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// List retrieves all resolutions matching the given criteria, excluding soft-deleted rows
func (r *ResolutionRepository) List(criteria map[string]any) ([]*models.PersistedResolution, error) {
	query := `
		SELECT id, track_id, video_id, artist, title, duration, created_at, updated_at, deleted_at
		FROM resolutions
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if videoID, ok := criteria["video_id"].(string); ok && videoID != "" {
		query += " AND video_id = ?"
		args = append(args, videoID)
	}

	query += " ORDER BY created_at ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []*models.PersistedResolution
	for rows.Next() {
		res, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return resolutions, nil
}

// scanOne scans a single [sql.Row] into a [models.PersistedResolution]
func (r *ResolutionRepository) scanOne(row *sql.Row) (*models.PersistedResolution, error) {
	var (
		id        string
		trackID   string
		videoID   string
		artist    string
		title     string
		duration  int
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &trackID, &videoID, &artist, &title, &duration, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resolution not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan resolution: %w", err)
	}

	res := models.NewPersistedResolution(trackID, videoID, models.Track{
		Title:    title,
		Artist:   artist,
		Duration: duration,
	})
	res.SetID(id)
	res.SetCreatedAt(createdAt)
	res.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		res.SetDeletedAt(&deletedAt.Time)
	}

	return res, nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedResolution]
func (r *ResolutionRepository) scanRow(rows *sql.Rows) (*models.PersistedResolution, error) {
	var (
		id        string
		trackID   string
		videoID   string
		artist    string
		title     string
		duration  int
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := rows.Scan(&id, &trackID, &videoID, &artist, &title, &duration, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan resolution: %w", err)
	}

	res := models.NewPersistedResolution(trackID, videoID, models.Track{
		Title:    title,
		Artist:   artist,
		Duration: duration,
	})
	res.SetID(id)
	res.SetCreatedAt(createdAt)
	res.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		res.SetDeletedAt(&deletedAt.Time)
	}

	return res, nil
}
