// package models defines the data model for the playlist resolver
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations include PersistedResolution.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Track represents a normalized catalog track ready for resolution.
//
// Artist and Title have already been cleaned by match.CleanTag at
// ingestion; Duration is in whole seconds (0 means unknown).
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration"`
}

// Playlist represents a playlist from either service.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// PlaylistExport represents a playlist with all its tracks.
type PlaylistExport struct {
	Playlist Playlist `json:"playlist"`
	Tracks   []Track  `json:"tracks"`
}

// Candidate is a video search result considered as a possible match.
//
// Candidates are ephemeral: they exist only within a single resolution
// attempt and are never persisted.
type Candidate struct {
	ID       string // Video identifier
	Title    string // Video title
	Channel  string // Channel name (uploader)
	Duration int    // Duration in seconds
}

// ResolutionResult is the outcome of resolving one track.
type ResolutionResult struct {
	Matched  bool   `json:"matched"`
	VideoID  string `json:"video_id,omitempty"`
	URL      string `json:"url,omitempty"`
	Fallback bool   `json:"fallback,omitempty"` // Whether the fallback query produced the match
}

// PersistedResolution is a database-backed track→video mapping.
//
// Rows let repeat runs skip search and detail calls for tracks that
// already resolved. Soft-deleted rows are ignored by lookups.
type PersistedResolution struct {
	id        string
	trackID   string
	videoID   string
	artist    string
	title     string
	duration  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedResolution creates a PersistedResolution for a track that
// resolved to videoID.
func NewPersistedResolution(trackID, videoID string, track Track) *PersistedResolution {
	now := time.Now()
	return &PersistedResolution{
		trackID:   trackID,
		videoID:   videoID,
		artist:    track.Artist,
		title:     track.Title,
		duration:  track.Duration,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *PersistedResolution) ID() string            { return r.id }
func (r *PersistedResolution) TrackID() string       { return r.trackID }
func (r *PersistedResolution) VideoID() string       { return r.videoID }
func (r *PersistedResolution) Artist() string        { return r.artist }
func (r *PersistedResolution) Title() string         { return r.title }
func (r *PersistedResolution) Duration() int         { return r.duration }
func (r *PersistedResolution) CreatedAt() time.Time  { return r.createdAt }
func (r *PersistedResolution) UpdatedAt() time.Time  { return r.updatedAt }
func (r *PersistedResolution) DeletedAt() *time.Time { return r.deletedAt }

func (r *PersistedResolution) SetID(id string)           { r.id = id }
func (r *PersistedResolution) SetCreatedAt(t time.Time)  { r.createdAt = t }
func (r *PersistedResolution) SetUpdatedAt(t time.Time)  { r.updatedAt = t }
func (r *PersistedResolution) SetDeletedAt(t *time.Time) { r.deletedAt = t }
func (r *PersistedResolution) SetVideoID(videoID string) { r.videoID = videoID }

// Validate checks that the mapping carries both sides of the match.
func (r *PersistedResolution) Validate() error {
	if r.trackID == "" {
		return fmt.Errorf("missing track id")
	}
	if r.videoID == "" {
		return fmt.Errorf("missing video id")
	}
	return nil
}
