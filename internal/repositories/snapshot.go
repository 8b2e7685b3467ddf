package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/playstats/internal/models"
	"github.com/desertthunder/playstats/internal/shared"
)

const snapshotColumns = `id, sequence, playlist_id, payload, created_at`

// SnapshotRepository persists [models.Snapshot] records.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new [SnapshotRepository] with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Record stores stats as a new snapshot of playlistID.
func (r *SnapshotRepository) Record(playlistID string, stats *models.PlaylistStats) (*models.Snapshot, error) {
	if stats == nil {
		return nil, fmt.Errorf("%w: stats are required", shared.ErrInvalidArgument)
	}

	snapshot := models.NewSnapshot(playlistID, *stats)
	if err := r.Create(snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Create inserts a snapshot, assigning its ID and sequence.
func (r *SnapshotRepository) Create(snapshot *models.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	payload, err := json.Marshal(snapshot.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	sequence, err := NextSequence(r.db, "stats_snapshots")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO stats_snapshots (
			id, sequence, playlist_id, track_count, most_popular_track, most_popular_artist,
			most_tracks_artist, popularity_min, popularity_max, payload, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	s := snapshot.Stats
	_, err = r.db.Exec(query,
		id, sequence, snapshot.PlaylistID, s.TrackCount, s.MostPopularTrack, s.MostPopularArtist,
		s.MostTracksArtist, s.TrackPopularityRange.Low(), s.TrackPopularityRange.High(), string(payload),
		snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	snapshot.ID = id
	snapshot.Sequence = sequence
	return nil
}

// Get retrieves a snapshot by ID.
func (r *SnapshotRepository) Get(id string) (*models.Snapshot, error) {
	row := r.db.QueryRow(`SELECT `+snapshotColumns+` FROM stats_snapshots WHERE id = ?`, id)

	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	return snapshot, nil
}

// List returns snapshots newest first. An empty playlistID lists every playlist; limit <= 0 returns all rows.
func (r *SnapshotRepository) List(playlistID string, limit int) ([]*models.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM stats_snapshots`
	args := []any{}

	if playlistID != "" {
		query += " WHERE playlist_id = ?"
		args = append(args, playlistID)
	}

	query += " ORDER BY sequence DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return snapshots, nil
}

// Latest returns the most recent snapshot of playlistID.
func (r *SnapshotRepository) Latest(playlistID string) (*models.Snapshot, error) {
	snapshots, err := r.List(playlistID, 1)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: no snapshots for playlist %s", shared.ErrSnapshotNotFound, playlistID)
	}
	return snapshots[0], nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*models.Snapshot, error) {
	var (
		snapshot  models.Snapshot
		payload   string
		createdAt time.Time
	)

	if err := row.Scan(&snapshot.ID, &snapshot.Sequence, &snapshot.PlaylistID, &payload, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(payload), &snapshot.Stats); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", snapshot.ID, err)
	}
	snapshot.CreatedAt = createdAt.UTC()

	return &snapshot, nil
}
