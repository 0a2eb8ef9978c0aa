package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/walkon/internal/models"
	"github.com/desertthunder/walkon/internal/shared"
)

// PlayerRepository implements [models.Repository] for roster [models.Player] persistence.
//
// Roster entries carry a denormalized copy of the assigned track so listing
// the roster never joins against the track cache.
type PlayerRepository struct {
	db *sql.DB
}

// NewPlayerRepository creates a new [PlayerRepository] with the given database connection
func NewPlayerRepository(db *sql.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Create inserts a new roster entry into the database with generated ID and sequence
func (r *PlayerRepository) Create(player *models.Player) error {
	sequence, err := NextSequence(r.db, "players")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	player.SetID(id)

	if err := player.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	track := player.Track()

	query := `
		INSERT INTO players (id, sequence, name, track_id, track_uri, track_title, artist, start_ms, duration_ms, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		player.Name(),
		track.ID,
		track.URI,
		track.Title,
		track.Artist,
		player.StartMS(),
		player.CueMS(),
		player.CreatedAt(),
		player.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}

	return nil
}

// Get retrieves a roster entry by ID, excluding soft-deleted players
func (r *PlayerRepository) Get(id string) (*models.Player, error) {
	query := `
		SELECT id, sequence, name, track_id, track_uri, track_title, artist, start_ms, duration_ms, created_at, updated_at, deleted_at
		FROM players
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByName retrieves a roster entry by player name
func (r *PlayerRepository) GetByName(name string) (*models.Player, error) {
	query := `
		SELECT id, sequence, name, track_id, track_uri, track_title, artist, start_ms, duration_ms, created_at, updated_at, deleted_at
		FROM players
		WHERE name = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, name))
}

// Update modifies an existing roster entry in the database
func (r *PlayerRepository) Update(player *models.Player) error {
	if err := player.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	player.SetUpdatedAt(now)

	track := player.Track()

	query := `
		UPDATE players
		SET name = ?, track_id = ?, track_uri = ?, track_title = ?, artist = ?, start_ms = ?, duration_ms = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		player.Name(),
		track.ID,
		track.URI,
		track.Title,
		track.Artist,
		player.StartMS(),
		player.CueMS(),
		now,
		player.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("player not found or already deleted: %s", player.ID())
	}

	return nil
}

// Delete soft-deletes a roster entry by ID
func (r *PlayerRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE players
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("player not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all roster entries matching the given criteria, excluding soft-deleted players
func (r *PlayerRepository) List(criteria map[string]any) ([]*models.Player, error) {
	query := `
		SELECT id, sequence, name, track_id, track_uri, track_title, artist, start_ms, duration_ms, created_at, updated_at, deleted_at
		FROM players
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	if assigned, ok := criteria["assigned"].(bool); ok && assigned {
		query += " AND track_id IS NOT NULL AND track_id != ''"
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return players, nil
}

// scanOne scans a single [sql.Row] into a [models.Player]
func (r *PlayerRepository) scanOne(row *sql.Row) (*models.Player, error) {
	var (
		id         string
		sequence   int
		name       string
		trackID    sql.NullString
		trackURI   sql.NullString
		trackTitle sql.NullString
		artist     sql.NullString
		startMS    int
		durationMS int
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &name, &trackID, &trackURI, &trackTitle, &artist, &startMS, &durationMS, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}

	return buildPlayer(id, sequence, name, trackID, trackURI, trackTitle, artist, startMS, durationMS, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.Player]
func (r *PlayerRepository) scanRow(rows *sql.Rows) (*models.Player, error) {
	var (
		id         string
		sequence   int
		name       string
		trackID    sql.NullString
		trackURI   sql.NullString
		trackTitle sql.NullString
		artist     sql.NullString
		startMS    int
		durationMS int
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &name, &trackID, &trackURI, &trackTitle, &artist, &startMS, &durationMS, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}

	return buildPlayer(id, sequence, name, trackID, trackURI, trackTitle, artist, startMS, durationMS, updatedAt, deletedAt), nil
}

func buildPlayer(id string, sequence int, name string, trackID, trackURI, trackTitle, artist sql.NullString, startMS, durationMS int, updatedAt time.Time, deletedAt sql.NullTime) *models.Player {
	player := models.NewPlayer(sequence, name)
	player.SetID(id)
	player.SetCue(startMS, durationMS)
	player.SetUpdatedAt(updatedAt)

	if trackID.Valid && trackID.String != "" {
		player.SetTrack(models.Track{
			ID:     trackID.String,
			URI:    trackURI.String,
			Title:  trackTitle.String,
			Artist: artist.String,
		})
	}

	if deletedAt.Valid {
		player.SetDeletedAt(&deletedAt.Time)
	}

	return player
}
