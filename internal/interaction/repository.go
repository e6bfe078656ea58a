// Package interaction records listener behavior events (plays, likes, skips)
// used by the recommendation pipeline.
package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Type classifies a listener event.
type Type string

const (
	TypePlay Type = "PLAY"
	TypeLike Type = "LIKE"
	TypeSkip Type = "SKIP"
)

// weights feed the recommendation algorithm: a completed play signals mild
// interest, an explicit like strong preference, a skip none.
var weights = map[Type]float64{
	TypePlay: 1.0,
	TypeLike: 5.0,
	TypeSkip: 0.0,
}

// Valid reports whether t is a known interaction type.
func (t Type) Valid() bool {
	_, ok := weights[t]
	return ok
}

// Interaction is one recorded listener event.
type Interaction struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	TrackID   int64     `json:"trackId"`
	Type      Type      `json:"interactionType"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrTrackNotFound is returned when the referenced track does not exist.
var ErrTrackNotFound = errors.New("track not found")

// Repository handles interaction persistence.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new interaction Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Record inserts one interaction with its type-derived weight.
func (r *Repository) Record(ctx context.Context, userID string, trackID int64, typ Type) (*Interaction, error) {
	i := &Interaction{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO interactions (user_id, track_id, interaction_type, weight)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, track_id, interaction_type, weight, created_at`,
		userID, trackID, typ, weights[typ],
	).Scan(&i.ID, &i.UserID, &i.TrackID, &i.Type, &i.Weight, &i.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("record interaction: %w", err)
	}
	return i, nil
}

// IsLiked reports whether the user has ever liked the track.
func (r *Repository) IsLiked(ctx context.Context, userID string, trackID int64) (bool, error) {
	var liked bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM interactions
		   WHERE user_id = $1 AND track_id = $2 AND interaction_type = 'LIKE')`,
		userID, trackID,
	).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("check like status: %w", err)
	}
	return liked, nil
}

// ListByUser returns the user's most recent interactions, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]Interaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, track_id, interaction_type, weight, created_at
		 FROM interactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	items := []Interaction{}
	for rows.Next() {
		var i Interaction
		if err := rows.Scan(&i.ID, &i.UserID, &i.TrackID, &i.Type, &i.Weight, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// isForeignKeyViolation checks whether an error is a PostgreSQL
// foreign_key_violation (code 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
