// Package music manages the catalog (artists, albums, tracks) and the
// upload/delete flows that keep audio objects and track metadata consistent.
package music

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Artist is a performing artist in the catalog.
type Artist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Bio       *string   `json:"bio,omitempty"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Album is a release belonging to an artist.
type Album struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ReleaseDate time.Time `json:"releaseDate"`
	CoverURL    *string   `json:"coverUrl,omitempty"`
	ArtistID    int64     `json:"artistId"`
	Artist      *Artist   `json:"artist,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Track is one stored audio object plus its descriptive metadata. FileURL is
// the object reference: a committed track's URL always resolves to an object
// that existed in the store at the moment of commit.
type Track struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Duration    int       `json:"duration"`
	TrackNumber int       `json:"trackNumber"`
	FileURL     string    `json:"fileUrl"`
	AlbumID     int64     `json:"albumId"`
	Album       *Album    `json:"album,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateTrackParams carries the caller-supplied metadata plus the object
// reference obtained from the store.
type CreateTrackParams struct {
	Title       string
	Duration    int
	TrackNumber int
	FileURL     string
	AlbumID     int64
}

// Repository handles all catalog database operations. Artists, albums and
// tracks form one aggregate; splitting them across repositories would only
// multiply boilerplate.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateArtist inserts a new artist.
func (r *Repository) CreateArtist(ctx context.Context, name string, bio *string) (*Artist, error) {
	a := &Artist{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO artists (name, bio)
		 VALUES ($1, $2)
		 RETURNING id, name, bio, avatar_url, created_at`,
		name, bio,
	).Scan(&a.ID, &a.Name, &a.Bio, &a.AvatarURL, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create artist: %w", err)
	}
	return a, nil
}

// ListArtists returns a page of artists ordered by name.
func (r *Repository) ListArtists(ctx context.Context, offset, limit int) ([]Artist, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, bio, avatar_url, created_at
		 FROM artists ORDER BY name OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	artists := []Artist{}
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio, &a.AvatarURL, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// CreateAlbum inserts a new album. A missing artist surfaces as ErrArtistNotFound.
func (r *Repository) CreateAlbum(ctx context.Context, title string, releaseDate time.Time, artistID int64) (*Album, error) {
	al := &Album{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO albums (title, release_date, artist_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, title, release_date, cover_url, artist_id, created_at`,
		title, releaseDate, artistID,
	).Scan(&al.ID, &al.Title, &al.ReleaseDate, &al.CoverURL, &al.ArtistID, &al.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("create album: %w", err)
	}
	return al, nil
}

// ListAlbumsByArtist returns all albums of one artist with the artist embedded.
func (r *Repository) ListAlbumsByArtist(ctx context.Context, artistID int64) ([]Album, error) {
	rows, err := r.db.Query(ctx,
		`SELECT al.id, al.title, al.release_date, al.cover_url, al.artist_id, al.created_at,
		        ar.id, ar.name, ar.bio, ar.avatar_url, ar.created_at
		 FROM albums al
		 JOIN artists ar ON ar.id = al.artist_id
		 WHERE al.artist_id = $1
		 ORDER BY al.release_date`,
		artistID,
	)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	albums := []Album{}
	for rows.Next() {
		var al Album
		var ar Artist
		if err := rows.Scan(
			&al.ID, &al.Title, &al.ReleaseDate, &al.CoverURL, &al.ArtistID, &al.CreatedAt,
			&ar.ID, &ar.Name, &ar.Bio, &ar.AvatarURL, &ar.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		al.Artist = &ar
		albums = append(albums, al)
	}
	return albums, rows.Err()
}

// GetAlbum fetches one album with its artist embedded.
func (r *Repository) GetAlbum(ctx context.Context, id int64) (*Album, error) {
	al := &Album{}
	ar := &Artist{}
	err := r.db.QueryRow(ctx,
		`SELECT al.id, al.title, al.release_date, al.cover_url, al.artist_id, al.created_at,
		        ar.id, ar.name, ar.bio, ar.avatar_url, ar.created_at
		 FROM albums al
		 JOIN artists ar ON ar.id = al.artist_id
		 WHERE al.id = $1`,
		id,
	).Scan(
		&al.ID, &al.Title, &al.ReleaseDate, &al.CoverURL, &al.ArtistID, &al.CreatedAt,
		&ar.ID, &ar.Name, &ar.Bio, &ar.AvatarURL, &ar.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	al.Artist = ar
	return al, nil
}

// CreateTrack inserts the track row in a single transaction: either the full
// row becomes visible or nothing does. A missing album surfaces as
// ErrAlbumNotFound (foreign_key_violation).
func (r *Repository) CreateTrack(ctx context.Context, p CreateTrackParams) (*Track, error) {
	t := &Track{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO tracks (title, duration, track_number, file_url, album_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, title, duration, track_number, file_url, album_id, created_at`,
		p.Title, p.Duration, p.TrackNumber, p.FileURL, p.AlbumID,
	).Scan(&t.ID, &t.Title, &t.Duration, &t.TrackNumber, &t.FileURL, &t.AlbumID, &t.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrAlbumNotFound
		}
		return nil, fmt.Errorf("create track: %w", err)
	}
	return t, nil
}

// GetTrack fetches one track with its album and artist embedded.
func (r *Repository) GetTrack(ctx context.Context, id int64) (*Track, error) {
	t := &Track{}
	al := &Album{}
	ar := &Artist{}
	err := r.db.QueryRow(ctx,
		`SELECT t.id, t.title, t.duration, t.track_number, t.file_url, t.album_id, t.created_at,
		        al.id, al.title, al.release_date, al.cover_url, al.artist_id, al.created_at,
		        ar.id, ar.name, ar.bio, ar.avatar_url, ar.created_at
		 FROM tracks t
		 JOIN albums al ON al.id = t.album_id
		 JOIN artists ar ON ar.id = al.artist_id
		 WHERE t.id = $1`,
		id,
	).Scan(
		&t.ID, &t.Title, &t.Duration, &t.TrackNumber, &t.FileURL, &t.AlbumID, &t.CreatedAt,
		&al.ID, &al.Title, &al.ReleaseDate, &al.CoverURL, &al.ArtistID, &al.CreatedAt,
		&ar.ID, &ar.Name, &ar.Bio, &ar.AvatarURL, &ar.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTrackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get track: %w", err)
	}
	al.Artist = ar
	t.Album = al
	return t, nil
}

// ListTracks returns a page of tracks with albums embedded, plus the total count.
func (r *Repository) ListTracks(ctx context.Context, offset, limit int) ([]Track, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tracks: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT t.id, t.title, t.duration, t.track_number, t.file_url, t.album_id, t.created_at,
		        al.id, al.title, al.release_date, al.cover_url, al.artist_id, al.created_at
		 FROM tracks t
		 JOIN albums al ON al.id = t.album_id
		 ORDER BY t.id OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	tracks := []Track{}
	for rows.Next() {
		var t Track
		var al Album
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Duration, &t.TrackNumber, &t.FileURL, &t.AlbumID, &t.CreatedAt,
			&al.ID, &al.Title, &al.ReleaseDate, &al.CoverURL, &al.ArtistID, &al.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan track: %w", err)
		}
		t.Album = &al
		tracks = append(tracks, t)
	}
	return tracks, total, rows.Err()
}

// DeleteTrack removes the metadata row. A zero-row delete reports
// ErrTrackNotFound so a lost race between two concurrent deletes is still
// observable to the loser.
func (r *Repository) DeleteTrack(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tracks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete track: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTrackNotFound
	}
	return nil
}

// isForeignKeyViolation checks whether an error is a PostgreSQL
// foreign_key_violation (code 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
