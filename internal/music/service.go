package music

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/flowbeat/service/internal/storage"
)

// TrackRepository is the metadata boundary the orchestrator depends on. Each
// method is atomic: it either commits fully or leaves nothing visible.
type TrackRepository interface {
	CreateTrack(ctx context.Context, p CreateTrackParams) (*Track, error)
	GetTrack(ctx context.Context, id int64) (*Track, error)
	DeleteTrack(ctx context.Context, id int64) error
}

// UploadInput carries one upload request: the audio stream plus the
// caller-supplied metadata. The stream must be seekable so its length can be
// measured before transmission — the store requires a declared length.
type UploadInput struct {
	File        io.ReadSeeker
	Filename    string
	ContentType string

	Title       string
	Duration    int
	TrackNumber int
	AlbumID     int64
}

// Service orchestrates the upload and delete flows across the object store
// and the metadata repository. The two stores are separate, non-transactional
// systems; the ordering in Upload and Delete is what keeps them consistent.
type Service struct {
	repo  TrackRepository
	store storage.ObjectStore
}

// NewService creates a new music Service.
func NewService(repo TrackRepository, store storage.ObjectStore) *Service {
	return &Service{repo: repo, store: store}
}

// Upload writes the audio object first and commits the metadata row second.
//
// The object write is the irreversible, externally visible side effect, so it
// happens before the row that advertises it. A committed track therefore
// always points at an object that exists. The price is a possible orphan
// object when the metadata commit fails; the compensating removal below
// bounds that window, and a failed removal is logged by the store adapter so
// an out-of-band sweep can reconcile it.
//
// Failure exits:
//   - ErrUnsupportedMedia: rejected before any side effect.
//   - StorageError: object write failed, metadata untouched, nothing to undo.
//   - MetadataError: row insert failed after the object write; the object has
//     been removed best-effort and the original insert failure is wrapped.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*Track, error) {
	if !strings.HasPrefix(in.ContentType, "audio/") {
		return nil, ErrUnsupportedMedia
	}

	size, err := measure(in.File)
	if err != nil {
		return nil, fmt.Errorf("measure upload size: %w", err)
	}

	key := storage.NewObjectKey(in.Filename)
	fileURL, err := s.store.Put(ctx, key, in.File, size, in.ContentType)
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	trackNumber := in.TrackNumber
	if trackNumber < 1 {
		trackNumber = 1
	}

	track, err := s.repo.CreateTrack(ctx, CreateTrackParams{
		Title:       in.Title,
		Duration:    in.Duration,
		TrackNumber: trackNumber,
		FileURL:     fileURL,
		AlbumID:     in.AlbumID,
	})
	if err != nil {
		// Compensation: the object is live but nothing references it.
		// Remove is best-effort; if it fails too, the adapter logs the
		// orphaned URL and the object waits for an external sweep.
		log.Printf("music: metadata commit failed, removing uploaded object %s", fileURL)
		s.store.Remove(ctx, fileURL)
		return nil, &MetadataError{Err: err}
	}

	return track, nil
}

// Delete removes the metadata row first and the object second.
//
// The ordering is the reverse of Upload because here the irreversible step is
// the object purge: purging first could leave a committed row pointing at a
// missing object with no way to repair it. Once the row is gone no caller can
// observe the track, so a failed object removal costs only storage, which the
// adapter logs for later reconciliation.
func (s *Service) Delete(ctx context.Context, id int64) error {
	track, err := s.repo.GetTrack(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTrack(ctx, id); err != nil {
		// Row still exists, object untouched: consistent state, safe to abort.
		return err
	}

	s.store.Remove(ctx, track.FileURL)
	return nil
}

// measure returns the stream's byte length and rewinds it to the start.
func measure(r io.Seeker) (int64, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}
