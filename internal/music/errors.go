package music

import "errors"

// ErrUnsupportedMedia is returned when the uploaded file's declared content
// type is not an audio type. Rejected before any side effect.
var ErrUnsupportedMedia = errors.New("only audio files are supported")

// ErrTrackNotFound is returned when a track does not exist.
var ErrTrackNotFound = errors.New("track not found")

// ErrAlbumNotFound is returned when a referenced album does not exist.
var ErrAlbumNotFound = errors.New("album not found")

// ErrArtistNotFound is returned when a referenced artist does not exist.
var ErrArtistNotFound = errors.New("artist not found")

// StorageError reports a failed object write. No metadata has been touched
// when it is returned, so no compensation is required.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "object storage: " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// MetadataError reports a failed metadata commit after the object was already
// written. By the time the caller sees it, the compensating object removal
// has been attempted; the wrapped error is the original repository failure.
type MetadataError struct {
	Err error
}

func (e *MetadataError) Error() string { return "upload not completed, metadata commit failed: " + e.Err.Error() }

func (e *MetadataError) Unwrap() error { return e.Err }
