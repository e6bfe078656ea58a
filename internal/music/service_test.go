package music

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory ObjectStore that records every call.
type fakeStore struct {
	objects   map[string][]byte
	putErr    error
	removeErr error // simulates an unreachable store during cleanup
	removed   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Put(_ context.Context, key string, reader io.Reader, size int64, _ string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", fmt.Errorf("declared size %d does not match stream length %d", size, len(data))
	}
	f.objects[key] = data
	return "http://store.local/bucket/" + key, nil
}

func (f *fakeStore) Remove(_ context.Context, fileURL string) {
	f.removed = append(f.removed, fileURL)
	if f.removeErr != nil {
		return // best-effort: object stays behind, as with a real outage
	}
	key := strings.TrimPrefix(fileURL, "http://store.local/bucket/")
	delete(f.objects, key)
}

func (f *fakeStore) has(fileURL string) bool {
	key := strings.TrimPrefix(fileURL, "http://store.local/bucket/")
	_, ok := f.objects[key]
	return ok
}

// fakeRepo is an in-memory TrackRepository.
type fakeRepo struct {
	tracks    map[int64]*Track
	nextID    int64
	createErr error
	deleteErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tracks: map[int64]*Track{}}
}

func (f *fakeRepo) CreateTrack(_ context.Context, p CreateTrackParams) (*Track, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	t := &Track{
		ID:          f.nextID,
		Title:       p.Title,
		Duration:    p.Duration,
		TrackNumber: p.TrackNumber,
		FileURL:     p.FileURL,
		AlbumID:     p.AlbumID,
	}
	f.tracks[t.ID] = t
	return t, nil
}

func (f *fakeRepo) GetTrack(_ context.Context, id int64) (*Track, error) {
	t, ok := f.tracks[id]
	if !ok {
		return nil, ErrTrackNotFound
	}
	return t, nil
}

func (f *fakeRepo) DeleteTrack(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.tracks[id]; !ok {
		return ErrTrackNotFound
	}
	delete(f.tracks, id)
	return nil
}

func validInput(payload string) UploadInput {
	return UploadInput{
		File:        bytes.NewReader([]byte(payload)),
		Filename:    "track.flac",
		ContentType: "audio/flac",
		Title:       "A",
		Duration:    200,
		TrackNumber: 1,
		AlbumID:     1,
	}
}

func TestUpload_Success_ObjectExistsWhenCommitted(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := NewService(repo, store)

	track, err := svc.Upload(context.Background(), validInput("flac-bytes"))
	require.NoError(t, err)
	require.NotNil(t, track)

	// The returned reference resolves to a stored object at the instant
	// the call returns.
	assert.True(t, store.has(track.FileURL))
	assert.Equal(t, "A", track.Title)
	assert.Equal(t, int64(1), track.AlbumID)

	// The committed row carries the same reference the store returned.
	stored, err := repo.GetTrack(context.Background(), track.ID)
	require.NoError(t, err)
	assert.Equal(t, track.FileURL, stored.FileURL)
}

func TestUpload_RejectsNonAudio_NoSideEffects(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := NewService(repo, store)

	in := validInput("definitely audio bytes")
	in.ContentType = "text/plain"

	track, err := svc.Upload(context.Background(), in)
	assert.Nil(t, track)
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	// Nothing written anywhere.
	assert.Empty(t, store.objects)
	assert.Empty(t, repo.tracks)
	assert.Empty(t, store.removed)
}

func TestUpload_StorageFailure_NoMetadataWritten(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("connection refused")
	repo := newFakeRepo()
	svc := NewService(repo, store)

	track, err := svc.Upload(context.Background(), validInput("payload"))
	assert.Nil(t, track)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)

	// No metadata write was attempted and no compensation was needed.
	assert.Empty(t, repo.tracks)
	assert.Empty(t, store.removed)
}

func TestUpload_MetadataFailure_CompensatesObjectRemoval(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	repo.createErr = ErrAlbumNotFound // foreign-key violation surfaced by the repository
	svc := NewService(repo, store)

	track, err := svc.Upload(context.Background(), validInput("payload"))
	assert.Nil(t, track)

	// The caller sees the metadata failure, classified and still matchable
	// to the underlying cause.
	var metadataErr *MetadataError
	require.ErrorAs(t, err, &metadataErr)
	assert.ErrorIs(t, err, ErrAlbumNotFound)

	// Compensation removed the just-written object.
	require.Len(t, store.removed, 1)
	assert.Empty(t, store.objects)
}

func TestUpload_MetadataFailure_CompensationFailureLeavesOrphan(t *testing.T) {
	store := newFakeStore()
	store.removeErr = errors.New("store unreachable")
	repo := newFakeRepo()
	repo.createErr = errors.New("connection lost during commit")
	svc := NewService(repo, store)

	_, err := svc.Upload(context.Background(), validInput("payload"))

	var metadataErr *MetadataError
	require.ErrorAs(t, err, &metadataErr)

	// Removal was attempted; the orphan object stays behind for a sweep.
	assert.Len(t, store.removed, 1)
	assert.Len(t, store.objects, 1)
}

func TestUpload_IdenticalFilesGetDistinctReferences(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := NewService(repo, store)

	first, err := svc.Upload(context.Background(), validInput("same bytes"))
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), validInput("same bytes"))
	require.NoError(t, err)

	assert.NotEqual(t, first.FileURL, second.FileURL)
	assert.True(t, store.has(first.FileURL))
	assert.True(t, store.has(second.FileURL))
}

func TestUpload_MeasuresAndRewindsStream(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := NewService(repo, store)

	payload := "0123456789"
	track, err := svc.Upload(context.Background(), validInput(payload))
	require.NoError(t, err)

	// The fake store rejects a declared size that disagrees with the
	// stream, so a successful upload proves the full payload arrived.
	key := strings.TrimPrefix(track.FileURL, "http://store.local/bucket/")
	assert.Equal(t, []byte(payload), store.objects[key])
}

func TestUpload_DefaultsTrackNumber(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := NewService(repo, store)

	in := validInput("payload")
	in.TrackNumber = 0

	track, err := svc.Upload(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, track.TrackNumber)
}

func TestDelete_RemovesMetadataThenObject(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := NewService(repo, store)

	track, err := svc.Upload(context.Background(), validInput("payload"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), track.ID))

	_, err = repo.GetTrack(context.Background(), track.ID)
	assert.ErrorIs(t, err, ErrTrackNotFound)
	assert.False(t, store.has(track.FileURL))
}

func TestDelete_SucceedsWhenObjectPurgeFails(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := NewService(repo, store)

	track, err := svc.Upload(context.Background(), validInput("payload"))
	require.NoError(t, err)

	// Store goes down between upload and delete.
	store.removeErr = errors.New("store unreachable")

	// The caller-visible deletion still succeeds: the metadata row (the
	// only thing users query) is gone.
	require.NoError(t, svc.Delete(context.Background(), track.ID))

	_, err = repo.GetTrack(context.Background(), track.ID)
	assert.ErrorIs(t, err, ErrTrackNotFound)

	// The purge was attempted and the blob lingers as an orphan.
	assert.Contains(t, store.removed, track.FileURL)
	assert.True(t, store.has(track.FileURL))
}

func TestDelete_UnknownTrack_NoSideEffects(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := NewService(repo, store)

	err := svc.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, ErrTrackNotFound)
	assert.Empty(t, store.removed)
}

func TestDelete_MetadataFailure_ObjectUntouched(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := NewService(repo, store)

	track, err := svc.Upload(context.Background(), validInput("payload"))
	require.NoError(t, err)

	repo.deleteErr = errors.New("deadlock detected")

	err = svc.Delete(context.Background(), track.ID)
	require.Error(t, err)

	// Row and object both still exist: a consistent, retryable state.
	_, getErr := repo.GetTrack(context.Background(), track.ID)
	assert.NoError(t, getErr)
	assert.True(t, store.has(track.FileURL))
	assert.Empty(t, store.removed)
}
