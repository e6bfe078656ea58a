package music

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flowbeat/service/internal/response"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// files spill to temp files, which stay seekable.
const maxUploadMemory = 32 << 20

// firstRecordYear guards album release dates: no record predates 1860.
const firstRecordYear = 1860

// Handler holds HTTP handlers for catalog and upload endpoints.
type Handler struct {
	svc  *Service
	repo *Repository
}

// NewHandler creates a new music Handler.
func NewHandler(svc *Service, repo *Repository) *Handler {
	return &Handler{svc: svc, repo: repo}
}

type createArtistRequest struct {
	Name string  `json:"name" example:"Nina Simone"`
	Bio  *string `json:"bio,omitempty"`
}

type createAlbumRequest struct {
	Title       string `json:"title"       example:"Pastel Blues"`
	ReleaseDate string `json:"releaseDate" example:"1965-10-01"`
	ArtistID    int64  `json:"artistId"    example:"1"`
}

type trackListData struct {
	Items []Track `json:"items"`
	Total int     `json:"total"`
}

// CreateArtist godoc
//
//	@Summary		Create artist
//	@Description	Add a new artist to the catalog. Admin only.
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		createArtistRequest	true	"Artist details"
//	@Success		201		{object}	response.Envelope{data=Artist}
//	@Failure		400		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/artists [post]
func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	var req createArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" || len(req.Name) > 100 {
		response.BadRequest(w, "name is required and must be at most 100 characters")
		return
	}

	a, err := h.repo.CreateArtist(r.Context(), req.Name, req.Bio)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, a)
}

// ListArtists godoc
//
//	@Summary	List artists
//	@Tags		catalog
//	@Produce	json
//	@Param		skip	query		int	false	"Offset"	default(0)
//	@Param		limit	query		int	false	"Page size"	default(100)
//	@Success	200		{object}	response.Envelope{data=[]Artist}
//	@Failure	500		{object}	response.Envelope
//	@Router		/artists [get]
func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	artists, err := h.repo.ListArtists(r.Context(), skip, limit)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, artists)
}

// CreateAlbum godoc
//
//	@Summary		Create album
//	@Description	Add a new album under an existing artist. Admin only.
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		createAlbumRequest	true	"Album details"
//	@Success		201		{object}	response.Envelope{data=Album}
//	@Failure		400		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/albums [post]
func (h *Handler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req createAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Title == "" || len(req.Title) > 100 {
		response.BadRequest(w, "title is required and must be at most 100 characters")
		return
	}
	releaseDate, err := time.Parse("2006-01-02", req.ReleaseDate)
	if err != nil {
		response.BadRequest(w, "releaseDate must be formatted as YYYY-MM-DD")
		return
	}
	if releaseDate.Year() < firstRecordYear {
		response.BadRequest(w, "releaseDate cannot predate 1860")
		return
	}

	al, err := h.repo.CreateAlbum(r.Context(), req.Title, releaseDate, req.ArtistID)
	if err != nil {
		if errors.Is(err, ErrArtistNotFound) {
			response.NotFound(w, "artist not found")
			return
		}
		response.InternalError(w)
		return
	}

	// Re-read to embed the artist in the response.
	full, err := h.repo.GetAlbum(r.Context(), al.ID)
	if err != nil {
		response.Created(w, al)
		return
	}
	response.Created(w, full)
}

// ListArtistAlbums godoc
//
//	@Summary	List an artist's albums
//	@Tags		catalog
//	@Produce	json
//	@Param		id	path		int	true	"Artist ID"
//	@Success	200	{object}	response.Envelope{data=[]Album}
//	@Failure	400	{object}	response.Envelope
//	@Failure	500	{object}	response.Envelope
//	@Router		/artists/{id}/albums [get]
func (h *Handler) ListArtistAlbums(w http.ResponseWriter, r *http.Request) {
	artistID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid artist id")
		return
	}

	albums, err := h.repo.ListAlbumsByArtist(r.Context(), artistID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, albums)
}

// Upload godoc
//
//	@Summary		Upload track
//	@Description	Upload an audio file with its metadata. The file is stored in object storage and the metadata committed afterwards; a failed commit removes the uploaded object. Admin only.
//	@Tags			tracks
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file		formData	file	true	"Audio file"
//	@Param			title		formData	string	true	"Track title"
//	@Param			duration	formData	int		true	"Duration in seconds"
//	@Param			albumId		formData	int		true	"Album ID"
//	@Param			trackNumber	formData	int		false	"Track number"	default(1)
//	@Success		201			{object}	response.Envelope{data=Track}
//	@Failure		400			{object}	response.Envelope
//	@Failure		403			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		415			{object}	response.Envelope
//	@Failure		502			{object}	response.Envelope
//	@Router			/tracks/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(w, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	if title == "" || len(title) > 100 {
		response.BadRequest(w, "title is required and must be at most 100 characters")
		return
	}
	duration, err := strconv.Atoi(r.FormValue("duration"))
	if err != nil || duration <= 0 {
		response.BadRequest(w, "duration must be a positive number of seconds")
		return
	}
	albumID, err := strconv.ParseInt(r.FormValue("albumId"), 10, 64)
	if err != nil || albumID <= 0 {
		response.BadRequest(w, "albumId is required")
		return
	}
	trackNumber := 1
	if v := r.FormValue("trackNumber"); v != "" {
		trackNumber, err = strconv.Atoi(v)
		if err != nil || trackNumber < 1 {
			response.BadRequest(w, "trackNumber must be a positive number")
			return
		}
	}

	track, err := h.svc.Upload(r.Context(), UploadInput{
		File:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Title:       title,
		Duration:    duration,
		TrackNumber: trackNumber,
		AlbumID:     albumID,
	})
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	// Re-read to embed album and artist in the response.
	full, err := h.repo.GetTrack(r.Context(), track.ID)
	if err != nil {
		response.Created(w, track)
		return
	}
	response.Created(w, full)
}

// writeUploadError maps the orchestrator's error taxonomy onto HTTP statuses.
func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	var storageErr *StorageError
	var metadataErr *MetadataError
	switch {
	case errors.Is(err, ErrUnsupportedMedia):
		response.UnsupportedMedia(w, "only audio files are supported")
	case errors.Is(err, ErrAlbumNotFound):
		response.NotFound(w, "album not found")
	case errors.As(err, &storageErr):
		response.BadGateway(w, "object storage is unavailable")
	case errors.As(err, &metadataErr):
		response.Error(w, http.StatusInternalServerError, "upload not completed: metadata commit failed")
	default:
		response.InternalError(w)
	}
}

// GetTrack godoc
//
//	@Summary	Get track
//	@Tags		tracks
//	@Produce	json
//	@Param		id	path		int	true	"Track ID"
//	@Success	200	{object}	response.Envelope{data=Track}
//	@Failure	400	{object}	response.Envelope
//	@Failure	404	{object}	response.Envelope
//	@Failure	500	{object}	response.Envelope
//	@Router		/tracks/{id} [get]
func (h *Handler) GetTrack(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid track id")
		return
	}

	track, err := h.repo.GetTrack(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTrackNotFound) {
			response.NotFound(w, "track not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, track)
}

// ListTracks godoc
//
//	@Summary	List tracks
//	@Tags		tracks
//	@Produce	json
//	@Param		skip	query		int	false	"Offset"	default(0)
//	@Param		limit	query		int	false	"Page size"	default(100)
//	@Success	200		{object}	response.Envelope{data=trackListData}
//	@Failure	500		{object}	response.Envelope
//	@Router		/tracks [get]
func (h *Handler) ListTracks(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	tracks, total, err := h.repo.ListTracks(r.Context(), skip, limit)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, trackListData{Items: tracks, Total: total})
}

// DeleteTrack godoc
//
//	@Summary		Delete track
//	@Description	Remove a track. The metadata row is deleted first; the stored object is purged best-effort afterwards. Admin only.
//	@Tags			tracks
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"Track ID"
//	@Success		204
//	@Failure		400	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/tracks/{id} [delete]
func (h *Handler) DeleteTrack(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid track id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrTrackNotFound) {
			response.NotFound(w, "track not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// pagination reads skip/limit query parameters with safe defaults.
func pagination(r *http.Request) (skip, limit int) {
	skip, limit = 0, 100
	if v, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && v >= 0 {
		skip = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	return skip, limit
}
