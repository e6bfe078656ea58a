package interaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/flowbeat/service/internal/middleware"
	"github.com/flowbeat/service/internal/response"
)

// historyLimit caps the per-user history page.
const historyLimit = 100

// Handler holds HTTP handlers for interaction endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a new interaction Handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type recordRequest struct {
	InteractionType Type `json:"interactionType" example:"LIKE"`
}

type likeStatusData struct {
	Liked bool `json:"liked" example:"true"`
}

// Record godoc
//
//	@Summary		Record interaction
//	@Description	Record a PLAY, LIKE, or SKIP event for the current user on a track.
//	@Tags			interactions
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int				true	"Track ID"
//	@Param			request	body		recordRequest	true	"Event type"
//	@Success		201		{object}	response.Envelope{data=Interaction}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/tracks/{id}/interactions [post]
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	trackID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid track id")
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !req.InteractionType.Valid() {
		response.BadRequest(w, "interactionType must be one of: PLAY, LIKE, SKIP")
		return
	}

	i, err := h.repo.Record(r.Context(), userID, trackID, req.InteractionType)
	if err != nil {
		if errors.Is(err, ErrTrackNotFound) {
			response.NotFound(w, "track not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.Created(w, i)
}

// LikeStatus godoc
//
//	@Summary	Get like status
//	@Tags		interactions
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Track ID"
//	@Success	200	{object}	response.Envelope{data=likeStatusData}
//	@Failure	400	{object}	response.Envelope
//	@Failure	401	{object}	response.Envelope
//	@Failure	500	{object}	response.Envelope
//	@Router		/tracks/{id}/like [get]
func (h *Handler) LikeStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	trackID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid track id")
		return
	}

	liked, err := h.repo.IsLiked(r.Context(), userID, trackID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, likeStatusData{Liked: liked})
}

// History godoc
//
//	@Summary	List my interactions
//	@Tags		interactions
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	response.Envelope{data=[]Interaction}
//	@Failure	401	{object}	response.Envelope
//	@Failure	500	{object}	response.Envelope
//	@Router		/users/me/interactions [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	items, err := h.repo.ListByUser(r.Context(), userID, historyLimit)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, items)
}
