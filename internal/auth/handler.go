package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/flowbeat/service/internal/response"
)

// emailRegex is a permissive sanity check; real validation happens at delivery.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// minPasswordLength guards against trivially weak passwords.
const minPasswordLength = 8

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new auth Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Email    string  `json:"email"    example:"listener@example.com"`
	Password string  `json:"password" example:"correct-horse-battery"`
	FullName *string `json:"fullName,omitempty" example:"Ada Lovelace"`
}

type loginRequest struct {
	Email    string `json:"email"    example:"listener@example.com"`
	Password string `json:"password" example:"correct-horse-battery"`
}

type tokenData struct {
	Token string      `json:"token" example:"eyJhbGci..."`
	User  interface{} `json:"user"`
}

// Register godoc
//
//	@Summary		Register new user
//	@Description	Create a new listener account. Issues a JWT token on success.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Registration details"
//	@Success		201		{object}	response.Envelope{data=tokenData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		response.BadRequest(w, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLength {
		response.BadRequest(w, "password must be at least 8 characters")
		return
	}

	token, u, err := h.svc.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.Conflict(w, "email already registered")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Validate email and password. Returns a JWT token for subsequent requests.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	response.Envelope{data=tokenData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.BadRequest(w, "email and password are required")
		return
	}

	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, "invalid email or password")
		case errors.Is(err, ErrInactiveUser):
			response.Forbidden(w, "account is deactivated")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}
