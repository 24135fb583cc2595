package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/httputil"
	"github.com/andy11223386/akashicConnect/internal/model"
	"github.com/andy11223386/akashicConnect/internal/transport/http/middleware"
)

type UserHandler struct {
	profiles ProfileService
	media    MediaService
}

// NewUserHandler creates a UserHandler. media may be nil, in which case
// avatar uploads answer 503.
func NewUserHandler(profiles ProfileService, media MediaService) *UserHandler {
	return &UserHandler{
		profiles: profiles,
		media:    media,
	}
}

// GetProfile handles GET /api/users/{username}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetProfile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PATCH /api/users/{username}
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := httputil.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), actor, chi.URLParam(r, "username"), req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UploadAvatar handles PUT /api/users/{username}/avatar with a multipart
// "avatar" file. The replaced picture is deleted from storage afterwards.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	if h.media == nil {
		httputil.WriteServiceError(w, model.ErrMediaDisabled)
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.profiles.CheckOwner(actor, username); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	maxFormSize := int64(model.MaxProfilePictureBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrNotMultipart):
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
		case errors.As(err, &tooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Avatar exceeds 5MB limit")
		default:
			httputil.WriteBadRequest(w, "Invalid form data")
		}
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		httputil.WriteBadRequest(w, "avatar file is required")
		return
	}
	defer file.Close()

	upload, err := h.media.UploadProfilePicture(r.Context(), file, header)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	profile, oldKey, err := h.profiles.SetProfilePicture(r.Context(), actor, username, upload)
	if err != nil {
		h.deleteObject(r, upload.Key)
		httputil.WriteServiceError(w, err)
		return
	}
	h.deleteObject(r, oldKey)

	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) deleteObject(r *http.Request, key string) {
	if err := h.media.DeleteObject(r.Context(), key); err != nil {
		log.Warn().Str("component", "UserHandler").Str("key", key).Err(err).Msg("failed to delete object")
	}
}
