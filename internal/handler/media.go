package handler

import (
	"net/http"
	"strings"

	"github.com/andy11223386/akashicConnect/internal/httputil"
	"github.com/andy11223386/akashicConnect/internal/model"
	"github.com/andy11223386/akashicConnect/internal/transport/http/middleware"
)

type MediaHandler struct {
	media MediaService
}

// NewMediaHandler creates a MediaHandler. media may be nil.
func NewMediaHandler(media MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// PresignTweetImage handles POST /api/media/tweets/presign
// Returns a presigned URL for uploading a tweet image directly to R2.
func (h *MediaHandler) PresignTweetImage(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	if h.media == nil {
		httputil.WriteServiceError(w, model.ErrMediaDisabled)
		return
	}

	var req model.PresignTweetImageRequest
	if err := httputil.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	req.ContentType = strings.TrimSpace(req.ContentType)

	res, err := h.media.PresignTweetImage(r.Context(), actor, req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}
