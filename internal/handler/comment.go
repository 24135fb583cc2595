package handler

import (
	"net/http"

	"github.com/andy11223386/akashicConnect/internal/httputil"
	"github.com/andy11223386/akashicConnect/internal/model"
	"github.com/andy11223386/akashicConnect/internal/transport/http/middleware"
)

type CommentHandler struct {
	comments CommentService
}

func NewCommentHandler(comments CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Create handles POST /api/comments
// Authentication is optional; anonymous callers comment as "anonymous".
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUsernameFromContext(r.Context())

	var req model.CreateCommentRequest
	if err := httputil.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), actor, req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}
