package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andy11223386/akashicConnect/internal/feed"
	"github.com/andy11223386/akashicConnect/internal/httputil"
	"github.com/andy11223386/akashicConnect/internal/model"
	"github.com/andy11223386/akashicConnect/internal/transport/http/middleware"
)

type TweetHandler struct {
	tweets TweetService
}

func NewTweetHandler(tweets TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

// Create handles POST /api/tweets
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateTweetRequest
	if err := httputil.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	tweet, err := h.tweets.Create(r.Context(), actor, req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, tweet)
}

// List handles GET /api/tweets
func (h *TweetHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.tweets.List(r.Context())
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, nonNilViews(views))
}

// ListByUser handles GET /api/users/{username}/tweets
func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	views, err := h.tweets.ListByUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, views)
}

// History handles POST /api/tweets/history
func (h *TweetHandler) History(w http.ResponseWriter, r *http.Request) {
	var req model.HistoryRequest
	if err := httputil.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	views, err := h.tweets.History(r.Context(), req.IDs)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, views)
}

// Get handles GET /api/tweets/{id}
func (h *TweetHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetUsernameFromContext(r.Context())

	view, err := h.tweets.Get(r.Context(), chi.URLParam(r, "id"), viewer)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view)
}

// Comments handles GET /api/tweets/{id}/comments
func (h *TweetHandler) Comments(w http.ResponseWriter, r *http.Request) {
	thread, err := h.tweets.Thread(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	if thread == nil {
		thread = []model.EnrichedComment{}
	}

	httputil.WriteJSON(w, http.StatusOK, thread)
}

// Like handles POST /api/tweets/{id}/like
func (h *TweetHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, feed.Like)
}

// Retweet handles POST /api/tweets/{id}/retweet
func (h *TweetHandler) Retweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, feed.Retweet)
}

// toggle answers 201 when the actor was added and 200 when removed.
func (h *TweetHandler) toggle(w http.ResponseWriter, r *http.Request, kind feed.Kind) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	result, err := h.tweets.ToggleEngagement(r.Context(), kind, chi.URLParam(r, "id"), actor)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.WasAdded {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, result)
}

func nonNilViews(views []model.EnrichedTweet) []model.EnrichedTweet {
	if views == nil {
		return []model.EnrichedTweet{}
	}
	return views
}
