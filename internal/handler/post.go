package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/socialapi-dev/socialapi/internal/api"
	"github.com/socialapi-dev/socialapi/internal/errors"
	"github.com/socialapi-dev/socialapi/internal/middleware"
)

// CreatePost creates a post owned by the caller. An optional `prompt` query
// parameter requests background image generation for the post.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r)
	if !ok {
		api.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	var req api.CreatePostRequest
	if err := api.DecodeValidate(r.Body, &req); err != nil {
		api.WriteError(w, err)
		return
	}

	post, err := h.posts.CreatePost(user.Id, req.Body, r.URL.Query().Get("prompt"))
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, api.PostResponse{Post: post})
}

// Posts lists all posts, newest first unless ?sorting= says otherwise.
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Posts(r.URL.Query().Get("sorting"))
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, posts)
}

// Post returns one post together with its comments.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIntParam(chi.URLParam(r, "post_id"), "post_id")
	if err != nil {
		api.WriteError(w, err)
		return
	}

	post, comments, err := h.posts.PostWithComments(postId)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.PostWithCommentsResponse{Post: post, Comments: comments})
}

// CreateComment adds a comment to an existing post.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r)
	if !ok {
		api.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	var req api.CreateCommentRequest
	if err := api.DecodeValidate(r.Body, &req); err != nil {
		api.WriteError(w, err)
		return
	}

	comment, err := h.posts.CreateComment(user.Id, req.PostId, req.Body)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, comment)
}

// Comments lists the comments of one post.
func (h *Handler) Comments(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIntParam(chi.URLParam(r, "post_id"), "post_id")
	if err != nil {
		api.WriteError(w, err)
		return
	}

	comments, err := h.posts.Comments(postId)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, comments)
}

// LikePost records a like by the caller on an existing post.
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r)
	if !ok {
		api.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	var req api.LikePostRequest
	if err := api.DecodeValidate(r.Body, &req); err != nil {
		api.WriteError(w, err)
		return
	}

	like, err := h.posts.LikePost(user.Id, req.PostId)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, like)
}

func parseIntParam(param, name string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, errors.BadRequest("Invalid " + name + ": must be an integer")
	}
	return val, nil
}
