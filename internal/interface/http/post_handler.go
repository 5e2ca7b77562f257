package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/feedline/backend/internal/application"
	"github.com/feedline/backend/internal/interface/middleware"
	"github.com/feedline/backend/pkg/response"
	"github.com/feedline/backend/pkg/validation"
)

// PostHandler maps engagement operations onto HTTP. It is the only place
// where domain errors become transport status codes.
type PostHandler struct {
	Svc    *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type postRequest struct {
	Text string `json:"text" binding:"required"`
}

// fail translates a domain error to its status code. Unexpected failures are
// logged and surface as a generic 500 with no internal detail.
func (h *PostHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrTextRequired):
		response.Fail(c, http.StatusBadRequest, "Text is required", nil)
	case errors.Is(err, application.ErrAlreadyLiked):
		response.Fail(c, http.StatusBadRequest, "Post already liked", nil)
	case errors.Is(err, application.ErrNotLiked):
		response.Fail(c, http.StatusBadRequest, "Post has not yet been liked", nil)
	case errors.Is(err, application.ErrNotAuthorized):
		response.Fail(c, http.StatusUnauthorized, "User not authorized", nil)
	case errors.Is(err, application.ErrPostNotFound):
		response.Fail(c, http.StatusNotFound, "Post not found", nil)
	case errors.Is(err, application.ErrCommentNotFound):
		response.Fail(c, http.StatusNotFound, "Comment does not exist", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, "User not found", nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("path", c.FullPath()).Error("post operation failed")
		}
		response.Fail(c, http.StatusInternalServerError, "server error", nil)
	}
}

// List GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.Svc.ListPosts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, posts, "posts")
}

// Create POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Text is required", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.CreatePost(c.Request.Context(), uid, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, p, "post created")
}

// Get GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Svc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, p, "post")
}

// Delete DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.DeletePost(c.Request.Context(), c.Param("id"), uid); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"msg": "Post removed"}, "post removed")
}

// Like PUT /api/posts/like/:id
func (h *PostHandler) Like(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	likes, err := h.Svc.LikePost(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, likes, "post liked")
}

// Unlike PUT /api/posts/unlike/:id
func (h *PostHandler) Unlike(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	likes, err := h.Svc.UnlikePost(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, likes, "post unliked")
}

// Comment POST /api/posts/comment/:id
func (h *PostHandler) Comment(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Text is required", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	comments, err := h.Svc.AddComment(c.Request.Context(), c.Param("id"), uid, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, comments, "comment added")
}

// DeleteComment DELETE /api/posts/comment/:id/:commentId
func (h *PostHandler) DeleteComment(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	comments, err := h.Svc.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, comments, "comment removed")
}

// Search GET /api/posts/search?q=...&size=...
func (h *PostHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Fail(c, http.StatusBadRequest, "query is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchPosts(c.Request.Context(), q, size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, hits, "search results")
}
