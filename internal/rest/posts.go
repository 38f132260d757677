package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/localblog/api"
	"github.com/dfryer1193/localblog/blog/domain"
)

// GetPosts lists posts, filtered by ?q= when present.
func (h *Handler) GetPosts(c *gin.Context) {
	h.posts.Reload(c.Request.Context())
	c.JSON(http.StatusOK, api.FromDomainList(h.posts.Search(c.Query("q"))))
}

func (h *Handler) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	h.posts.Reload(c.Request.Context())
	post, found := h.posts.FindByID(id)
	if !found {
		c.JSON(http.StatusNotFound, api.Error{Error: "post not found"})
		return
	}
	c.JSON(http.StatusOK, api.FromDomain(post))
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req api.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	h.posts.Reload(ctx)
	post, err := h.posts.Create(ctx, req.Title, req.Content, req.Image)
	if err != nil {
		writeError(c, err)
		return
	}

	log.Info().Int64("postID", post.ID).Msg("Created post")
	c.JSON(http.StatusCreated, api.FromDomain(post))
}

func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var req api.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	h.posts.Reload(ctx)
	post, err := h.posts.Update(ctx, id, req.Title, req.Content, req.Image)
	if err != nil {
		writeError(c, err)
		return
	}

	log.Info().Int64("postID", post.ID).Msg("Updated post")
	c.JSON(http.StatusOK, api.FromDomain(post))
}

// DeletePostJSON removes a post. Deleting a missing id still succeeds.
func (h *Handler) DeletePostJSON(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	h.posts.Reload(ctx)
	if err := h.posts.Delete(ctx, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: "invalid post id"})
		return 0, false
	}
	return id, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Error(err)
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.JSON(status, api.Error{Error: err.Error()})
}
