package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devlink/devlink-api/internal/api/metrics"
	"github.com/devlink/devlink-api/internal/core/domain"
	"github.com/devlink/devlink-api/internal/core/ports"
)

// PostHandler handles the feed: posts, likes and comments.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create stores a new post.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        x-auth-token  header    string       true  "Signed token"
// @Param        body          body      postRequest  true  "Post text"
// @Success      200  {object}  domain.Post
// @Failure      400  {object}  errorsResponse
// @Failure      401  {object}  msgResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req postRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), userID, req.Text)
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusOK, post)
}

// List returns all posts, newest first.
//
// @Summary      List all posts
// @Tags         posts
// @Produce      json
// @Param        x-auth-token  header  string  true  "Signed token"
// @Success      200  {array}   domain.Post
// @Failure      401  {object}  msgResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Get returns a single post.
//
// @Summary      Get a post by id
// @Tags         posts
// @Produce      json
// @Param        x-auth-token  header  string  true  "Signed token"
// @Param        id            path    string  true  "Post id"
// @Success      200  {object}  domain.Post
// @Failure      401  {object}  msgResponse
// @Failure      404  {object}  msgResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapPostError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// Delete removes a post the caller owns.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Param        x-auth-token  header  string  true  "Signed token"
// @Param        id            path    string  true  "Post id"
// @Success      200  {object}  msgResponse
// @Failure      401  {object}  msgResponse
// @Failure      404  {object}  msgResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return h.mapPostError(c, err)
	}
	return c.JSON(http.StatusOK, msgResponse{Msg: "Post removed"})
}

// Like records the caller's like and returns the updated like list.
//
// @Summary      Like a post
// @Tags         posts
// @Produce      json
// @Param        x-auth-token  header  string  true  "Signed token"
// @Param        id            path    string  true  "Post id"
// @Success      200  {array}   domain.Like
// @Failure      400  {object}  msgResponse
// @Failure      401  {object}  msgResponse
// @Failure      404  {object}  msgResponse
// @Router       /posts/like/{id} [put]
func (h *PostHandler) Like(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	likes, err := h.service.Like(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyLiked) {
			return c.JSON(http.StatusBadRequest, msgResponse{Msg: "Post already liked"})
		}
		return h.mapPostError(c, err)
	}
	return c.JSON(http.StatusOK, likes)
}

// Unlike removes the caller's like and returns the updated like list.
//
// @Summary      Unlike a post
// @Tags         posts
// @Produce      json
// @Param        x-auth-token  header  string  true  "Signed token"
// @Param        id            path    string  true  "Post id"
// @Success      200  {array}   domain.Like
// @Failure      400  {object}  msgResponse
// @Failure      401  {object}  msgResponse
// @Failure      404  {object}  msgResponse
// @Router       /posts/unlike/{id} [put]
func (h *PostHandler) Unlike(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	likes, err := h.service.Unlike(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotYetLiked) {
			return c.JSON(http.StatusBadRequest, msgResponse{Msg: "Post has not yet been liked"})
		}
		return h.mapPostError(c, err)
	}
	return c.JSON(http.StatusOK, likes)
}

// AddComment prepends a comment and returns the updated comment list.
//
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        x-auth-token  header  string          true  "Signed token"
// @Param        id            path    string          true  "Post id"
// @Param        body          body    commentRequest  true  "Comment text"
// @Success      200  {array}   domain.Comment
// @Failure      400  {object}  errorsResponse
// @Failure      401  {object}  msgResponse
// @Failure      404  {object}  msgResponse
// @Router       /posts/comment/{id} [post]
func (h *PostHandler) AddComment(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	comments, err := h.service.AddComment(c.Request().Context(), userID, c.Param("id"), req.Text)
	if err != nil {
		return h.mapPostError(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// RemoveComment deletes a comment the caller wrote and returns the
// updated comment list.
//
// @Summary      Remove a comment from a post
// @Tags         posts
// @Produce      json
// @Param        x-auth-token  header  string  true  "Signed token"
// @Param        id            path    string  true  "Post id"
// @Param        comment_id    path    string  true  "Comment id"
// @Success      200  {array}   domain.Comment
// @Failure      401  {object}  msgResponse
// @Failure      404  {object}  msgResponse
// @Router       /posts/comment/{id}/{comment_id} [delete]
func (h *PostHandler) RemoveComment(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	comments, err := h.service.RemoveComment(c.Request().Context(), userID, c.Param("id"), c.Param("comment_id"))
	if err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, msgResponse{Msg: "Comment does not exist"})
		}
		return h.mapPostError(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// mapPostError covers the failures shared across the post routes.
func (h *PostHandler) mapPostError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		return c.JSON(http.StatusNotFound, msgResponse{Msg: "Post not found"})
	case errors.Is(err, domain.ErrNotOwner):
		return c.JSON(http.StatusUnauthorized, msgResponse{Msg: "User not authorized"})
	}
	return err
}
