package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/devlink/devlink-api/internal/core/domain"
	"github.com/devlink/devlink-api/internal/core/ports"
)

// PostService implements the feed: posts, likes and comments.
type PostService struct {
	posts  ports.PostRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, logger zerolog.Logger) *PostService {
	return &PostService{posts: posts, users: users, logger: logger}
}

// Create stores a new post carrying a snapshot of the author's current
// name and avatar. Later changes to the user do not rewrite old posts.
func (s *PostService) Create(ctx context.Context, userID, text string) (*domain.Post, error) {
	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		UserID:    userID,
		Text:      text,
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", created.ID).Str("user_id", userID).Msg("post created")
	return created, nil
}

// List returns all posts newest-first.
func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	return s.posts.FindAll(ctx)
}

// Get returns a single post by id.
func (s *PostService) Get(ctx context.Context, postID string) (*domain.Post, error) {
	return s.posts.FindByID(ctx, postID)
}

// Delete removes a post after checking the caller owns it.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return domain.ErrNotOwner
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.logger.Info().Str("post_id", postID).Str("user_id", userID).Msg("post deleted")
	return nil
}

// Like records the caller's like and returns the updated like list. A
// second like from the same user fails with domain.ErrAlreadyLiked.
func (s *PostService) Like(ctx context.Context, userID, postID string) ([]domain.Like, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if likedBy(post, userID) {
		return nil, domain.ErrAlreadyLiked
	}

	updated, err := s.posts.AddLike(ctx, postID, domain.Like{UserID: userID})
	if err != nil {
		return nil, err
	}
	return updated.Likes, nil
}

// Unlike removes the caller's like and returns the updated like list.
func (s *PostService) Unlike(ctx context.Context, userID, postID string) ([]domain.Like, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !likedBy(post, userID) {
		return nil, domain.ErrNotYetLiked
	}

	updated, err := s.posts.RemoveLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	return updated.Likes, nil
}

// AddComment prepends a comment carrying an author snapshot and returns
// the updated comment list.
func (s *PostService) AddComment(ctx context.Context, userID, postID, text string) ([]domain.Comment, error) {
	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := domain.Comment{
		UserID:    userID,
		Text:      text,
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: time.Now().UTC(),
	}

	updated, err := s.posts.AddComment(ctx, postID, comment)
	if err != nil {
		return nil, err
	}
	return updated.Comments, nil
}

// RemoveComment deletes the comment with the given id after checking the
// caller wrote it. Removal targets the matched comment's own id, so a
// user with several comments on one post only ever loses the one
// addressed by the route.
func (s *PostService) RemoveComment(ctx context.Context, userID, postID, commentID string) ([]domain.Comment, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	var target *domain.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			target = &post.Comments[i]
			break
		}
	}
	if target == nil {
		return nil, domain.ErrCommentNotFound
	}
	if target.UserID != userID {
		return nil, domain.ErrNotOwner
	}

	updated, err := s.posts.RemoveComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	return updated.Comments, nil
}

func likedBy(post *domain.Post, userID string) bool {
	for _, l := range post.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
