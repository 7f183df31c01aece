package ports

import (
	"context"

	"github.com/devlink/devlink-api/internal/core/domain"
)

// PostService defines the feed use cases. Like/unlike and comment
// operations return the updated embedded list, matching what the routes
// respond with.
type PostService interface {
	Create(ctx context.Context, userID, text string) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	Get(ctx context.Context, postID string) (*domain.Post, error)
	// Delete returns domain.ErrNotOwner when the caller does not own the post.
	Delete(ctx context.Context, userID, postID string) error

	Like(ctx context.Context, userID, postID string) ([]domain.Like, error)
	Unlike(ctx context.Context, userID, postID string) ([]domain.Like, error)

	AddComment(ctx context.Context, userID, postID, text string) ([]domain.Comment, error)
	RemoveComment(ctx context.Context, userID, postID, commentID string) ([]domain.Comment, error)
}
