package ports

import (
	"context"

	"github.com/devlink/devlink-api/internal/core/domain"
)

// PostRepository defines persistence operations for feed posts. All list
// mutations are single atomic updates on the post document so concurrent
// requests cannot lose each other's writes.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	// FindAll returns all posts newest-first.
	FindAll(ctx context.Context) ([]*domain.Post, error)
	// FindByID returns domain.ErrPostNotFound for absent or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Delete(ctx context.Context, id string) error

	// AddLike prepends the like unless the user already appears in the
	// like list; a concurrent duplicate surfaces as domain.ErrAlreadyLiked.
	AddLike(ctx context.Context, postID string, like domain.Like) (*domain.Post, error)
	RemoveLike(ctx context.Context, postID, userID string) (*domain.Post, error)

	// AddComment prepends the comment; the comment id is minted by the
	// repository. RemoveComment deletes by the comment's own id.
	AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.Post, error)
	RemoveComment(ctx context.Context, postID, commentID string) (*domain.Post, error)
}
