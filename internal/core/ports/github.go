package ports

import (
	"context"
	"encoding/json"
)

// GithubClient fetches a user's public repositories from the external
// hosting API. The response body is passed through unmodified.
type GithubClient interface {
	// Repos returns domain.ErrGithubNotFound on any non-200 upstream
	// response.
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}

// RepoCache is a read-through cache for Github lookups.
type RepoCache interface {
	// Get reports a miss with ok=false and a nil error.
	Get(ctx context.Context, username string) (body json.RawMessage, ok bool, err error)
	Set(ctx context.Context, username string, body json.RawMessage) error
}
