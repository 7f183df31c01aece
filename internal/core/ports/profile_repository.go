package ports

import (
	"context"

	"github.com/devlink/devlink-api/internal/core/domain"
)

// ProfileUpdate is the sparse field set applied by an upsert. Empty
// strings and empty slices mean "leave unchanged"; only provided values
// are written to the document.
type ProfileUpdate struct {
	Company        string
	Website        string
	Location       string
	Status         string
	Skills         []string
	Bio            string
	GithubUsername string
	Social         domain.SocialLinks
}

// ProfileRepository defines persistence operations for profile documents.
// Returned profiles carry only the owning user id in User.ID; joining
// name/avatar is the service layer's job.
type ProfileRepository interface {
	// FindByUserID returns domain.ErrProfileNotFound when the user has no
	// profile or the id is not well-formed.
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	FindAll(ctx context.Context) ([]*domain.Profile, error)
	// Upsert merges the update into the user's profile, creating the
	// document when absent, and returns the resulting document.
	Upsert(ctx context.Context, userID string, update ProfileUpdate) (*domain.Profile, error)
	DeleteByUserID(ctx context.Context, userID string) error

	// Add* prepend an entry (most-recent-first) and return the updated
	// profile. The entry id is minted by the repository.
	AddExperience(ctx context.Context, userID string, entry domain.Experience) (*domain.Profile, error)
	AddEducation(ctx context.Context, userID string, entry domain.Education) (*domain.Profile, error)
	// Remove* delete the entry with the given id. An unknown id is not an
	// error; the profile is returned unchanged.
	RemoveExperience(ctx context.Context, userID, entryID string) (*domain.Profile, error)
	RemoveEducation(ctx context.Context, userID, entryID string) (*domain.Profile, error)
}
