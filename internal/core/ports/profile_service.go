package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/devlink/devlink-api/internal/core/domain"
)

// ProfileInput carries the raw profile fields from the upsert route.
// Skills is the comma-separated form typed by the user.
type ProfileInput struct {
	Company        string
	Website        string
	Location       string
	Status         string
	Skills         string
	Bio            string
	GithubUsername string
	Youtube        string
	Twitter        string
	Facebook       string
	Linkedin       string
	Instagram      string
}

// ExperienceInput carries a new work-history entry.
type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

// EducationInput carries a new education-history entry.
type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

// ProfileService defines the profile use cases, including the external
// repository lookup.
type ProfileService interface {
	OwnProfile(ctx context.Context, userID string) (*domain.Profile, error)
	Upsert(ctx context.Context, userID string, input ProfileInput) (*domain.Profile, error)
	ListProfiles(ctx context.Context) ([]*domain.Profile, error)
	ProfileByUser(ctx context.Context, userID string) (*domain.Profile, error)
	// DeleteAccount removes the caller's profile and user record. Posts
	// are intentionally left in place; their author fields are snapshots.
	DeleteAccount(ctx context.Context, userID string) error

	AddExperience(ctx context.Context, userID string, input ExperienceInput) (*domain.Profile, error)
	RemoveExperience(ctx context.Context, userID, entryID string) (*domain.Profile, error)
	AddEducation(ctx context.Context, userID string, input EducationInput) (*domain.Profile, error)
	RemoveEducation(ctx context.Context, userID, entryID string) (*domain.Profile, error)

	// GithubRepos returns the upstream JSON untouched.
	GithubRepos(ctx context.Context, username string) (json.RawMessage, error)
}
