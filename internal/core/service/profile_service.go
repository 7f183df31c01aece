package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/devlink/devlink-api/internal/core/domain"
	"github.com/devlink/devlink-api/internal/core/ports"
)

// ProfileService implements profile CRUD, experience/education list
// mutations and the external repository lookup.
type ProfileService struct {
	profiles ports.ProfileRepository
	users    ports.UserRepository
	github   ports.GithubClient
	cache    ports.RepoCache
	logger   zerolog.Logger
}

func NewProfileService(profiles ports.ProfileRepository, users ports.UserRepository, github ports.GithubClient, cache ports.RepoCache, logger zerolog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, users: users, github: github, cache: cache, logger: logger}
}

// OwnProfile returns the caller's profile with the owner's name and
// avatar joined in.
func (s *ProfileService) OwnProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withOwner(ctx, profile)
}

// Upsert merges the provided fields into the caller's profile, creating
// it when absent. Callers cannot tell create from update; both return the
// resulting document.
func (s *ProfileService) Upsert(ctx context.Context, userID string, input ports.ProfileInput) (*domain.Profile, error) {
	update := ports.ProfileUpdate{
		Company:        input.Company,
		Website:        input.Website,
		Location:       input.Location,
		Status:         input.Status,
		Skills:         splitSkills(input.Skills),
		Bio:            input.Bio,
		GithubUsername: input.GithubUsername,
		Social: domain.SocialLinks{
			Youtube:   input.Youtube,
			Twitter:   input.Twitter,
			Facebook:  input.Facebook,
			Linkedin:  input.Linkedin,
			Instagram: input.Instagram,
		},
	}

	profile, err := s.profiles.Upsert(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Msg("profile upserted")
	return s.withOwner(ctx, profile)
}

// ListProfiles returns every profile with owner name/avatar joined in.
// Public; requires no authorization.
func (s *ProfileService) ListProfiles(ctx context.Context) ([]*domain.Profile, error) {
	profiles, err := s.profiles.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.User.ID)
	}

	owners, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, p := range profiles {
		if u, ok := owners[p.User.ID]; ok {
			p.User.Name = u.Name
			p.User.Avatar = u.Avatar
		}
	}
	return profiles, nil
}

// ProfileByUser is the public lookup by arbitrary user id.
func (s *ProfileService) ProfileByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withOwner(ctx, profile)
}

// DeleteAccount removes the caller's profile and user record. The user's
// posts stay: author name/avatar were copied onto them at write time, so
// they remain renderable after the account is gone.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.profiles.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}

// AddExperience prepends a work-history entry to the caller's profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, input ports.ExperienceInput) (*domain.Profile, error) {
	entry := domain.Experience{
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		From:        input.From,
		To:          input.To,
		Current:     input.Current,
		Description: input.Description,
	}

	profile, err := s.profiles.AddExperience(ctx, userID, entry)
	if err != nil {
		return nil, err
	}
	return s.withOwner(ctx, profile)
}

// RemoveExperience deletes the entry with the given id. An unknown id
// leaves the profile unchanged rather than failing.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, entryID string) (*domain.Profile, error) {
	profile, err := s.profiles.RemoveExperience(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	return s.withOwner(ctx, profile)
}

// AddEducation prepends an education-history entry to the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, input ports.EducationInput) (*domain.Profile, error) {
	entry := domain.Education{
		School:       input.School,
		Degree:       input.Degree,
		FieldOfStudy: input.FieldOfStudy,
		From:         input.From,
		To:           input.To,
		Current:      input.Current,
		Description:  input.Description,
	}

	profile, err := s.profiles.AddEducation(ctx, userID, entry)
	if err != nil {
		return nil, err
	}
	return s.withOwner(ctx, profile)
}

// RemoveEducation mirrors RemoveExperience.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, entryID string) (*domain.Profile, error) {
	profile, err := s.profiles.RemoveEducation(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	return s.withOwner(ctx, profile)
}

// GithubRepos returns the user's public repositories, reading through the
// cache. Cache failures are logged and treated as misses; the lookup
// itself must not depend on the cache being up.
func (s *ProfileService) GithubRepos(ctx context.Context, username string) (json.RawMessage, error) {
	if body, ok, err := s.cache.Get(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("repo cache read failed")
	} else if ok {
		return body, nil
	}

	body, err := s.github.Repos(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, username, body); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("repo cache write failed")
	}
	return body, nil
}

func (s *ProfileService) withOwner(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	user, err := s.users.FindByID(ctx, profile.User.ID)
	if err != nil {
		return nil, err
	}
	profile.User.Name = user.Name
	profile.User.Avatar = user.Avatar
	return profile, nil
}

// splitSkills turns the comma-separated skills string into an ordered
// list of trimmed entries. "a, b ,c" becomes ["a","b","c"].
func splitSkills(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}
