package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/devlink/devlink-api/internal/core/domain"
	"github.com/devlink/devlink-api/internal/core/ports"
)

type stubProfileRepo struct {
	profiles map[string]*domain.Profile // keyed by owning user id
	nextID   int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Skills = append([]string(nil), p.Skills...)
	clone.Experience = append([]domain.Experience(nil), p.Experience...)
	clone.Education = append([]domain.Education(nil), p.Education...)
	return &clone
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	if p, ok := r.profiles[userID]; ok {
		return cloneProfile(p), nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) FindAll(_ context.Context) ([]*domain.Profile, error) {
	all := make([]*domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		all = append(all, cloneProfile(p))
	}
	return all, nil
}

func (r *stubProfileRepo) Upsert(_ context.Context, userID string, update ports.ProfileUpdate) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		r.nextID++
		p = &domain.Profile{
			ID:        fmt.Sprintf("profile_%d", r.nextID),
			User:      domain.Owner{ID: userID},
			CreatedAt: time.Now().UTC(),
		}
		r.profiles[userID] = p
	}

	p.Status = update.Status
	if update.Company != "" {
		p.Company = update.Company
	}
	if update.Website != "" {
		p.Website = update.Website
	}
	if update.Location != "" {
		p.Location = update.Location
	}
	if update.Bio != "" {
		p.Bio = update.Bio
	}
	if update.GithubUsername != "" {
		p.GithubUsername = update.GithubUsername
	}
	if len(update.Skills) > 0 {
		p.Skills = append([]string(nil), update.Skills...)
	}
	if update.Social.Youtube != "" {
		p.Social.Youtube = update.Social.Youtube
	}
	if update.Social.Twitter != "" {
		p.Social.Twitter = update.Social.Twitter
	}
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) DeleteByUserID(_ context.Context, userID string) error {
	delete(r.profiles, userID)
	return nil
}

func (r *stubProfileRepo) AddExperience(_ context.Context, userID string, entry domain.Experience) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	r.nextID++
	entry.ID = fmt.Sprintf("exp_%d", r.nextID)
	p.Experience = append([]domain.Experience{entry}, p.Experience...)
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) AddEducation(_ context.Context, userID string, entry domain.Education) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	r.nextID++
	entry.ID = fmt.Sprintf("edu_%d", r.nextID)
	p.Education = append([]domain.Education{entry}, p.Education...)
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) RemoveExperience(_ context.Context, userID, entryID string) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	for i, e := range p.Experience {
		if e.ID == entryID {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			break
		}
	}
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) RemoveEducation(_ context.Context, userID, entryID string) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	for i, e := range p.Education {
		if e.ID == entryID {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			break
		}
	}
	return cloneProfile(p), nil
}

type stubGithubClient struct {
	body  json.RawMessage
	err   error
	calls int
}

func (c *stubGithubClient) Repos(_ context.Context, _ string) (json.RawMessage, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.body, nil
}

type stubRepoCache struct {
	entries map[string]json.RawMessage
}

func newStubRepoCache() *stubRepoCache {
	return &stubRepoCache{entries: make(map[string]json.RawMessage)}
}

func (c *stubRepoCache) Get(_ context.Context, username string) (json.RawMessage, bool, error) {
	body, ok := c.entries[username]
	return body, ok, nil
}

func (c *stubRepoCache) Set(_ context.Context, username string, body json.RawMessage) error {
	c.entries[username] = body
	return nil
}

func newProfileFixture(t *testing.T) (*ProfileService, *stubProfileRepo, *stubUserRepo, *stubGithubClient, *stubRepoCache, string) {
	t.Helper()
	users := newStubUserRepo()
	profiles := newStubProfileRepo()
	github := &stubGithubClient{body: json.RawMessage(`[{"name":"repo1"}]`)}
	cache := newStubRepoCache()
	svc := NewProfileService(profiles, users, github, cache, zerolog.Nop())

	owner, err := users.Create(context.Background(), &domain.User{
		Name:   "Alice",
		Email:  "alice@example.com",
		Avatar: "https://gravatar.com/avatar/abc",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return svc, profiles, users, github, cache, owner.ID
}

func TestProfileService_Upsert_SplitsAndTrimsSkills(t *testing.T) {
	svc, _, _, _, _, userID := newProfileFixture(t)

	profile, err := svc.Upsert(context.Background(), userID, ports.ProfileInput{
		Status: "Developer",
		Skills: "a, b ,c",
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if !reflect.DeepEqual(profile.Skills, []string{"a", "b", "c"}) {
		t.Fatalf("expected [a b c], got %v", profile.Skills)
	}
}

func TestProfileService_Upsert_OmittedFieldsUnchanged(t *testing.T) {
	svc, _, _, _, _, userID := newProfileFixture(t)

	if _, err := svc.Upsert(context.Background(), userID, ports.ProfileInput{
		Status:  "Developer",
		Skills:  "go",
		Company: "Acme",
		Bio:     "hello",
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	profile, err := svc.Upsert(context.Background(), userID, ports.ProfileInput{
		Status: "Senior Developer",
		Skills: "go,mongo",
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if profile.Status != "Senior Developer" {
		t.Fatalf("expected status overwritten, got %s", profile.Status)
	}
	if profile.Company != "Acme" || profile.Bio != "hello" {
		t.Fatalf("expected omitted fields preserved, got %+v", profile)
	}
}

func TestProfileService_Upsert_JoinsOwner(t *testing.T) {
	svc, _, _, _, _, userID := newProfileFixture(t)

	profile, err := svc.Upsert(context.Background(), userID, ports.ProfileInput{
		Status: "Developer",
		Skills: "go",
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if profile.User.Name != "Alice" || profile.User.Avatar == "" {
		t.Fatalf("expected owner name/avatar joined, got %+v", profile.User)
	}
}

func TestProfileService_OwnProfile_NotFound(t *testing.T) {
	svc, _, _, _, _, userID := newProfileFixture(t)

	if _, err := svc.OwnProfile(context.Background(), userID); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileService_Experience_PrependOrder(t *testing.T) {
	svc, _, _, _, _, userID := newProfileFixture(t)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, userID, ports.ProfileInput{Status: "Developer", Skills: "go"}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.AddExperience(ctx, userID, ports.ExperienceInput{Title: "Junior", Company: "Acme", From: from}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	profile, err := svc.AddExperience(ctx, userID, ports.ExperienceInput{Title: "Senior", Company: "Acme", From: from.AddDate(2, 0, 0)})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(profile.Experience) != 2 || profile.Experience[0].Title != "Senior" {
		t.Fatalf("expected most-recently-added entry first, got %+v", profile.Experience)
	}
}

func TestProfileService_RemoveExperience_UnknownIDLeavesProfileUnchanged(t *testing.T) {
	svc, _, _, _, _, userID := newProfileFixture(t)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, userID, ports.ProfileInput{Status: "Developer", Skills: "go"}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if _, err := svc.AddExperience(ctx, userID, ports.ExperienceInput{Title: "Junior", Company: "Acme", From: time.Now()}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	profile, err := svc.RemoveExperience(ctx, userID, "no-such-entry")
	if err != nil {
		t.Fatalf("expected silent success for unknown id, got %v", err)
	}
	if len(profile.Experience) != 1 {
		t.Fatalf("expected experience list unchanged, got %+v", profile.Experience)
	}
}

func TestProfileService_DeleteAccount_RemovesProfileAndUser(t *testing.T) {
	svc, profiles, users, _, _, userID := newProfileFixture(t)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, userID, ports.ProfileInput{Status: "Developer", Skills: "go"}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := svc.DeleteAccount(ctx, userID); err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}

	if _, err := profiles.FindByUserID(ctx, userID); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected profile removed, got %v", err)
	}
	if _, err := users.FindByID(ctx, userID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user removed, got %v", err)
	}
}

func TestProfileService_GithubRepos_CacheMissThenHit(t *testing.T) {
	svc, _, _, github, cache, _ := newProfileFixture(t)
	ctx := context.Background()

	body, err := svc.GithubRepos(ctx, "octocat")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if string(body) != `[{"name":"repo1"}]` {
		t.Fatalf("unexpected body: %s", body)
	}
	if _, ok := cache.entries["octocat"]; !ok {
		t.Fatalf("expected response cached")
	}

	if _, err := svc.GithubRepos(ctx, "octocat"); err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if github.calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", github.calls)
	}
}

func TestProfileService_GithubRepos_NotFound(t *testing.T) {
	svc, _, _, github, _, _ := newProfileFixture(t)
	github.err = domain.ErrGithubNotFound

	if _, err := svc.GithubRepos(context.Background(), "ghost"); !errors.Is(err, domain.ErrGithubNotFound) {
		t.Fatalf("expected ErrGithubNotFound, got %v", err)
	}
}
