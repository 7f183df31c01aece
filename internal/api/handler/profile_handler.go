package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devlink/devlink-api/internal/api/metrics"
	"github.com/devlink/devlink-api/internal/core/domain"
	"github.com/devlink/devlink-api/internal/core/ports"
)

// ProfileHandler handles profile CRUD, experience/education mutations and
// the Github repository lookup.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Me returns the caller's own profile.
//
// @Summary      Get the authenticated user's profile
// @Tags         profiles
// @Produce      json
// @Param        x-auth-token  header    string  true  "Signed token"
// @Success      200  {object}  domain.Profile
// @Failure      400  {object}  msgResponse
// @Failure      401  {object}  msgResponse
// @Router       /profile/me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.OwnProfile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return c.JSON(http.StatusBadRequest, msgResponse{Msg: "There is no profile for this user"})
		}
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Upsert creates or updates the caller's profile. Create and update are
// indistinguishable from the response.
//
// @Summary      Create or update the authenticated user's profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        x-auth-token  header    string          true  "Signed token"
// @Param        body          body      profileRequest  true  "Profile fields"
// @Success      200  {object}  domain.Profile
// @Failure      400  {object}  errorsResponse
// @Failure      401  {object}  msgResponse
// @Router       /profile [post]
func (h *ProfileHandler) Upsert(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	profile, err := h.service.Upsert(c.Request().Context(), userID, ports.ProfileInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Skills:         req.Skills,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// List returns all profiles. Public.
//
// @Summary      List all profiles
// @Tags         profiles
// @Produce      json
// @Success      200  {array}  domain.Profile
// @Router       /profile [get]
func (h *ProfileHandler) List(c echo.Context) error {
	profiles, err := h.service.ListProfiles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// ByUser returns the profile of an arbitrary user. Public.
//
// @Summary      Get a profile by user id
// @Tags         profiles
// @Produce      json
// @Param        user_id  path      string  true  "User id"
// @Success      200  {object}  domain.Profile
// @Failure      400  {object}  msgResponse
// @Router       /profile/user/{user_id} [get]
func (h *ProfileHandler) ByUser(c echo.Context) error {
	profile, err := h.service.ProfileByUser(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		// Malformed ids and missing profiles deliberately share one answer.
		if errors.Is(err, domain.ErrProfileNotFound) || errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, msgResponse{Msg: "Profile not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// DeleteAccount removes the caller's profile and user record.
//
// @Summary      Delete the authenticated user and their profile
// @Tags         profiles
// @Produce      json
// @Param        x-auth-token  header    string  true  "Signed token"
// @Success      200  {object}  msgResponse
// @Failure      401  {object}  msgResponse
// @Router       /profile [delete]
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteAccount(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgResponse{Msg: "User deleted"})
}

// AddExperience prepends a work-history entry.
//
// @Summary      Add a profile experience entry
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        x-auth-token  header    string             true  "Signed token"
// @Param        body          body      experienceRequest  true  "Experience entry"
// @Success      200  {object}  domain.Profile
// @Failure      400  {object}  errorsResponse
// @Failure      401  {object}  msgResponse
// @Router       /profile/experience [put]
func (h *ProfileHandler) AddExperience(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req experienceRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	profile, err := h.service.AddExperience(c.Request().Context(), userID, ports.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return h.mapProfileError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// RemoveExperience deletes an experience entry by id. An unknown id
// returns the unchanged profile.
//
// @Summary      Remove a profile experience entry
// @Tags         profiles
// @Produce      json
// @Param        x-auth-token  header    string  true  "Signed token"
// @Param        exp_id        path      string  true  "Experience entry id"
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  msgResponse
// @Router       /profile/experience/{exp_id} [delete]
func (h *ProfileHandler) RemoveExperience(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.RemoveExperience(c.Request().Context(), userID, c.Param("exp_id"))
	if err != nil {
		return h.mapProfileError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// AddEducation prepends an education-history entry.
//
// @Summary      Add a profile education entry
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        x-auth-token  header    string            true  "Signed token"
// @Param        body          body      educationRequest  true  "Education entry"
// @Success      200  {object}  domain.Profile
// @Failure      400  {object}  errorsResponse
// @Failure      401  {object}  msgResponse
// @Router       /profile/education [put]
func (h *ProfileHandler) AddEducation(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req educationRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	profile, err := h.service.AddEducation(c.Request().Context(), userID, ports.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return h.mapProfileError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// RemoveEducation deletes an education entry by id.
//
// @Summary      Remove a profile education entry
// @Tags         profiles
// @Produce      json
// @Param        x-auth-token  header    string  true  "Signed token"
// @Param        edu_id        path      string  true  "Education entry id"
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  msgResponse
// @Router       /profile/education/{edu_id} [delete]
func (h *ProfileHandler) RemoveEducation(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.RemoveEducation(c.Request().Context(), userID, c.Param("edu_id"))
	if err != nil {
		return h.mapProfileError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GithubRepos proxies the external repository lookup. Public.
//
// @Summary      List a user's Github repositories
// @Tags         profiles
// @Produce      json
// @Param        username  path  string  true  "Github username"
// @Success      200  {array}   object
// @Failure      404  {object}  msgResponse
// @Failure      500  {object}  msgResponse
// @Router       /profile/github/{username} [get]
func (h *ProfileHandler) GithubRepos(c echo.Context) error {
	body, err := h.service.GithubRepos(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, domain.ErrGithubNotFound) {
			metrics.GithubLookupsTotal.WithLabelValues("not_found").Inc()
			return c.JSON(http.StatusNotFound, msgResponse{Msg: "No Github profile found"})
		}
		metrics.GithubLookupsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.GithubLookupsTotal.WithLabelValues("ok").Inc()
	return c.JSONBlob(http.StatusOK, body)
}

// mapProfileError covers the failure shared by the mutation routes: the
// caller has no profile document yet.
func (h *ProfileHandler) mapProfileError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrProfileNotFound) {
		return c.JSON(http.StatusBadRequest, msgResponse{Msg: "There is no profile for this user"})
	}
	return err
}
