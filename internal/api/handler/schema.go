package handler

import "time"

// errorMessage is a single human-readable failure, the unit of the
// validation error list.
type errorMessage struct {
	Msg string `json:"msg"`
}

// errorsResponse is the envelope for validation and conflict failures:
// an ordered list with one entry per failed rule.
type errorsResponse struct {
	Errors []errorMessage `json:"errors"`
}

// msgResponse is the single-message envelope used by the remaining
// error and confirmation responses.
type msgResponse struct {
	Msg string `json:"msg"`
}

// tokenResponse carries the signed credential returned by registration
// and login.
type tokenResponse struct {
	Token string `json:"token"`
}

// --- User routes ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Profile routes ---

type profileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status" validate:"required"`
	Skills         string `json:"skills" validate:"required"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// Dates are RFC 3339 timestamps.
type experienceRequest struct {
	Title       string     `json:"title"   validate:"required"`
	Company     string     `json:"company" validate:"required"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from"    validate:"required"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

type educationRequest struct {
	School       string     `json:"school"       validate:"required"`
	Degree       string     `json:"degree"       validate:"required"`
	FieldOfStudy string     `json:"fieldofstudy" validate:"required"`
	From         time.Time  `json:"from"         validate:"required"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

// --- Post routes ---

type postRequest struct {
	Text string `json:"text" validate:"required"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}
