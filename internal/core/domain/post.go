package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")
var ErrCommentNotFound = errors.New("comment not found")
var ErrAlreadyLiked = errors.New("post already liked")
var ErrNotYetLiked = errors.New("post not yet liked")
var ErrNotOwner = errors.New("caller does not own the resource")

// Like records a single user's like on a post. A user appears at most
// once in a post's like list.
type Like struct {
	ID     string `json:"_id"`
	UserID string `json:"user"`
}

// Comment is an embedded comment entry. Name and Avatar are snapshots of
// the author taken when the comment was written.
type Comment struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// Post is a feed entry. Name and Avatar are snapshots of the author at
// creation time and are not re-synced when the user record changes.
type Post struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"date"`
}
