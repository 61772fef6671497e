package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Slug         string    `json:"nameForUrl,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Location     string    `json:"location,omitempty"`
	Description  string    `json:"description,omitempty"`
	Role         string    `json:"role"`
	Tracks       []string  `json:"tracks"`
	Likes        []string  `json:"likes"`
	Following    []string  `json:"following"`
	Followers    []string  `json:"followers"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EdgeValues returns the current ids held in the named edge set.
func (u *User) EdgeValues(e Edge) []string {
	switch e {
	case EdgeLikes:
		return u.Likes
	case EdgeFollowing:
		return u.Following
	case EdgeFollowers:
		return u.Followers
	case EdgeTracks:
		return u.Tracks
	}
	return nil
}

// NewUser carries the fields accepted by user creation.
type NewUser struct {
	Email        string `validate:"required,email"`
	Name         string `validate:"required"`
	PasswordHash string `validate:"required"`
	Slug         string
	ImageURL     string
	Location     string
	Description  string
	Role         string
}

// UserSummary is the populated form of a user reference.
type UserSummary struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Slug        string `json:"nameForUrl,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Name:        u.Name,
		Slug:        u.Slug,
		ImageURL:    u.ImageURL,
		Location:    u.Location,
		Description: u.Description,
	}
}

// ResolvedUser is a user with every edge set dereferenced. References that no
// longer resolve are left out.
type ResolvedUser struct {
	ID          string        `json:"_id"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	Slug        string        `json:"nameForUrl,omitempty"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	Location    string        `json:"location,omitempty"`
	Description string        `json:"description,omitempty"`
	Role        string        `json:"role"`
	Tracks      []Track       `json:"tracks"`
	Likes       []Track       `json:"likes"`
	Following   []UserSummary `json:"following"`
	Followers   []UserSummary `json:"followers"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindBySlug(ctx context.Context, slug string) (*User, error)
	List(ctx context.Context) ([]User, error)

	// AddEdge inserts value into the edge set unless it is already there and
	// reports whether the set changed. The check and the insert are one
	// statement on the store side.
	AddEdge(ctx context.Context, userID string, e Edge, value string) (bool, error)
	// RemoveEdge deletes value from the edge set and reports whether it was present.
	RemoveEdge(ctx context.Context, userID string, e Edge, value string) (bool, error)
	// ReplaceEdges overwrites the whole edge set with values.
	ReplaceEdges(ctx context.Context, userID string, e Edge, values []string) error
	// Link adds follower->followed to both sides in one transaction and
	// reports whether either side changed.
	Link(ctx context.Context, followerID, followedID string) (bool, error)
	// Unlink removes follower->followed from both sides in one transaction.
	Unlink(ctx context.Context, followerID, followedID string) (bool, error)
}
