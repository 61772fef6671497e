package domain

import (
	"context"
	"time"
)

type Comment struct {
	UserID    string    `json:"user"`
	Text      string    `json:"description"`
	CreatedAt time.Time `json:"createdAt"`
}

type Track struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Tag         string    `json:"tag,omitempty"`
	Description string    `json:"description,omitempty"`
	AudioURL    string    `json:"trackUrl"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	OwnerID     string    `json:"user"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type NewTrack struct {
	Name        string `validate:"required"`
	AudioURL    string `validate:"required"`
	OwnerID     string `validate:"required"`
	Tag         string
	Description string
	ImageURL    string
}

type TrackRepository interface {
	Create(ctx context.Context, t *Track) error
	FindByID(ctx context.Context, id string) (*Track, error)
	FindByIDs(ctx context.Context, ids []string) ([]Track, error)
	// List returns every track in store order (creation order).
	List(ctx context.Context) ([]Track, error)
	AppendComment(ctx context.Context, trackID string, c Comment) error
}
