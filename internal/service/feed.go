package service

import (
	"context"

	"soundnest/internal/domain"
)

// Feed derives track views from a full scan of the track collection. It keeps
// no state between calls.
type Feed struct {
	users  domain.UserRepository
	tracks domain.TrackRepository
}

func NewFeed(users domain.UserRepository, tracks domain.TrackRepository) *Feed {
	return &Feed{users: users, tracks: tracks}
}

// TracksByOwner does not require the owner to exist.
func (f *Feed) TracksByOwner(ctx context.Context, userID string) ([]domain.Track, error) {
	all, err := f.tracks.List(ctx)
	if err != nil {
		return nil, internalize(err)
	}
	return FilterByOwner(all, userID), nil
}

// TracksByFollowedUsers returns the tracks owned by anyone userID follows.
func (f *Feed) TracksByFollowedUsers(ctx context.Context, userID string) ([]domain.Track, error) {
	u, err := f.users.FindByID(ctx, userID)
	if err != nil {
		return nil, internalize(err)
	}
	if len(u.Following) == 0 {
		return []domain.Track{}, nil
	}
	all, err := f.tracks.List(ctx)
	if err != nil {
		return nil, internalize(err)
	}
	return FilterByOwners(all, u.Following), nil
}

func FilterByOwner(ts []domain.Track, ownerID string) []domain.Track {
	out := make([]domain.Track, 0)
	for _, t := range ts {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out
}

func FilterByOwners(ts []domain.Track, ownerIDs []string) []domain.Track {
	owners := make(map[string]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = struct{}{}
	}
	out := make([]domain.Track, 0)
	for _, t := range ts {
		if _, ok := owners[t.OwnerID]; ok {
			out = append(out, t)
		}
	}
	return out
}
