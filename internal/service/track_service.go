package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"soundnest/internal/core/cache"
	"soundnest/internal/domain"
	"soundnest/pkg/utils"
)

const trackKeyPrefix = "track:"

type TrackService struct {
	tracks domain.TrackRepository
	users  domain.UserRepository
	cache  *cache.Cache // nil disables caching
	ttl    time.Duration
}

func NewTrackService(tracks domain.TrackRepository, users domain.UserRepository) *TrackService {
	return &TrackService{tracks: tracks, users: users}
}

// WithCache enables the read-through cache for GetTrack.
func (s *TrackService) WithCache(c *cache.Cache, ttl time.Duration) *TrackService {
	s.cache, s.ttl = c, ttl
	return s
}

// Create stores a new track. The owner must exist now; nothing keeps it alive later.
func (s *TrackService) Create(ctx context.Context, in domain.NewTrack) (*domain.Track, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.AudioURL = strings.TrimSpace(in.AudioURL)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, in.OwnerID); err != nil {
		return nil, internalize(err)
	}

	t := &domain.Track{
		ID:          utils.NewID(),
		Name:        in.Name,
		Tag:         in.Tag,
		Description: in.Description,
		AudioURL:    in.AudioURL,
		ImageURL:    in.ImageURL,
		OwnerID:     in.OwnerID,
		Comments:    []domain.Comment{},
	}
	if err := s.tracks.Create(ctx, t); err != nil {
		return nil, internalize(err)
	}
	return t, nil
}

func (s *TrackService) Get(ctx context.Context, id string) (*domain.Track, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: track id is required", domain.ErrValidation)
	}
	if s.cache == nil {
		t, err := s.tracks.FindByID(ctx, id)
		return t, internalize(err)
	}
	t, err := cache.GetOrLoadJSON(s.cache, ctx, trackKeyPrefix+id, s.ttl, func(ctx context.Context) (*domain.Track, error) {
		return s.tracks.FindByID(ctx, id)
	})
	return t, internalize(err)
}

// AddComment appends a comment to a track. Comments are never edited or removed.
func (s *TrackService) AddComment(ctx context.Context, trackID, userID, text string) (*domain.Track, error) {
	text = strings.TrimSpace(text)
	if trackID == "" || userID == "" || text == "" {
		return nil, fmt.Errorf("%w: track, user and text are required", domain.ErrValidation)
	}
	if err := s.tracks.AppendComment(ctx, trackID, domain.Comment{UserID: userID, Text: text}); err != nil {
		return nil, internalize(err)
	}
	// 评论已落库；缓存删不掉时旧数据会一直留到 TTL，必须让调用方知道
	if s.cache != nil {
		if err := s.cache.Del(ctx, trackKeyPrefix+trackID); err != nil {
			return nil, fmt.Errorf("%w: invalidate track %s: %w", domain.ErrInternal, trackID, err)
		}
	}
	t, err := s.tracks.FindByID(ctx, trackID)
	return t, internalize(err)
}
