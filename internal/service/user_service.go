package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"soundnest/internal/domain"
	"soundnest/pkg/utils"
)

type UserService struct {
	users  domain.UserRepository
	tracks domain.TrackRepository
}

func NewUserService(users domain.UserRepository, tracks domain.TrackRepository) *UserService {
	return &UserService{users: users, tracks: tracks}
}

// Create registers a user with empty edge sets. A non-empty slug must be unique.
func (s *UserService) Create(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("%w: user already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, internalize(err)
	}
	if in.Slug != "" {
		if _, err := s.users.FindBySlug(ctx, in.Slug); err == nil {
			return nil, fmt.Errorf("%w: nameForUrl %q is taken", domain.ErrConflict, in.Slug)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, internalize(err)
		}
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        in.Email,
		Name:         in.Name,
		Slug:         in.Slug,
		ImageURL:     in.ImageURL,
		Location:     in.Location,
		Description:  in.Description,
		Role:         role,
		PasswordHash: in.PasswordHash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, internalize(err)
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	u, err := s.users.FindByID(ctx, id)
	return u, internalize(err)
}

func (s *UserService) FindBySlug(ctx context.Context, slug string) (*domain.User, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: nameForUrl is required", domain.ErrValidation)
	}
	u, err := s.users.FindBySlug(ctx, slug)
	return u, internalize(err)
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	u, err := s.users.FindByEmail(ctx, email)
	return u, internalize(err)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	us, err := s.users.List(ctx)
	return us, internalize(err)
}

// UpdateEdges atomically replaces one edge set and returns the updated user.
func (s *UserService) UpdateEdges(ctx context.Context, id string, e domain.Edge, values []string) (*domain.User, error) {
	if _, err := domain.ParseEdge(string(e)); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	if err := s.users.ReplaceEdges(ctx, id, e, values); err != nil {
		return nil, internalize(err)
	}
	return s.Get(ctx, id)
}

// Resolve dereferences every edge of u.
func (s *UserService) Resolve(ctx context.Context, u *domain.User) (*domain.ResolvedUser, error) {
	out, err := s.resolveAll(ctx, []domain.User{*u})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// ListResolved returns every user with edges resolved.
func (s *UserService) ListResolved(ctx context.Context) ([]domain.ResolvedUser, error) {
	us, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, us)
}

// resolveAll batches the lookups of all referenced tracks and users. A
// reference without a live record is skipped.
func (s *UserService) resolveAll(ctx context.Context, us []domain.User) ([]domain.ResolvedUser, error) {
	var trackIDs, userIDs []string
	for i := range us {
		trackIDs = append(trackIDs, us[i].Tracks...)
		trackIDs = append(trackIDs, us[i].Likes...)
		userIDs = append(userIDs, us[i].Following...)
		userIDs = append(userIDs, us[i].Followers...)
	}

	ts, err := s.tracks.FindByIDs(ctx, domain.Dedupe(trackIDs))
	if err != nil {
		return nil, internalize(err)
	}
	trackByID := make(map[string]domain.Track, len(ts))
	for _, t := range ts {
		trackByID[t.ID] = t
	}
	refs, err := s.users.FindByIDs(ctx, domain.Dedupe(userIDs))
	if err != nil {
		return nil, internalize(err)
	}
	userByID := make(map[string]domain.UserSummary, len(refs))
	for i := range refs {
		userByID[refs[i].ID] = refs[i].Summary()
	}

	pickTracks := func(ids []string) []domain.Track {
		out := make([]domain.Track, 0, len(ids))
		for _, id := range ids {
			if t, ok := trackByID[id]; ok {
				out = append(out, t)
			}
		}
		return out
	}
	pickUsers := func(ids []string) []domain.UserSummary {
		out := make([]domain.UserSummary, 0, len(ids))
		for _, id := range ids {
			if u, ok := userByID[id]; ok {
				out = append(out, u)
			}
		}
		return out
	}

	out := make([]domain.ResolvedUser, len(us))
	for i := range us {
		u := &us[i]
		out[i] = domain.ResolvedUser{
			ID:          u.ID,
			Email:       u.Email,
			Name:        u.Name,
			Slug:        u.Slug,
			ImageURL:    u.ImageURL,
			Location:    u.Location,
			Description: u.Description,
			Role:        u.Role,
			Tracks:      pickTracks(u.Tracks),
			Likes:       pickTracks(u.Likes),
			Following:   pickUsers(u.Following),
			Followers:   pickUsers(u.Followers),
			CreatedAt:   u.CreatedAt,
			UpdatedAt:   u.UpdatedAt,
		}
	}
	return out, nil
}
