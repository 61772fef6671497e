package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"soundnest/internal/domain"
	"soundnest/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		ImageURL:     u.ImageURL,
		Location:     u.Location,
		Description:  u.Description,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
	if u.Slug != "" {
		slug := u.Slug
		m.Slug = &slug
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return fmt.Errorf("%w: email or nameForUrl already registered", domain.ErrConflict)
		}
		return err
	}
	u.CreatedAt, u.UpdatedAt = m.CreatedAt, m.UpdatedAt
	u.Tracks, u.Likes, u.Following, u.Followers = []string{}, []string{}, []string{}, []string{}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindBySlug returns the earliest user carrying slug.
func (r *UserRepo) FindBySlug(ctx context.Context, slug string) (*domain.User, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: user with empty nameForUrl", domain.ErrNotFound)
	}
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).Where(query, arg).Order("created_at ASC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %v", domain.ErrNotFound, arg)
	}
	if err != nil {
		return nil, err
	}
	us, err := r.hydrate(ctx, []user.UserModel{m})
	if err != nil {
		return nil, err
	}
	return &us[0], nil
}

// FindByIDs returns the users that exist among ids, in creation order.
func (r *UserRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	var ms []user.UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at ASC, id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, ms)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var ms []user.UserModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, ms)
}

// hydrate loads the edge sets of every model in two queries.
func (r *UserRepo) hydrate(ctx context.Context, ms []user.UserModel) ([]domain.User, error) {
	out := make([]domain.User, len(ms))
	if len(ms) == 0 {
		return out, nil
	}
	ids := make([]string, len(ms))
	index := make(map[string]int, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
		index[m.ID] = i
		out[i] = toDomainUser(m)
	}

	var edges []user.EdgeModel
	if err := r.db.WithContext(ctx).Where("user_id IN ?", ids).Order("seq ASC").Find(&edges).Error; err != nil {
		return nil, err
	}
	for _, e := range edges {
		u := &out[index[e.UserID]]
		switch domain.Edge(e.Kind) {
		case domain.EdgeLikes:
			u.Likes = append(u.Likes, e.TargetID)
		case domain.EdgeFollowing:
			u.Following = append(u.Following, e.TargetID)
		case domain.EdgeFollowers:
			u.Followers = append(u.Followers, e.TargetID)
		}
	}

	var refs []user.TrackRefModel
	if err := r.db.WithContext(ctx).Where("user_id IN ?", ids).Order("user_id ASC, position ASC").Find(&refs).Error; err != nil {
		return nil, err
	}
	for _, ref := range refs {
		u := &out[index[ref.UserID]]
		u.Tracks = append(u.Tracks, ref.TrackID)
	}
	return out, nil
}

func (r *UserRepo) AddEdge(ctx context.Context, userID string, e domain.Edge, value string) (bool, error) {
	if !e.IsSet() {
		return false, fmt.Errorf("%w: %s is not a set", domain.ErrValidation, e)
	}
	var added bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		added, err = insertEdge(tx, userID, e, value)
		if err != nil || !added {
			return err
		}
		return touch(tx, userID)
	})
	return added, err
}

func (r *UserRepo) RemoveEdge(ctx context.Context, userID string, e domain.Edge, value string) (bool, error) {
	if !e.IsSet() {
		return false, fmt.Errorf("%w: %s is not a set", domain.ErrValidation, e)
	}
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		removed, err = deleteEdge(tx, userID, e, value)
		if err != nil || !removed {
			return err
		}
		return touch(tx, userID)
	})
	return removed, err
}

func (r *UserRepo) ReplaceEdges(ctx context.Context, userID string, e domain.Edge, values []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if e == domain.EdgeTracks {
			if err := tx.Where("user_id = ?", userID).Delete(&user.TrackRefModel{}).Error; err != nil {
				return err
			}
			if len(values) > 0 {
				refs := make([]user.TrackRefModel, len(values))
				for i, v := range values {
					refs[i] = user.TrackRefModel{UserID: userID, Position: i, TrackID: v}
				}
				if err := tx.Create(&refs).Error; err != nil {
					return err
				}
			}
			return touch(tx, userID)
		}

		if err := tx.Where("user_id = ? AND kind = ?", userID, string(e)).Delete(&user.EdgeModel{}).Error; err != nil {
			return err
		}
		values = domain.Dedupe(values)
		if len(values) > 0 {
			rows := make([]user.EdgeModel, len(values))
			for i, v := range values {
				rows[i] = user.EdgeModel{UserID: userID, Kind: string(e), TargetID: v}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return touch(tx, userID)
	})
}

func (r *UserRepo) Link(ctx context.Context, followerID, followedID string) (bool, error) {
	return r.pair(ctx, followerID, followedID, insertEdge)
}

func (r *UserRepo) Unlink(ctx context.Context, followerID, followedID string) (bool, error) {
	return r.pair(ctx, followerID, followedID, deleteEdge)
}

// pair applies op to follower.following and followed.followers in one
// transaction. updated_at moves only for the sides that changed.
func (r *UserRepo) pair(ctx context.Context, followerID, followedID string,
	op func(*gorm.DB, string, domain.Edge, string) (bool, error)) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := op(tx, followerID, domain.EdgeFollowing, followedID)
		if err != nil {
			return err
		}
		b, err := op(tx, followedID, domain.EdgeFollowers, followerID)
		if err != nil {
			return err
		}
		var touched []string
		if a {
			touched = append(touched, followerID)
		}
		if b {
			touched = append(touched, followedID)
		}
		changed = len(touched) > 0
		if !changed {
			return nil
		}
		return touch(tx, touched...)
	})
	return changed, err
}

// insertEdge relies on the (user_id, kind, target_id) unique index: a duplicate
// insert affects no rows.
func insertEdge(tx *gorm.DB, userID string, e domain.Edge, value string) (bool, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user.EdgeModel{UserID: userID, Kind: string(e), TargetID: value})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func deleteEdge(tx *gorm.DB, userID string, e domain.Edge, value string) (bool, error) {
	res := tx.Where("user_id = ? AND kind = ? AND target_id = ?", userID, string(e), value).
		Delete(&user.EdgeModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func touch(tx *gorm.DB, ids ...string) error {
	return tx.Model(&user.UserModel{}).Where("id IN ?", ids).UpdateColumn("updated_at", time.Now()).Error
}

func toDomainUser(m user.UserModel) domain.User {
	u := domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		ImageURL:     m.ImageURL,
		Location:     m.Location,
		Description:  m.Description,
		Role:         m.Role,
		PasswordHash: m.PasswordHash,
		Tracks:       []string{},
		Likes:        []string{},
		Following:    []string{},
		Followers:    []string{},
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Slug != nil {
		u.Slug = *m.Slug
	}
	return u
}
