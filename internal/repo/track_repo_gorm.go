package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"soundnest/internal/domain"
	"soundnest/internal/feature/track"
)

type TrackRepo struct{ db *gorm.DB }

func NewTrackRepo(db *gorm.DB) *TrackRepo { return &TrackRepo{db: db} }

func (r *TrackRepo) Create(ctx context.Context, t *domain.Track) error {
	m := track.TrackModel{
		ID:          t.ID,
		Name:        t.Name,
		Tag:         t.Tag,
		Description: t.Description,
		AudioURL:    t.AudioURL,
		ImageURL:    t.ImageURL,
		OwnerID:     t.OwnerID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return fmt.Errorf("%w: track %s already exists", domain.ErrConflict, t.ID)
		}
		return err
	}
	t.CreatedAt, t.UpdatedAt = m.CreatedAt, m.UpdatedAt
	if t.Comments == nil {
		t.Comments = []domain.Comment{}
	}
	return nil
}

func (r *TrackRepo) FindByID(ctx context.Context, id string) (*domain.Track, error) {
	var m track.TrackModel
	err := r.withComments(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: track %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	t := toDomainTrack(m)
	return &t, nil
}

// FindByIDs returns the tracks that exist among ids, in store order.
func (r *TrackRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Track, error) {
	if len(ids) == 0 {
		return []domain.Track{}, nil
	}
	var ms []track.TrackModel
	if err := r.withComments(ctx).Where("id IN ?", ids).Order("seq ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return toDomainTracks(ms), nil
}

func (r *TrackRepo) List(ctx context.Context) ([]domain.Track, error) {
	var ms []track.TrackModel
	if err := r.withComments(ctx).Order("seq ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return toDomainTracks(ms), nil
}

func (r *TrackRepo) AppendComment(ctx context.Context, trackID string, c domain.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m track.TrackModel
		err := tx.Select("seq", "id").Where("id = ?", trackID).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: track %s", domain.ErrNotFound, trackID)
		}
		if err != nil {
			return err
		}
		if err := tx.Create(&track.CommentModel{TrackID: trackID, UserID: c.UserID, Text: c.Text}).Error; err != nil {
			return err
		}
		return tx.Model(&track.TrackModel{}).Where("id = ?", trackID).UpdateColumn("updated_at", time.Now()).Error
	})
}

func (r *TrackRepo) withComments(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

func toDomainTracks(ms []track.TrackModel) []domain.Track {
	out := make([]domain.Track, len(ms))
	for i, m := range ms {
		out[i] = toDomainTrack(m)
	}
	return out
}

func toDomainTrack(m track.TrackModel) domain.Track {
	t := domain.Track{
		ID:          m.ID,
		Name:        m.Name,
		Tag:         m.Tag,
		Description: m.Description,
		AudioURL:    m.AudioURL,
		ImageURL:    m.ImageURL,
		OwnerID:     m.OwnerID,
		Comments:    make([]domain.Comment, len(m.Comments)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for i, c := range m.Comments {
		t.Comments[i] = domain.Comment{UserID: c.UserID, Text: c.Text, CreatedAt: c.CreatedAt}
	}
	return t
}
