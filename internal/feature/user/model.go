package user

import (
	"time"
)

type UserModel struct {
	ID           string  `gorm:"primaryKey;type:varchar(36)"`
	Email        string  `gorm:"uniqueIndex;size:255;not null"`
	Name         string  `gorm:"size:64;not null"`
	Slug         *string `gorm:"uniqueIndex;size:128"` // nil when unset so several users may omit it
	ImageURL     string  `gorm:"size:512"`
	Location     string  `gorm:"size:255"`
	Description  string  `gorm:"type:text"`
	PasswordHash string  `gorm:"size:100;not null"`
	Role         string  `gorm:"size:16;not null;default:user"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

// EdgeModel is one member of a likes/following/followers set.
type EdgeModel struct {
	Seq      uint64 `gorm:"primaryKey;autoIncrement"`
	UserID   string `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_edge,priority:1"`
	Kind     string `gorm:"size:16;not null;uniqueIndex:idx_user_edge,priority:2"`
	TargetID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_edge,priority:3"`
}

func (EdgeModel) TableName() string { return "user_edges" }

// TrackRefModel is one slot of a user's ordered track list.
type TrackRefModel struct {
	UserID   string `gorm:"primaryKey;type:varchar(36)"`
	Position int    `gorm:"primaryKey;autoIncrement:false"`
	TrackID  string `gorm:"type:varchar(36);not null"`
}

func (TrackRefModel) TableName() string { return "user_tracks" }
