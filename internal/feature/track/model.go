package track

import "time"

type TrackModel struct {
	Seq         uint64 `gorm:"primaryKey;autoIncrement"` // store order
	ID          string `gorm:"uniqueIndex;type:varchar(36);not null"`
	Name        string `gorm:"size:255;not null"`
	Tag         string `gorm:"size:64"`
	Description string `gorm:"type:text"`
	AudioURL    string `gorm:"size:512;not null"`
	ImageURL    string `gorm:"size:512"`
	OwnerID     string `gorm:"type:varchar(36);index"`

	Comments []CommentModel `gorm:"foreignKey:TrackID;references:ID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (TrackModel) TableName() string { return "tracks" }

type CommentModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	TrackID   string    `gorm:"type:varchar(36);not null;index"`
	UserID    string    `gorm:"type:varchar(36);not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CommentModel) TableName() string { return "track_comments" }
