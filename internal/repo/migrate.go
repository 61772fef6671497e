package repo

import (
	"strings"

	"gorm.io/gorm"

	"soundnest/internal/feature/track"
	"soundnest/internal/feature/user"
)

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.UserModel{},
		&user.EdgeModel{},
		&user.TrackRefModel{},
		&track.TrackModel{},
		&track.CommentModel{},
	)
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey：未开启 TranslateError 时驱动原样返回
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
