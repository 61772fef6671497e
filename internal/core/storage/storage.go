// Package storage persists uploaded image and audio files and hands back the
// URL that tracks and users reference. The rest of the system treats that URL
// as an opaque string.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"soundnest/internal/core/config"
	"soundnest/pkg/utils"
)

type Kind string

const (
	KindImage Kind = "images"
	KindAudio Kind = "tracks"
)

var ErrUnsupportedType = errors.New("unsupported content type")

type Uploader interface {
	// Save stores r and returns its public URL.
	Save(ctx context.Context, kind Kind, filename, contentType string, r io.Reader) (string, error)
}

// Accepts reports whether contentType may be stored under kind.
func Accepts(kind Kind, contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch kind {
	case KindImage:
		return strings.HasPrefix(ct, "image/")
	case KindAudio:
		return strings.HasPrefix(ct, "audio/")
	}
	return false
}

// objectName keeps the client's extension but never its name.
func objectName(kind Kind, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(string(kind), utils.NewID()+ext)
}

// New builds the uploader selected by cfg.Driver.
func New(ctx context.Context, cfg config.Storage) (Uploader, func() error, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.Dir, cfg.PublicBaseURL), func() error { return nil }, nil
	case "gcs":
		g, err := NewGCS(ctx, cfg.Bucket)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
}
