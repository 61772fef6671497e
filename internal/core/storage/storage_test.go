package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundnest/internal/core/config"
)

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts(KindImage, "image/png"))
	assert.True(t, Accepts(KindAudio, "audio/mpeg; charset=binary"))
	assert.False(t, Accepts(KindAudio, "image/png"))
	assert.False(t, Accepts(KindImage, ""))
	assert.False(t, Accepts(Kind("video"), "video/mp4"))
}

func TestLocalSave(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/uploads/")

	url, err := l.Save(context.Background(), KindAudio, "My Song.MP3", "audio/mpeg", strings.NewReader("data"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/tracks/"))
	assert.True(t, strings.HasSuffix(url, ".mp3"))

	b, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))

	_, err = l.Save(context.Background(), KindImage, "x.mp3", "audio/mpeg", strings.NewReader("data"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNewDriver(t *testing.T) {
	u, closeFn, err := New(context.Background(), config.Storage{Driver: "local", Dir: t.TempDir(), PublicBaseURL: "/u"})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, u)
	assert.NoError(t, closeFn())

	_, _, err = New(context.Background(), config.Storage{Driver: "s3"})
	assert.Error(t, err)

	_, _, err = New(context.Background(), config.Storage{Driver: "gcs"})
	assert.Error(t, err)
}
