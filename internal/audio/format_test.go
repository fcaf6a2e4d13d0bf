package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "m4a", Ext("/tmp/recordings/clip.M4A"))
	assert.Equal(t, "mp3", Ext("song.mp3"))
	assert.Equal(t, "", Ext("noextension"))
}

func TestAllowedExt(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{"m4a", "mp3", "wav", "aac", "caf", "M4A"} {
		assert.True(t, AllowedExt(ext), ext)
	}
	for _, ext := range []string{"ogg", "flac", "txt", ""} {
		assert.False(t, AllowedExt(ext), ext)
	}
}

func TestContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{"mp3", "audio/mpeg"},
		{"wav", "audio/wav"},
		{"m4a", "audio/mp4"},
		{"aac", "audio/aac"},
		{"caf", "audio/x-caf"},
		{"unknown", "audio/mpeg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContentType(tt.ext), tt.ext)
	}
}

func TestFlooredSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, FlooredSeconds(5400))
	assert.Equal(t, 5, FlooredSeconds(5999))
	assert.Equal(t, 0, FlooredSeconds(999))
	assert.Equal(t, 0, FlooredSeconds(0))
	assert.Equal(t, 0, FlooredSeconds(-100))
	assert.Equal(t, 60, FlooredSeconds(60000))
}
