package media

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/padmamangal/padmamangal-backend/internal/models"
)

func TestResolveContentTypePrefersDeclared(t *testing.T) {
	assert.Equal(t, "image/png", ResolveContentType("image/png", "photo.jpg"))
}

func TestResolveContentTypeFallsBackToExtension(t *testing.T) {
	assert.Equal(t, "image/heic", ResolveContentType("", "IMG_0042.HEIC"))
	assert.Equal(t, "video/quicktime", ResolveContentType("  ", "clip.mov"))
	assert.Equal(t, "audio/webm", ResolveContentType("", "voice-123.webm"))
}

func TestResolveContentTypeUnknownIsBinary(t *testing.T) {
	assert.Equal(t, "application/octet-stream", ResolveContentType("", "archive.tar.zst"))
	assert.Equal(t, "application/octet-stream", ResolveContentType("", "noextension"))
}

func TestKindForClassifiesByPrefix(t *testing.T) {
	assert.Equal(t, models.MessageImage, KindFor("image/heic"))
	assert.Equal(t, models.MessageVideo, KindFor("video/mp4"))
	assert.Equal(t, models.MessageAudio, KindFor("audio/webm"))
	assert.Equal(t, models.MessageFile, KindFor("application/pdf"))
	assert.Equal(t, models.MessageFile, KindFor(""))
}
