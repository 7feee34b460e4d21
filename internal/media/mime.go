package media

import (
	"strings"

	"github.com/padmamangal/padmamangal-backend/internal/models"
)

// extensionTypes maps known filename extensions to MIME types, used when
// the sender declared no content type.
var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".m4a":  "audio/m4a",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".webm": "audio/webm",
}

// ResolveContentType picks the declared MIME type when non-empty, then
// falls back to the extension table, then to a generic binary type.
func ResolveContentType(declared, filename string) string {
	if ct := strings.TrimSpace(declared); ct != "" {
		return ct
	}
	lower := strings.ToLower(filename)
	if idx := strings.LastIndex(lower, "."); idx >= 0 {
		if ct, ok := extensionTypes[lower[idx:]]; ok {
			return ct
		}
	}
	return "application/octet-stream"
}

// KindFor classifies the message type for a resolved content type.
// Anything unrecognized is a plain file attachment.
func KindFor(contentType string) models.MessageType {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "image/"):
		return models.MessageImage
	case strings.HasPrefix(ct, "video/"):
		return models.MessageVideo
	case strings.HasPrefix(ct, "audio/"):
		return models.MessageAudio
	}
	return models.MessageFile
}
