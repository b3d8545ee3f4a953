package native

import (
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	playerrors "github.com/jscyril/golang_sound_manager/pkg/errors"
)

// SupportedFormats returns list of supported audio formats
func SupportedFormats() []string {
	return []string{".mp3", ".wav", ".flac", ".ogg"}
}

// IsSupported checks if a file format is supported
func IsSupported(path string) bool {
	ext := formatOf(path, "")
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// formatOf derives the format extension from a path or URL, falling back to
// the content type of a remote stream.
func formatOf(path, contentType string) string {
	p := path
	if u, err := url.Parse(path); err == nil && u.Scheme != "" {
		p = u.Path
	}
	if ext := strings.ToLower(filepath.Ext(p)); ext != "" {
		return ext
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/flac", "audio/x-flac":
		return ".flac"
	case "audio/ogg", "application/ogg":
		return ".ogg"
	}
	return ""
}

// DecodeAudio decodes an audio stream based on its format extension
func DecodeAudio(r io.ReadSeekCloser, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext {
	case ".mp3":
		return mp3.Decode(r)
	case ".wav":
		return wav.Decode(r)
	case ".flac":
		return flac.Decode(r)
	case ".ogg":
		return vorbis.Decode(r)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", playerrors.ErrInvalidFormat, ext)
	}
}
