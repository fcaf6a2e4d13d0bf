// Package audio implements the recording and playback lifecycles over
// platform audio devices.
package audio

import (
	"path/filepath"
	"strings"
)

// allowed audio file extensions, without dot.
var allowedExtensions = map[string]string{
	"m4a": "audio/mp4",
	"mp3": "audio/mpeg",
	"wav": "audio/wav",
	"aac": "audio/aac",
	"caf": "audio/x-caf",
}

// Ext extracts the lowercase extension of path without the leading dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// AllowedExt reports whether ext names a supported audio format.
func AllowedExt(ext string) bool {
	_, ok := allowedExtensions[strings.ToLower(ext)]
	return ok
}

// ContentType returns the MIME type for the given extension. Unknown
// extensions map to audio/mpeg.
func ContentType(ext string) string {
	if ct, ok := allowedExtensions[strings.ToLower(ext)]; ok {
		return ct
	}
	return "audio/mpeg"
}

// FlooredSeconds converts a raw duration in milliseconds to the whole
// seconds shown in the UI and stored with a clip.
func FlooredSeconds(millis int64) int {
	if millis < 0 {
		return 0
	}
	return int(millis / 1000)
}
