package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// defaultExtension is used when the original filename carries no extension.
const defaultExtension = "mp3"

// keyPrefix namespaces all audio objects inside the bucket.
const keyPrefix = "music/"

// NewObjectKey returns a globally unique storage key for an uploaded file.
// The key is a random UUID plus the original file extension, so two uploads
// of identical files never collide and the store is never asked to overwrite.
func NewObjectKey(filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = defaultExtension
	}
	return keyPrefix + uuid.NewString() + "." + ext
}
