package results

import (
	"fmt"
	"path"
)

// MediaTypeFile marks a history value backed by a plain file in the run's
// media directory.
const MediaTypeFile = "file"

// mediaIDLen is how much of the content hash names the file when no
// explicit id is given.
const mediaIDLen = 20

// MediaRef is a file-backed media value logged into a history row. The
// integration stores the file itself under the run's media directory; the
// row carries only the run-relative path plus content hash and size.
type MediaRef struct {
	Type   string `json:"_type"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

// ID returns the ref's default identifier: the leading hex characters of
// the content hash.
func (m MediaRef) ID() string {
	if len(m.SHA256) <= mediaIDLen {
		return m.SHA256
	}
	return m.SHA256[:mediaIDLen]
}

// Filename renders the canonical name for a media file bound to a history
// key at a step: "<key>_<step>_<id><ext>". The extension comes from Path.
func (m MediaRef) Filename(key string, step int) string {
	return fmt.Sprintf("%s_%d_%s%s", key, step, m.ID(), path.Ext(m.Path))
}

// Value renders the ref in history-row form.
func (m MediaRef) Value() map[string]any {
	return map[string]any{
		"_type":  m.Type,
		"path":   m.Path,
		"sha256": m.SHA256,
		"size":   m.Size,
	}
}

// MediaRefFromValue decodes a history-row value as a media ref. Returns
// false when the value is not a media map. Size tolerates the numeric types
// produced by JSON and SQLite round-trips.
func MediaRefFromValue(v any) (MediaRef, bool) {
	row, ok := v.(map[string]any)
	if !ok {
		return MediaRef{}, false
	}

	typ, ok := row["_type"].(string)
	if !ok || typ == "" {
		return MediaRef{}, false
	}
	p, ok := row["path"].(string)
	if !ok || p == "" {
		return MediaRef{}, false
	}
	sha, ok := row["sha256"].(string)
	if !ok || sha == "" {
		return MediaRef{}, false
	}

	ref := MediaRef{Type: typ, Path: p, SHA256: sha}
	switch size := row["size"].(type) {
	case int:
		ref.Size = int64(size)
	case int64:
		ref.Size = size
	case float64:
		ref.Size = int64(size)
	}
	return ref, true
}

// MediaRefs returns the media values in a history row, keyed by the history
// key they were logged under.
func MediaRefs(row map[string]any) map[string]MediaRef {
	var refs map[string]MediaRef
	for key, v := range row {
		if ref, ok := MediaRefFromValue(v); ok {
			if refs == nil {
				refs = make(map[string]MediaRef)
			}
			refs[key] = ref
		}
	}
	return refs
}
