package results

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMedia() MediaRef {
	return MediaRef{
		Type:   MediaTypeFile,
		Path:   "media/images/img_0.png",
		SHA256: strings.Repeat("ab", 32),
		Size:   2048,
	}
}

func TestMediaRefValueRoundTrip(t *testing.T) {
	ref := sampleMedia()

	got, ok := MediaRefFromValue(ref.Value())
	require.True(t, ok)
	assert.Equal(t, ref, got)
}

func TestMediaRefFromValueCoercesSize(t *testing.T) {
	// JSON round-trips turn the size into a float64.
	v := map[string]any{
		"_type":  "file",
		"path":   "media/images/img_0.png",
		"sha256": strings.Repeat("ab", 32),
		"size":   float64(2048),
	}

	ref, ok := MediaRefFromValue(v)
	require.True(t, ok)
	assert.Equal(t, int64(2048), ref.Size)
}

func TestMediaRefFromValueRejectsNonMedia(t *testing.T) {
	for name, v := range map[string]any{
		"scalar":       1.5,
		"plain map":    map[string]any{"loss": 0.5},
		"missing path": map[string]any{"_type": "file", "sha256": "ab"},
		"missing hash": map[string]any{"_type": "file", "path": "a.png"},
		"empty type":   map[string]any{"_type": "", "path": "a.png", "sha256": "ab"},
	} {
		_, ok := MediaRefFromValue(v)
		assert.False(t, ok, name)
	}
}

func TestMediaRefID(t *testing.T) {
	ref := sampleMedia()
	assert.Equal(t, strings.Repeat("ab", 10), ref.ID())

	// Short hashes are used whole.
	assert.Equal(t, "abcd", MediaRef{SHA256: "abcd"}.ID())
}

func TestMediaRefFilename(t *testing.T) {
	ref := sampleMedia()
	assert.Equal(t, "img_3_"+strings.Repeat("ab", 10)+".png", ref.Filename("img", 3))
}

func TestMediaRefs(t *testing.T) {
	ref := sampleMedia()
	row := map[string]any{
		"step": 0,
		"loss": 0.5,
		"img":  ref.Value(),
	}

	refs := MediaRefs(row)
	require.Len(t, refs, 1)
	assert.Equal(t, ref, refs["img"])

	assert.Nil(t, MediaRefs(map[string]any{"step": 0}))
}

func TestNamespacePreservesMedia(t *testing.T) {
	ref := sampleMedia()
	run := sampleRun()
	run.History[0]["img"] = ref.Value()

	ns := Namespace("wandb", []RunRecord{run})
	wandb := ns["wandb"].(map[string]any)
	runs := wandb["runs"].([]any)
	history := runs[0].(map[string]any)["history"].([]any)
	row := history[0].(map[string]any)

	got, ok := MediaRefFromValue(row["img"])
	require.True(t, ok)
	assert.Equal(t, ref, got)
}
