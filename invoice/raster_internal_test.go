package invoice

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFace_CoversAccentedLetters(t *testing.T) {
	face, err := newFace()
	require.NoError(t, err)
	defer face.Close()

	for _, r := range "éèêëàçñöüßøåИб" {
		_, ok := face.GlyphAdvance(r)
		assert.True(t, ok, "no glyph for %q", r)
	}
}

// a missing glyph draws the same box whatever the letter, so distinct accented
// names must produce distinct pixels
func TestRender_AccentsDrawDistinctGlyphs(t *testing.T) {
	face, err := newFace()
	require.NoError(t, err)
	defer face.Close()

	draw := func(s string) *image.RGBA {
		img := image.NewRGBA(image.Rect(0, 0, 40, 20))
		(&canvas{img: img, face: face}).text(2, 15, s, ink)
		return img
	}

	assert.NotEqual(t, draw("é").Pix, draw("è").Pix)
	assert.NotEqual(t, draw("ü").Pix, draw("ö").Pix)
}
