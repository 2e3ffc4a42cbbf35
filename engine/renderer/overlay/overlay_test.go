package overlay

import (
	"testing"

	"github.com/fzipp/bmfont"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDescriptor() *bmfont.Descriptor {
	return &bmfont.Descriptor{
		Common: bmfont.Common{
			LineHeight: 16,
			ScaleW:     128,
			ScaleH:     128,
		},
		Chars: map[rune]bmfont.Char{
			'A': {ID: 'A', X: 0, Y: 0, Width: 8, Height: 12, XOffset: 1, YOffset: 2, XAdvance: 10},
			'V': {ID: 'V', X: 8, Y: 0, Width: 8, Height: 12, XAdvance: 10},
		},
		Kerning: map[bmfont.CharPair]bmfont.Kerning{
			{First: 'A', Second: 'V'}: {Amount: -2},
		},
	}
}

func TestAddTextQuadLayout(t *testing.T) {
	o := NewTextOverlay(testDescriptor(), 100, 100)
	o.AddText("A", 10, 20)

	require.Equal(t, 1, o.GlyphCount())
	verts := o.Vertices()
	require.Len(t, verts, VerticesPerGlyph)

	// Glyph rect is (11, 22) to (19, 34) in pixels, mapped to NDC on a
	// 100x100 screen.
	tl := verts[0]
	assert.InDelta(t, 11.0/100.0*2.0-1.0, tl.Position.X, 1e-6)
	assert.InDelta(t, 22.0/100.0*2.0-1.0, tl.Position.Y, 1e-6)

	br := verts[5]
	assert.InDelta(t, 19.0/100.0*2.0-1.0, br.Position.X, 1e-6)
	assert.InDelta(t, 34.0/100.0*2.0-1.0, br.Position.Y, 1e-6)

	// Atlas coordinates normalized by the 128px atlas.
	assert.InDelta(t, 0.0, tl.Texcoord.X, 1e-6)
	assert.InDelta(t, 8.0/128.0, br.Texcoord.X, 1e-6)
	assert.InDelta(t, 12.0/128.0, br.Texcoord.Y, 1e-6)
}

func TestAddTextKerning(t *testing.T) {
	o := NewTextOverlay(testDescriptor(), 100, 100)

	// "AV" kerns -2, so the width shrinks by two pixels.
	assert.Equal(t, float32(20), o.MeasureText("AA"))
	assert.Equal(t, float32(18), o.MeasureText("AV"))
}

func TestAddTextSkipsMissingChars(t *testing.T) {
	o := NewTextOverlay(testDescriptor(), 100, 100)
	o.AddText("A?A", 0, 0)
	assert.Equal(t, 2, o.GlyphCount())
}

func TestResetAndDirty(t *testing.T) {
	o := NewTextOverlay(testDescriptor(), 100, 100)
	assert.True(t, o.Dirty())

	o.AddText("A", 0, 0)
	assert.True(t, o.Dirty())

	_ = o.Vertices()
	assert.False(t, o.Dirty())

	o.Reset()
	assert.True(t, o.Dirty())
	assert.Equal(t, 0, o.GlyphCount())
}

func TestResizeChangesMapping(t *testing.T) {
	o := NewTextOverlay(testDescriptor(), 100, 100)
	o.AddText("A", 50, 50)
	first := o.Vertices()[0].Position

	o.Resize(200, 200)
	o.Reset()
	o.AddText("A", 50, 50)
	second := o.Vertices()[0].Position

	assert.NotEqual(t, first, second)
}

func TestLineHeight(t *testing.T) {
	o := NewTextOverlay(testDescriptor(), 100, 100)
	assert.Equal(t, float32(16), o.LineHeight())
}
