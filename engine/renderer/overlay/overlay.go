// Package overlay lays out text quads from a bitmap font descriptor. The
// result is a plain vertex stream, uploading and drawing it is left to the
// renderer.
package overlay

import (
	"github.com/fzipp/bmfont"

	"github.com/tpalli/Vulkan/engine/math"
)

// GlyphVertex is one corner of a glyph quad. Position is in normalized
// device coordinates, Texcoord addresses the font atlas.
type GlyphVertex struct {
	Position math.Vec2
	Texcoord math.Vec2
}

// VerticesPerGlyph quads are emitted as two triangles.
const VerticesPerGlyph = 6

// TextOverlay accumulates glyph quads for one frame of HUD text. It caches
// the vertex stream and regenerates it only after Reset.
type TextOverlay struct {
	desc *bmfont.Descriptor

	screenWidth  float32
	screenHeight float32

	vertices []GlyphVertex
	dirty    bool
}

func NewTextOverlay(desc *bmfont.Descriptor, screenWidth, screenHeight uint32) *TextOverlay {
	return &TextOverlay{
		desc:         desc,
		screenWidth:  float32(screenWidth),
		screenHeight: float32(screenHeight),
		dirty:        true,
	}
}

// Resize updates the screen dimensions used for the pixel to NDC mapping.
func (t *TextOverlay) Resize(screenWidth, screenHeight uint32) {
	t.screenWidth = float32(screenWidth)
	t.screenHeight = float32(screenHeight)
	t.dirty = true
}

// Reset drops the accumulated quads so the overlay can be rebuilt.
func (t *TextOverlay) Reset() {
	t.vertices = t.vertices[:0]
	t.dirty = true
}

func (t *TextOverlay) Dirty() bool { return t.dirty }

// Vertices returns the accumulated stream and marks the overlay clean.
func (t *TextOverlay) Vertices() []GlyphVertex {
	t.dirty = false
	return t.vertices
}

func (t *TextOverlay) GlyphCount() int {
	return len(t.vertices) / VerticesPerGlyph
}

// AddText lays out text starting at the given pixel position. Characters
// missing from the descriptor are skipped. Kerning pairs from the descriptor
// are applied between consecutive glyphs.
func (t *TextOverlay) AddText(text string, x, y float32) {
	atlasW := float32(t.desc.Common.ScaleW)
	atlasH := float32(t.desc.Common.ScaleH)

	penX := x
	prev := rune(-1)
	for _, r := range text {
		ch, ok := t.desc.Chars[r]
		if !ok {
			prev = -1
			continue
		}
		if prev >= 0 {
			if k, ok := t.desc.Kerning[bmfont.CharPair{First: prev, Second: r}]; ok {
				penX += float32(k.Amount)
			}
		}

		x0 := penX + float32(ch.XOffset)
		y0 := y + float32(ch.YOffset)
		x1 := x0 + float32(ch.Width)
		y1 := y0 + float32(ch.Height)

		u0 := float32(ch.X) / atlasW
		v0 := float32(ch.Y) / atlasH
		u1 := float32(ch.X+ch.Width) / atlasW
		v1 := float32(ch.Y+ch.Height) / atlasH

		tl := GlyphVertex{Position: t.toNDC(x0, y0), Texcoord: math.NewVec2(u0, v0)}
		tr := GlyphVertex{Position: t.toNDC(x1, y0), Texcoord: math.NewVec2(u1, v0)}
		bl := GlyphVertex{Position: t.toNDC(x0, y1), Texcoord: math.NewVec2(u0, v1)}
		br := GlyphVertex{Position: t.toNDC(x1, y1), Texcoord: math.NewVec2(u1, v1)}

		t.vertices = append(t.vertices, tl, bl, tr, tr, bl, br)

		penX += float32(ch.XAdvance)
		prev = r
	}
	t.dirty = true
}

// MeasureText returns the pixel width of the text with kerning applied.
func (t *TextOverlay) MeasureText(text string) float32 {
	var width float32
	prev := rune(-1)
	for _, r := range text {
		ch, ok := t.desc.Chars[r]
		if !ok {
			prev = -1
			continue
		}
		if prev >= 0 {
			if k, ok := t.desc.Kerning[bmfont.CharPair{First: prev, Second: r}]; ok {
				width += float32(k.Amount)
			}
		}
		width += float32(ch.XAdvance)
		prev = r
	}
	return width
}

// LineHeight is the vertical pixel advance between rows of text.
func (t *TextOverlay) LineHeight() float32 {
	return float32(t.desc.Common.LineHeight)
}

func (t *TextOverlay) toNDC(x, y float32) math.Vec2 {
	return math.NewVec2(
		x/t.screenWidth*2.0-1.0,
		y/t.screenHeight*2.0-1.0,
	)
}
