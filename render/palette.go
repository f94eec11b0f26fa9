package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/maskcmd/mask"
)

// Glyph is the presented form of a stencil cell
type Glyph struct {
	Rune  rune
	Style tcell.Style
}

// Palette maps stencil layer combinations to glyphs
type Palette struct {
	Empty       Glyph
	Clip        Glyph
	ClipOverlay Glyph
	Invert      Glyph
	Overlay     Glyph
	Debug       Glyph
}

// DefaultPalette returns the Tokyo Night based palette
func DefaultPalette() Palette {
	base := tcell.StyleDefault.Background(RgbBackground)
	return Palette{
		Empty:       Glyph{' ', base},
		Clip:        Glyph{'█', base.Foreground(RgbClip)},
		ClipOverlay: Glyph{'▓', base.Foreground(RgbClipBright)},
		Invert:      Glyph{'░', base.Foreground(RgbInvert)},
		Overlay:     Glyph{'▒', base.Foreground(RgbOverlay)},
		Debug:       Glyph{'+', base.Foreground(RgbDebug)},
	}
}

// Cell resolves the glyph for a cell; debug wins, inverted masks show only outside clip
func (p Palette) Cell(l mask.Layer) Glyph {
	clip := l&mask.LayerClip != 0
	overlay := l&mask.LayerOverlay != 0

	switch {
	case l&mask.LayerDebug != 0:
		return p.Debug
	case clip && overlay:
		return p.ClipOverlay
	case clip:
		return p.Clip
	case overlay:
		return p.Overlay
	case l&mask.LayerInvert != 0:
		return p.Invert
	default:
		return p.Empty
	}
}
