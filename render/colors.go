package render

import (
	"github.com/gdamore/tcell/v2"
)

// RGB color definitions for stencil layers and chrome
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38) // Tokyo Night background

	RgbClip       = tcell.NewRGBColor(100, 150, 255) // Normal Blue
	RgbClipBright = tcell.NewRGBColor(140, 190, 255) // Bright Blue, clip under overlay
	RgbInvert     = tcell.NewRGBColor(180, 50, 50)   // Dark Red
	RgbOverlay    = tcell.NewRGBColor(0, 200, 200)   // Vibrant Cyan
	RgbDebug      = tcell.NewRGBColor(255, 165, 0)   // Orange

	RgbStatusBar  = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbStatusText = tcell.NewRGBColor(0, 0, 0)       // Dark text for status
)
