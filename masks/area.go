package masks

import (
	"image"

	"github.com/chewxy/math32"
)

// Area is a rectangle in normalized viewport coordinates, [0, 1] on both axes
type Area struct {
	X, Y, W, H float32
}

// Cells maps the area onto vp
// Edges round outward so partially covered cells are included; the result is
// clipped to vp and empty for degenerate areas
func (a Area) Cells(vp image.Rectangle) image.Rectangle {
	if a.W <= 0 || a.H <= 0 || vp.Empty() {
		return image.Rectangle{}
	}
	w, h := float32(vp.Dx()), float32(vp.Dy())
	r := image.Rect(
		vp.Min.X+int(math32.Floor(a.X*w)),
		vp.Min.Y+int(math32.Floor(a.Y*h)),
		vp.Min.X+int(math32.Ceil((a.X+a.W)*w)),
		vp.Min.Y+int(math32.Ceil((a.Y+a.H)*h)),
	)
	return r.Intersect(vp)
}

// ViewportFunc reports the current device viewport in cells
// Sources query it on every rebuild so resizes only need a refresh
type ViewportFunc func() image.Rectangle

// FixedViewport returns a ViewportFunc that always reports r
func FixedViewport(r image.Rectangle) ViewportFunc {
	return func() image.Rectangle { return r }
}

func (f ViewportFunc) resolve() image.Rectangle {
	if f == nil {
		return image.Rectangle{}
	}
	return f()
}
