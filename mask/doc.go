// Package mask aggregates stencil mask commands from many sources into a single
// command buffer that is submitted to the graphics device once per frame.
//
// Sources register with AddSource and leave with RemoveSource. Every membership
// change rebuilds the buffer from scratch by visiting all sources in
// registration order, so later registrations draw last. The buffer is not
// cleared after submission: it is resubmitted each frame until membership
// changes again.
//
// The aggregator is single threaded. Registration, refresh and the frame tick
// must all run on the frame driver goroutine.
package mask
