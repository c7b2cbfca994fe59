// Package anim sequences rendered frames over time and exports them as a
// looping GIF.
//
// Frames are rendered concurrently but always returned in timestamp order:
//
//	frames, err := anim.Sequence(ctx, gen, 60, 4.0, 0)
//	err = anim.ExportGIF(frames, "fluid.gif", anim.DefaultFrameDelayMs, anim.GIFOptions{})
//
// GIF delays are stored in hundredths of a second, so a 67ms delay is
// written as 7.
package anim
