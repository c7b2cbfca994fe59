// Package viz provides the live terminal preview.
//
// Frames are drawn with upper half blocks in truecolor, so a W x H
// generator needs W columns and H/2 rows. A side panel shows time, speed,
// the active scheme and a luminance chart.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	+/-   - Change speed
//	S     - Cycle color schemes
//	R     - Restart from t=0
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// Recorded frames are exported with anim.ExportGIF to Options.Output when
// recording stops.
package viz
