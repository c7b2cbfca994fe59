// Package analysis measures rendered sequences.
//
//   - [Stats]: mean channels and luminance of a frame
//   - [Summarize]: per-frame stats plus the dominant luminance period
//   - [PowerSpectrum], [DominantPeriod]: zero-padded radix-2 FFT helpers
//
// The period estimate is limited by bin resolution: with n frames padded to
// N, periods are multiples of N*dt/k.
package analysis
