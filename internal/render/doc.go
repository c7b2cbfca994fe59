// Package render turns density fields into RGB pixels.
//
// A color scheme is a pure per-sample function of density, position and
// time. "ai_theme" is the sigmoid-blended cyan/green look; "ocean" walks a
// Lab-blended ramp through the palette's blues. Unknown scheme names return
// ErrUnsupportedScheme and leave the caller untouched.
package render
