// Package frame holds the RGB pixel buffer produced by color mapping and
// encodes it as PNG (lossless) or JPEG (quality 85), either as raw bytes or
// as a data:image/...;base64 URI for embedding in JSON responses.
package frame
