// Package server exposes the generator over HTTP for web front ends.
//
// Routes:
//
//	GET /api/                 liveness
//	GET /api/fluid-frame?t=   PNG frame as a data URI; t defaults to wall clock * time_scale
//	GET /api/fluid-stream     JPEG frame at wall clock * stream_time_scale plus next_frame_delay
//	GET /api/fluid-config     resolution, device, animation speed and scheme
//	GET /static/*             optional file mount
//
// Both frame routes accept scheme and format query parameters.
package server
