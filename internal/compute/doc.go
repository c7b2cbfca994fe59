// Package compute provides the execution backends for grid evaluation.
//
// Backends only decide how rows are scheduled; the numbers they produce are
// identical:
//
//   - CPU: rows split across one goroutine per worker
//   - Serial: everything on the calling goroutine
//   - CUDA: reported for parity with accelerator hosts, never available here
//
// The selected backend's [Backend.Name] is what the service reports as its
// compute device:
//
//	backend, err := compute.Select(cfg.Compute.Backend, cfg.Compute.Workers)
//	gen, err := fluid.New(fluid.Options{Width: 1920, Height: 1080, Backend: backend})
package compute
