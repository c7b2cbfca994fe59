// Package field evaluates the closed-form flow and dye fields that drive the
// fluid background.
//
// Everything here is a pure function of a fixed coordinate space and a time
// value:
//
//   - [Space]: normalized grid over x in [-2, 2], y in [-1.5, 1.5] plus the
//     radial distance from the origin
//   - [Velocity]: traveling-wave flow with a decaying spiral term
//   - [Density]: three octaves of sine/cosine products under a radial envelope
//   - [Advect]: texture perturbation at backward-displaced coordinates
//
// # Example
//
//	space, err := field.NewSpace(1920, 1080)
//	if err != nil {
//	    return err
//	}
//	v := field.Velocity(space, t, nil)
//	d := field.Density(space, t, nil)
//	d, err = field.Advect(d, v, space, field.DefaultAdvectionDt, nil)
//
// # Thread Safety
//
// A [Space] is never mutated after [NewSpace] returns and may be shared by
// any number of goroutines. Grid evaluation fans out over a [RowRunner];
// pass nil to evaluate on the calling goroutine.
package field
