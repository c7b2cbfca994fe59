// Package fluid wires the field, render and frame packages into a frame
// generator.
//
// A Generator is created once per resolution:
//
//	gen, err := fluid.New(fluid.Options{Width: 800, Height: 600})
//	img, err := gen.Frame(0.0, "ai_theme")
//	uri, err := gen.FrameDataURI(1.5, "", frame.PNG)
//	err = gen.ExportGIF(ctx, "fluid.gif", 60, 4.0, 67, anim.GIFOptions{})
//
// Each frame evaluates the velocity and density fields at t, advects the
// density once and maps it to color. Nothing is cached between frames, so
// the same t always yields the same pixels.
package fluid
