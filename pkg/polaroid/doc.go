// Package polaroid lays a photo out as a framed instant-film style print.
//
// A [Polaroid] couples one print template with a resolution and drives a
// [raster.Backend] through a fixed sequence of steps:
//
//  1. Load: decode the photo (LoadPredict also auto-orients it and picks the
//     template from its aspect ratio)
//  2. Resize: scale to cover the template's photo area, then crop to it
//  3. AddBorder: paint the thin border around the photo
//  4. AddFrame: extend the canvas to the matte size
//  5. AddPage: center the framed photo on the colored output page
//  6. Write: tag density, convert to CMYK and encode
//
// All pixel arithmetic lives in the pure helpers [ResizePlan], [CropOffset],
// [FrameOffset] and [PageOffset]; the engine only feeds their results to the
// backend. Every step fails with NOT_LOADED until an image is loaded.
//
// # Usage
//
//	p, err := polaroid.LoadPredict(raster.Default(), "photo.jpg", 300)
//	if err != nil {
//	    return err
//	}
//	if err := p.Layout(); err != nil {
//	    return err
//	}
//	return p.Write("out/photo.tif")
//
// A Polaroid is not safe for concurrent use. Separate instances share
// nothing and may run in parallel.
package polaroid
