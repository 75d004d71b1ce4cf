// Package imaging decodes the raster images embedded in case reports.
//
// Reports carry evidence photos and scans in whatever format the capture
// device produced. This package validates them once during layout and
// converts them into something the PDF backend can embed.
//
// # Supported Formats
//
// PNG, JPEG and GIF use the standard library decoders. BMP, TIFF and WebP
// are registered from golang.org/x/image:
//
//	info, img, err := imaging.Decode(data)
//	if errors.Is(err, imaging.ErrUndecodable) {
//	    // substitute fallback text
//	}
//
// # Embedding
//
// The PDF backend accepts JPEG as is. Everything else is flattened to 8-bit
// NRGBA and re-encoded as PNG:
//
//	data, f, err := imaging.Embeddable(data)
package imaging
