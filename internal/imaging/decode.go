package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lgodoyplay/cerco-sub000/format"
)

// ErrUndecodable is returned for empty, unrecognized, corrupt or zero-sized images.
var ErrUndecodable = errors.New("imaging: undecodable image")

// MaxPixels bounds the decoded size of a single image.
const MaxPixels = 64 << 20

// Info describes a decoded image.
type Info struct {
	Format format.Format
	Width  int
	Height int
}

// AspectRatio returns width divided by height.
func (i Info) AspectRatio() float64 {
	if i.Height == 0 {
		return 0
	}
	return float64(i.Width) / float64(i.Height)
}

// Inspect reads the format and pixel dimensions without decoding pixel data.
func Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, fmt.Errorf("%w: empty data", ErrUndecodable)
	}

	f := format.DetectImage(data)
	if f == format.Unknown {
		return Info{}, fmt.Errorf("%w: unrecognized format", ErrUndecodable)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s header: %v", ErrUndecodable, f, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("%w: zero-sized %s", ErrUndecodable, f)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return Info{}, fmt.Errorf("%w: %dx%d exceeds pixel limit", ErrUndecodable, cfg.Width, cfg.Height)
	}

	return Info{Format: f, Width: cfg.Width, Height: cfg.Height}, nil
}

// Decode fully decodes an image. Truncated or corrupt pixel data is rejected
// even when the header is valid.
func Decode(data []byte) (Info, image.Image, error) {
	info, err := Inspect(data)
	if err != nil {
		return Info{}, nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Info{}, nil, fmt.Errorf("%w: %s data: %v", ErrUndecodable, info.Format, err)
	}

	return info, img, nil
}

// PNG encodes img as an 8-bit non-interlaced PNG.
func PNG(img image.Image) ([]byte, error) {
	b := img.Bounds()
	flat, ok := img.(*image.NRGBA)
	if !ok {
		flat = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Embeddable returns image data in a form the PDF backend can embed
// directly, together with its format.
func Embeddable(data []byte) ([]byte, format.Format, error) {
	info, img, err := Decode(data)
	if err != nil {
		return nil, format.Unknown, err
	}
	if info.Format == format.JPEG {
		return data, format.JPEG, nil
	}

	out, err := PNG(img)
	if err != nil {
		return nil, format.Unknown, err
	}
	return out, format.PNG, nil
}
