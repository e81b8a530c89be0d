package s3

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	CropScale = "scale"
	CropFill  = "fill"
)

// maxPixels bounds the decoded size of an upload.
const maxPixels = 40_000_000

var errImageTooLarge = errors.New("image dimensions too large")

// transformed is an encoded image ready for upload.
type transformed struct {
	data        []byte
	contentType string
	ext         string
}

// transform resizes src to width pixels. "scale" keeps the aspect ratio,
// "fill" center-crops to a square first. Images already narrower than width
// are re-encoded without upscaling.
func transform(src []byte, width int, crop string) (*transformed, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", errImageTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if crop == CropFill {
		img = centerSquare(img)
	}
	if width > 0 && img.Bounds().Dx() > width {
		img = scaleToWidth(img, width)
	}

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		return &transformed{data: buf.Bytes(), contentType: "image/jpeg", ext: ".jpg"}, nil
	case "gif":
		// animated gifs lose their frames past the first one
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("encode gif: %w", err)
		}
		return &transformed{data: buf.Bytes(), contentType: "image/gif", ext: ".gif"}, nil
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return &transformed{data: buf.Bytes(), contentType: "image/png", ext: ".png"}, nil
	}
}

func scaleToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func centerSquare(img image.Image) image.Image {
	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), img, image.Pt(x0, y0), draw.Src)
	return dst
}
