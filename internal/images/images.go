package images

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"

	// Registered for image.Decode. webp has no pure-Go encoder, so it
	// participates as a decode source only.
	_ "golang.org/x/image/webp"

	xdraw "golang.org/x/image/draw"
)

// DefaultQuality is the JPEG quality used by Compress when the caller
// does not specify one.
const DefaultQuality = 75

// Media type constants for the image family.
const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEGIF  = "image/gif"
	MIMEWebP = "image/webp"
)

// formatMIME translates image.Decode format names to media types.
var formatMIME = map[string]string{
	"png":  MIMEPNG,
	"jpeg": MIMEJPEG,
	"gif":  MIMEGIF,
	"webp": MIMEWebP,
}

// Extensions maps image media types to their download file extension.
var Extensions = map[string]string{
	MIMEPNG:  ".png",
	MIMEJPEG: ".jpg",
	MIMEGIF:  ".gif",
	MIMEWebP: ".webp",
}

// IsImage reports whether the media type belongs to the image family.
func IsImage(mime string) bool {
	_, ok := Extensions[mime]
	return ok
}

// CanEncode reports whether the service can produce the given image
// media type.
func CanEncode(mime string) bool {
	switch mime {
	case MIMEPNG, MIMEJPEG, MIMEGIF:
		return true
	default:
		return false
	}
}

// Convert re-encodes an image into a different container format.
// Sources with transparency are flattened onto a white background
// before encoding to JPEG, which has no alpha channel.
func Convert(data []byte, targetMIME string) ([]byte, error) {
	if !CanEncode(targetMIME) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, targetMIME)
	}

	img, _, err := decode(data)
	if err != nil {
		return nil, err
	}

	return encode(img, targetMIME, 0)
}

// Compress re-encodes an image as JPEG at the given quality (1-100).
// The output is always JPEG regardless of the source format: lossy
// re-encoding is the point of the operation.
func Compress(data []byte, quality int) ([]byte, error) {
	if quality <= 0 {
		quality = DefaultQuality
	}

	img, _, err := decode(data)
	if err != nil {
		return nil, err
	}

	return encode(img, MIMEJPEG, quality)
}

// Resize resamples an image to exact target dimensions using Catmull-Rom
// interpolation, preserving the source container format. Aspect ratio is
// the caller's responsibility.
func Resize(data []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	img, sourceMIME, err := decode(data)
	if err != nil {
		return nil, err
	}

	resized := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	return encode(resized, OutputMIME(sourceMIME), 0)
}

// StripMetadata re-encodes an image in its source container from decoded
// pixels alone. EXIF tags, GPS coordinates, color profiles, and every
// other ancillary chunk are absent from the output because the encoder
// never sees them.
func StripMetadata(data []byte) ([]byte, error) {
	img, sourceMIME, err := decode(data)
	if err != nil {
		return nil, err
	}

	return encode(img, OutputMIME(sourceMIME), 0)
}

// OutputMIME resolves the container used when an operation preserves
// the source format. webp sources fall back to PNG, the lossless
// default, since webp cannot be re-encoded.
func OutputMIME(sourceMIME string) string {
	if CanEncode(sourceMIME) {
		return sourceMIME
	}
	return MIMEPNG
}

func decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	return img, formatMIME[format], nil
}

func encode(img image.Image, targetMIME string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch targetMIME {
	case MIMEPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
		}
	case MIMEJPEG:
		if quality <= 0 {
			quality = jpeg.DefaultQuality
		}
		if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
		}
	case MIMEGIF:
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, targetMIME)
	}

	return buf.Bytes(), nil
}

// flatten composites an image onto a white background, discarding any
// alpha channel. JPEG cannot represent transparency.
func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	flattened := image.NewRGBA(bounds)
	draw.Draw(flattened, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(flattened, bounds, img, bounds.Min, draw.Over)
	return flattened
}
