package storage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

var ErrInvalidImage = errors.New("invalid image")

// ImageProcessor validates uploaded recipe images and shrinks them to MaxDimension.
type ImageProcessor struct {
	MaxSize      int64 // bytes (default: 5MB)
	MaxDimension int   // px (default: 1200)
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: 5 * 1024 * 1024, MaxDimension: 1200}
}

// ProcessedImage là kết quả sau khi decode + resize
type ProcessedImage struct {
	Data        []byte
	Extension   string // "jpg" | "png"
	ContentType string
}

// DecodeDataURI parses "data:image/png;base64,...." into raw bytes.
func DecodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: expected data:image/<type>;base64,<payload>", ErrInvalidImage)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64: %v", ErrInvalidImage, err)
	}
	return data, nil
}

// ValidateImage: chỉ chấp nhận JPEG/PNG, không vượt quá MaxSize
func (p *ImageProcessor) ValidateImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if int64(len(data)) > p.MaxSize {
		return "", fmt.Errorf("%w: image exceeds %dMB", ErrInvalidImage, p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: not an image: %v", ErrInvalidImage, err)
	}
	switch format {
	case "jpeg", "png":
		return format, nil
	default:
		return "", fmt.Errorf("%w: format %s not allowed (only jpeg/png)", ErrInvalidImage, format)
	}
}

// Process validates, fits the image into MaxDimension×MaxDimension and re-encodes it
// in its original format.
func (p *ImageProcessor) Process(data []byte) (*ProcessedImage, error) {
	format, err := p.ValidateImage(data)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot decode: %v", ErrInvalidImage, err)
	}

	b := img.Bounds()
	if b.Dx() > p.MaxDimension || b.Dy() > p.MaxDimension {
		img = imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)
	}

	out := &ProcessedImage{Extension: "png", ContentType: "image/png"}
	encFormat := imaging.PNG
	var opts []imaging.EncodeOption
	if format == "jpeg" {
		out.Extension, out.ContentType = "jpg", "image/jpeg"
		encFormat = imaging.JPEG
		opts = append(opts, imaging.JPEGQuality(90))
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, encFormat, opts...); err != nil {
		return nil, fmt.Errorf("cannot encode image: %w", err)
	}
	out.Data = buf.Bytes()
	return out, nil
}
