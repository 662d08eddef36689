package ocr

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// Downscale shrinks jpg/png documents whose longest side exceeds maxDim,
// keeping the aspect ratio and the original format. Anything it cannot
// decode, and every pdf, is returned untouched.
func Downscale(doc Document, maxDim int) Document {
	if maxDim <= 0 {
		return doc
	}

	var format imaging.Format
	switch doc.Ext() {
	case "jpg", "jpeg":
		format = imaging.JPEG
	case "png":
		format = imaging.PNG
	default:
		return doc
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(doc.Data))
	if err != nil {
		return doc
	}
	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return doc
	}

	img, err := imaging.Decode(bytes.NewReader(doc.Data), imaging.AutoOrientation(true))
	if err != nil {
		return doc
	}

	// EXIF orientation may have swapped the axes.
	b := img.Bounds()
	var resized *image.NRGBA
	if b.Dx() >= b.Dy() {
		resized = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	} else {
		resized = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(90)); err != nil {
		log.Warn().Err(err).Str("filename", doc.Filename).Msg("downscale encode failed, sending original")
		return doc
	}

	log.Debug().
		Str("filename", doc.Filename).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Int("max_dimension", maxDim).
		Msg("document downscaled")

	return Document{Data: buf.Bytes(), Filename: doc.Filename}
}
