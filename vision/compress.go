// CLAUDE:SUMMARY Image recompression — JPEG quality ladder, then resize, to fit the API upload cap.
package vision

import (
	"bytes"
	"image"
	"image/jpeg"
	"log/slog"
	"math"

	// Register decoders for the formats decks and PDFs embed.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// MaxImageBytes is the largest payload uploaded to the vision API.
const MaxImageBytes = 5 << 20

// compressIfNeeded shrinks an oversized image, first by walking a JPEG
// quality ladder and then, if that is not enough, by downscaling. If the
// image cannot be decoded the original bytes pass through untouched and
// the API call decides their fate.
func compressIfNeeded(data []byte, contentType string, log *slog.Logger) ([]byte, string) {
	if len(data) <= MaxImageBytes {
		return data, contentType
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warn("image compression skipped", "error", err)
		return data, contentType
	}

	for _, quality := range []int{85, 70, 50, 30} {
		out, err := encodeJPEG(img, quality)
		if err != nil {
			return data, contentType
		}
		if len(out) <= MaxImageBytes {
			log.Info("image compressed", "from", len(data), "to", len(out), "quality", quality)
			return out, "image/jpeg"
		}
	}

	// Quality alone was not enough: scale both dimensions by the square
	// root of the byte ratio so area tracks the size target.
	ratio := math.Sqrt(float64(MaxImageBytes) / float64(len(data)))
	bounds := img.Bounds()
	w := int(float64(bounds.Dx()) * ratio)
	h := int(float64(bounds.Dy()) * ratio)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	out, err := encodeJPEG(scaled, 50)
	if err != nil {
		return data, contentType
	}
	log.Info("image resized", "from", len(data), "to", len(out), "width", w, "height", h)
	return out, "image/jpeg"
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
