package bundle

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// normalizeThumbnail decodes src and returns JPEG bytes scaled to at most
// maxWidth pixels wide. It returns nil bytes when src is already a JPEG that
// fits, meaning the downloaded file can be used unchanged.
func normalizeThumbnail(src io.Reader, maxWidth int) ([]byte, bool, error) {
	img, format, err := image.Decode(src)
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	resized := false
	if maxWidth > 0 && w > maxWidth {
		newH := h * maxWidth / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		resized = true
	}
	if !resized && format == "jpeg" {
		return nil, false, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, false, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), resized, nil
}
