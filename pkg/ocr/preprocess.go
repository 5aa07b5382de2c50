package ocr

import (
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
)

// prepareImage writes a grayscale, upscaled, thresholded copy next to a
// temp path and returns that path. Screenshots of banking apps are small
// and low-contrast; this is enough to make the amount line legible to
// Tesseract without multi-pass scoring.
func prepareImage(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}
	g := imaging.Grayscale(img)
	if g.Bounds().Dx() < 900 {
		g = imaging.Resize(g, 1200, 0, imaging.Lanczos)
	}
	g = imaging.AdjustContrast(g, 25)
	g = imaging.Sharpen(g, 1.2)
	bw := threshold(g, 150)

	f, err := os.CreateTemp("", "bukti-*.png")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	f.Close()
	if err := imaging.Save(bw, tmp); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}

// threshold binarizes a grayscale image at a fixed cutoff.
func threshold(img image.Image, cutoff uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bl) / 3 >> 8)
			v := uint8(255)
			if gray <= cutoff {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
