package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/joseph-ayodele/insuregenie/internal/common"
)

// ThresholdType mirrors the binary+Otsu flag pair used by classic imaging toolkits.
type ThresholdType int

const (
	ThreshBinary ThresholdType = 1 << iota
	ThreshOtsu
)

// BaseThreshold is the fixed threshold requested alongside Otsu; Otsu's value replaces it.
const BaseThreshold = 150

// Decode turns an encoded raster (png, jpeg, gif, tiff, bmp, webp) into an image.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", common.NewAppError(common.CodeDecodeFailure, "empty image payload", common.ErrDecode)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", common.NewAppError(common.CodeDecodeFailure, err.Error(), common.ErrDecode)
	}
	return img, format, nil
}

// Preprocess decodes data and returns the binarized single-channel raster
// that is handed to the recognizer. Output bounds equal the decoded bounds.
func Preprocess(data []byte) (*image.Gray, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Binarize(img), nil
}

// Binarize converts img to luminance and applies a binary Otsu threshold.
func Binarize(img image.Image) *image.Gray {
	out, _ := Threshold(Grayscale(img), BaseThreshold, 255, ThreshBinary|ThreshOtsu)
	return out
}

// Grayscale converts to 8-bit luminance with BT.601 weights on the
// non-premultiplied RGB channels; alpha is dropped.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	if g, ok := img.(*image.Gray); ok && g.Stride == gray.Stride && len(g.Pix) == len(gray.Pix) {
		copy(gray.Pix, g.Pix)
		return gray
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			// fixed point 0.299, 0.587, 0.114 scaled by 1<<14
			lum := (uint32(c.R)*4899 + uint32(c.G)*9617 + uint32(c.B)*1868 + 1<<13) >> 14
			gray.SetGray(x, y, color.Gray{Y: uint8(lum)})
		}
	}
	return gray
}

// Threshold sets pixels strictly greater than the threshold to maxVal and the
// rest to 0. With ThreshOtsu the threshold is computed from the histogram and
// thresh is ignored. The threshold actually used is returned.
func Threshold(src *image.Gray, thresh uint8, maxVal uint8, typ ThresholdType) (*image.Gray, uint8) {
	if typ&ThreshOtsu != 0 {
		thresh = OtsuThreshold(src)
	}
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		srow := src.Pix[src.PixOffset(b.Min.X, y):]
		drow := dst.Pix[dst.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if srow[x] > thresh {
				drow[x] = maxVal
			}
		}
	}
	return dst, thresh
}

// OtsuThreshold picks the level that maximises between-class variance, where
// the lower class is every pixel <= level.
func OtsuThreshold(src *image.Gray) uint8 {
	var hist [256]int
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			hist[row[x]]++
		}
	}
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}

	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i * n)
	}

	var (
		best    uint8
		bestVar = -1.0
		wBack   int
		sumBack float64
		fTotal  = float64(total)
	)
	for t := 0; t < 256; t++ {
		wBack += hist[t]
		if wBack == 0 {
			continue
		}
		wFore := total - wBack
		if wFore == 0 {
			break
		}
		sumBack += float64(t * hist[t])
		mBack := sumBack / float64(wBack)
		mFore := (sumAll - sumBack) / float64(wFore)
		between := float64(wBack) * float64(wFore) / (fTotal * fTotal) * (mBack - mFore) * (mBack - mFore)
		if between > bestVar {
			bestVar = between
			best = uint8(t)
		}
	}
	return best
}

func describe(img image.Image) string {
	b := img.Bounds()
	return fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
}
