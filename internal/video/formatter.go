package video

import (
	"image"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/YetAnotherUser24/awive/internal/config"
)

// Formatter normalizes raw frames using the preprocessing section of a
// validated configuration: radial distortion correction, rotation, pre-ROI
// and ROI cropping, and optional resizing. A Formatter is stateless after
// construction and safe to share across frames.
type Formatter struct {
	correction *config.ImageCorrection
	preROI     config.ROI
	roi        config.ROI
	rotate     int // degrees, right-angle multiples
}

// NewFormatter builds a Formatter from the preprocessing section.
func NewFormatter(cfg *config.Config) *Formatter {
	p := cfg.Preprocessing
	return &Formatter{
		correction: p.ImageCorrection,
		preROI:     *p.PreROI,
		roi:        *p.ROI,
		rotate:     ((p.RotateImage % 360) + 360) % 360,
	}
}

// ApplyDistortionCorrection undoes single-coefficient radial lens distortion.
// Each output pixel is inverse-mapped through r' = r * (1 + k1*r²) in
// focal-normalized coordinates around the principal point (frame center
// shifted by c on both axes), then sampled from the source frame. When the
// correction is disabled in the configuration the frame passes through
// untouched.
func (f *Formatter) ApplyDistortionCorrection(img image.Image) image.Image {
	if !f.correction.GetApply() {
		return img
	}
	k1 := f.correction.GetK1()
	focal := f.correction.GetF()
	if focal == 0 {
		focal = 1
	}
	b := img.Bounds()
	cx := float64(b.Min.X+b.Max.X)/2 + float64(f.correction.GetC())
	cy := float64(b.Min.Y+b.Max.Y)/2 + float64(f.correction.GetC())

	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			xn := (float64(x) - cx) / focal
			yn := (float64(y) - cy) / focal
			factor := 1 + k1*(xn*xn+yn*yn)
			sx := int(cx + (float64(x)-cx)*factor)
			sy := int(cy + (float64(y)-cy)*factor)
			if sx < b.Min.X || sx >= b.Max.X || sy < b.Min.Y || sy >= b.Max.Y {
				continue // outside the source frame stays black
			}
			out.Set(x, y, img.At(sx, sy))
		}
	}
	return out
}

// ApplyROIExtraction rotates the frame by the configured right-angle
// multiple, crops the pre-ROI and then the ROI, and finally scales the
// result by resizeFactor (ignored when <= 0 or 1).
func (f *Formatter) ApplyROIExtraction(img image.Image, resizeFactor float64) image.Image {
	out := rotate(img, f.rotate)
	out = Crop(out, f.preROI)
	out = Crop(out, f.roi)
	if resizeFactor > 0 && resizeFactor != 1 {
		out = resize(out, resizeFactor)
	}
	return out
}

// Crop extracts the region between the two ROI corner points. The region is
// clipped to the frame bounds.
func Crop(img image.Image, r config.ROI) image.Image {
	rect := image.Rect(r[0][0], r[0][1], r[1][0], r[1][1]).Intersect(img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Copy(out, image.Point{}, img, rect, xdraw.Src, nil)
	return out
}

// MedianBlur applies a k×k median filter per channel. k must be odd; even
// apertures are widened by one.
func MedianBlur(img image.Image, k int) image.Image {
	if k < 3 {
		return img
	}
	if k%2 == 0 {
		k++
	}
	half := k / 2
	b := img.Bounds()
	src := image.NewRGBA(b)
	xdraw.Copy(src, b.Min, img, b, xdraw.Src, nil)
	out := image.NewRGBA(b)

	var rs, gs, bs []uint8 // window buffers reused across pixels
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rs, gs, bs = rs[:0], gs[:0], bs[:0]
			for dy := -half; dy <= half; dy++ {
				for dx := -half; dx <= half; dx++ {
					sx, sy := clamp(x+dx, b.Min.X, b.Max.X-1), clamp(y+dy, b.Min.Y, b.Max.Y-1)
					i := src.PixOffset(sx, sy)
					rs = append(rs, src.Pix[i])
					gs = append(gs, src.Pix[i+1])
					bs = append(bs, src.Pix[i+2])
				}
			}
			i := out.PixOffset(x, y)
			out.Pix[i] = median(rs)
			out.Pix[i+1] = median(gs)
			out.Pix[i+2] = median(bs)
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func median(vals []uint8) uint8 {
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
	return vals[len(vals)/2]
}

// rotate turns the frame counterclockwise by deg, a multiple of 90 in
// [0,360).
func rotate(img image.Image, deg int) image.Image {
	if deg == 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var out *image.RGBA
	if deg == 180 {
		out = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		out = image.NewRGBA(image.Rect(0, 0, h, w))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			switch deg {
			case 90:
				out.Set(y, w-1-x, c)
			case 180:
				out.Set(w-1-x, h-1-y, c)
			case 270:
				out.Set(h-1-y, x, c)
			}
		}
	}
	return out
}

// resize scales the frame by factor using bilinear interpolation.
func resize(img image.Image, factor float64) image.Image {
	b := img.Bounds()
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)
	if w < 1 || h < 1 {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, b, xdraw.Src, nil)
	return out
}

// Resize scales the frame to an exact width and height, used by the display
// loop's fixed-size preview.
func Resize(img image.Image, w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out
}
