package video

import (
	"image"
	"testing"

	"github.com/YetAnotherUser24/awive/internal/config"
)

func ptrBool(v bool) *bool          { return &v }
func ptrFloat64(v float64) *float64 { return &v }

func testFormatter(rotate int, pre, roi config.ROI, correct bool) *Formatter {
	return &Formatter{
		correction: &config.ImageCorrection{
			Apply: ptrBool(correct),
			K1:    ptrFloat64(-0.05),
			C:     ptrInt(0),
			F:     ptrFloat64(8),
		},
		preROI: pre,
		roi:    roi,
		rotate: ((rotate % 360) + 360) % 360,
	}
}

func grayFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img
}

func TestCrop(t *testing.T) {
	img := grayFrame(100, 50)
	out := Crop(img, config.ROI{{10, 5}, {60, 45}})
	b := out.Bounds()
	if b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("crop size = %dx%d, want 50x40", b.Dx(), b.Dy())
	}

	// Regions are clipped to the frame, never extended.
	out = Crop(img, config.ROI{{90, 40}, {200, 200}})
	b = out.Bounds()
	if b.Dx() != 10 || b.Dy() != 10 {
		t.Errorf("clipped crop size = %dx%d, want 10x10", b.Dx(), b.Dy())
	}
}

func TestApplyROIExtraction(t *testing.T) {
	f := testFormatter(90, config.ROI{{0, 0}, {50, 100}}, config.ROI{{10, 10}, {40, 90}}, false)
	// 100x50 frame rotated 90 degrees becomes 50x100, then pre-ROI keeps
	// all of it and the ROI leaves 30x80.
	out := f.ApplyROIExtraction(grayFrame(100, 50), 0)
	b := out.Bounds()
	if b.Dx() != 30 || b.Dy() != 80 {
		t.Errorf("roi size = %dx%d, want 30x80", b.Dx(), b.Dy())
	}
}

func TestApplyROIExtractionResize(t *testing.T) {
	f := testFormatter(0, config.ROI{{0, 0}, {100, 50}}, config.ROI{{0, 0}, {100, 50}}, false)
	out := f.ApplyROIExtraction(grayFrame(100, 50), 0.5)
	b := out.Bounds()
	if b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("resized size = %dx%d, want 50x25", b.Dx(), b.Dy())
	}
}

func TestDistortionCorrectionDisabled(t *testing.T) {
	f := testFormatter(0, config.ROI{}, config.ROI{}, false)
	img := grayFrame(10, 10)
	if out := f.ApplyDistortionCorrection(img); out != image.Image(img) {
		t.Error("disabled correction must pass the frame through untouched")
	}
}

func TestDistortionCorrectionPreservesBounds(t *testing.T) {
	f := testFormatter(0, config.ROI{}, config.ROI{}, true)
	img := grayFrame(32, 24)
	out := f.ApplyDistortionCorrection(img)
	if out.Bounds() != img.Bounds() {
		t.Errorf("bounds changed: %v -> %v", img.Bounds(), out.Bounds())
	}
}

func TestMedianBlurUniform(t *testing.T) {
	img := grayFrame(16, 16)
	out := MedianBlur(img, 5)
	r, g, b, a := out.At(8, 8).RGBA()
	if r>>8 != 0x80 || g>>8 != 0x80 || b>>8 != 0x80 || a>>8 != 0xff {
		t.Errorf("uniform frame changed under median blur: got %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestResize(t *testing.T) {
	out := Resize(grayFrame(100, 50), 1000, 1000)
	b := out.Bounds()
	if b.Dx() != 1000 || b.Dy() != 1000 {
		t.Errorf("resize = %dx%d, want 1000x1000", b.Dx(), b.Dy())
	}
}
