package video

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/YetAnotherUser24/awive/internal/config"
	"github.com/YetAnotherUser24/awive/internal/monitoring"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func ptrInt(v int) *int          { return &v }
func ptrString(v string) *string { return &v }

func testDataset(dir string) *config.Dataset {
	return &config.Dataset{
		ImageDataset:      ptrString(dir),
		ImageNumberOffset: ptrInt(1),
		ImagePathPrefix:   ptrString("im_"),
		ImagePathDigits:   ptrInt(4),
		VideoPath:         ptrString(""),
		Width:             ptrInt(8),
		Height:            ptrInt(8),
		PPM:               ptrInt(100),
	}
}

// writeFrames creates n sequential 8x8 frames where frame k is filled with
// gray level k, so read order is observable.
func writeFrames(t *testing.T, dir string, n int) {
	t.Helper()
	for k := 1; k <= n; k++ {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		for i := range img.Pix {
			img.Pix[i] = 0xff
		}
		img.Set(0, 0, color.Gray{Y: uint8(k)})
		path := filepath.Join(dir, fmt.Sprintf("im_%04d.png", k))
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("failed to create frame: %v", err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatalf("failed to encode frame: %v", err)
		}
		f.Close()
	}
}

func TestImageLoaderSequence(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 3)

	loader, err := NewImageLoader(testDataset(dir))
	if err != nil {
		t.Fatalf("NewImageLoader failed: %v", err)
	}
	defer loader.Close()

	if loader.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", loader.Len())
	}
	for k := 1; k <= 3; k++ {
		if !loader.HasNext() {
			t.Fatalf("HasNext() false before frame %d", k)
		}
		img, err := loader.Read()
		if err != nil {
			t.Fatalf("Read() frame %d failed: %v", k, err)
		}
		r, _, _, _ := img.At(0, 0).RGBA()
		if got := int(r >> 8); got != k {
			t.Errorf("frame %d marker = %d, want %d", k, got, k)
		}
	}
	if loader.HasNext() {
		t.Error("HasNext() should be false after the last frame")
	}
	if _, err := loader.Read(); err == nil {
		t.Error("Read() past the end should fail")
	}
}

func TestImageLoaderRespectsOffset(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 4)

	ds := testDataset(dir)
	ds.ImageNumberOffset = ptrInt(3)
	loader, err := NewImageLoader(ds)
	if err != nil {
		t.Fatalf("NewImageLoader failed: %v", err)
	}
	defer loader.Close()
	if loader.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (frames 3 and 4)", loader.Len())
	}
}

func TestMakeLoaderEmptyDataset(t *testing.T) {
	if _, err := NewImageLoader(testDataset(t.TempDir())); err == nil {
		t.Error("expected error for a dataset directory with no frames")
	}

	ds := testDataset("")
	ds.VideoPath = ptrString("river.mp4")
	if _, err := MakeLoader(ds); err == nil {
		t.Error("expected error for a video-only dataset")
	}
}
