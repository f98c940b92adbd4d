// Package video provides the boundary components around the validated
// configuration: a frame Loader for image-sequence datasets and a Formatter
// that applies distortion correction, region extraction, and resizing. Video
// decoding itself is out of scope; datasets are served as numbered image
// files.
package video

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/YetAnotherUser24/awive/internal/config"
	"github.com/YetAnotherUser24/awive/internal/monitoring"
)

// Loader yields dataset frames in capture order.
type Loader interface {
	// HasNext reports whether another frame is available.
	HasNext() bool
	// Read decodes and returns the next frame.
	Read() (image.Image, error)
	// Close releases the loader. Read must not be called afterwards.
	Close() error
}

// imageExtensions are probed in order when locating sequence frames.
var imageExtensions = []string{".png", ".jpg", ".jpeg"}

// ImageLoader serves a directory of zero-padded numbered frames, e.g.
// frame_0001.png, frame_0002.png, ...
type ImageLoader struct {
	paths []string
	next  int
}

// MakeLoader constructs the frame source described by the dataset section.
// Only image-sequence datasets are supported; a dataset that names only a
// raw video file is rejected (decoding belongs to external tooling).
func MakeLoader(ds *config.Dataset) (Loader, error) {
	if ds.GetImageDataset() == "" {
		return nil, fmt.Errorf("dataset %q has no image directory; decode the video into frames first", ds.GetVideoPath())
	}
	return NewImageLoader(ds)
}

// NewImageLoader indexes the frame files of an image-sequence dataset. The
// sequence starts at the configured number offset and ends at the first
// missing frame number.
func NewImageLoader(ds *config.Dataset) (*ImageLoader, error) {
	dir := ds.GetImageDataset()
	prefix := ds.GetImagePathPrefix()
	digits := ds.GetImagePathDigits()

	var paths []string
	for n := ds.GetImageNumberOffset(); ; n++ {
		path, ok := frameFile(dir, prefix, digits, n)
		if !ok {
			break
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no frames matching %s%0*d.* under %s", prefix, digits, ds.GetImageNumberOffset(), dir)
	}
	monitoring.Logf("indexed %d frames under %s", len(paths), dir)
	return &ImageLoader{paths: paths}, nil
}

// frameFile locates frame n, trying each known image extension.
func frameFile(dir, prefix string, digits, n int) (string, bool) {
	base := fmt.Sprintf("%s%0*d", prefix, digits, n)
	for _, ext := range imageExtensions {
		path := filepath.Join(dir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Len returns the number of indexed frames.
func (l *ImageLoader) Len() int { return len(l.paths) }

// HasNext reports whether another frame is available.
func (l *ImageLoader) HasNext() bool { return l.next < len(l.paths) }

// Read decodes the next frame in sequence order.
func (l *ImageLoader) Read() (image.Image, error) {
	if !l.HasNext() {
		return nil, fmt.Errorf("no frames left (%d read)", l.next)
	}
	path := l.paths[l.next]
	l.next++

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", path, err)
	}
	return img, nil
}

// Close releases the loader.
func (l *ImageLoader) Close() error {
	l.paths = nil
	l.next = 0
	return nil
}
