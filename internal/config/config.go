// Package config defines the river-velocimetry station configuration: the
// video dataset description, camera/image corrections, per-algorithm
// parameter blocks, and the ground-control-point set used to map pixel
// measurements to physical distances. A Config is loaded, validated, and
// georeferenced in one pass and is immutable afterwards.
package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/YetAnotherUser24/awive/internal/gcp"
)

// ErrFormat wraps every schema violation: wrong extension, unparseable JSON,
// a missing required field, or a value of the wrong type.
var ErrFormat = errors.New("invalid config format")

func missingField(section, field string) error {
	return fmt.Errorf("%w: section %q: missing required field %q", ErrFormat, section, field)
}

// ROI is an axis-aligned region given by two corner points
// [[x1,y1],[x2,y2]] in pixel coordinates.
type ROI [2][2]int

// UnmarshalJSON enforces the exact [[x1,y1],[x2,y2]] shape. Plain array
// decoding would zero-fill short input and drop excess, silently moving the
// region.
func (r *ROI) UnmarshalJSON(data []byte) error {
	var raw [][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("roi must have exactly 2 corner points, got %d", len(raw))
	}
	for i, pt := range raw {
		if len(pt) != 2 {
			return fmt.Errorf("roi corner %d must have exactly 2 coordinates, got %d", i, len(pt))
		}
		r[i][0], r[i][1] = pt[0], pt[1]
	}
	return nil
}

// Config is the root aggregate. All sections are parsed strictly: required
// fields use pointer types so absence is distinguishable from a zero value,
// and each section validates itself field by field.
type Config struct {
	Dataset       *Dataset       `json:"dataset"`
	OTV           *OTV           `json:"otv"`
	STIV          *STIV          `json:"stiv"`
	Preprocessing *Preprocessing `json:"preprocessing"`
	WaterLevel    *WaterLevel    `json:"water_level,omitempty"`
}

func (c *Config) validate() error {
	if c.Dataset == nil {
		return missingField("", "dataset")
	}
	if err := c.Dataset.validate(); err != nil {
		return err
	}
	if c.OTV == nil {
		return missingField("", "otv")
	}
	if err := c.OTV.validate(); err != nil {
		return err
	}
	if c.STIV == nil {
		return missingField("", "stiv")
	}
	if err := c.STIV.validate(); err != nil {
		return err
	}
	if c.Preprocessing == nil {
		return missingField("", "preprocessing")
	}
	if err := c.Preprocessing.validate(); err != nil {
		return err
	}
	if c.WaterLevel != nil {
		if err := c.WaterLevel.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Dataset describes where the frames live and the camera geometry.
type Dataset struct {
	ImageDataset      *string  `json:"image_dataset"`
	ImageNumberOffset *int     `json:"image_number_offset"`
	ImagePathPrefix   *string  `json:"image_path_prefix"`
	ImagePathDigits   *int     `json:"image_path_digits"`
	VideoPath         *string  `json:"video_path"`
	Width             *int     `json:"width"`
	Height            *int     `json:"height"`
	PPM               *int     `json:"ppm"`
	GCP               *gcp.Set `json:"gcp"`
}

func (d *Dataset) validate() error {
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"image_dataset", d.ImageDataset != nil},
		{"image_number_offset", d.ImageNumberOffset != nil},
		{"image_path_prefix", d.ImagePathPrefix != nil},
		{"image_path_digits", d.ImagePathDigits != nil},
		{"video_path", d.VideoPath != nil},
		{"width", d.Width != nil},
		{"height", d.Height != nil},
		{"ppm", d.PPM != nil},
		{"gcp", d.GCP != nil},
	} {
		if !f.ok {
			return missingField("dataset", f.name)
		}
	}
	if *d.Width <= 0 || *d.Height <= 0 {
		return fmt.Errorf("%w: dataset dimensions %dx%d must be positive", ErrFormat, *d.Width, *d.Height)
	}
	if *d.ImagePathDigits < 1 {
		return fmt.Errorf("%w: image_path_digits must be at least 1, got %d", ErrFormat, *d.ImagePathDigits)
	}
	for i, gt := range d.GCP.GroundTruth {
		section := fmt.Sprintf("dataset.gcp.ground_truth[%d]", i)
		if gt.Position == nil {
			return missingField(section, "position")
		}
		if gt.Velocity == nil {
			return missingField(section, "velocity")
		}
	}
	return nil
}

// GetImageDataset returns the image dataset directory.
func (d *Dataset) GetImageDataset() string { return *d.ImageDataset }

// GetImageNumberOffset returns the first frame number of the sequence.
func (d *Dataset) GetImageNumberOffset() int { return *d.ImageNumberOffset }

// GetImagePathPrefix returns the frame filename prefix.
func (d *Dataset) GetImagePathPrefix() string { return *d.ImagePathPrefix }

// GetImagePathDigits returns the zero-padded width of frame numbers.
func (d *Dataset) GetImagePathDigits() int { return *d.ImagePathDigits }

// GetVideoPath returns the raw video path, which may be empty for
// image-sequence datasets.
func (d *Dataset) GetVideoPath() string { return *d.VideoPath }

// GetWidth returns the frame width in pixels.
func (d *Dataset) GetWidth() int { return *d.Width }

// GetHeight returns the frame height in pixels.
func (d *Dataset) GetHeight() int { return *d.Height }

// GetPPM returns the nominal pixels-per-meter scale.
func (d *Dataset) GetPPM() int { return *d.PPM }

// ImageCorrection holds the single-coefficient radial distortion model.
type ImageCorrection struct {
	Apply *bool    `json:"apply"`
	K1    *float64 `json:"k1"`
	C     *int     `json:"c"`
	F     *float64 `json:"f"`
}

func (ic *ImageCorrection) validate() error {
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"apply", ic.Apply != nil},
		{"k1", ic.K1 != nil},
		{"c", ic.C != nil},
		{"f", ic.F != nil},
	} {
		if !f.ok {
			return missingField("preprocessing.image_correction", f.name)
		}
	}
	return nil
}

// GetApply reports whether distortion correction is enabled.
func (ic *ImageCorrection) GetApply() bool { return *ic.Apply }

// GetK1 returns the radial distortion coefficient.
func (ic *ImageCorrection) GetK1() float64 { return *ic.K1 }

// GetC returns the principal-point offset in pixels.
func (ic *ImageCorrection) GetC() int { return *ic.C }

// GetF returns the focal length in pixels.
func (ic *ImageCorrection) GetF() float64 { return *ic.F }

// Preprocessing holds the frame normalization applied before any
// velocimetry algorithm runs.
type Preprocessing struct {
	RotateImage     int              `json:"rotate_image"` // degrees, right-angle multiples
	PreROI          *ROI             `json:"pre_roi"`
	ROI             *ROI             `json:"roi"`
	ImageCorrection *ImageCorrection `json:"image_correction"`
}

func (p *Preprocessing) validate() error {
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"pre_roi", p.PreROI != nil},
		{"roi", p.ROI != nil},
		{"image_correction", p.ImageCorrection != nil},
	} {
		if !f.ok {
			return missingField("preprocessing", f.name)
		}
	}
	if p.RotateImage%90 != 0 {
		return fmt.Errorf("%w: rotate_image must be a multiple of 90 degrees, got %d", ErrFormat, p.RotateImage)
	}
	return p.ImageCorrection.validate()
}

// OTVFeatures configures feature detection for optical tracking.
type OTVFeatures struct {
	MaxCorner    *int     `json:"maxcorner"`
	QualityLevel *float64 `json:"qualitylevel"`
	MinDistance  *int     `json:"mindistance"`
	BlockSize    *int     `json:"blocksize"`
}

func (f *OTVFeatures) validate() error {
	for _, r := range []struct {
		name string
		ok   bool
	}{
		{"maxcorner", f.MaxCorner != nil},
		{"qualitylevel", f.QualityLevel != nil},
		{"mindistance", f.MinDistance != nil},
		{"blocksize", f.BlockSize != nil},
	} {
		if !r.ok {
			return missingField("otv.features", r.name)
		}
	}
	return nil
}

// OTVLucasKanade configures the pyramidal Lucas-Kanade tracker.
type OTVLucasKanade struct {
	WinSize           *int     `json:"winsize"`
	MaxLevel          *int     `json:"max_level"`
	MaxCount          *int     `json:"max_count"`
	Epsilon           *float64 `json:"epsilon"`
	Flags             *int     `json:"flags"`
	Radius            *int     `json:"radius"`
	MinEigenThreshold *float64 `json:"min_eigen_threshold"`
}

func (lk *OTVLucasKanade) validate() error {
	for _, r := range []struct {
		name string
		ok   bool
	}{
		{"winsize", lk.WinSize != nil},
		{"max_level", lk.MaxLevel != nil},
		{"max_count", lk.MaxCount != nil},
		{"epsilon", lk.Epsilon != nil},
		{"flags", lk.Flags != nil},
		{"radius", lk.Radius != nil},
		{"min_eigen_threshold", lk.MinEigenThreshold != nil},
	} {
		if !r.ok {
			return missingField("otv.lk", r.name)
		}
	}
	return nil
}

// OTV is the optical-tracking-velocimetry parameter block. It is parsed and
// validated here and consumed by the downstream tracker.
type OTV struct {
	MaskPath         *string         `json:"mask_path"`
	PixelToReal      *float64        `json:"pixel_to_real"`
	PartialMinAngle  *float64        `json:"partial_min_angle"`
	PartialMaxAngle  *float64        `json:"partial_max_angle"`
	FinalMinAngle    *float64        `json:"final_min_angle"`
	FinalMaxAngle    *float64        `json:"final_max_angle"`
	FinalMinDistance *int            `json:"final_min_distance"`
	MaxFeatures      *int            `json:"max_features"`
	RegionStep       *int            `json:"region_step"`
	Resolution       *int            `json:"resolution"`
	Features         *OTVFeatures    `json:"features"`
	LucasKanade      *OTVLucasKanade `json:"lk"`
	Lines            []int           `json:"lines"`
	LinesWidth       *int            `json:"lines_width"`
	ResizeFactor     *float64        `json:"resize_factor,omitempty"`
}

func (o *OTV) validate() error {
	for _, r := range []struct {
		name string
		ok   bool
	}{
		{"mask_path", o.MaskPath != nil},
		{"pixel_to_real", o.PixelToReal != nil},
		{"partial_min_angle", o.PartialMinAngle != nil},
		{"partial_max_angle", o.PartialMaxAngle != nil},
		{"final_min_angle", o.FinalMinAngle != nil},
		{"final_max_angle", o.FinalMaxAngle != nil},
		{"final_min_distance", o.FinalMinDistance != nil},
		{"max_features", o.MaxFeatures != nil},
		{"region_step", o.RegionStep != nil},
		{"resolution", o.Resolution != nil},
		{"features", o.Features != nil},
		{"lk", o.LucasKanade != nil},
		{"lines", o.Lines != nil},
		{"lines_width", o.LinesWidth != nil},
	} {
		if !r.ok {
			return missingField("otv", r.name)
		}
	}
	if err := o.Features.validate(); err != nil {
		return err
	}
	return o.LucasKanade.validate()
}

// GetResizeFactor returns the optional resize factor, or 0 when unset.
func (o *OTV) GetResizeFactor() float64 {
	if o.ResizeFactor == nil {
		return 0
	}
	return *o.ResizeFactor
}

// STIVLine is one space-time-image search line in pixel coordinates.
type STIVLine struct {
	Start []int `json:"start"`
	End   []int `json:"end"`
}

// STIV is the space-time-image-velocimetry parameter block.
type STIV struct {
	WindowShape      []int      `json:"window_shape"`
	FilterWindow     *int       `json:"filter_window"`
	Overlap          *int       `json:"overlap"`
	KSize            *int       `json:"ksize"`
	PolarFilterWidth *int       `json:"polar_filter_width"`
	Lines            []STIVLine `json:"lines"`
	ResizeFactor     *float64   `json:"resize_factor,omitempty"`
}

func (s *STIV) validate() error {
	for _, r := range []struct {
		name string
		ok   bool
	}{
		{"window_shape", s.WindowShape != nil},
		{"filter_window", s.FilterWindow != nil},
		{"overlap", s.Overlap != nil},
		{"ksize", s.KSize != nil},
		{"polar_filter_width", s.PolarFilterWidth != nil},
		{"lines", s.Lines != nil},
	} {
		if !r.ok {
			return missingField("stiv", r.name)
		}
	}
	for i, line := range s.Lines {
		section := fmt.Sprintf("stiv.lines[%d]", i)
		if line.Start == nil {
			return missingField(section, "start")
		}
		if line.End == nil {
			return missingField(section, "end")
		}
	}
	return nil
}

// WaterLevel configures the water-level crop regions. The block itself is
// optional; when present all its fields are required.
type WaterLevel struct {
	BufferLength *int `json:"buffer_length"`
	ROI          *ROI `json:"roi"`
	ROI2         *ROI `json:"roi2"`
	KernelSize   *int `json:"kernel_size"`
}

func (w *WaterLevel) validate() error {
	for _, r := range []struct {
		name string
		ok   bool
	}{
		{"buffer_length", w.BufferLength != nil},
		{"roi", w.ROI != nil},
		{"roi2", w.ROI2 != nil},
		{"kernel_size", w.KernelSize != nil},
	} {
		if !r.ok {
			return missingField("water_level", r.name)
		}
	}
	return nil
}

// GetROI returns the primary water-level crop region.
func (w *WaterLevel) GetROI() ROI { return *w.ROI }

// GetROI2 returns the secondary water-level crop region.
func (w *WaterLevel) GetROI2() ROI { return *w.ROI2 }
