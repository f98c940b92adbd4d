// Package gcp models ground control points for river velocimetry: labeled
// pixel coordinates with real-world counterparts, the symmetric pairwise
// distance relation between them, and the classical MDS reconstruction used
// when real-world coordinates are given only as distances.
package gcp

import (
	"errors"
	"fmt"
)

// minPoints is the minimum control-point count for a 2D rigid
// reconstruction with redundancy.
const minPoints = 4

// Sentinel errors for GCP validation and reconstruction. All are surfaced
// during configuration load and matched with errors.Is.
var (
	ErrInsufficientPoints      = errors.New("fewer than four control points")
	ErrMissingCoordinateSource = errors.New("neither meters nor distances provided")
	ErrIncompleteDistances     = errors.New("distances do not cover all control-point pairs")
	ErrNonEuclideanDistances   = errors.New("distances admit no 2D Euclidean embedding")
	ErrInconsistentLength      = errors.New("pixel and meter coordinate counts differ")
)

// GroundTruth carries per-point calibration data. It is parsed and stored
// but never consulted by validation or reconstruction. Both fields are
// required by the schema; Velocity is a pointer so the parser can tell a
// missing value from a zero one.
type GroundTruth struct {
	Position []int    `json:"position"`
	Velocity *float64 `json:"velocity"`
}

// GetVelocity returns the calibration velocity in m/s.
func (g *GroundTruth) GetVelocity() float64 { return *g.Velocity }

// Set is the ground-control-point aggregate for one dataset: pixel
// coordinates, their real-world counterparts in meters, and optionally the
// pairwise distances those counterparts were derived from. A Set is resolved
// exactly once during configuration load and is immutable afterwards.
type Set struct {
	Apply       bool          `json:"apply"`
	Pixels      [][2]int      `json:"pixels"`
	Meters      [][2]float64  `json:"meters,omitempty"`
	Distances   *DistanceSet  `json:"distances,omitempty"`
	GroundTruth []GroundTruth `json:"ground_truth"`

	resolved bool
}

// Resolve validates the set and, when meters are absent, reconstructs them
// from the pairwise distances. It runs the whole pipeline in one pass with
// no partial success:
//
//  1. fewer than four pixels -> ErrInsufficientPoints
//  2. no meters and no distances -> ErrMissingCoordinateSource
//  3. no meters: the distance count must equal C(n,2) exactly
//     (ErrIncompleteDistances otherwise), then MDS reconstruction fills
//     Meters
//  4. pixel/meter count mismatch -> ErrInconsistentLength
//
// After a successful Resolve the set is frozen; calling Resolve again is a
// no-op.
func (s *Set) Resolve() error {
	if s.resolved {
		return nil
	}
	n := len(s.Pixels)
	if n < minPoints {
		return fmt.Errorf("%w: got %d", ErrInsufficientPoints, n)
	}
	if len(s.Meters) == 0 {
		if s.Distances == nil {
			return ErrMissingCoordinateSource
		}
		want := n * (n - 1) / 2
		if got := s.Distances.Len(); got != want {
			return fmt.Errorf("%w: have %d of %d pairs", ErrIncompleteDistances, got, want)
		}
		d, err := s.Distances.Matrix(n)
		if err != nil {
			return err
		}
		meters, err := Reconstruct(d, 2)
		if err != nil {
			return err
		}
		s.Meters = meters
	}
	if len(s.Pixels) != len(s.Meters) {
		return fmt.Errorf("%w: %d pixels, %d meters", ErrInconsistentLength, len(s.Pixels), len(s.Meters))
	}
	s.resolved = true
	return nil
}

// PixelCoordinates returns a copy of the pixel coordinate list.
func (s *Set) PixelCoordinates() [][2]int {
	out := make([][2]int, len(s.Pixels))
	copy(out, s.Pixels)
	return out
}

// MeterCoordinates returns a copy of the resolved real-world coordinates.
func (s *Set) MeterCoordinates() [][2]float64 {
	out := make([][2]float64, len(s.Meters))
	copy(out, s.Meters)
	return out
}
