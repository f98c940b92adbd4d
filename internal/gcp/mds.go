package gcp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// mds implements classical multidimensional scaling: recover n points in a
// target dimensionality from an n×n matrix of pairwise Euclidean distances.
// The recovery is exact up to rotation and reflection; the reflection is
// pinned by negating the first axis so downstream georeferencing sees a
// stable orientation. Callers needing absolute world orientation must anchor
// at least one coordinate separately.

// eigTolerance bounds how negative any eigenvalue of the centered matrix may
// be (relative to the dominant eigenvalue) before the distances are declared
// non-Euclidean. Negative values within tolerance are floating-point noise
// and are clamped to zero before the square root.
const eigTolerance = 1e-8

// Reconstruct recovers dim-dimensional coordinates from the symmetric
// distance matrix d via classical MDS. NaN entries fail with
// ErrIncompleteDistances; any eigenvalue below -tolerance fails with
// ErrNonEuclideanDistances. Output rows are index-aligned with d.
func Reconstruct(d *mat.SymDense, dim int) ([][2]float64, error) {
	n := d.SymmetricDim()
	if dim != 2 {
		return nil, fmt.Errorf("unsupported target dimension %d", dim)
	}
	if n < dim+1 {
		return nil, fmt.Errorf("distance matrix of order %d is too small for a %d-dimensional embedding", n, dim)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if math.IsNaN(d.At(i, j)) {
				return nil, fmt.Errorf("%w: entry (%d,%d) is NaN", ErrIncompleteDistances, i, j)
			}
		}
	}

	// Centering operator H = I - J/n.
	h := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := -1.0 / float64(n)
			if i == j {
				v += 1.0
			}
			h.Set(i, j, v)
		}
	}

	// Elementwise squared distances.
	d2 := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := d.At(i, j)
			d2.Set(i, j, v*v)
		}
	}

	// Double centering: B = -0.5 * H * D² * H.
	var hd, b mat.Dense
	hd.Mul(h, d2)
	b.Mul(&hd, h)
	b.Scale(-0.5, &b)

	// B is symmetric in exact arithmetic; fold out floating-point asymmetry
	// so the symmetric eigensolver applies.
	bs := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			bs.SetSym(i, j, 0.5*(b.At(i, j)+b.At(j, i)))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(bs, true); !ok {
		return nil, fmt.Errorf("eigendecomposition of the centered distance matrix failed")
	}
	vals := eig.Values(nil) // ascending
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// A Euclidean distance matrix yields a positive semidefinite centered
	// matrix. A negative eigenvalue beyond tolerance anywhere in the
	// spectrum means no Euclidean embedding exists (one mistyped distance
	// is enough) and the retained axes would be silently distorted. The
	// centering always produces a zero eigenvalue, so the retained top-dim
	// slots alone can never expose the defect.
	tol := eigTolerance * math.Max(1, math.Abs(vals[n-1]))
	for _, lambda := range vals {
		if lambda < -tol {
			return nil, fmt.Errorf("%w: eigenvalue %g", ErrNonEuclideanDistances, lambda)
		}
	}

	// Retain the top dim eigenpairs (largest eigenvalues first).
	coords := make([][2]float64, n)
	for k := 0; k < dim; k++ {
		idx := n - 1 - k
		lambda := vals[idx]
		if lambda < 0 {
			lambda = 0 // within tolerance of zero
		}
		scale := math.Sqrt(lambda)
		if k == 0 {
			// Fixed reflection convention: negate the first axis.
			scale = -scale
		}
		for i := 0; i < n; i++ {
			coords[i][k] = vecs.At(i, idx) * scale
		}
	}
	return coords, nil
}
