package gcp

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// DistanceSet is a partial symmetric distance relation over unordered index
// pairs. Pairs are canonicalized to (min,max) on storage so Get(i,j) and
// Get(j,i) always agree regardless of insertion order. Absent pairs are
// absent, never zero.
type DistanceSet struct {
	m map[[2]int]float64
}

// NewDistanceSet returns an empty distance set.
func NewDistanceSet() *DistanceSet {
	return &DistanceSet{m: make(map[[2]int]float64)}
}

func pairKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

// Set records the distance between points i and j. The diagonal (i == j) is
// rejected: self-distances are implicitly zero.
func (ds *DistanceSet) Set(i, j int, d float64) error {
	if i == j {
		return fmt.Errorf("distance pair (%d,%d) is on the diagonal", i, j)
	}
	if i < 0 || j < 0 {
		return fmt.Errorf("distance pair (%d,%d) has a negative index", i, j)
	}
	if ds.m == nil {
		ds.m = make(map[[2]int]float64)
	}
	ds.m[pairKey(i, j)] = d
	return nil
}

// Get returns the distance between points i and j, in either argument order.
func (ds *DistanceSet) Get(i, j int) (float64, bool) {
	if ds == nil || ds.m == nil {
		return 0, false
	}
	d, ok := ds.m[pairKey(i, j)]
	return d, ok
}

// Len reports the number of distinct unordered pairs stored.
func (ds *DistanceSet) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.m)
}

// Matrix assembles the full n×n symmetric distance matrix with a zero
// diagonal. Every off-diagonal pair must be present; a missing pair fails
// with ErrIncompleteDistances naming the first absent pair.
func (ds *DistanceSet) Matrix(n int) (*mat.SymDense, error) {
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v, ok := ds.Get(i, j)
			if !ok {
				return nil, fmt.Errorf("%w: pair (%d,%d) is missing", ErrIncompleteDistances, i, j)
			}
			d.SetSym(i, j, v)
		}
	}
	return d, nil
}

// UnmarshalJSON decodes the on-disk form: an object keyed by "i-j" index
// pairs with float values, e.g. {"0-1": 5.0, "0-2": 7.07}.
func (ds *DistanceSet) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ds.m = make(map[[2]int]float64, len(raw))
	for key, v := range raw {
		i, j, err := parsePairKey(key)
		if err != nil {
			return err
		}
		if err := ds.Set(i, j, v); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON emits pairs in the canonical "min-max" key form.
func (ds *DistanceSet) MarshalJSON() ([]byte, error) {
	raw := make(map[string]float64, ds.Len())
	for k, v := range ds.m {
		raw[fmt.Sprintf("%d-%d", k[0], k[1])] = v
	}
	return json.Marshal(raw)
}

func parsePairKey(key string) (int, int, error) {
	a, b, ok := strings.Cut(key, "-")
	if !ok {
		return 0, 0, fmt.Errorf("distance key %q is not of the form \"i-j\"", key)
	}
	i, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("distance key %q: %w", key, err)
	}
	j, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("distance key %q: %w", key, err)
	}
	return i, j, nil
}
