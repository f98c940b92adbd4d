package gcp

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDistanceSetSymmetry(t *testing.T) {
	ds := NewDistanceSet()
	if err := ds.Set(1, 0, 5); err != nil {
		t.Fatalf("Set(1,0) failed: %v", err)
	}
	if err := ds.Set(2, 3, 7.5); err != nil {
		t.Fatalf("Set(2,3) failed: %v", err)
	}

	for _, pair := range [][2]int{{0, 1}, {1, 0}} {
		d, ok := ds.Get(pair[0], pair[1])
		if !ok || d != 5 {
			t.Errorf("Get(%d,%d) = %v, %v; want 5, true", pair[0], pair[1], d, ok)
		}
	}
	if d, ok := ds.Get(3, 2); !ok || d != 7.5 {
		t.Errorf("Get(3,2) = %v, %v; want 7.5, true", d, ok)
	}
	if _, ok := ds.Get(0, 3); ok {
		t.Error("Get(0,3) should be absent")
	}
	if ds.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ds.Len())
	}

	// Re-setting the reversed pair overwrites, not duplicates.
	if err := ds.Set(0, 1, 6); err != nil {
		t.Fatalf("Set(0,1) failed: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("Len() after overwrite = %d, want 2", ds.Len())
	}
}

func TestDistanceSetRejectsDiagonal(t *testing.T) {
	ds := NewDistanceSet()
	if err := ds.Set(2, 2, 1); err == nil {
		t.Error("Set(2,2) should fail")
	}
	if err := ds.Set(-1, 0, 1); err == nil {
		t.Error("Set(-1,0) should fail")
	}
}

func TestDistanceSetJSON(t *testing.T) {
	var ds DistanceSet
	if err := json.Unmarshal([]byte(`{"0-1": 5, "2-0": 7.07, "1 - 2": 5}`), &ds); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ds.Len())
	}
	if d, ok := ds.Get(0, 2); !ok || d != 7.07 {
		t.Errorf("Get(0,2) = %v, %v; want 7.07, true", d, ok)
	}

	// Round-trip through the canonical key form.
	out, err := json.Marshal(&ds)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var back DistanceSet
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-unmarshal failed: %v", err)
	}
	if back.Len() != 3 {
		t.Errorf("round-trip Len() = %d, want 3", back.Len())
	}

	for _, bad := range []string{`{"01": 5}`, `{"a-b": 5}`, `{"1-1": 5}`, `{"0-1": "x"}`} {
		var d DistanceSet
		if err := json.Unmarshal([]byte(bad), &d); err == nil {
			t.Errorf("unmarshal of %s should fail", bad)
		}
	}
}

func TestDistanceSetMatrix(t *testing.T) {
	ds := NewDistanceSet()
	pairs := map[[2]int]float64{
		{0, 1}: 5, {0, 2}: 7.07, {0, 3}: 5,
		{1, 2}: 5, {1, 3}: 7.07, {2, 3}: 5,
	}
	for k, v := range pairs {
		if err := ds.Set(k[0], k[1], v); err != nil {
			t.Fatalf("Set(%v) failed: %v", k, err)
		}
	}

	m, err := ds.Matrix(4)
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if m.At(i, i) != 0 {
			t.Errorf("diagonal (%d,%d) = %v, want 0", i, i, m.At(i, i))
		}
	}
	if m.At(1, 3) != 7.07 || m.At(3, 1) != 7.07 {
		t.Errorf("matrix not symmetric at (1,3): %v vs %v", m.At(1, 3), m.At(3, 1))
	}
}

func TestDistanceSetMatrixIncomplete(t *testing.T) {
	ds := NewDistanceSet()
	// 5 of the 6 pairs needed for n=4.
	for _, p := range [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}} {
		if err := ds.Set(p[0], p[1], 1); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	_, err := ds.Matrix(4)
	if !errors.Is(err, ErrIncompleteDistances) {
		t.Errorf("Matrix error = %v, want ErrIncompleteDistances", err)
	}
}
