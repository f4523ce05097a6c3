package sparse

import "testing"

func TestSetAndValue(t *testing.T) {
	M := NewIntMatrix(3, 3, DefaultNullValue)
	M.Set(2, 1, 7).Set(0, 2, 3).Set(1, 1, 5)
	if v := M.Value(2, 1); v != 7 {
		t.Errorf("expected M(2,1) to be 7, is %d", v)
	}
	if v := M.Value(1, 2); v != M.NullValue() {
		t.Errorf("expected M(1,2) to be null, is %d", v)
	}
	M.Set(2, 1, 8)
	if M.ValueCount() != 3 {
		t.Errorf("expected 3 values, have %d", M.ValueCount())
	}
	if v := M.Value(2, 1); v != 8 {
		t.Errorf("expected overwritten M(2,1) to be 8, is %d", v)
	}
}

func TestRowMajorOrder(t *testing.T) {
	M := NewIntMatrix(0, 0, -1)
	M.Set(4, 0, 1).Set(0, 4, 2).Set(2, 2, 3).Set(0, 1, 4)
	if M.M() != 5 || M.N() != 5 {
		t.Errorf("expected matrix to grow to 5x5, is %dx%d", M.M(), M.N())
	}
	var seen []int32
	M.Each(func(i, j int, v int32) {
		seen = append(seen, v)
	})
	expected := []int32{4, 2, 3, 1}
	if len(seen) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(seen))
	}
	for k := range expected {
		if seen[k] != expected[k] {
			t.Errorf("entry #%d: expected %d, got %d", k, expected[k], seen[k])
		}
	}
}

func TestCopyIsIndependent(t *testing.T) {
	M := NewIntMatrix(2, 2, -1)
	M.Set(0, 0, 1)
	C := M.Copy()
	M.Set(0, 0, 2)
	if C.Value(0, 0) != 1 {
		t.Errorf("copy changed with original")
	}
}
