package core

import "testing"

func TestVector3(t *testing.T) {
	v := Vector3{X: 1, Y: -2, Z: 2}

	if got := v.Length(); got != 3 {
		t.Errorf("Length = %v, want 3", got)
	}
	if got := v.Scale(0.5); got != (Vector3{X: 0.5, Y: -1, Z: 1}) {
		t.Errorf("Scale(0.5) = %+v", got)
	}
	if got := v.Add(Vector3{X: 1, Y: 2, Z: 3}); got != (Vector3{X: 2, Y: 0, Z: 5}) {
		t.Errorf("Add = %+v", got)
	}
	if got := v.Scale(0); got.Length() != 0 {
		t.Errorf("Scale(0) = %+v, want origin", got)
	}
}
