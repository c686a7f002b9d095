package tensor

import (
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  int
	}{
		{"scalar", Shape{}, 1},
		{"vector", Shape{5}, 5},
		{"matrix", Shape{2, 3}, 6},
		{"3d", Shape{2, 3, 4}, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.NumElements(); got != tt.want {
				t.Errorf("NumElements() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShapeComputeStrides(t *testing.T) {
	shape := Shape{2, 3, 4}
	strides := shape.ComputeStrides()

	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("strides[%d] = %d, want %d", i, strides[i], want[i])
		}
	}
}

func TestShapeUnravel(t *testing.T) {
	shape := Shape{2, 3}
	tests := []struct {
		offset int
		want   []int
	}{
		{0, []int{0, 0}},
		{2, []int{0, 2}},
		{3, []int{1, 0}},
		{5, []int{1, 2}},
	}

	for _, tt := range tests {
		coord := shape.Unravel(tt.offset)
		for i := range tt.want {
			if coord[i] != tt.want[i] {
				t.Errorf("Unravel(%d) = %v, want %v", tt.offset, coord, tt.want)
				break
			}
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Shape
		want    Shape
		needs   bool
		wantErr bool
	}{
		{"equal", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, false},
		{"row", Shape{2, 3}, Shape{1, 3}, Shape{2, 3}, true, false},
		{"scalarish", Shape{2, 3}, Shape{1}, Shape{2, 3}, true, false},
		{"rank", Shape{4, 2, 3}, Shape{2, 3}, Shape{4, 2, 3}, true, false},
		{"incompatible", Shape{2, 3}, Shape{2, 4}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, needs, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("BroadcastShapes(%v, %v) expected error", tt.a, tt.b)
				}
				return
			}
			if err != nil {
				t.Fatalf("BroadcastShapes(%v, %v): %v", tt.a, tt.b, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("result = %v, want %v", got, tt.want)
			}
			if needs != tt.needs {
				t.Errorf("needsBroadcast = %v, want %v", needs, tt.needs)
			}
		})
	}
}

func TestFromDataLengthMismatch(t *testing.T) {
	_, err := FromData([]float64{1, 2, 3}, Shape{2, 2}, CPU)
	if err == nil {
		t.Fatal("expected error for mismatched data length")
	}
}

func TestRawTensorAtSet(t *testing.T) {
	r, err := NewRaw(Shape{2, 3}, CPU)
	if err != nil {
		t.Fatal(err)
	}

	r.Set(7.5, 1, 2)
	if got := r.At(1, 2); got != 7.5 {
		t.Errorf("At(1,2) = %g, want 7.5", got)
	}
	if got := r.Data()[5]; got != 7.5 {
		t.Errorf("flat data[5] = %g, want 7.5", got)
	}
}

func TestRawTensorCloneIndependent(t *testing.T) {
	r, _ := FromData([]float64{1, 2, 3, 4}, Shape{2, 2}, CPU)
	c := r.Clone()
	c.Set(99, 0, 0)

	if r.At(0, 0) != 1 {
		t.Errorf("clone mutation leaked into original: %g", r.At(0, 0))
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 0, 3}).Validate(); err == nil {
		t.Error("expected error for zero dimension")
	}
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
