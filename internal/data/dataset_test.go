package data

import (
	"testing"

	"github.com/sharp-ml/sharp/internal/tensor"
)

func TestInMemoryDatasetBatch(t *testing.T) {
	inputs := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	targets := []float64{0, 1, 0, 1}

	ds, err := NewInMemoryDataset(inputs, targets, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", ds.Len())
	}

	in, tg, err := ds.Batch(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !in.Shape().Equal(tensor.Shape{2, 2}) || !tg.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("shapes = %v, %v", in.Shape(), tg.Shape())
	}
	want := []float64{3, 4, 5, 6}
	for i := range want {
		if in.Data()[i] != want[i] {
			t.Fatalf("inputs = %v, want %v", in.Data(), want)
		}
	}
	if tg.Data()[0] != 1 || tg.Data()[1] != 0 {
		t.Fatalf("targets = %v", tg.Data())
	}
}

func TestBatchDeterministic(t *testing.T) {
	ds, err := NewInMemoryDataset([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	a, _, err := ds.Batch(0, 4)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := ds.Batch(0, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatal("repeated Batch calls returned different values")
		}
	}
}

func TestBatchReturnsCopies(t *testing.T) {
	ds, _ := NewInMemoryDataset([]float64{1, 2}, []float64{0, 1}, 1, 1)

	in, _, _ := ds.Batch(0, 2)
	in.Data()[0] = 99

	again, _, _ := ds.Batch(0, 2)
	if again.Data()[0] != 1 {
		t.Fatal("Batch exposed shared storage")
	}
}

func TestBatchOutOfRange(t *testing.T) {
	ds, _ := NewInMemoryDataset([]float64{1, 2}, []float64{0, 1}, 1, 1)

	if _, _, err := ds.Batch(1, 2); err == nil {
		t.Error("expected error for batch past the end")
	}
	if _, _, err := ds.Batch(-1, 1); err == nil {
		t.Error("expected error for negative start")
	}
	if _, _, err := ds.Batch(0, 0); err == nil {
		t.Error("expected error for empty batch")
	}
}

func TestNewInMemoryDatasetValidation(t *testing.T) {
	if _, err := NewInMemoryDataset([]float64{1, 2, 3}, []float64{0}, 2, 1); err == nil {
		t.Error("expected error for inputs not divisible by features")
	}
	if _, err := NewInMemoryDataset([]float64{1, 2}, []float64{0}, 1, 1); err == nil {
		t.Error("expected error for target count mismatch")
	}
	if _, err := NewInMemoryDataset(nil, nil, 0, 1); err == nil {
		t.Error("expected error for zero features")
	}
}

func TestOneHot(t *testing.T) {
	out, err := OneHot([]int{2, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0, 1, 1, 0, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("OneHot = %v, want %v", out, want)
		}
	}

	if _, err := OneHot([]int{3}, 3); err == nil {
		t.Error("expected error for out-of-range label")
	}
	if _, err := OneHot([]int{0}, 0); err == nil {
		t.Error("expected error for zero classes")
	}
}
