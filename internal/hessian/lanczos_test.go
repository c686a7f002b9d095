package hessian

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// matrixOperator wraps an explicit symmetric matrix as an hvp-style callable.
func matrixOperator(a [][]float64) func([]float64) ([]float64, error) {
	return func(v []float64) ([]float64, error) {
		out := make([]float64, len(a))
		for i := range a {
			out[i] = floats.Dot(a[i], v)
		}
		return out, nil
	}
}

func TestSolveDiagonal(t *testing.T) {
	diag := []float64{10, -8, 5, 1, 0.5, 0.1}
	a := make([][]float64, len(diag))
	for i := range a {
		a[i] = make([]float64, len(diag))
		a[i][i] = diag[i]
	}

	solver := &SpectrumSolver{Seed: 1}
	values, vectors, err := solver.Solve(matrixOperator(a), len(diag), 3)
	if err != nil {
		t.Fatal(err)
	}

	// Largest magnitude picks {10, -8, 5}; descending order is [10, 5, -8].
	want := []float64{10, 5, -8}
	for i := range want {
		if math.Abs(values[i]-want[i]) > 1e-8 {
			t.Fatalf("values = %v, want %v", values, want)
		}
	}

	// Each eigenvector concentrates on the matching diagonal position.
	wantPos := []int{0, 2, 1}
	for i, vec := range vectors {
		if math.Abs(math.Abs(vec[wantPos[i]])-1) > 1e-6 {
			t.Fatalf("vector %d = %v, want ±e_%d", i, vec, wantPos[i])
		}
	}
}

func TestSolveDenseSymmetric(t *testing.T) {
	a := [][]float64{
		{2, 1},
		{1, 2},
	}

	solver := &SpectrumSolver{Seed: 2}
	values, vectors, err := solver.Solve(matrixOperator(a), 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(values[0]-3) > 1e-10 || math.Abs(values[1]-1) > 1e-10 {
		t.Fatalf("values = %v, want [3 1]", values)
	}

	// Eigenvectors (1,1)/sqrt2 and (1,-1)/sqrt2, sign free.
	s := 1 / math.Sqrt2
	if math.Abs(math.Abs(vectors[0][0])-s) > 1e-8 || vectors[0][0]*vectors[0][1] < 0 {
		t.Fatalf("vector 0 = %v", vectors[0])
	}
	if math.Abs(math.Abs(vectors[1][0])-s) > 1e-8 || vectors[1][0]*vectors[1][1] > 0 {
		t.Fatalf("vector 1 = %v", vectors[1])
	}
}

func TestSolveResiduals(t *testing.T) {
	a := [][]float64{
		{4, 1, 0, 0},
		{1, 3, 1, 0},
		{0, 1, 2, 1},
		{0, 0, 1, 1},
	}
	op := matrixOperator(a)

	solver := &SpectrumSolver{Seed: 3}
	values, vectors, err := solver.Solve(op, 4, 2)
	if err != nil {
		t.Fatal(err)
	}

	if values[0] < values[1] {
		t.Fatalf("values not descending: %v", values)
	}

	for i := range values {
		av, err := op(vectors[i])
		if err != nil {
			t.Fatal(err)
		}
		floats.AddScaled(av, -values[i], vectors[i])
		if res := floats.Norm(av, 2); res > 1e-6 {
			t.Errorf("pair %d residual %g", i, res)
		}
		if math.Abs(floats.Norm(vectors[i], 2)-1) > 1e-10 {
			t.Errorf("vector %d not unit norm", i)
		}
	}
}

func TestSolveInvalidArguments(t *testing.T) {
	op := matrixOperator([][]float64{{1}})

	if _, _, err := (&SpectrumSolver{}).Solve(op, 0, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("dim 0: got %v", err)
	}
	if _, _, err := (&SpectrumSolver{}).Solve(op, 1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("k 0: got %v", err)
	}
	if _, _, err := (&SpectrumSolver{}).Solve(op, 1, 2); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("k > dim: got %v", err)
	}
}

func TestSolveNotConverged(t *testing.T) {
	a := [][]float64{
		{2, 1, 0},
		{1, 3, 1},
		{0, 1, 4},
	}

	// One iteration cannot resolve an eigenpair of this matrix to the
	// default tolerance.
	solver := &SpectrumSolver{Seed: 4, MaxIterations: 1}
	_, _, err := solver.Solve(matrixOperator(a), 3, 1)
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("expected ErrNotConverged, got %v", err)
	}
}

func TestSolvePropagatesOperatorError(t *testing.T) {
	boom := errors.New("boom")
	op := func(v []float64) ([]float64, error) {
		return nil, fmt.Errorf("operator: %w", boom)
	}

	_, _, err := (&SpectrumSolver{}).Solve(op, 3, 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped operator error, got %v", err)
	}
}

func TestSolveDeterministic(t *testing.T) {
	a := [][]float64{
		{5, 2, 0},
		{2, 1, 1},
		{0, 1, 3},
	}

	s1 := &SpectrumSolver{Seed: 9}
	v1, x1, err := s1.Solve(matrixOperator(a), 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	s2 := &SpectrumSolver{Seed: 9}
	v2, x2, err := s2.Solve(matrixOperator(a), 3, 2)
	if err != nil {
		t.Fatal(err)
	}

	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatal("same seed produced different eigenvalues")
		}
		for j := range x1[i] {
			if x1[i][j] != x2[i][j] {
				t.Fatal("same seed produced different eigenvectors")
			}
		}
	}
}
