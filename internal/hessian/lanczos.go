package hessian

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// defaultTolerance is the residual tolerance for accepting a Ritz pair.
const defaultTolerance = 1e-8

// breakdownEpsilon detects an invariant Krylov subspace: once the recurrence
// norm drops below it, the computed Ritz pairs are exact for that subspace.
const breakdownEpsilon = 1e-14

// SpectrumSolver extracts the top-k eigenpairs of a symmetric linear
// operator given only by its matrix-vector product.
//
// It runs the Lanczos iteration with full reorthogonalization, solving the
// small tridiagonal eigenproblem after each step and stopping once the k
// largest-magnitude Ritz pairs meet the residual tolerance. The operator
// itself is never materialized; each iteration costs one product.
type SpectrumSolver struct {
	// Tolerance is the residual tolerance for convergence.
	// Zero means defaultTolerance.
	Tolerance float64

	// MaxIterations caps the Krylov subspace size. Zero means the operator
	// dimension (at which point the factorization is exact).
	MaxIterations int

	// Seed fixes the random start vector, making runs reproducible.
	Seed int64
}

// Solve computes the k eigenpairs of largest magnitude of the dim×dim
// symmetric operator represented by hvpFn.
//
// Parameters:
//   - hvpFn: the operator's matrix-vector product
//   - dim: operator dimension
//   - k: number of eigenpairs requested, 1 <= k <= dim
//
// Returns:
//   - eigenvalues sorted descending
//   - eigenvectors, one unit-norm length-dim vector per eigenvalue, in the
//     same order (sign is solver-dependent)
//   - ErrNotConverged if the residuals never meet the tolerance within the
//     iteration budget
func (s *SpectrumSolver) Solve(hvpFn func([]float64) ([]float64, error), dim, k int) ([]float64, [][]float64, error) {
	if dim <= 0 {
		return nil, nil, fmt.Errorf("%w: operator dimension %d", ErrInvalidArgument, dim)
	}
	if k <= 0 || k > dim {
		return nil, nil, fmt.Errorf("%w: requested %d eigenpairs of a %d-dimensional operator",
			ErrInvalidArgument, k, dim)
	}

	tol := s.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}
	maxIter := s.MaxIterations
	if maxIter <= 0 || maxIter > dim {
		maxIter = dim
	}

	// Deterministic normalized start vector.
	r := rand.New(rand.NewSource(s.Seed))
	q := make([]float64, dim)
	for i := range q {
		q[i] = r.NormFloat64()
	}
	floats.Scale(1/floats.Norm(q, 2), q)

	basis := [][]float64{q}
	var alphas, betas []float64

	for m := 1; m <= maxIter; m++ {
		w, err := hvpFn(basis[m-1])
		if err != nil {
			return nil, nil, fmt.Errorf("lanczos iteration %d: %w", m, err)
		}
		if len(w) != dim {
			return nil, nil, fmt.Errorf("%w: operator returned length %d, want %d",
				ErrDimensionMismatch, len(w), dim)
		}

		alpha := floats.Dot(basis[m-1], w)
		alphas = append(alphas, alpha)

		// Full reorthogonalization. The three-term recurrence alone loses
		// orthogonality as soon as a Ritz pair converges, which is exactly
		// the regime this solver runs in.
		for pass := 0; pass < 2; pass++ {
			for _, b := range basis {
				floats.AddScaled(w, -floats.Dot(b, w), b)
			}
		}

		beta := floats.Norm(w, 2)

		values, vectors, residualsOK := s.ritzPairs(alphas, betas, basis, beta, k, tol)
		if values != nil && (residualsOK || beta < breakdownEpsilon) {
			return values, vectors, nil
		}
		if beta < breakdownEpsilon {
			// Invariant subspace smaller than k: cannot produce more pairs.
			return nil, nil, fmt.Errorf("%w: Krylov subspace is invariant at dimension %d, %d eigenpairs requested",
				ErrNotConverged, len(alphas), k)
		}

		betas = append(betas, beta)
		floats.Scale(1/beta, w)
		basis = append(basis, w)
	}

	return nil, nil, fmt.Errorf("%w: residual tolerance %g not met within %d iterations",
		ErrNotConverged, tol, maxIter)
}

// ritzPairs solves the current tridiagonal eigenproblem and assembles the k
// largest-magnitude Ritz pairs, sorted by descending eigenvalue. It returns
// nil values while the subspace is still smaller than k, and reports whether
// every selected pair meets the residual bound beta*|u[m-1]|.
func (s *SpectrumSolver) ritzPairs(alphas, betas []float64, basis [][]float64, beta float64, k int, tol float64) ([]float64, [][]float64, bool) {
	m := len(alphas)
	if m < k {
		return nil, nil, false
	}

	tri := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		tri.SetSym(i, i, alphas[i])
		if i+1 < m {
			tri.SetSym(i, i+1, betas[i])
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(tri, true) {
		return nil, nil, false
	}
	ritz := eig.Values(nil)
	var u mat.Dense
	eig.VectorsTo(&u)

	// Select the k Ritz values of largest magnitude, then order the
	// selection by descending eigenvalue.
	selected := make([]int, m)
	for i := range selected {
		selected[i] = i
	}
	sort.Slice(selected, func(a, b int) bool {
		return math.Abs(ritz[selected[a]]) > math.Abs(ritz[selected[b]])
	})
	selected = selected[:k]
	sort.Slice(selected, func(a, b int) bool {
		return ritz[selected[a]] > ritz[selected[b]]
	})

	residualsOK := true
	dim := len(basis[0])
	values := make([]float64, k)
	vectors := make([][]float64, k)
	for out, j := range selected {
		values[out] = ritz[j]
		if beta*math.Abs(u.At(m-1, j)) > tol*math.Max(1, math.Abs(ritz[j])) {
			residualsOK = false
		}

		// Lift the tridiagonal eigenvector back through the Lanczos basis.
		x := make([]float64, dim)
		for l := 0; l < m; l++ {
			floats.AddScaled(x, u.At(l, j), basis[l])
		}
		if norm := floats.Norm(x, 2); norm > 0 {
			floats.Scale(1/norm, x)
		}
		vectors[out] = x
	}

	return values, vectors, residualsOK
}
