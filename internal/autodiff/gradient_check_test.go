package autodiff_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/sharp-ml/sharp/internal/autodiff"
	"github.com/sharp-ml/sharp/internal/backend/cpu"
	"github.com/sharp-ml/sharp/internal/tensor"
)

type backendT = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// scalarFunc evaluates a scalar function of a flat input vector using plain
// (unrecorded) backend calls, for finite-difference reference gradients.
type scalarFunc func(x []float64) float64

// numericalGradient computes central finite differences of f at x.
func numericalGradient(f scalarFunc, x []float64, eps float64) []float64 {
	grad := make([]float64, len(x))
	for i := range x {
		orig := x[i]
		x[i] = orig + eps
		plus := f(x)
		x[i] = orig - eps
		minus := f(x)
		x[i] = orig
		grad[i] = (plus - minus) / (2 * eps)
	}
	return grad
}

// recordScalar runs forward under a fresh recording tape and returns the
// scalar output tensor plus the input leaf.
func recordScalar(t *testing.T, backend backendT, values []float64, shape tensor.Shape,
	forward func(x *tensor.RawTensor) *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor) {
	t.Helper()

	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()

	x, err := tensor.FromData(values, shape, tensor.CPU)
	if err != nil {
		t.Fatalf("FromData: %v", err)
	}
	return x, forward(x)
}

func checkGradient(t *testing.T, shape tensor.Shape, values []float64,
	forward func(backend backendT, x *tensor.RawTensor) *tensor.RawTensor,
	reference scalarFunc) {
	t.Helper()

	backend := autodiff.New(cpu.New())
	x, out := recordScalar(t, backend, values, shape, func(x *tensor.RawTensor) *tensor.RawTensor {
		return forward(backend, x)
	})
	if !out.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("forward must produce a scalar, got shape %v", out.Shape())
	}

	grads := autodiff.Backward(tensor.New(out, backend), backend)
	got, ok := grads[x]
	if !ok {
		t.Fatal("no gradient reached the input")
	}

	want := numericalGradient(reference, append([]float64(nil), values...), 1e-6)
	for i := range want {
		if math.Abs(got.Data()[i]-want[i]) > 1e-4 {
			t.Errorf("grad[%d] = %g, numerical %g", i, got.Data()[i], want[i])
		}
	}
}

func TestGradient_MulSum(t *testing.T) {
	checkGradient(t, tensor.Shape{4}, []float64{0.5, -1.2, 2.0, 0.3},
		func(b backendT, x *tensor.RawTensor) *tensor.RawTensor {
			return b.Sum(b.Mul(x, x))
		},
		func(x []float64) float64 {
			s := 0.0
			for _, v := range x {
				s += v * v
			}
			return s
		})
}

func TestGradient_TanhSum(t *testing.T) {
	checkGradient(t, tensor.Shape{3}, []float64{0.1, -0.7, 1.5},
		func(b backendT, x *tensor.RawTensor) *tensor.RawTensor {
			return b.Sum(b.Tanh(x))
		},
		func(x []float64) float64 {
			s := 0.0
			for _, v := range x {
				s += math.Tanh(v)
			}
			return s
		})
}

func TestGradient_SigmoidExpLog(t *testing.T) {
	checkGradient(t, tensor.Shape{3}, []float64{0.4, 1.1, -0.2},
		func(b backendT, x *tensor.RawTensor) *tensor.RawTensor {
			return b.Sum(b.Log(b.Exp(b.Sigmoid(x))))
		},
		func(x []float64) float64 {
			s := 0.0
			for _, v := range x {
				s += 1.0 / (1.0 + math.Exp(-v))
			}
			return s
		})
}

func TestGradient_MatMulSum(t *testing.T) {
	w := []float64{0.2, -0.5, 0.7, 1.1, -0.3, 0.9}

	checkGradient(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6},
		func(b backendT, x *tensor.RawTensor) *tensor.RawTensor {
			wt, _ := tensor.FromData(w, tensor.Shape{3, 2}, tensor.CPU)
			return b.Sum(b.MatMul(x, wt))
		},
		func(x []float64) float64 {
			s := 0.0
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					for k := 0; k < 3; k++ {
						s += x[i*3+k] * w[k*2+j]
					}
				}
			}
			return s
		})
}

func TestGradient_BroadcastAdd(t *testing.T) {
	// Bias-style broadcast: the gradient must reduce over the expanded rows.
	other := []float64{1, 2, 3, 4, 5, 6}

	checkGradient(t, tensor.Shape{1, 3}, []float64{0.5, -0.5, 1.0},
		func(b backendT, x *tensor.RawTensor) *tensor.RawTensor {
			y, _ := tensor.FromData(other, tensor.Shape{2, 3}, tensor.CPU)
			return b.Sum(b.Mul(b.Add(y, x), b.Add(y, x)))
		},
		func(x []float64) float64 {
			s := 0.0
			for i := 0; i < 2; i++ {
				for j := 0; j < 3; j++ {
					v := other[i*3+j] + x[j]
					s += v * v
				}
			}
			return s
		})
}

func TestGradient_SumDim(t *testing.T) {
	checkGradient(t, tensor.Shape{2, 3}, []float64{1, -2, 3, 0.5, 1.5, -1},
		func(b backendT, x *tensor.RawTensor) *tensor.RawTensor {
			rows := b.SumDim(x, 1, true)
			return b.Sum(b.Mul(rows, rows))
		},
		func(x []float64) float64 {
			s := 0.0
			for i := 0; i < 2; i++ {
				row := x[i*3] + x[i*3+1] + x[i*3+2]
				s += row * row
			}
			return s
		})
}

func TestGradient_Gather(t *testing.T) {
	indices := []int{2, 0}

	checkGradient(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6},
		func(b backendT, x *tensor.RawTensor) *tensor.RawTensor {
			picked := b.Gather(x, indices)
			return b.Sum(b.Mul(picked, picked))
		},
		func(x []float64) float64 {
			a, c := x[0*3+indices[0]], x[1*3+indices[1]]
			return a*a + c*c
		})
}

func TestGradient_ReLU(t *testing.T) {
	// Stay away from the kink at zero, where the subgradient is ambiguous.
	checkGradient(t, tensor.Shape{4}, []float64{0.5, -1.2, 2.0, -0.3},
		func(b backendT, x *tensor.RawTensor) *tensor.RawTensor {
			return b.Sum(b.Mul(b.ReLU(x), b.ReLU(x)))
		},
		func(x []float64) float64 {
			s := 0.0
			for _, v := range x {
				if v > 0 {
					s += v * v
				}
			}
			return s
		})
}

// TestSecondOrder_Cubic checks the two-phase double-backward protocol on
// f(x) = sum(x^3): the Hessian is diag(6x), so the HVP at probe v must be
// 6*x*v element-wise.
func TestSecondOrder_Cubic(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()

	values := []float64{0.5, -1.0, 2.0}
	x, err := tensor.FromData(values, tensor.Shape{3}, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}

	cube := backend.Mul(backend.Mul(x, x), x)
	f := backend.Sum(cube)

	grads := autodiff.BackwardWithGraph(tensor.New(f, backend), backend)
	g, ok := grads[x]
	if !ok {
		t.Fatal("no first-order gradient for x")
	}

	// Sanity: g = 3x^2.
	for i, v := range values {
		if math.Abs(g.Data()[i]-3*v*v) > 1e-10 {
			t.Fatalf("gradient[%d] = %g, want %g", i, g.Data()[i], 3*v*v)
		}
	}

	probe := []float64{1.0, -2.0, 0.5}
	v, _ := tensor.FromData(probe, tensor.Shape{3}, tensor.CPU)
	dot := backend.Sum(backend.Mul(g, v))

	seed, _ := tensor.NewRaw(tensor.Shape{1}, tensor.CPU)
	seed.Data()[0] = 1
	second := tape.Backward(dot, seed, backend, false)

	hv, ok := second[x]
	if !ok {
		t.Fatal("no second-order gradient for x")
	}
	for i := range values {
		want := 6 * values[i] * probe[i]
		if math.Abs(hv.Data()[i]-want) > 1e-10 {
			t.Errorf("hvp[%d] = %g, want %g", i, hv.Data()[i], want)
		}
	}
}

// TestSecondOrder_Tanh compares the double-backward HVP of f(x) = sum(tanh(x))
// against finite differences of the analytic gradient.
func TestSecondOrder_Tanh(t *testing.T) {
	values := []float64{0.3, -0.8, 1.2, 0.0}
	probe := []float64{0.7, 1.0, -0.4, 2.0}

	gradAt := func(x []float64) []float64 {
		g := make([]float64, len(x))
		for i, v := range x {
			th := math.Tanh(v)
			g[i] = 1 - th*th
		}
		return g
	}

	// Finite-difference HVP: (g(x+eps*v) - g(x-eps*v)) / (2*eps).
	const eps = 1e-6
	plus := make([]float64, len(values))
	minus := make([]float64, len(values))
	for i := range values {
		plus[i] = values[i] + eps*probe[i]
		minus[i] = values[i] - eps*probe[i]
	}
	gPlus, gMinus := gradAt(plus), gradAt(minus)
	want := make([]float64, len(values))
	for i := range values {
		want[i] = (gPlus[i] - gMinus[i]) / (2 * eps)
	}

	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromData(values, tensor.Shape{4}, tensor.CPU)
	f := backend.Sum(backend.Tanh(x))

	grads := autodiff.BackwardWithGraph(tensor.New(f, backend), backend)
	g := grads[x]

	v, _ := tensor.FromData(probe, tensor.Shape{4}, tensor.CPU)
	dot := backend.Sum(backend.Mul(g, v))

	seed, _ := tensor.NewRaw(tensor.Shape{1}, tensor.CPU)
	seed.Data()[0] = 1
	second := tape.Backward(dot, seed, backend, false)

	hv := second[x]
	if hv == nil {
		t.Fatal("no second-order gradient for x")
	}
	for i := range want {
		if math.Abs(hv.Data()[i]-want[i]) > 1e-4 {
			t.Errorf("hvp[%d] = %g, finite difference %g", i, hv.Data()[i], want[i])
		}
	}
}

func TestBackwardDoesNotRecordWithoutGraph(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromData([]float64{1, 2}, tensor.Shape{2}, tensor.CPU)
	f := backend.Sum(backend.Mul(x, x))

	before := tape.NumOps()
	autodiff.Backward(tensor.New(f, backend), backend)
	if tape.NumOps() != before {
		t.Errorf("plain backward recorded %d extra operations", tape.NumOps()-before)
	}
	if !tape.IsRecording() {
		t.Error("recording state not restored after backward")
	}
}

func TestBackwardWithGraphRecords(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromData([]float64{1, 2}, tensor.Shape{2}, tensor.CPU)
	f := backend.Sum(backend.Mul(x, x))

	before := tape.NumOps()
	autodiff.BackwardWithGraph(tensor.New(f, backend), backend)
	if tape.NumOps() <= before {
		t.Error("graph-retaining backward recorded no operations")
	}
}

func TestTapeClearPreservesRecording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.StartRecording()
	tape.Clear()

	if !tape.IsRecording() {
		t.Error("Clear must preserve the recording flag")
	}
}

func TestGradientAccumulatesAcrossUses(t *testing.T) {
	// x used twice: f = sum(x*x) + sum(x) => grad = 2x + 1.
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()

	r := rand.New(rand.NewSource(1))
	values := make([]float64, 5)
	for i := range values {
		values[i] = r.NormFloat64()
	}

	x, _ := tensor.FromData(values, tensor.Shape{5}, tensor.CPU)
	f := backend.Add(backend.Sum(backend.Mul(x, x)), backend.Sum(x))

	grads := autodiff.Backward(tensor.New(f, backend), backend)
	g := grads[x]
	for i, v := range values {
		want := 2*v + 1
		if math.Abs(g.Data()[i]-want) > 1e-12 {
			t.Errorf("grad[%d] = %g, want %g", i, g.Data()[i], want)
		}
	}
}
