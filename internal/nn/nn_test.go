package nn

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharp-ml/sharp/internal/backend/cpu"
	"github.com/sharp-ml/sharp/internal/tensor"
)

type Backend = *cpu.CPUBackend

func TestLinearForward(t *testing.T) {
	backend := cpu.New()
	r := rand.New(rand.NewSource(1))
	layer := NewLinear(3, 2, r, backend)

	// Overwrite the random init with known values.
	copy(layer.Weight().Tensor().Raw().Data(), []float64{
		1, 0, -1, // output 0
		2, 1, 0, // output 1
	})
	copy(layer.Bias().Tensor().Raw().Data(), []float64{0.5, -0.5})

	input, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)

	out := layer.Forward(input)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 2}))

	// y0 = 1*1 + 0*2 + (-1)*3 + 0.5 = -1.5
	// y1 = 2*1 + 1*2 + 0*3 - 0.5 = 3.5
	assert.InDelta(t, -1.5, out.Data()[0], 1e-12)
	assert.InDelta(t, 3.5, out.Data()[1], 1e-12)
}

func TestLinearShapePanics(t *testing.T) {
	backend := cpu.New()
	r := rand.New(rand.NewSource(1))
	layer := NewLinear(3, 2, r, backend)

	input, _ := tensor.FromSlice([]float64{1, 2}, tensor.Shape{1, 2}, backend)
	assert.Panics(t, func() { layer.Forward(input) })
}

func TestSequentialNamedParameters(t *testing.T) {
	backend := cpu.New()
	r := rand.New(rand.NewSource(1))

	model := NewSequential[Backend](
		NewLinear(4, 3, r, backend),
		NewTanh[Backend](),
		NewLinear(3, 2, r, backend),
	)

	named := model.NamedParameters()
	require.Len(t, named, 4)

	wantNames := []string{"0.weight", "0.bias", "2.weight", "2.bias"}
	for i, np := range named {
		assert.Equal(t, wantNames[i], np.Name)
	}

	// The enumeration order must be stable across calls.
	again := model.NamedParameters()
	for i := range named {
		assert.Same(t, named[i].Param, again[i].Param)
	}

	assert.Equal(t, 4*3+3+3*2+2, NumParameters[Backend](model))
}

func TestActivationRegistry(t *testing.T) {
	for _, name := range []string{"relu", "tanh", "sigmoid", "leaky_relu"} {
		act, err := NewActivation[Backend](name)
		require.NoError(t, err, name)
		require.NotNil(t, act)
		assert.Empty(t, act.Parameters())
	}

	_, err := NewActivation[Backend]("gelu")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestActivationForward(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]float64{-2, 0, 2}, tensor.Shape{3}, backend)
	require.NoError(t, err)

	relu := NewReLU[Backend]().Forward(x)
	assert.Equal(t, []float64{0, 0, 2}, relu.Data())

	leaky := NewLeakyReLU[Backend](0.01).Forward(x)
	assert.InDelta(t, -0.02, leaky.Data()[0], 1e-12)

	tanh := NewTanh[Backend]().Forward(x)
	assert.InDelta(t, math.Tanh(-2), tanh.Data()[0], 1e-12)

	sig := NewSigmoid[Backend]().Forward(x)
	assert.InDelta(t, 0.5, sig.Data()[1], 1e-12)
}

func TestFCNetwork(t *testing.T) {
	backend := cpu.New()
	r := rand.New(rand.NewSource(42))

	model, err := NewFCNetwork(FCConfig{
		InputSize:   4,
		OutputSize:  2,
		HiddenSizes: []int{5, 3},
		Activation:  "tanh",
		InitMethod:  "xavier",
	}, r, backend)
	require.NoError(t, err)

	// Linear, Tanh, Linear, Tanh, Linear.
	require.Len(t, model.Modules(), 5)
	assert.Equal(t, (4*5+5)+(5*3+3)+(3*2+2), NumParameters[Backend](model))

	input, err := tensor.FromSlice(make([]float64, 8), tensor.Shape{2, 4}, backend)
	require.NoError(t, err)
	out := model.Forward(input)
	assert.True(t, out.Shape().Equal(tensor.Shape{2, 2}))
}

func TestFCNetworkConfigurationErrors(t *testing.T) {
	backend := cpu.New()
	r := rand.New(rand.NewSource(1))

	_, err := NewFCNetwork(FCConfig{InputSize: 0, OutputSize: 2, InitMethod: "xavier"}, r, backend)
	assert.True(t, errors.Is(err, ErrConfiguration))

	_, err = NewFCNetwork(FCConfig{
		InputSize: 2, OutputSize: 2, InitMethod: "bogus",
	}, r, backend)
	assert.True(t, errors.Is(err, ErrConfiguration))

	_, err = NewFCNetwork(FCConfig{
		InputSize: 2, OutputSize: 2, HiddenSizes: []int{3},
		Activation: "bogus", InitMethod: "xavier",
	}, r, backend)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestFCNetworkReproducible(t *testing.T) {
	backend := cpu.New()
	cfg := FCConfig{InputSize: 3, OutputSize: 2, HiddenSizes: []int{4}, Activation: "relu", InitMethod: "normal"}

	a, err := NewFCNetwork(cfg, rand.New(rand.NewSource(7)), backend)
	require.NoError(t, err)
	b, err := NewFCNetwork(cfg, rand.New(rand.NewSource(7)), backend)
	require.NoError(t, err)

	pa, pb := a.NamedParameters(), b.NamedParameters()
	require.Equal(t, len(pa), len(pb))
	for i := range pa {
		assert.Equal(t, pa[i].Param.Tensor().Data(), pb[i].Param.Tensor().Data(), pa[i].Name)
	}
}

func TestInitializeMethods(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	for _, method := range []string{"uniform", "xavier", "kaiming", "normal", "zeros", "ones"} {
		require.True(t, InitializationExists(method), method)

		raw, err := tensor.NewRaw(tensor.Shape{4, 4}, tensor.CPU)
		require.NoError(t, err)
		require.NoError(t, Initialize(raw, method, 4, 4, r))

		switch method {
		case "zeros":
			for _, v := range raw.Data() {
				assert.Zero(t, v)
			}
		case "ones":
			for _, v := range raw.Data() {
				assert.Equal(t, 1.0, v)
			}
		}
	}

	raw, _ := tensor.NewRaw(tensor.Shape{2}, tensor.CPU)
	err := Initialize(raw, "bogus", 2, 2, r)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.False(t, InitializationExists("bogus"))
}

func TestMSELoss(t *testing.T) {
	backend := cpu.New()
	loss := NewMSELoss[Backend]()

	pred, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	target, _ := tensor.FromSlice([]float64{1, 1, 1, 1}, tensor.Shape{2, 2}, backend)

	out := loss.Forward(pred, target)
	require.True(t, out.Shape().Equal(tensor.Shape{1}))

	// ((0)^2 + 1 + 4 + 9) / 4 = 3.5
	assert.InDelta(t, 3.5, out.Data()[0], 1e-12)
}

func TestMSELossShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()
	loss := NewMSELoss[Backend]()

	pred, _ := tensor.FromSlice([]float64{1, 2}, tensor.Shape{1, 2}, backend)
	target, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{1, 3}, backend)
	assert.Panics(t, func() { loss.Forward(pred, target) })
}

func TestCrossEntropyLoss(t *testing.T) {
	backend := cpu.New()
	loss := NewCrossEntropyLoss[Backend]()

	logits := []float64{2, 1, 0.1, 0.5, 2.5, 0.3}
	pred, _ := tensor.FromSlice(logits, tensor.Shape{2, 3}, backend)
	// Class indices, float-encoded: example 0 -> class 0, example 1 -> class 1.
	target, _ := tensor.FromSlice([]float64{0, 1}, tensor.Shape{2, 1}, backend)

	out := loss.Forward(pred, target)
	require.True(t, out.Shape().Equal(tensor.Shape{1}))

	want := 0.0
	for i, label := range []int{0, 1} {
		row := logits[i*3 : i*3+3]
		m := math.Max(row[0], math.Max(row[1], row[2]))
		lse := 0.0
		for _, z := range row {
			lse += math.Exp(z - m)
		}
		want += math.Log(lse) - (row[label] - m)
	}
	want /= 2

	assert.InDelta(t, want, out.Data()[0], 1e-10)
}

func TestNewLoss(t *testing.T) {
	_, err := NewLoss[Backend]("mse")
	require.NoError(t, err)
	_, err = NewLoss[Backend]("ce")
	require.NoError(t, err)

	_, err = NewLoss[Backend]("hinge")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestParameterZeroGrad(t *testing.T) {
	backend := cpu.New()
	p := NewParameter("weight", tensor.Ones[Backend](tensor.Shape{2, 2}, backend))

	grad := tensor.Ones[Backend](tensor.Shape{2, 2}, backend)
	p.SetGrad(grad)
	require.NotNil(t, p.Grad())

	p.ZeroGrad()
	assert.Nil(t, p.Grad())
	assert.Equal(t, 4, p.NumElements())
}
