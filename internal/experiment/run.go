package experiment

import (
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/sharp-ml/sharp/internal/autodiff"
	"github.com/sharp-ml/sharp/internal/backend/cpu"
	"github.com/sharp-ml/sharp/internal/data"
	"github.com/sharp-ml/sharp/internal/hessian"
	"github.com/sharp-ml/sharp/internal/nn"
	"github.com/sharp-ml/sharp/internal/optim"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// backendT is the concrete backend every experiment runs on: the autodiff
// decorator over the CPU backend.
type backendT = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// StepRecord captures one training step's measurements.
type StepRecord struct {
	Step           int
	Loss           float64
	Accuracy       float64 // NaN for regression targets
	Eigenvalues    []float64
	PathLength     float64
	SpectrumSolved bool
}

// Report is the result of a full experiment run.
type Report struct {
	RunID              string
	Name               string
	Steps              []StepRecord
	FinalEigenvalues   []float64
	TopContributors    []hessian.Contributor
	LayerContributions map[string]float64
	// LayerDensity is the per-layer contribution divided by the layer's
	// parameter count, for comparing layers of different sizes.
	LayerDensity map[string]float64
	PathLengths  []float64
}

// Run trains a model per cfg while measuring the loss Hessian's top
// eigenpairs at each analysis step, logging progress to out.
//
// The stability threshold 2/lr is logged alongside the top eigenvalue; the
// edge-of-stability regime is the top eigenvalue hovering near it.
func Run(cfg Config, dataset data.Dataset, out io.Writer) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if dataset.Len() == 0 {
		return nil, fmt.Errorf("%w: dataset is empty", nn.ErrConfiguration)
	}

	runID := uuid.NewString()
	logger := log.New(out, fmt.Sprintf("[%s] ", runID[:8]), log.LstdFlags)

	rng := rand.New(rand.NewSource(cfg.Seed))
	backend := autodiff.New(cpu.New())

	model, err := nn.NewFCNetwork[backendT](nn.FCConfig{
		InputSize:   cfg.Network.InputSize,
		OutputSize:  cfg.Network.OutputSize,
		HiddenSizes: cfg.Network.HiddenSizes,
		Activation:  cfg.Network.Activation,
		InitMethod:  cfg.Network.Init,
	}, rng, backend)
	if err != nil {
		return nil, err
	}

	index, err := hessian.BuildIndex[backendT](model)
	if err != nil {
		return nil, err
	}

	lossFn, err := nn.NewLoss[backendT](cfg.Loss)
	if err != nil {
		return nil, err
	}

	optimizer, err := optim.New(cfg.Optimizer.Kind, model.Parameters(), optim.Config{
		LearningRate: cfg.Optimizer.LearningRate,
		Momentum:     cfg.Optimizer.Momentum,
		Dampening:    cfg.Optimizer.Dampening,
		WeightDecay:  cfg.Optimizer.WeightDecay,
		Nesterov:     cfg.Optimizer.Nesterov,
		Beta1:        cfg.Optimizer.Beta1,
		Beta2:        cfg.Optimizer.Beta2,
		Epsilon:      cfg.Optimizer.Epsilon,
		DGF:          cfg.Optimizer.DGF,
	})
	if err != nil {
		return nil, err
	}

	hvpOp, err := hessian.NewHVPOperator(model, lossFn, dataset, backend)
	if err != nil {
		return nil, err
	}
	hvpOpts := hessian.Options{ChunkSize: cfg.Analysis.ChunkSize}
	solver := &hessian.SpectrumSolver{Seed: cfg.Seed}

	tracker := hessian.NewTrajectoryTracker()
	if err := tracker.Append(hessian.FlattenParameters[backendT](model)); err != nil {
		return nil, err
	}

	threshold := math.Inf(1)
	if lr := optimizer.LearningRate(); lr > 0 {
		threshold = 2 / lr
	}
	logger.Printf("experiment %q: %d parameters, %d examples, optimizer=%s lr=%g (2/lr=%g)",
		cfg.Name, index.NumParameters(), dataset.Len(), cfg.Optimizer.Kind,
		optimizer.LearningRate(), threshold)

	report := &Report{RunID: runID, Name: cfg.Name}
	var lastEigenvectors [][]float64

	for step := 1; step <= cfg.Iterations; step++ {
		lossVal, accuracy, err := trainStep(model, lossFn, optimizer, dataset, backend, cfg.Loss)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", step, err)
		}

		if err := tracker.Append(hessian.FlattenParameters[backendT](model)); err != nil {
			return nil, err
		}
		lengths := tracker.Lengths()

		rec := StepRecord{
			Step:       step,
			Loss:       lossVal,
			Accuracy:   accuracy,
			PathLength: lengths[len(lengths)-1],
		}

		if step%cfg.Analysis.Every == 0 || step == cfg.Iterations {
			values, vectors, err := solver.Solve(func(v []float64) ([]float64, error) {
				return hvpOp.Compute(v, hvpOpts)
			}, index.NumParameters(), cfg.Analysis.EigenvalueCount)
			if err != nil {
				return nil, fmt.Errorf("step %d spectrum: %w", step, err)
			}
			rec.Eigenvalues = values
			rec.SpectrumSolved = true
			lastEigenvectors = vectors

			logger.Printf("step %d: loss=%.6f acc=%.4f top_eig=%.6f (2/lr=%.4f) path=%.6f",
				step, lossVal, accuracy, values[0], threshold, rec.PathLength)
		} else {
			logger.Printf("step %d: loss=%.6f acc=%.4f path=%.6f",
				step, lossVal, accuracy, rec.PathLength)
		}

		report.Steps = append(report.Steps, rec)
	}

	report.PathLengths = tracker.Lengths()
	if len(report.Steps) > 0 {
		report.FinalEigenvalues = report.Steps[len(report.Steps)-1].Eigenvalues
	}

	if len(lastEigenvectors) > 0 {
		top := lastEigenvectors[0]
		contributors, err := hessian.TopContributors(top, index, cfg.Analysis.TopContributors)
		if err != nil {
			return nil, err
		}
		layers, err := hessian.LayerContributions(top, index)
		if err != nil {
			return nil, err
		}
		report.TopContributors = contributors
		report.LayerContributions = layers

		sizes := index.LayerSizes()
		report.LayerDensity = make(map[string]float64, len(layers))
		for layer, total := range layers {
			report.LayerDensity[layer] = total / float64(sizes[layer])
		}

		for _, c := range contributors {
			logger.Printf("contributor %s%v (%s, %s): %.6f", c.ParamName, c.Coordinate, c.Layer, c.Kind, c.Signed)
		}
		for _, layer := range index.Layers() {
			logger.Printf("layer %s: mass=%.6f density=%.6f", layer, layers[layer], report.LayerDensity[layer])
		}
	}

	return report, nil
}

// trainStep runs one full-batch gradient step and returns the loss value and
// training accuracy. Accuracy is NaN for single-column regression targets.
//
// Classification-vs-regression handling is deliberately a policy of this
// layer; the curvature engine below never inspects targets.
func trainStep(
	model nn.Module[backendT],
	lossFn nn.Loss[backendT],
	optimizer optim.Optimizer,
	dataset data.Dataset,
	backend backendT,
	lossName string,
) (float64, float64, error) {
	n := dataset.Len()
	inputsRaw, targetsRaw, err := dataset.Batch(0, n)
	if err != nil {
		return 0, 0, err
	}

	tape := backend.GetTape()
	tape.Clear()
	tape.StartRecording()
	defer func() {
		tape.StopRecording()
		tape.Clear()
	}()

	inputs := tensor.New(inputsRaw, backend)
	targets := tensor.New(targetsRaw, backend)

	predictions := model.Forward(inputs)
	loss := lossFn.Forward(predictions, targets)
	lossVal := loss.Raw().Data()[0]

	grads := autodiff.Backward(loss, backend)
	optimizer.Step(grads)
	optimizer.ZeroGrad()

	return lossVal, accuracy(predictions.Raw(), targetsRaw, backend, lossName), nil
}

// accuracy computes the fraction of correctly classified examples. For
// cross-entropy, targets are class indices [n, 1]; for MSE with multi-column
// targets they are one-hot rows; single-column MSE targets are regression
// and yield NaN.
func accuracy(predictions, targets *tensor.RawTensor, backend backendT, lossName string) float64 {
	n := targets.Shape()[0]
	if n == 0 {
		return math.NaN()
	}

	predicted := backend.Argmax(predictions, 1)

	var labels []int
	switch {
	case lossName == "ce":
		labels = make([]int, n)
		for i := 0; i < n; i++ {
			labels[i] = int(targets.At(i, 0))
		}
	case len(targets.Shape()) == 2 && targets.Shape()[1] > 1:
		labels = backend.Argmax(targets, 1)
	default:
		return math.NaN()
	}

	correct := 0
	for i := 0; i < n; i++ {
		if predicted[i] == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(n)
}
