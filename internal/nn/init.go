package nn

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/sharp-ml/sharp/internal/tensor"
)

// ErrConfiguration reports invalid model setup: unrecognized activation or
// initialization names, malformed architecture parameters. Detected eagerly
// at construction, never deferred to first use.
var ErrConfiguration = errors.New("invalid configuration")

// Initialize fills a weight tensor in place according to the named method.
//
// Recognized methods:
//   - uniform: U(-0.1, 0.1)
//   - xavier:  U(-b, b) with b = sqrt(6 / (fan_in + fan_out))
//   - kaiming: N(0, sqrt(2 / fan_in)), the fan-in variant for ReLU
//   - normal:  N(0, 0.01)
//   - zeros, ones
func Initialize(t *tensor.RawTensor, method string, fanIn, fanOut int, r *rand.Rand) error {
	data := t.Data()

	switch strings.ToLower(method) {
	case "uniform":
		for i := range data {
			data[i] = r.Float64()*0.2 - 0.1
		}
	case "xavier":
		bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
		for i := range data {
			data[i] = (r.Float64()*2.0 - 1.0) * bound
		}
	case "kaiming":
		std := math.Sqrt(2.0 / float64(fanIn))
		for i := range data {
			data[i] = r.NormFloat64() * std
		}
	case "normal":
		for i := range data {
			data[i] = r.NormFloat64() * 0.01
		}
	case "zeros":
		for i := range data {
			data[i] = 0
		}
	case "ones":
		for i := range data {
			data[i] = 1
		}
	default:
		return fmt.Errorf("%w: initialization method %q not recognized", ErrConfiguration, method)
	}

	return nil
}

// InitializationExists reports whether an initialization method is supported.
func InitializationExists(method string) bool {
	switch strings.ToLower(method) {
	case "uniform", "xavier", "kaiming", "normal", "zeros", "ones":
		return true
	}
	return false
}
