package tensor

import "fmt"

// Device represents the compute device for tensor operations.
//
// The analysis stack requires every tensor participating in one computation
// to live in the same memory space; with a single CPU device this holds by
// construction.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the low-level tensor representation: a float64 buffer with a
// shape and row-major strides.
//
// All curvature analysis runs in float64. The Lanczos recurrence and the
// chunked HVP accumulation lose too much precision in float32 to meet the
// solver tolerance.
type RawTensor struct {
	data   []float64
	shape  Shape
	stride []int
	device Device
}

// NewRaw creates a new zero-filled RawTensor with the given shape.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]float64, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		device: device,
	}, nil
}

// FromData creates a RawTensor backed by a copy of the given values.
func FromData(values []float64, shape Shape, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(values), shape, shape.NumElements())
	}

	data := make([]float64, len(values))
	copy(data, values)
	return &RawTensor{
		data:   data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// Data returns the underlying float64 slice.
// Mutating it mutates the tensor.
func (r *RawTensor) Data() []float64 {
	return r.data
}

// At returns the element at the given coordinates.
func (r *RawTensor) At(coords ...int) float64 {
	return r.data[r.flatIndex(coords)]
}

// Set assigns the element at the given coordinates.
func (r *RawTensor) Set(value float64, coords ...int) {
	r.data[r.flatIndex(coords)] = value
}

func (r *RawTensor) flatIndex(coords []int) int {
	if len(coords) != len(r.shape) {
		panic(fmt.Sprintf("expected %d coordinates for shape %v, got %d", len(r.shape), r.shape, len(coords)))
	}
	idx := 0
	for i, c := range coords {
		if c < 0 || c >= r.shape[i] {
			panic(fmt.Sprintf("coordinate %d out of range for dimension %d (size %d)", c, i, r.shape[i]))
		}
		idx += c * r.stride[i]
	}
	return idx
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]float64, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		data:   data,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		device: r.device,
	}
}
