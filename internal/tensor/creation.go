package tensor

import "math/rand"

// Zeros creates a zero-filled tensor with the given shape.
func Zeros[B Backend](shape Shape, backend B) *Tensor[B] {
	raw, err := NewRaw(shape, backend.Device())
	if err != nil {
		panic(err)
	}
	return New(raw, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, backend B) *Tensor[B] {
	return Full(shape, 1.0, backend)
}

// Full creates a tensor filled with the given value.
func Full[B Backend](shape Shape, value float64, backend B) *Tensor[B] {
	raw, err := NewRaw(shape, backend.Device())
	if err != nil {
		panic(err)
	}
	data := raw.Data()
	for i := range data {
		data[i] = value
	}
	return New(raw, backend)
}

// FromSlice creates a tensor from a copy of the given values.
func FromSlice[B Backend](values []float64, shape Shape, backend B) (*Tensor[B], error) {
	raw, err := FromData(values, shape, backend.Device())
	if err != nil {
		return nil, err
	}
	return New(raw, backend), nil
}

// Randn creates a tensor with values drawn from N(0, 1) using r.
func Randn[B Backend](shape Shape, r *rand.Rand, backend B) *Tensor[B] {
	raw, err := NewRaw(shape, backend.Device())
	if err != nil {
		panic(err)
	}
	data := raw.Data()
	for i := range data {
		data[i] = r.NormFloat64()
	}
	return New(raw, backend)
}
