package feature

import "gonum.org/v1/gonum/mat"

// Matrix is a fixed-size [coefficients x frames] MFCC matrix.
type Matrix struct {
	dense *mat.Dense
}

// FixLength returns an r x maxFrames copy of m: columns past the end of m
// are zero, columns of m past maxFrames are dropped.
func FixLength(m mat.Matrix, maxFrames int) *Matrix {
	r, _ := m.Dims()
	out := mat.NewDense(r, maxFrames, nil)
	out.Copy(m)
	return &Matrix{dense: out}
}

// Dims returns the number of coefficients and frames.
func (m *Matrix) Dims() (coefficients, frames int) {
	return m.dense.Dims()
}

// At returns coefficient i of frame j.
func (m *Matrix) At(i, j int) float64 {
	return m.dense.At(i, j)
}

// Raw exposes the matrix read-only for gonum consumers.
func (m *Matrix) Raw() mat.Matrix {
	return m.dense
}

// Tensor flattens the matrix row-major into float32, which is the memory
// layout of a (1, coefficients, frames, 1) input tensor.
func (m *Matrix) Tensor() []float32 {
	r, c := m.dense.Dims()
	out := make([]float32, 0, r*c)
	for i := 0; i < r; i++ {
		for _, v := range m.dense.RawRowView(i) {
			out = append(out, float32(v))
		}
	}
	return out
}
