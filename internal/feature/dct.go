package feature

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// newDCTMatrix returns the first numCepstra rows of the orthonormal
// type-II DCT basis of size numFilters.
func newDCTMatrix(numCepstra, numFilters int) *mat.Dense {
	d := mat.NewDense(numCepstra, numFilters, nil)
	n := float64(numFilters)
	for k := 0; k < numCepstra; k++ {
		scale := math.Sqrt(2 / n)
		if k == 0 {
			scale = math.Sqrt(1 / n)
		}
		for j := 0; j < numFilters; j++ {
			d.Set(k, j, scale*math.Cos(math.Pi*float64(k)*(float64(j)+0.5)/n))
		}
	}
	return d
}
