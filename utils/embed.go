package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Complex linear algebra is carried out on the real embedding
//
//	A -> [ Re A  -Im A ]
//	     [ Im A   Re A ]
//
// which maps a complex m x n matrix to a real 2m x 2n one. Singular values
// of the embedding are those of A, each repeated twice.

// Embed returns the real 2m x 2n embedding of A.
func Embed(A mat.CMatrix) (R *mat.Dense) {
	var (
		nr, nc = A.Dims()
	)
	R = mat.NewDense(2*nr, 2*nc, nil)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			z := A.At(i, j)
			re, im := real(z), imag(z)
			R.Set(i, j, re)
			R.Set(i, j+nc, -im)
			R.Set(i+nr, j, im)
			R.Set(i+nr, j+nc, re)
		}
	}
	return
}

// EmbedVec stacks [Re b; Im b].
func EmbedVec(b []complex128) (v *mat.VecDense) {
	n := len(b)
	v = mat.NewVecDense(2*n, nil)
	for i, z := range b {
		v.SetVec(i, real(z))
		v.SetVec(i+n, imag(z))
	}
	return
}

// UnembedVec is the inverse of EmbedVec.
func UnembedVec(v mat.Vector) (b []complex128) {
	if v.Len()%2 != 0 {
		panic(fmt.Errorf("embedded vector has odd length %d", v.Len()))
	}
	n := v.Len() / 2
	b = make([]complex128, n)
	for i := range b {
		b[i] = complex(v.AtVec(i), v.AtVec(i+n))
	}
	return
}

// NewCDenseRows builds a complex matrix from row slices, all of equal length.
func NewCDenseRows(rows [][]complex128) (A *mat.CDense) {
	if len(rows) == 0 {
		panic("no rows")
	}
	nc := len(rows[0])
	data := make([]complex128, 0, len(rows)*nc)
	for i, row := range rows {
		if len(row) != nc {
			panic(fmt.Errorf("row %d has length %d, want %d", i, len(row), nc))
		}
		data = append(data, row...)
	}
	return mat.NewCDense(len(rows), nc, data)
}

// CMulVec returns A*x.
func CMulVec(A mat.CMatrix, x []complex128) (y []complex128) {
	nr, nc := A.Dims()
	if len(x) != nc {
		panic(fmt.Errorf("dimension mismatch: %d columns, vector of length %d", nc, len(x)))
	}
	y = make([]complex128, nr)
	for i := range y {
		var sum complex128
		for j, xj := range x {
			sum += A.At(i, j) * xj
		}
		y[i] = sum
	}
	return
}
