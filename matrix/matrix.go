// Package matrix provides the 2D affine transformations mapping
// layout coordinates (CSS pixels) to device coordinates.
package matrix

import (
	"errors"
	"math"

	"github.com/laughinglion/PeachPDF-sub000/utils"
)

type fl = utils.Fl

// Transform encodes the affine transformation
//
//	x_new = a * x + c * y + e
//	y_new = b * x + d * y + f
type Transform struct {
	A, B, C, D, E, F fl
}

func New(a, b, c, d, e, f fl) Transform {
	return Transform{A: a, B: b, C: c, D: d, E: e, F: f}
}

// Identity returns a new matrix initialized to the identity.
func Identity() Transform { return New(1, 0, 0, 1, 0, 0) }

// Translation returns the translation by (tx, ty).
func Translation(tx, ty fl) Transform { return Transform{1, 0, 0, 1, tx, ty} }

// Scaling returns the scaling by (sx, sy).
func Scaling(sx, sy fl) Transform { return Transform{sx, 0, 0, sy, 0, 0} }

// Determinant is non zero if and only if the transformation is reversible.
func (T Transform) Determinant() fl { return T.A*T.D - T.B*T.C }

// Mul returns the transform T * U, which applies U then T.
func Mul(T, U Transform) Transform {
	return Transform{
		A: T.A*U.A + T.C*U.B,
		B: T.B*U.A + T.D*U.B,
		C: T.A*U.C + T.C*U.D,
		D: T.B*U.C + T.D*U.D,
		E: T.A*U.E + T.C*U.F + T.E,
		F: T.B*U.E + T.D*U.F + T.F,
	}
}

// Invert modifies the matrix in place, or returns an error
// if the transformation is not bijective.
func (T *Transform) Invert() error {
	det := T.Determinant()
	if det == 0 {
		return errors.New("transformation is not invertible")
	}
	T.A, T.D = T.D/det, T.A/det
	T.B = -T.B / det
	T.C = -T.C / det
	e := -(T.A*T.E + T.C*T.F)
	f := -(T.B*T.E + T.D*T.F)
	T.E, T.F = e, f
	return nil
}

// Apply transforms the point (x, y).
func (T Transform) Apply(x, y fl) (outX, outY fl) {
	outX = T.A*x + T.C*y + T.E
	outY = T.B*x + T.D*y + T.F
	return
}

// ApplyRect returns the bounding box of the transformed rectangle,
// with a non negative width and height.
func (T Transform) ApplyRect(x, y, width, height fl) (outX, outY, outWidth, outHeight fl) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]fl{{x, y}, {x + width, y}, {x, y + height}, {x + width, y + height}} {
		px, py := T.Apply(p[0], p[1])
		minX, maxX = math.Min(minX, px), math.Max(maxX, px)
		minY, maxY = math.Min(minY, py), math.Max(maxY, py)
	}
	return minX, minY, maxX - minX, maxY - minY
}

// ApplyLength scales a length, like a line width or a font size,
// by the mean scaling factor of the transformation.
func (T Transform) ApplyLength(l fl) fl {
	return l * math.Sqrt(math.Abs(T.Determinant()))
}
