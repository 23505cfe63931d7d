// Package camera reproduces the host's camera projection model: the
// computer-vision K, RT and P matrices and the OpenGL style frustum.
package camera

import (
	"errors"
	"math"

	"github.com/df07/go-bpwf/pkg/core"
)

// ErrSingular is returned when a matrix has no inverse
var ErrSingular = errors.New("singular matrix")

// Mat3 is a row-major 3x3 matrix
type Mat3 [3][3]float64

// Mat3x4 is a row-major 3x4 matrix
type Mat3x4 [3][4]float64

// Mat4 is a 4x4 matrix indexed [row][col]
type Mat4 [4][4]float64

// Identity3 returns the 3x3 identity
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Identity4 returns the 4x4 identity
func Identity4() Mat4 {
	return Mat4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// Mul returns m·o
func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

// MulVec returns m·v
func (m Mat3) MulVec(v core.Vec3) core.Vec3 {
	return core.Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Mul3x4 returns m·o
func (m Mat3) Mul3x4(o Mat3x4) Mat3x4 {
	var r Mat3x4
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

// Apply maps a world point through m as a homogeneous transform
func (m Mat3x4) Apply(p core.Vec3) core.Vec3 {
	return core.Vec3{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Inverse uses Gauss-Jordan elimination with partial pivoting
func (m Mat4) Inverse() (Mat4, error) {
	a := m
	inv := Identity4()
	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Mat4{}, ErrSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		d := a[col][col]
		for j := 0; j < 4; j++ {
			a[col][j] /= d
			inv[col][j] /= d
		}
		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			f := a[row][col]
			for j := 0; j < 4; j++ {
				a[row][j] -= f * a[col][j]
				inv[row][j] -= f * inv[col][j]
			}
		}
	}
	return inv, nil
}

// Rotation returns the upper-left 3x3 block with the scale of each column
// removed
func (m Mat4) Rotation() Mat3 {
	var r Mat3
	for j := 0; j < 3; j++ {
		col := core.NewVec3(m[0][j], m[1][j], m[2][j]).Normalize()
		r[0][j], r[1][j], r[2][j] = col.X, col.Y, col.Z
	}
	return r
}

// Translation returns the last column
func (m Mat4) Translation() core.Vec3 {
	return core.NewVec3(m[0][3], m[1][3], m[2][3])
}

// Equal reports whether every element differs by less than tol
func (m Mat3x4) Equal(o Mat3x4, tol float64) bool {
	for i := range m {
		for j := range m[i] {
			if math.Abs(m[i][j]-o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

func (m Mat3x4) maxAbs() float64 {
	var v float64
	for i := range m {
		for j := range m[i] {
			v = math.Max(v, math.Abs(m[i][j]))
		}
	}
	return v
}

func (m Mat3x4) scaled(f float64) Mat3x4 {
	for i := range m {
		for j := range m[i] {
			m[i][j] *= f
		}
	}
	return m
}
