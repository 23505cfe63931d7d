package camera

import (
	"math"

	"github.com/df07/go-bpwf/pkg/core"
)

// bcamToCV flips the host camera frame (y up, looking down -z) into the
// computer vision frame (y down, looking down +z)
var bcamToCV = Mat3{{1, 0, 0}, {0, -1, 0}, {0, 0, -1}}

// Intrinsics returns the calibration matrix K. Skew is always zero.
func Intrinsics(p Params, r Render) Mat3 {
	scale := r.scale()
	resX := float64(r.ResolutionX) * scale
	resY := float64(r.ResolutionY) * scale
	aspect := r.pixelAspect()

	var su, sv float64
	if p.SensorFit == SensorFitVertical {
		su = resX / p.SensorWidth / aspect
		sv = resY / p.SensorHeight
	} else {
		su = resX / p.SensorWidth
		sv = resY * aspect / p.SensorHeight
	}
	return Mat3{
		{p.Lens * su, 0, resX / 2},
		{0, p.Lens * sv, resY / 2},
		{0, 0, 1},
	}
}

// Extrinsics returns RT, the world to computer vision camera transform, from
// the camera's world matrix
func Extrinsics(world Mat4) Mat3x4 {
	rw2b := world.Rotation().Transpose()
	t := rw2b.MulVec(world.Translation()).Negate()

	r := bcamToCV.Mul(rw2b)
	t = bcamToCV.MulVec(t)
	return Mat3x4{
		{r[0][0], r[0][1], r[0][2], t.X},
		{r[1][0], r[1][1], r[1][2], t.Y},
		{r[2][0], r[2][1], r[2][2], t.Z},
	}
}

// ProjectionP returns P = K·RT
func ProjectionP(p Params, r Render, world Mat4) Mat3x4 {
	return Intrinsics(p, r).Mul3x4(Extrinsics(world))
}

// Project maps a world point to pixel coordinates with the origin at the top
// left. ok is false for points on or behind the camera plane.
func Project(P Mat3x4, point core.Vec3) (u, v float64, ok bool) {
	h := P.Apply(point)
	if h.Z <= 0 {
		return 0, 0, false
	}
	return h.X / h.Z, h.Y / h.Z, true
}

// sensorSize picks the sensor dimension to fit against; AUTO uses the width
func sensorSize(fit SensorFit, x, y float64) float64 {
	if fit == SensorFitVertical {
		return y
	}
	return x
}

// resolveFit turns AUTO into a concrete fit from the image shape
func resolveFit(fit SensorFit, sizeX, sizeY float64) SensorFit {
	if fit != SensorFitAuto {
		return fit
	}
	if sizeX >= sizeY {
		return SensorFitHorizontal
	}
	return SensorFitVertical
}

// ViewPlane returns the near-plane window for an image of winx by winy
// pixels with pixel aspect xasp:yasp
func ViewPlane(p Params, winx, winy, xasp, yasp float64) (xmin, xmax, ymin, ymax float64) {
	ycor := yasp / xasp

	var pixsize float64
	if p.Type == TypeOrthographic {
		pixsize = p.OrthoScale
	} else {
		pixsize = sensorSize(p.SensorFit, p.SensorWidth, p.SensorHeight) * p.clipStart() / p.Lens
	}

	viewfac := winx
	if resolveFit(p.SensorFit, xasp*winx, yasp*winy) == SensorFitVertical {
		viewfac = ycor * winy
	}
	pixsize /= viewfac

	dx := p.ShiftX * viewfac
	dy := p.ShiftY * viewfac
	xmin = (-0.5*winx + dx) * pixsize
	xmax = (0.5*winx + dx) * pixsize
	ymin = (-0.5*ycor*winy + dy) * pixsize
	ymax = (0.5*ycor*winy + dy) * pixsize
	return xmin, xmax, ymin, ymax
}

// Perspective returns the OpenGL frustum matrix in the host's column-major
// layout, so m[2][3] is -1 and m[3][2] carries the depth offset
func Perspective(p Params, r Render) (Mat4, error) {
	left, right, bottom, top := ViewPlane(p, float64(r.ResolutionX), float64(r.ResolutionY), 1, 1)
	near, far := p.clipStart(), p.ClipEnd

	dx, dy, dz := right-left, top-bottom, far-near
	if dx == 0 || dy == 0 || dz == 0 {
		return Mat4{}, ErrSingular
	}

	var m Mat4
	m[0][0] = near * 2 / dx
	m[1][1] = near * 2 / dy
	m[2][0] = (right + left) / dx
	m[2][1] = (top + bottom) / dy
	m[2][2] = -(far + near) / dz
	m[2][3] = -1
	m[3][2] = -2 * near * far / dz
	return m, nil
}

// TrackTo returns the world matrix of a camera at location whose -z axis
// points at target with its y axis kept toward world +z
func TrackTo(location, target core.Vec3) (Mat4, error) {
	forward := target.Subtract(location)
	if forward.Length() == 0 {
		return Mat4{}, ErrSingular
	}
	forward = forward.Normalize()

	up := core.NewVec3(0, 0, 1)
	right := forward.Cross(up)
	if right.Length() < 1e-12 {
		up = core.NewVec3(0, 1, 0)
		right = forward.Cross(up)
	}
	right = right.Normalize()
	camUp := right.Cross(forward)
	back := forward.Negate()

	return Mat4{
		{right.X, camUp.X, back.X, location.X},
		{right.Y, camUp.Y, back.Y, location.Y},
		{right.Z, camUp.Z, back.Z, location.Z},
		{0, 0, 0, 1},
	}, nil
}

// ViewMatrix returns the inverse of the camera's world matrix
func ViewMatrix(world Mat4) (Mat4, error) {
	return world.Inverse()
}

// FieldOfView returns the horizontal angle of view in radians
func FieldOfView(p Params) float64 {
	return 2 * math.Atan(p.SensorWidth/(2*p.Lens))
}
