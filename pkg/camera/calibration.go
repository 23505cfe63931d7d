package camera

import "github.com/df07/go-bpwf/pkg/core"

// Calibration is the set of matrices the host dumps next to a render
type Calibration struct {
	P     Mat3x4 `json:"P"`
	K     Mat3   `json:"K"`
	RT    Mat3x4 `json:"RT"`
	World Mat4   `json:"world"`
}

// Project maps a world point through the calibration's P matrix
func (c Calibration) Project(point core.Vec3) (u, v float64, ok bool) {
	return Project(c.P, point)
}

// Location returns the camera position recorded in the world matrix
func (c Calibration) Location() core.Vec3 {
	return c.World.Translation()
}

// Predict returns the matrices of a default perspective camera at location
// tracking target
func Predict(p Params, r Render, location, target core.Vec3) (Calibration, error) {
	world, err := TrackTo(location, target)
	if err != nil {
		return Calibration{}, err
	}
	return Calibration{
		P:     ProjectionP(p, r, world),
		K:     Intrinsics(p, r),
		RT:    Extrinsics(world),
		World: world,
	}, nil
}

// Matches reports whether o projects like c. RT is compared directly and P
// after scaling both by c's largest element, so tol is relative for P.
func (c Calibration) Matches(o Calibration, tol float64) bool {
	if !c.RT.Equal(o.RT, tol) {
		return false
	}
	scale := c.P.maxAbs()
	if scale == 0 {
		return o.P.Equal(c.P, tol)
	}
	return c.P.scaled(1/scale).Equal(o.P.scaled(1/scale), tol)
}
