package camera

import (
	"math"
	"testing"

	"github.com/df07/go-bpwf/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestIntrinsics(t *testing.T) {
	k := Intrinsics(DefaultParams(), NewRender(1920, 1080))
	assert.InDelta(t, 50*1920/36.0, k[0][0], tol)
	assert.InDelta(t, 50*1080/24.0, k[1][1], tol)
	assert.InDelta(t, 960, k[0][2], tol)
	assert.InDelta(t, 540, k[1][2], tol)
	assert.Equal(t, 0.0, k[0][1])
	assert.Equal(t, 1.0, k[2][2])
}

func TestIntrinsics_PercentageAndAspect(t *testing.T) {
	r := NewRender(1920, 1080)
	r.Percentage = 50
	r.PixelAspectX = 2
	p := DefaultParams()

	k := Intrinsics(p, r)
	assert.InDelta(t, 50*960/36.0, k[0][0], tol)
	assert.InDelta(t, 50*540*2/24.0, k[1][1], tol)
	assert.InDelta(t, 480, k[0][2], tol)

	p.SensorFit = SensorFitVertical
	k = Intrinsics(p, r)
	assert.InDelta(t, 50*960/36.0/2, k[0][0], tol)
	assert.InDelta(t, 50*540/24.0, k[1][1], tol)

	w, h := r.Size()
	assert.Equal(t, 960, w)
	assert.Equal(t, 540, h)
}

func TestExtrinsics_LookingDown(t *testing.T) {
	world, err := TrackTo(core.NewVec3(0, 0, 10), core.Vec3{})
	require.NoError(t, err)
	assert.Equal(t, Identity3(), world.Rotation())

	rt := Extrinsics(world)
	want := Mat3x4{{1, 0, 0, 0}, {0, -1, 0, 0}, {0, 0, -1, 10}}
	assert.True(t, want.Equal(rt, tol), "got %v", rt)
}

func TestProject(t *testing.T) {
	world, err := TrackTo(core.NewVec3(0, 0, 10), core.Vec3{})
	require.NoError(t, err)
	P := ProjectionP(DefaultParams(), NewRender(1920, 1080), world)

	tests := []struct {
		name  string
		point core.Vec3
		u, v  float64
	}{
		{"centre", core.Vec3{}, 960, 540},
		{"right", core.NewVec3(1, 0, 0), 960 + 50*1920/36.0/10, 540},
		{"up", core.NewVec3(0, 1, 0), 960, 540 - 225},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v, ok := Project(P, tt.point)
			require.True(t, ok)
			assert.InDelta(t, tt.u, u, 1e-6)
			assert.InDelta(t, tt.v, v, 1e-6)
		})
	}

	_, _, ok := Project(P, core.NewVec3(0, 0, 20))
	assert.False(t, ok)
}

func TestTrackTo(t *testing.T) {
	loc := core.NewVec3(500, 500, 300)
	world, err := TrackTo(loc, core.Vec3{})
	require.NoError(t, err)

	r := world.Rotation()
	x := core.NewVec3(r[0][0], r[1][0], r[2][0])
	y := core.NewVec3(r[0][1], r[1][1], r[2][1])
	z := core.NewVec3(r[0][2], r[1][2], r[2][2])
	assert.InDelta(t, 0, x.Dot(y), tol)
	assert.InDelta(t, 0, y.Dot(z), tol)
	assert.True(t, x.Cross(y).Equals(z))
	assert.True(t, z.Equals(loc.Normalize()))
	assert.Greater(t, y.Z, 0.0)
	assert.InDelta(t, 0, x.Z, tol)
	assert.True(t, world.Translation().Equals(loc))

	c := Calibration{P: ProjectionP(DefaultParams(), NewRender(640, 480), world), World: world}
	u, v, ok := c.Project(core.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 320, u, 1e-6)
	assert.InDelta(t, 240, v, 1e-6)
	assert.True(t, c.Location().Equals(loc))

	_, err = TrackTo(loc, loc)
	assert.ErrorIs(t, err, ErrSingular)
}

func TestInverse(t *testing.T) {
	world, err := TrackTo(core.NewVec3(3, -4, 5), core.NewVec3(1, 1, 0))
	require.NoError(t, err)
	view, err := ViewMatrix(world)
	require.NoError(t, err)

	id := world.Mul(view)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, id[i][j], 1e-9)
		}
	}

	_, err = Mat4{}.Inverse()
	assert.ErrorIs(t, err, ErrSingular)
}

func TestViewPlane(t *testing.T) {
	p := DefaultParams()
	xmin, xmax, ymin, ymax := ViewPlane(p, 1920, 1080, 1, 1)
	assert.InDelta(t, -0.036, xmin, tol)
	assert.InDelta(t, 0.036, xmax, tol)
	assert.InDelta(t, -0.02025, ymin, tol)
	assert.InDelta(t, 0.02025, ymax, tol)

	// portrait images fit the sensor vertically under AUTO
	xmin, _, ymin, _ = ViewPlane(p, 1080, 1920, 1, 1)
	assert.InDelta(t, -0.036*1080/1920, xmin, tol)
	assert.InDelta(t, -0.036, ymin, tol)

	p.Type = TypeOrthographic
	_, xmax, _, ymax = ViewPlane(p, 1920, 1080, 1, 1)
	assert.InDelta(t, 3, xmax, tol)
	assert.InDelta(t, 3*1080/1920.0, ymax, tol)

	p.ShiftX = 0.5
	xmin, xmax, _, _ = ViewPlane(p, 1920, 1080, 1, 1)
	assert.InDelta(t, 0, xmin, tol)
	assert.InDelta(t, 6, xmax, tol)
}

func TestPerspective(t *testing.T) {
	p := DefaultParams()
	m, err := Perspective(p, NewRender(1920, 1080))
	require.NoError(t, err)
	assert.InDelta(t, 0.2/0.072, m[0][0], 1e-9)
	assert.InDelta(t, 0.2/0.0405, m[1][1], 1e-9)
	assert.InDelta(t, 0, m[2][0], tol)
	assert.InDelta(t, -100.1/99.9, m[2][2], tol)
	assert.Equal(t, -1.0, m[2][3])
	assert.InDelta(t, -20/99.9, m[3][2], tol)

	p.ClipStart = 0
	m, err = Perspective(p, NewRender(640, 480))
	require.NoError(t, err)
	assert.False(t, math.IsNaN(m[0][0]) || math.IsInf(m[0][0], 0))

	p.ClipEnd = MinClipStart
	_, err = Perspective(p, NewRender(640, 480))
	assert.ErrorIs(t, err, ErrSingular)
}

func TestFieldOfView(t *testing.T) {
	assert.InDelta(t, 2*math.Atan(0.36), FieldOfView(DefaultParams()), tol)
}

func TestPredict(t *testing.T) {
	loc, target := core.NewVec3(500, 500, 300), core.NewVec3(0, 0, 0)
	cal, err := Predict(DefaultParams(), NewRender(1920, 1080), loc, target)
	require.NoError(t, err)

	u, v, ok := cal.Project(target)
	require.True(t, ok)
	assert.InDelta(t, 960, u, 1e-6)
	assert.InDelta(t, 540, v, 1e-6)
	assert.InDelta(t, 0, cal.Location().Subtract(loc).Length(), tol)
	assert.Equal(t, Intrinsics(DefaultParams(), NewRender(1920, 1080)), cal.K)

	assert.True(t, cal.Matches(cal, 1e-9))
	moved, err := Predict(DefaultParams(), NewRender(1920, 1080), loc.Add(core.NewVec3(1, 0, 0)), target)
	require.NoError(t, err)
	assert.False(t, cal.Matches(moved, 1e-4))

	_, err = Predict(DefaultParams(), NewRender(1920, 1080), target, target)
	assert.ErrorIs(t, err, ErrSingular)
}
