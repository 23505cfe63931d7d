package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAxis is returned when a direction argument does not name an axis
var ErrInvalidAxis = errors.New("invalid axis")

// Axis identifies one of the three coordinate axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the lower-case axis letter
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Valid reports whether a is one of the three axes
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// ParseAxis accepts "x", "y", "z" (any case), a decimal string "0".."2",
// or an integer 0..2.
func ParseAxis(v any) (Axis, error) {
	switch t := v.(type) {
	case Axis:
		if t.Valid() {
			return t, nil
		}
	case int:
		if a := Axis(t); a.Valid() {
			return a, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "x":
			return AxisX, nil
		case "y":
			return AxisY, nil
		case "z", "":
			return AxisZ, nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return ParseAxis(n)
		}
	}
	return AxisZ, fmt.Errorf("%w: %v", ErrInvalidAxis, v)
}

// UnmarshalText lets axes appear as plain scalars in scene documents
func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// AxisRotation returns the Euler rotation that orients a host primitive
// (built along z) for the given axis direction. The host applies a quarter
// turn about a second axis: y is reached by turning about x and x by turning
// about y. A z primitive is turned about z, which leaves its axis in place.
func AxisRotation(a Axis) Vec3 {
	var r Vec3
	switch a {
	case AxisY:
		r.X = math.Pi / 2
	case AxisX:
		r.Y = math.Pi / 2
	default:
		r.Z = math.Pi / 2
	}
	return r
}

// ZeroExtentAxis returns the first axis along which l is zero. Flat
// primitives use it to pick their orientation.
func ZeroExtentAxis(l Vec3) (Axis, bool) {
	switch {
	case l.X == 0:
		return AxisX, true
	case l.Y == 0:
		return AxisY, true
	case l.Z == 0:
		return AxisZ, true
	}
	return AxisZ, false
}
