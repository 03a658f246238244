// Package angular maps values onto a configurable angular sweep.
//
// Three angle conventions appear in the radial engine:
//
//   - sweep angles: degrees along the configured range, starting at 0 on the
//     zero reference and growing in the configured direction;
//   - compass bearings: degrees clockwise from north, in [0, 360). Placement
//     angles are reported as bearings;
//   - mathematical angles: degrees counter-clockwise from east, as consumed
//     by [geom.PointOnCircle].
//
// [RotateForDirection] is the single conversion between clockwise and
// counter-clockwise conventions. It is applied once in [AngleForValue]
// (sweep to bearing) and once in [MathAngle] (bearing to mathematical).
package angular

import (
	"fmt"
	"math"
	"strings"

	"github.com/bdekoz/izzi/pkg/errors"
	"github.com/bdekoz/izzi/pkg/geom"
)

// Direction is the rotation direction of increasing values.
type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

// String returns the configuration name of the direction.
func (d Direction) String() string {
	if d == CounterClockwise {
		return "ccw"
	}
	return "cw"
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes any name accepted by [ParseDirection].
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection parses "cw", "clockwise", "ccw" or "counter-clockwise".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cw", "clockwise":
		return Clockwise, nil
	case "ccw", "counter-clockwise", "counterclockwise", "anticlockwise":
		return CounterClockwise, nil
	}
	return Clockwise, errors.New(errors.ErrCodeInvalidRange, "invalid direction: %q (must be cw or ccw)", s)
}

// Bearing is a compass bearing in degrees, clockwise from north.
type Bearing float64

const (
	North Bearing = 0
	East  Bearing = 90
	South Bearing = 180
	West  Bearing = 270
)

var bearingNames = map[string]Bearing{
	"north": North, "n": North,
	"east": East, "e": East,
	"south": South, "s": South,
	"west": West, "w": West,
}

// ParseBearing accepts a compass point name or a number of degrees.
func ParseBearing(s string) (Bearing, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return North, nil
	}
	if b, ok := bearingNames[key]; ok {
		return b, nil
	}
	var d float64
	if _, err := fmt.Sscanf(key, "%g", &d); err != nil || math.IsNaN(d) || math.IsInf(d, 0) {
		return North, errors.New(errors.ErrCodeInvalidRange, "invalid zero reference: %q", s)
	}
	return Bearing(geom.NormalizeDegrees(d)), nil
}

// Range is the angular sweep over which values are distributed.
// It is fixed for one rendering pass.
type Range struct {
	Min       float64   `json:"min"`       // first degree of the sweep
	Max       float64   `json:"max"`       // last degree of the sweep
	Direction Direction `json:"direction"` // rotation of increasing values
	Zero      Bearing   `json:"zero"`      // compass bearing treated as 0°
}

// DefaultRange leaves a small gap at north so the beginning and the end
// of the diagram are visually distinct.
func DefaultRange() Range {
	return Range{Min: 10, Max: 350, Direction: Clockwise, Zero: North}
}

// Span returns the number of degrees covered by the range.
func (r Range) Span() float64 { return r.Max - r.Min }

// Validate reports a malformed range.
func (r Range) Validate() error {
	for _, v := range []float64{r.Min, r.Max, float64(r.Zero)} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidRange, "angular range must be finite: %+v", r)
		}
	}
	if r.Min >= r.Max {
		return errors.New(errors.ErrCodeInvalidRange, "angular range min %g must be less than max %g", r.Min, r.Max)
	}
	if r.Direction != Clockwise && r.Direction != CounterClockwise {
		return errors.New(errors.ErrCodeInvalidRange, "unknown direction %d", r.Direction)
	}
	return nil
}

// RotateForDirection flips the sign of angle for counter-clockwise rotation.
func RotateForDirection(angle float64, d Direction) float64 {
	if d == CounterClockwise {
		return -angle
	}
	return angle
}

// SweepAngle linearly maps value from [0, valueMax] onto [r.Min, r.Max].
// Negative values clamp to 0. Values above valueMax extrapolate past the
// end of the sweep; callers own the guarantee that valueMax is an upper
// bound.
func SweepAngle(value, valueMax float64, r Range) float64 {
	if value < 0 {
		value = 0
	}
	if valueMax <= 0 {
		return r.Min
	}
	return r.Min + (value/valueMax)*r.Span()
}

// AngleForValue returns the compass bearing of value on the range.
func AngleForValue(value, valueMax float64, r Range) float64 {
	return ToBearing(SweepAngle(value, valueMax, r), r)
}

// ToBearing reorients a sweep angle onto the compass.
func ToBearing(sweep float64, r Range) float64 {
	return geom.NormalizeDegrees(float64(r.Zero) + RotateForDirection(sweep, r.Direction))
}

// Offset moves bearing by delta sweep degrees in the range direction.
func Offset(bearing, delta float64, r Range) float64 {
	return geom.NormalizeDegrees(bearing + RotateForDirection(delta, r.Direction))
}

// MathAngle converts a compass bearing into the mathematical angle used by
// geom.PointOnCircle.
func MathAngle(bearing float64) float64 {
	return geom.NormalizeDegrees(90 + RotateForDirection(bearing, CounterClockwise))
}

// PointAt returns the cartesian point at bearing and radius around origin.
func PointAt(origin geom.Point, radius, bearing float64) geom.Point {
	return geom.PointOnCircle(origin, radius, MathAngle(bearing))
}
