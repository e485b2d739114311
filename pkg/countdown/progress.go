// Package countdown implements the circular countdown indicator: a pie
// wedge that sweeps from 12 o'clock in step with wall-clock time and wraps
// every interval.
//
// The package has three layers. ComputeProgress maps an instant to an angle,
// BuildWedgePath maps an angle to geometry, and Widget ties both to a frame
// driver so a host can paint the current Shape on every refresh.
package countdown

import (
	"errors"
	"math"
	"math/big"
	"time"
)

// ErrInvalidInterval is returned when the cycle length is zero or negative.
var ErrInvalidInterval = errors.New("countdown: interval must be positive")

// maxAngle is the largest angle ComputeProgress can return.
var maxAngle = math.Nextafter(360, 0)

// Cycle returns how far now is into the current cycle: |(now-base) mod interval|.
// The result lies in [0, interval).
func Cycle(now, base time.Time, interval time.Duration) (time.Duration, error) {
	if interval <= 0 {
		return 0, ErrInvalidInterval
	}
	d := now.Sub(base)
	if d == math.MinInt64 || d == math.MaxInt64 {
		// Sub saturated: now and base are about 292 years or more apart.
		return farCycle(now, base, interval), nil
	}
	cyclic := d % interval
	if cyclic < 0 {
		cyclic = -cyclic
	}
	return cyclic, nil
}

// farCycle computes |now-base| mod interval exactly for instants too far
// apart to fit in a Duration. |x rem n| equals |x| mod n, so the absolute
// value is taken first.
func farCycle(now, base time.Time, interval time.Duration) time.Duration {
	elapsed := new(big.Int).Sub(big.NewInt(now.Unix()), big.NewInt(base.Unix()))
	elapsed.Mul(elapsed, big.NewInt(int64(time.Second)))
	elapsed.Add(elapsed, big.NewInt(int64(now.Nanosecond()-base.Nanosecond())))
	elapsed.Abs(elapsed)
	return time.Duration(elapsed.Mod(elapsed, big.NewInt(int64(interval))).Int64())
}

// Remaining returns the time left until the current cycle wraps.
func Remaining(now, base time.Time, interval time.Duration) (time.Duration, error) {
	cyclic, err := Cycle(now, base, interval)
	if err != nil {
		return 0, err
	}
	return interval - cyclic, nil
}

// ComputeProgress returns the progress angle in degrees, in [0, 360), for
// the instant now given the cycle origin base and the cycle length.
//
// The angle is 360 * |(now-base) mod interval| / interval. The modulo is
// taken in whole nanoseconds so the output is exactly periodic in interval.
// Instants before base mirror the sawtooth: with a 10s interval, base-3s
// maps to 108 degrees.
func ComputeProgress(now, base time.Time, interval time.Duration) (float64, error) {
	cyclic, err := Cycle(now, base, interval)
	if err != nil {
		return 0, err
	}
	angle := 360 * (float64(cyclic) / float64(interval))
	if angle >= 360 {
		angle = maxAngle
	}
	return angle, nil
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
