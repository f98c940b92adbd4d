// Package units provides shared constants and conversion for surface
// velocity units. Ground-truth velocities and all derived measurements are
// stored in m/s; conversion happens only at presentation time.
package units

import "strings"

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
	FPS  = "fps"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH, FPS}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ConvertSpeed converts a surface velocity from meters per second to the
// target units. Unknown units pass the value through unchanged.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * 2.2369362920544
	case KMPH, KPH:
		return speedMPS * 3.6
	case FPS:
		return speedMPS * 3.280839895
	default:
		return speedMPS
	}
}

// MetersPerPixel converts a pixels-per-meter dataset scale to the meter
// width of one pixel. A non-positive scale yields zero.
func MetersPerPixel(ppm int) float64 {
	if ppm <= 0 {
		return 0
	}
	return 1 / float64(ppm)
}
