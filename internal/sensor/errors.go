package sensor

import "errors"

// Domain errors for the sensor package.
//
//	if errors.Is(err, sensor.ErrSensorNotFound) {
//	    // 404
//	}
var (
	// ErrSensorNotFound is returned when no sensor has the requested id.
	ErrSensorNotFound = errors.New("sensor: not found")

	// ErrInvalidID is returned when a sensor id is not a UUID.
	ErrInvalidID = errors.New("sensor: invalid id")

	// ErrPatchFailed is returned when a patch document is not a JSON object
	// or a value in it does not fit the sensor field.
	ErrPatchFailed = errors.New("sensor: patch could not be applied")

	// ErrInvalidRange is returned when rangeFrom is not below rangeTo.
	ErrInvalidRange = errors.New("sensor: rangeFrom must be less than rangeTo")
)
