package sensor

import "codeberg.org/mutker/enviromon/internal/errors"

const (
	// Availability errors
	ErrUnavailable = errors.ErrorCode("sensor_unavailable")
	ErrReadTimeout = errors.ErrorCode("sensor_read_timeout")

	// Configuration errors
	ErrInvalidProfile = errors.ErrorCode("sensor_invalid_profile")
	ErrUnknownGroup   = errors.ErrorCode("sensor_unknown_group")

	// Hardware errors
	ErrInitFailed = errors.ErrorCode("sensor_init_failed")
	ErrBadFrame   = errors.ErrorCode("sensor_bad_frame")
)

// IsUnavailable reports whether err marks a sensor as absent or broken for
// this cycle
func IsUnavailable(err error) bool {
	return errors.HasCode(err, ErrUnavailable)
}

// IsTimeout reports whether err is a per-read deadline expiry
func IsTimeout(err error) bool {
	return errors.HasCode(err, ErrReadTimeout)
}
