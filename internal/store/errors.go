package store

import "codeberg.org/mutker/enviromon/internal/errors"

const (
	ErrUnknownMetric   = errors.ErrorCode("store_unknown_metric")
	ErrEmptySeries     = errors.ErrorCode("store_empty_series")
	ErrInvalidCapacity = errors.ErrorCode("store_invalid_capacity")
	ErrNoMetrics       = errors.ErrorCode("store_no_metrics")
	ErrDuplicateMetric = errors.ErrorCode("store_duplicate_metric")
)

// IsUnknownMetric reports whether err is an unknown-metric error
func IsUnknownMetric(err error) bool {
	return errors.HasCode(err, ErrUnknownMetric)
}

// IsEmptySeries reports whether err is a no-data-yet error
func IsEmptySeries(err error) bool {
	return errors.HasCode(err, ErrEmptySeries)
}
