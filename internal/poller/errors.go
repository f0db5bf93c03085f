package poller

import "codeberg.org/mutker/enviromon/internal/errors"

const (
	ErrInvalidInterval = errors.ErrorCode("poller_invalid_interval")
	ErrInvalidTimeout  = errors.ErrorCode("poller_invalid_timeout")
	ErrMissingStore    = errors.ErrorCode("poller_missing_store")
	ErrMissingSource   = errors.ErrorCode("poller_missing_source")
)
