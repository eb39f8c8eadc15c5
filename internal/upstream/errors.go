package upstream

import (
	"errors"
	"fmt"
)

// Error taxonomy for the external user/group backend.
// Non-success upstream statuses that carry meaning for the caller are mapped
// to sentinels; everything else keeps the raw status via StatusError.
var (
	ErrUnauthorized  = errors.New("upstream: unauthorized")
	ErrForbidden     = errors.New("upstream: forbidden")
	ErrGroupNotFound = errors.New("upstream: group not found")
	ErrUnavailable   = errors.New("upstream: service unreachable")
)

// StatusError carries a non-success upstream status that has no dedicated
// sentinel. Handlers propagate Code where meaningful.
type StatusError struct {
	Code int
	Op   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: %s returned status %d", e.Op, e.Code)
}

func statusToErr(op string, code int) error {
	switch code {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrGroupNotFound
	default:
		return &StatusError{Code: code, Op: op}
	}
}
