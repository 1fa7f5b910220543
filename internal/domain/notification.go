package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	KindInfo    = "info"
	KindWarning = "warning"
	KindError   = "error"
	KindSuccess = "success"
)

// MaxDismissAfterMS is the largest millisecond delay a time.Duration holds.
const MaxDismissAfterMS = math.MaxInt64 / int64(time.Millisecond)

var ErrInvalidDismissDelay = errors.New("invalid dismiss delay")

func IsValidKind(value string) bool {
	switch value {
	case KindInfo, KindWarning, KindError, KindSuccess:
		return true
	default:
		return false
	}
}

// NormalizeKind folds case and whitespace and falls back to KindInfo for
// empty or unrecognized values.
func NormalizeKind(value string) string {
	kind := strings.ToLower(strings.TrimSpace(value))
	if !IsValidKind(kind) {
		return KindInfo
	}
	return kind
}

// DismissDelay converts a millisecond delay. Negative values and values past
// MaxDismissAfterMS yield ErrInvalidDismissDelay.
func DismissDelay(ms int64) (time.Duration, error) {
	if ms < 0 || ms > MaxDismissAfterMS {
		return 0, ErrInvalidDismissDelay
	}
	return time.Duration(ms) * time.Millisecond, nil
}
