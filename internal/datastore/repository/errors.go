package repository

import "errors"

// Sentinel errors returned by repository lookups. Callers distinguish
// "not found" from real failures with errors.Is.
var (
	ErrAlertNotFound     = errors.New("alert not found")
	ErrSettingsNotFound  = errors.New("monitoring settings not found")
	ErrThresholdNotFound = errors.New("item threshold not found")
)

// IsNotFound reports whether err is any of the repository's not-found
// sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAlertNotFound) ||
		errors.Is(err, ErrSettingsNotFound) ||
		errors.Is(err, ErrThresholdNotFound)
}
