package blackouts

import "errors"

var (
	// ErrMissingOrgID is returned when the org context is absent
	ErrMissingOrgID = errors.New("org id is required")

	// ErrInvalidDateRange is returned for malformed or inverted date spans
	ErrInvalidDateRange = errors.New("date range must be two calendar dates with date_end >= date_start")

	// ErrMixedHours is returned when only one of hours_start/hours_end is set
	ErrMixedHours = errors.New("hours_start and hours_end must be set together or both omitted")

	// ErrInvalidHours is returned for malformed or inverted hour windows
	ErrInvalidHours = errors.New("hours must be HH:MM or HH:MM:SS with hours_end after hours_start")

	// ErrBlackoutNotFound is returned when a blackout period is not found
	ErrBlackoutNotFound = errors.New("blackout period not found")
)
