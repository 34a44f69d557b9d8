package domain

import "errors"

// ConfigError represents a configuration error
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError wraps err with the offending config field.
func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

var (
	// ErrInvalidStatus is returned when a column name is not one of Statuses.
	ErrInvalidStatus = errors.New("invalid token status")

	// ErrDuplicateToken is returned when seeding would put one ID in two places.
	ErrDuplicateToken = errors.New("duplicate token id")

	// ErrEmptyTokenID is returned when a seeded record has no identity.
	ErrEmptyTokenID = errors.New("empty token id")

	// ErrTokenNotFound is returned by explicit operations (Move) on an unknown ID.
	// Feed updates for unknown IDs are dropped instead.
	ErrTokenNotFound = errors.New("token not found")

	// ErrInvalidSortKey is returned when a sort key is not one of SortKeys.
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrConfigNotFound is returned when configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")
)
