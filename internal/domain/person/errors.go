package person

import "errors"

var (
	// ErrNameRequired indicates a person without a name.
	ErrNameRequired = errors.New("person name is required")
	// ErrInvalidEmail indicates a malformed email address.
	ErrInvalidEmail = errors.New("person email is invalid")
)
