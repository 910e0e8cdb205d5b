package result

import "errors"

var (
	// ErrDescriptionRequired indicates a result without a description.
	ErrDescriptionRequired = errors.New("result description is required")
	// ErrMemberNotOnProject indicates a result member outside the owning
	// project's person set.
	ErrMemberNotOnProject = errors.New("result member is not associated with the project")
	// ErrUpdateUnsupported indicates an update of a persisted result; the
	// backend exposes no result update endpoint.
	ErrUpdateUnsupported = errors.New("result update is not supported by the backend")
)
