package project

import "errors"

var (
	// ErrTitleRequired indicates a project without a title.
	ErrTitleRequired = errors.New("project title is required")
	// ErrStartDateRequired indicates a project without a start date.
	ErrStartDateRequired = errors.New("project start date is required")
	// ErrFinishBeforeStart indicates a finish date earlier than the start date.
	ErrFinishBeforeStart = errors.New("project finish date precedes start date")
	// ErrUnknownRole indicates a person association with an unrecognized role.
	ErrUnknownRole = errors.New("unknown project role")
	// ErrFinished indicates an edit attempt against a finished project.
	ErrFinished = errors.New("project is finished and locked for editing")
	// ErrNotFound indicates the project is not in the mirrored list.
	ErrNotFound = errors.New("project not found")
)
