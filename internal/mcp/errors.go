package mcp

import (
	"errors"
	"fmt"

	"labtrack/internal/domain/person"
	"labtrack/internal/domain/project"
	"labtrack/internal/domain/result"
	"labtrack/internal/store"
)

// APIError is a coded tool error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps store and domain errors to coded API errors.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var persistence *store.PersistenceError
	var association *store.AssociationError
	var flush *store.FlushError
	var fetch *store.FetchError

	switch {
	case errors.As(err, &flush):
		return &APIError{Code: "FLUSH_FAILED", Message: "could not save one of the results"}
	case errors.As(err, &association):
		return &APIError{Code: "ASSOCIATION_FAILED", Message: "could not update the project's person associations"}
	case errors.As(err, &persistence):
		return &APIError{Code: "PERSISTENCE_FAILED", Message: persistence.Error()}
	case errors.As(err, &fetch):
		return &APIError{Code: "FETCH_FAILED", Message: fetch.Error()}
	case errors.Is(err, project.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "project not found"}
	case errors.Is(err, project.ErrFinished):
		return &APIError{Code: "FINISHED_LOCKED", Message: "finished projects cannot be edited"}
	case errors.Is(err, result.ErrUpdateUnsupported):
		return &APIError{Code: "INVALID_INPUT", Message: result.ErrUpdateUnsupported.Error()}
	case errors.Is(err, project.ErrTitleRequired),
		errors.Is(err, project.ErrStartDateRequired),
		errors.Is(err, project.ErrFinishBeforeStart),
		errors.Is(err, project.ErrUnknownRole),
		errors.Is(err, person.ErrNameRequired),
		errors.Is(err, person.ErrInvalidEmail),
		errors.Is(err, result.ErrDescriptionRequired),
		errors.Is(err, result.ErrMemberNotOnProject):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}
