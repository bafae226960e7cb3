package service

import (
	"errors"

	"github.com/citizen-voice/feedback-service/internal/repository"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

// storeError converts a repository failure into the error taxonomy. resource
// names the entity reported when the lookup missed.
func storeError(err error, resource string, details map[string]any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, details)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", details)
	case errors.Is(err, repository.ErrReferenced):
		return apperrors.NewConflict(resource+" is referenced by other records", details)
	}
	return apperrors.MapError(err)
}

func idDetails(key, id string) map[string]any {
	return map[string]any{key: id}
}
