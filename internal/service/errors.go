package service

import (
	"database/sql"
	"errors"

	"github.com/si-mbkm/mbkm-api/pkg/database"
	appErrors "github.com/si-mbkm/mbkm-api/pkg/errors"
)

func invalid(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func badRequest(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

func internal(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// lookupError maps sql.ErrNoRows to a 404 carrying notFound and anything else to a 500.
func lookupError(err error, notFound, failure string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return internal(err, failure)
}

// writeError classifies a failed insert or update. Unique violations become 409 with conflict.
func writeError(err error, notFound, conflict, failure string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	case database.IsUniqueViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict)
	}
	return database.Classify(err, failure)
}

// deleteError classifies a failed delete. A foreign key violation means the row is still referenced.
func deleteError(err error, notFound, inUse, failure string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	case database.IsForeignKeyViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, inUse)
	}
	return internal(err, failure)
}
