package sqlite

import (
	"strings"

	"github.com/rpggio/launchpad/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// mapWriteError translates constraint failures into repository sentinels.
func mapWriteError(op, entityID string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return repository.ErrConflict
	case isForeignKeyViolation(err):
		return repository.ErrNotFound
	default:
		return repository.NewStoreError(op, entityID, err)
	}
}
