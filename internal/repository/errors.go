package repository

import (
	"errors"

	"hotgist/internal/models"

	"gorm.io/gorm"
)

// mapError turns driver errors into the application taxonomy.
func mapError(err error, resource, id string) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewValidationError(resource + " already exists")
	default:
		return models.NewStorageUnavailableError(err)
	}
}
