package repository

import (
	"errors"

	"gorm.io/gorm"
)

// notFound translates gorm's missing-row error into the caller's domain error.
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
