package repositories

import (
	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"tienda/internal/models"
)

// wrap maps gorm sentinels onto the model sentinels and adds context.
func wrap(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrapf(models.ErrNotFound, format, args...)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrapf(models.ErrDuplicate, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}
