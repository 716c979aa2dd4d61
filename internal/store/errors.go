package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateName        = errors.New("name already in use")
	ErrForbidden            = errors.New("record belongs to another canteen or ngo")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrInsufficientQuantity = errors.New("not enough quantity left")
	ErrSaleClosed           = errors.New("flash sale is not active")
	ErrInvalidPrice         = errors.New("discounted price exceeds original price")
)

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	}
	return err
}
