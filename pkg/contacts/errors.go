package contacts

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("contact with this email or phone already exists")
	ErrNotFound   = errors.New("contact not found")
	ErrStoreFault = errors.New("contact store fault")
)
