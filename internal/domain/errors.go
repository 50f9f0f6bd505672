package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnknownField         = errors.New("unknown form field")
	ErrRequiredField        = errors.New("required field is empty")
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrDuplicateParameter   = errors.New("parameter already exists")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrUnknownProvider      = errors.New("unknown identity provider")
	ErrInvalidIdentity      = errors.New("invalid identity")
	ErrInvalidFileReference = errors.New("invalid file reference")
	ErrInvalidResult        = errors.New("invalid result")
)
