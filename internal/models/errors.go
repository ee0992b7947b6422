package models

import (
	"errors"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrEmptyCollection = errors.New("collection is empty")
	ErrAuth            = errors.New("access denied")

	ErrExternalService = errors.New("external service unavailable")
	ErrClassification  = errors.New("sentiment classification failed")
)
