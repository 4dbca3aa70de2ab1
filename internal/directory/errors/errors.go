package errors

import "errors"

var (
	ErrNotFound = errors.New("entity not found")

	ErrDuplicateID = errors.New("id already exists")
)
