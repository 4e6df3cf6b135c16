package regen

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrRepositoryRequired is returned when constructing a component without a repository
	ErrRepositoryRequired = errors.New("item repository is required")

	// ErrNeighborSourceRequired is returned when constructing a regenerator without a neighbor source
	ErrNeighborSourceRequired = errors.New("neighbor source is required")
)
