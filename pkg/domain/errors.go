package domain

import "errors"

// ErrLayoutNotFound is returned when a layout ID cannot be found in the store.
var ErrLayoutNotFound = errors.New("layout not found")

// ErrChallengeNotFound is returned when a challenge ID cannot be found in the catalog.
var ErrChallengeNotFound = errors.New("challenge not found")

// ErrInvalidLayout is returned when a layout document fails decoding or validation.
var ErrInvalidLayout = errors.New("invalid layout")

// ErrChallengeExists is returned when creating a challenge whose ID is already taken.
var ErrChallengeExists = errors.New("challenge already exists")

// ErrInvalidChallenge is returned when a challenge document fails validation.
var ErrInvalidChallenge = errors.New("invalid challenge")

// ErrReadOnlyCatalog is returned when a write reaches a catalog that cannot be edited.
var ErrReadOnlyCatalog = errors.New("challenge catalog is read-only")
