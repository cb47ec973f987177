package domain

import "errors"

var (
	// ErrInvalidInput marks a request the client must fix. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexUnavailable means the index could not be reached.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrIndexQuery means the index rejected or failed the query.
	ErrIndexQuery = errors.New("index query failed")

	// ErrSeedData means the seed dataset could not be read, parsed or written.
	ErrSeedData = errors.New("seed data failure")

	// ErrInvalidCourse means a course document violates its invariants.
	ErrInvalidCourse = errors.New("invalid course")
)
