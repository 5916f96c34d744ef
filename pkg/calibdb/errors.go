package calibdb

import "errors"

var (
	// ErrConfiguration is returned when a required argument is missing.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound is returned for a missing folder, table, descriptor,
	// payload file or matching record.
	ErrNotFound = errors.New("not found")

	// ErrNotADirectory is returned when the index path is not a directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrInvalidRepository is returned when the index folder is not a git
	// working copy.
	ErrInvalidRepository = errors.New("not a git repository")

	// ErrDataFormat is returned for malformed table cells, descriptors and
	// payloads whose size does not match the declared shape.
	ErrDataFormat = errors.New("invalid data format")
)
